package httpkit

import (
	"net/http"

	"chromalyzer/internal/platform/net/http/bind"
)

// PostJSON mounts a pure JSON handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSON(h))
}

// Get registers a body-less handler
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// Upload is a multipart file part read into memory
type Upload = bind.File

// PostMultipart mounts a multipart handler under POST. The part named field is
// handed over as an Upload and the remaining form values decode into T
func PostMultipart[T any](r Router, path, field string, maxBytes int64, h func(*http.Request, Upload, T) (any, error)) {
	r.Post(path, Call(func(req *http.Request) (any, error) {
		f, in, err := bind.ParseMultipart[T](req, field, bind.FormOptions{MaxBytes: maxBytes})
		if err != nil {
			return nil, err
		}
		return h(req, f, in)
	}))
}
