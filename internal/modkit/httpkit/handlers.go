// Package httpkit is the HTTP toolkit modules build their routes with. It
// re-exports the platform http types so modules never import them directly
package httpkit

import (
	"net/http"

	phttp "chromalyzer/internal/platform/net/http"
	"chromalyzer/internal/platform/net/http/bind"
)

type (
	Envelope = phttp.Envelope
	Response = phttp.Response
	Handler  = phttp.Handler
	Router   = phttp.Router
)

func OK(data any) Response      { return phttp.OK(data) }
func Created(data any) Response { return phttp.Created(data) }
func Error(err error) Response  { return phttp.Error(err) }

// List answers 200 with items and a page block in the envelope
func List(items any, total, page, size int) Response {
	return phttp.List(items, total, page, size)
}

// MaxJSONBytes bounds JSON bodies; a sampled trace easily outgrows the 1MB bind default
const MaxJSONBytes = 32 << 20

// Handle adapts a Response returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Call adapts a handler without a request body. A returned Response is sent
// as is, any other value is wrapped in OK and an error picks the status
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) Response { return result(fn(r)) })
}

// JSON decodes and validates a T from the body, then behaves like Call
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Call(func(r *http.Request) (any, error) {
		in, err := bind.ParseJSON[T](r, bind.JSONOptions{MaxBytes: MaxJSONBytes, DisallowUnknown: true})
		if err != nil {
			return nil, err
		}
		return fn(r, in)
	})
}

func result(out any, err error) Response {
	if err != nil {
		return phttp.Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return phttp.OK(out)
}
