// Package bind decodes request bodies into DTOs and validates them
package bind

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	perr "chromalyzer/internal/platform/errors"
	"chromalyzer/internal/platform/logger"
)

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes        int64 // default 1MB
	DisallowUnknown bool  // default true
	AllowEmptyBody  bool
}

var defaultJSON = JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}

// jsonMore reports trailing input after the first value
var jsonMore = func(dec *json.Decoder) bool { return dec.More() }

// ParseJSON decodes one JSON value of type T from the request body and
// validates it. Every failure comes back as a perr JSON or Validation error.
// A bodiless GET or HEAD yields the zero T
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var dst T
	o := defaultJSON
	if len(opts) > 0 {
		o = opts[0]
	}
	defer closeBody(r)

	br := bufio.NewReader(r.Body)
	if _, err := br.Peek(1); err != nil {
		switch {
		case o.AllowEmptyBody, r.Method == http.MethodGet, r.Method == http.MethodHead:
			return dst, nil
		}
		return dst, perr.JSONErrf("empty body")
	}

	var src io.Reader = br
	if o.MaxBytes > 0 {
		src = io.LimitReader(br, o.MaxBytes)
	}
	dec := json.NewDecoder(src)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&dst); err != nil {
		var zero T
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		var zero T
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Validate(dst); err != nil {
		var zero T
		return zero, err
	}
	return dst, nil
}

func closeBody(r *http.Request) {
	if err := r.Body.Close(); err != nil && !errors.Is(err, http.ErrBodyReadAfterClose) {
		logger.Get().Error().Err(err).Msg("failed to close request body")
	}
}
