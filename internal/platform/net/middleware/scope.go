package middleware

import (
	"net/http"

	perr "chromalyzer/internal/platform/errors"
	pnet "chromalyzer/internal/platform/net"
)

// RequestScope copies the chi request id into the logger context so every
// line logged through logger.C carries it. Mount after RequestID
func RequestScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := pnet.RequestID(r.Context())
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(pnet.WithRequest(r.Context(), id)))
	})
}

// MaxBody caps request bodies at limit bytes. Larger declared bodies are
// refused up front; streamed bodies fail on read past the limit
func MaxBody(limit int64, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > limit {
				err := perr.Newf(perr.ErrorCodeInvalidArgument, "request body exceeds %d bytes", limit)
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
