package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	perr "chromalyzer/internal/platform/errors"
	"chromalyzer/internal/platform/logger"
	pnet "chromalyzer/internal/platform/net"
)

// RecoverJSON turns a handler panic into the JSON 500 envelope. The panic
// value and stack are logged, never written to the client.
// http.ErrAbortHandler is re-raised so net/http can drop the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			id := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Str("component", "http").
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if id != "" {
				w.Header().Set("X-Request-ID", id)
			}
			status, body := pnet.Error(perr.PanicErrf("panic recovered"), id)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		}()
		next.ServeHTTP(w, r)
	})
}
