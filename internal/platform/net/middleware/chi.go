// Package middleware exposes the request middleware used by the API without
// leaking chi types into modules
package middleware

import (
	"net/http"
	"slices"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the standard net/http decorator shape
type Middleware = func(http.Handler) http.Handler

// RequestID reuses an inbound X-Request-ID or mints one
func RequestID() Middleware { return chimw.RequestID }

// RealIP trusts X-Forwarded-For and X-Real-IP for RemoteAddr
func RealIP() Middleware { return chimw.RealIP }

func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

func NoCache() Middleware { return chimw.NoCache }

// Compress gzips compressible responses at the given flate level
func Compress(level int) Middleware {
	return chimw.NewCompressor(level).Handler
}

func RedirectSlashes() Middleware { return chimw.RedirectSlashes }

func StripSlashes() Middleware { return chimw.StripSlashes }

// ThrottleBacklog admits limit concurrent requests, parks up to backlog more
// for at most wait and refuses the rest with 429
func ThrottleBacklog(limit, backlog int, wait time.Duration) Middleware {
	return chimw.ThrottleBacklog(limit, backlog, wait)
}

// Heartbeat answers GET path with "." before routing
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}
)

// CORSOptions mirrors the subset of go-chi/cors the API configures
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS applies o. Methods and headers default to what the analysis routes accept
func CORS(o CORSOptions) Middleware {
	opt := chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   o.AllowedMethods,
		AllowedHeaders:   o.AllowedHeaders,
		ExposedHeaders:   o.ExposedHeaders,
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	}
	if len(opt.AllowedMethods) == 0 {
		opt.AllowedMethods = slices.Clone(corsMethods)
	}
	if len(opt.AllowedHeaders) == 0 {
		opt.AllowedHeaders = slices.Clone(corsHeaders)
	}
	return chicors.Handler(opt)
}
