package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "chromalyzer/internal/platform/net/http"
	"chromalyzer/internal/platform/net/middleware"
)

// HeartbeatPath answers load balancer health checks before routing. It matches the
// full request path, so it names the v1 mount
const HeartbeatPath = "/api/v1/health"

// CommonStack returns a baseline per module middleware slice. No origins
// means any origin may call the API
func CommonStack(origins ...string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RequestScope,
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 2 * time.Second}),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat(HeartbeatPath),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(2 * time.Minute), // diagnosis round trips are slow
	}
}

// MaxBody caps request bodies and answers oversized ones with the JSON envelope
func MaxBody(limit int64) func(http.Handler) http.Handler {
	return middleware.MaxBody(limit, phttp.JSON)
}

// Throttle bounds concurrent requests; up to backlog more wait at most wait
// before being refused with 429
func Throttle(limit, backlog int, wait time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.ThrottleBacklog(limit, backlog, wait)
}
