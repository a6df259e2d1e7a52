// Package http serves liveness, readiness and build metadata
package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"chromalyzer/internal/core/peaks"
	"chromalyzer/internal/core/version"
	"chromalyzer/internal/modkit/httpkit"
)

// ReadyTimeout bounds one readiness check across all backends
const ReadyTimeout = 2 * time.Second

// Backend is a storage seam checked by /ready. Seams without a Ping method
// report unknown
type Backend struct {
	Name string
	Seam any
}

// Deps feed the meta handlers
type Deps struct {
	Service  string
	Started  time.Time
	Backends []Backend

	// Detector returns the base detector settings; nil omits them
	Detector func() peaks.Options

	now func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.now == nil {
		d.now = time.Now
	}
	h := &handlers{d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/detector", h.detector)
}

type handlers struct{ Deps }

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"chromalyzer-api"`
	Started string `json:"started" example:"2026-03-02T09:00:00Z"`
	Now     string `json:"now"     example:"2026-03-02T09:05:00Z"`
}

// Check is one backend's readiness
type Check struct {
	Name   string `json:"name"            example:"pg"`
	Status string `json:"status"          example:"ok" enums:"ok,fail,skipped,unknown"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse rolls the checks up into ok, degraded or fail
type ReadyResponse struct {
	Status string  `json:"status" example:"ok" enums:"ok,degraded,fail"`
	Checks []Check `json:"checks"`
	Now    string  `json:"now"    example:"2026-03-02T09:05:00Z"`
}

// ServiceResponse reports uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"chromalyzer-api"`
	Started string `json:"started" example:"2026-03-02T09:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// DetectorResponse is the base detector configuration plus the build
type DetectorResponse struct {
	Options *peaks.Options    `json:"options,omitempty"`
	Build   version.BuildInfo `json:"build"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(*stdhttp.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.Service, Started: stamp(h.Started), Now: stamp(h.now())}, nil
}

// @Summary Readiness with per backend checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *stdhttp.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), ReadyTimeout)
	defer cancel()

	out := ReadyResponse{Status: "ok", Checks: make([]Check, 0, len(h.Backends)), Now: stamp(h.now())}
	for _, b := range h.Backends {
		c := pingBackend(ctx, b)
		switch {
		case c.Status == "fail":
			out.Status = "fail"
		case c.Status == "unknown" && out.Status == "ok":
			out.Status = "degraded"
		}
		out.Checks = append(out.Checks, c)
	}
	if out.Status == "fail" {
		return httpkit.Response{Status: stdhttp.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

func pingBackend(ctx context.Context, b Backend) Check {
	if b.Seam == nil {
		return Check{Name: b.Name, Status: "skipped"}
	}
	p, ok := b.Seam.(interface{ Ping(context.Context) error })
	if !ok {
		return Check{Name: b.Name, Status: "unknown"}
	}
	if err := p.Ping(ctx); err != nil {
		return Check{Name: b.Name, Status: "fail", Error: err.Error()}
	}
	return Check{Name: b.Name, Status: "ok"}
}

// @Summary Build info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(*stdhttp.Request) (any, error) { return version.Info(), nil }

// @Summary Service uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(*stdhttp.Request) (any, error) {
	return ServiceResponse{
		Name:    h.Service,
		Started: stamp(h.Started),
		Uptime:  int64(h.now().Sub(h.Started) / time.Second),
	}, nil
}

// @Summary Base detector settings and build
// @Tags Meta
// @Produce json
// @Success 200 {object} DetectorResponse
// @Router /meta/detector [get]
func (h *handlers) detector(*stdhttp.Request) (any, error) {
	out := DetectorResponse{Build: version.Info()}
	if h.Detector != nil {
		o := h.Detector()
		out.Options = &o
	}
	return out, nil
}
