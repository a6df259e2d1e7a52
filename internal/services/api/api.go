// Package api assembles the versioned HTTP API from the meta and analysis modules
package api

import (
	"runtime"
	"time"

	"chromalyzer/internal/adapters/tracesource"
	"chromalyzer/internal/platform/config"
	"chromalyzer/internal/platform/logger"
	phttp "chromalyzer/internal/platform/net/http"
	"chromalyzer/internal/platform/store"

	"chromalyzer/internal/modkit"
	"chromalyzer/internal/modkit/httpkit"
	"chromalyzer/internal/modkit/module"
	"chromalyzer/internal/modkit/swaggerkit"

	analysismod "chromalyzer/internal/services/analysis/module"
	metamod "chromalyzer/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount builds the modules and serves them under /api/v1. Swagger and pprof
// sit beside the API at the router root when enabled.
//
// Settings read under CORE_API_:
//
//	MAX_INFLIGHT  concurrent analysis requests (2 x NumCPU)
//	BACKLOG       requests parked once MAX_INFLIGHT is reached (64)
//	BACKLOG_WAIT  how long a parked request waits before a 429 (30s)
//	CORS_ORIGINS  comma separated origins; empty allows any
func Mount(r phttp.Router, opt Options) error {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if s := opt.Store; s != nil {
		deps.PG, deps.Lite, deps.CH = s.PG, s.Lite, s.CH
	}

	cfg := opt.Config.Prefix("CORE_API_")
	throttle := httpkit.Throttle(
		cfg.MayInt("MAX_INFLIGHT", 2*runtime.NumCPU()),
		cfg.MayInt("BACKLOG", 64),
		cfg.MayDuration("BACKLOG_WAIT", 30*time.Second),
	)
	analysis, err := analysismod.New(deps, modkit.WithMiddlewares(throttle))
	if err != nil {
		return err
	}
	detector := module.MustPortsOf[analysismod.DetectorPort](analysis)
	mods := []module.Module{metamod.New(deps, detector.DetectorOptions), analysis}

	swaggerkit.Mount(r, swaggerkit.Docs{Enabled: opt.EnableSwagger, Formats: tracesource.Extensions()})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	stack := httpkit.CommonStack(cfg.MayCSV("CORS_ORIGINS", nil)...)
	httpkit.MountAPIV1(r, stack, func(v1 httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(v1)
		}
	})
	return nil
}
