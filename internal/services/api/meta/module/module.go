// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"chromalyzer/internal/core/peaks"
	modkit "chromalyzer/internal/modkit"
	"chromalyzer/internal/modkit/httpkit"
	kitmod "chromalyzer/internal/modkit/module"
	str "chromalyzer/internal/platform/strings"

	metahttp "chromalyzer/internal/services/api/meta/http"
)

// Module serves health, readiness, version and detector settings
type Module struct {
	built modkit.Built
	deps  metahttp.Deps
}

// New constructs a meta module. detector may be nil when no analysis module is mounted
func New(deps modkit.Deps, detector func() peaks.Options, opts ...modkit.Option) modkit.Module {
	return &Module{
		built: modkit.Build(append([]modkit.Option{
			modkit.WithName(kitmod.Meta),
			modkit.WithPrefix("/meta"),
		}, opts...)...),
		deps: metahttp.Deps{
			Service:  "chromalyzer-api",
			Started:  time.Now(),
			Backends: backends(deps),
			Detector: detector,
		},
	}
}

// backends lists the seams /ready pings. Disabled seams stay as untyped nil
// so they report skipped
func backends(d modkit.Deps) []metahttp.Backend {
	out := []metahttp.Backend{{Name: "pg"}, {Name: "sqlite"}, {Name: "ch"}}
	if d.PG != nil {
		out[0].Seam = d.PG
	}
	if d.Lite != nil {
		out[1].Seam = d.Lite
	}
	if d.CH != nil {
		out[2].Seam = d.CH
	}
	return out
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, kitmod.Meta) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
