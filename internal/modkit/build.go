package modkit

import (
	"net/http"

	"chromalyzer/internal/modkit/httpkit"
	str "chromalyzer/internal/platform/strings"
)

// Built is the resolved option set a module keeps
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Register func(httpkit.Router)
}

// Build applies opts in order; later options win
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Register: c.register,
	}
}

// Mount opens a subrouter at Prefix, applies Mw, then registers the module's
// routes followed by any extra ones from WithRegister. Prefix is normalized,
// so "analyses/" mounts at /analyses; a blank prefix panics
func (b Built) Mount(r httpkit.Router, routes func(httpkit.Router)) {
	r.Route(str.MustPrefix(b.Prefix), func(sub httpkit.Router) {
		if len(b.Mw) > 0 {
			sub.Use(b.Mw...)
		}
		if routes != nil {
			routes(sub)
		}
		if b.Register != nil {
			b.Register(sub)
		}
	})
}
