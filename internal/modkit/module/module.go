// Package module defines the contract the analysis and meta modules satisfy,
// and the registry bootstrap code uses to find their ports
package module

import (
	phttp "chromalyzer/internal/platform/net/http"
)

// Names the API modules mount and register their ports under
const (
	Analysis = "analysis"
	Meta     = "meta"
)

// Module defines the minimal contract used by modkit
// keep this sibling to avoid import knots when a module also exports its own ports type
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
