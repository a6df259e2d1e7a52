package module

import (
	"chromalyzer/internal/core/peaks"
	"chromalyzer/internal/services/analysis/domain"
	"chromalyzer/internal/services/analysis/service"
)

// DetectorPort reports the base detector settings
type DetectorPort interface {
	DetectorOptions() peaks.Options
}

// Ports exposed by the analysis module
type Ports struct {
	Service  domain.ServicePort
	Detector DetectorPort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// detectorPort adapts the service to DetectorPort
type detectorPort struct{ svc *service.Svc }

// DetectorOptions implements DetectorPort
func (d detectorPort) DetectorOptions() peaks.Options { return d.svc.Options() }
