// Package module wires trace analysis into the API using modkit
package module

import (
	"context"
	"fmt"

	"chromalyzer/internal/adapters/rag"
	modkit "chromalyzer/internal/modkit"
	"chromalyzer/internal/modkit/httpkit"
	kitmod "chromalyzer/internal/modkit/module"
	"chromalyzer/internal/modkit/repokit"
	"chromalyzer/internal/platform/logger"
	str "chromalyzer/internal/platform/strings"
	"chromalyzer/internal/services/analysis/domain"
	analysishttp "chromalyzer/internal/services/analysis/http"
	"chromalyzer/internal/services/analysis/repo"
	"chromalyzer/internal/services/analysis/service"
)

// Module implements the modkit.Module interface
type Module struct {
	built modkit.Built
	opts  Options
	svc   *service.Svc
	ports Ports
}

// New constructs the analysis module. Settings come from deps.Cfg
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	o, err := FromConfig(deps.Cfg)
	if err != nil {
		return nil, err
	}
	return NewWithOptions(deps, o, opts...)
}

// NewWithOptions constructs the module from explicit settings
func NewWithOptions(deps modkit.Deps, o Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName(kitmod.Analysis), modkit.WithPrefix("/analyses")}, opts...)...)

	st, err := openStore(deps, o)
	if err != nil {
		return nil, err
	}
	var ledger repo.Ledger
	if deps.CH != nil {
		ledger = repo.NewCHLedger(deps.CH)
	}
	var diag domain.Diagnoser
	if o.RAG.BaseURL != "" {
		diag = ragDiagnoser{c: rag.NewClient(o.RAG)}
	}

	svc, err := service.New(st, ledger, diag, service.Config{
		Detector:    o.Detector,
		SaveRetries: o.SaveRetries,
	})
	if err != nil {
		return nil, err
	}

	logger.Named(kitmod.Analysis).Info().
		Str("store", o.Store).
		Bool("ledger", ledger != nil).
		Bool("diagnosis", diag != nil).
		Interface("detector", o.Detector).
		Msg("analysis module ready")

	m := &Module{built: b, opts: o, svc: svc}
	m.ports = Ports{Service: svc, Detector: detectorPort{svc: svc}}
	return m, nil
}

// openStore picks the record backend; sql backends need their seam in deps
func openStore(deps modkit.Deps, o Options) (repo.Store, error) {
	var (
		q      repokit.TxRunner
		binder repokit.Binder[repo.Store]
	)
	switch o.Store {
	case StoreFile, "":
		return repo.NewFile(o.JSONDir), nil
	case StoreNone:
		return repo.Nop{}, nil
	case StorePG:
		q, binder = deps.PG, repo.NewPG()
	case StoreSQLite:
		q, binder = deps.Lite, repo.NewLite()
	default:
		return nil, fmt.Errorf("analysis: unknown store %q", o.Store)
	}
	if q == nil {
		return nil, fmt.Errorf("analysis: store %q selected but its database is not enabled", o.Store)
	}
	return repokit.MustBind(binder, q), nil
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		analysishttp.Register(rr, m.svc, analysishttp.Config{
			MaxUploadBytes:   m.opts.MaxUploadBytes,
			PersistByDefault: m.opts.Persist,
		})
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }

// ragDiagnoser adapts the rag client to the domain Diagnoser
type ragDiagnoser struct{ c *rag.Client }

func (d ragDiagnoser) Advise(ctx context.Context, report, metadata string) (domain.Advice, error) {
	a, err := d.c.Advise(ctx, report, metadata)
	return domain.Advice{Diagnosis: a.Diagnosis, Troubleshooting: a.Troubleshooting}, err
}
