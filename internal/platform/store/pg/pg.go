// Package pg opens the postgres pool behind the analysis record store
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config selects the server and pool size
type Config struct {
	URL      string
	MaxConns int32
	// AppName is reported as application_name so the store's sessions are
	// easy to spot in pg_stat_activity
	AppName string
	// Slow marks statements at or above this duration; negative disables it
	Slow time.Duration
}

// PG owns the pool and the optional statement tracer
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	Slow   time.Duration
}

// Option adjusts Open
type Option func(*options)

type options struct {
	tracer QueryTracer
	mutate func(*pgxpool.Config)
}

// WithTracer reports every statement to t
func WithTracer(t QueryTracer) Option { return func(o *options) { o.tracer = t } }

// WithPoolConfig edits the parsed pool config before the pool is built
func WithPoolConfig(fn func(*pgxpool.Config)) Option { return func(o *options) { o.mutate = fn } }

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL and builds the pool. It does not ping
func Open(ctx context.Context, cfg Config, opts ...Option) (*PG, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if o.mutate != nil {
		o.mutate(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: o.tracer, Slow: cfg.Slow}, nil
}

// Traced wraps q so each statement is reported to the tracer. q is returned
// as is when no tracer is set
func (p *PG) Traced(q Querier) Querier {
	if p == nil || p.Tracer == nil {
		return q
	}
	return traced{q: q, t: p.Tracer, slow: p.Slow}
}

// Close releases the pool; nil receivers are fine
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
