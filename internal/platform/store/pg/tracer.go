package pg

import (
	"context"
	"strings"
	"time"

	"chromalyzer/internal/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Querier is the statement surface shared by *pgxpool.Pool and pgx.Tx
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QueryEvent describes one finished statement. For Query the clock stops
// when the rows are closed
type QueryEvent struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives statement events
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs statements through root at info, or warn when slow. The level
// is pinned so SQL logging stays on whatever the process level is
func Tracer(root logger.Logger) QueryTracer {
	return zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	evt.Float64("elapsed_ms", float64(ev.Elapsed.Microseconds())/1000).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds whitespace runs so multi line DDL logs on one line
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }

type traced struct {
	q    Querier
	t    QueryTracer
	slow time.Duration
}

func (x traced) report(ctx context.Context, sql string, args []any, start time.Time, err error) {
	d := time.Since(start)
	x.t.OnQuery(ctx, QueryEvent{SQL: sql, Args: args, Elapsed: d, Err: err, Slow: x.slow >= 0 && d >= x.slow})
}

func (x traced) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	ct, err := x.q.Exec(ctx, sql, args...)
	x.report(ctx, sql, args, start, err)
	return ct, err
}

func (x traced) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rs, err := x.q.Query(ctx, sql, args...)
	if err != nil {
		x.report(ctx, sql, args, start, err)
		return nil, err
	}
	return &tracedRows{Rows: rs, done: func(err error) { x.report(ctx, sql, args, start, err) }}, nil
}

func (x traced) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	start := time.Now()
	r := x.q.QueryRow(ctx, sql, args...)
	return tracedRow{r: r, done: func(err error) { x.report(ctx, sql, args, start, err) }}
}

type tracedRow struct {
	r    pgx.Row
	done func(error)
}

func (x tracedRow) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	x.done(err)
	return err
}

type tracedRows struct {
	pgx.Rows
	done   func(error)
	closed bool
}

func (x *tracedRows) Close() {
	x.Rows.Close()
	if !x.closed {
		x.closed = true
		x.done(x.Rows.Err())
	}
}
