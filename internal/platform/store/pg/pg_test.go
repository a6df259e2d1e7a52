package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"chromalyzer/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dsn = "postgres://u:p@db:5432/chromalyzer?sslmode=disable"

func TestOpen(t *testing.T) {
	testkit.Serial(t)

	var seen *pgxpool.Config
	fake := &pgxpool.Pool{} // zero value; never closed
	testkit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return fake, nil
	})

	tr := &recorder{}
	p, err := Open(context.Background(),
		Config{URL: dsn, MaxConns: 7, AppName: "chromalyzer-api", Slow: 250 * time.Millisecond},
		WithTracer(tr),
		WithPoolConfig(func(c *pgxpool.Config) { c.MinConns = 1 }),
	)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.Pool != fake || p.Tracer != tr || p.Slow != 250*time.Millisecond {
		t.Fatalf("PG = %+v", p)
	}
	if seen.MaxConns != 7 || seen.MinConns != 1 {
		t.Fatalf("pool sizing = %d/%d", seen.MinConns, seen.MaxConns)
	}
	if got := seen.ConnConfig.RuntimeParams["application_name"]; got != "chromalyzer-api" {
		t.Fatalf("application_name = %q", got)
	}
}

func TestOpen_Errors(t *testing.T) {
	testkit.Serial(t)

	if _, err := Open(context.Background(), Config{URL: "://bad"}); err == nil {
		t.Fatalf("bad url should fail")
	}

	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})
	if _, err := Open(context.Background(), Config{URL: dsn}); err == nil || err.Error() != "boom" {
		t.Fatalf("pool error = %v", err)
	}
}

func TestTraced_NoTracerIsIdentity(t *testing.T) {
	q := &fakeQuerier{}
	var nilPG *PG
	for _, p := range []*PG{nilPG, {}} {
		if got := p.Traced(q); got != Querier(q) {
			t.Fatalf("Traced without tracer wrapped the querier: %T", got)
		}
	}
}

func TestClose_NilSafe(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}
