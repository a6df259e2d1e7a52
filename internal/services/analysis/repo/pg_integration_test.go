//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	perr "chromalyzer/internal/platform/errors"
	"chromalyzer/internal/platform/store"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres launches a disposable Postgres and returns DSN + stop func
func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "chromalyzer",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}
	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("mapped port: %v", err)
	}
	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/chromalyzer?sslmode=disable", host, mp.Port())
	return dsn, func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
}

func TestPGStore_Integration_SaveGetList(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	s, err := store.Open(ctx, store.Config{
		AppName: "chromalyzer-repo-integration",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2, LogSQL: true},
	}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	st := NewPG().Bind(s.PG)

	if _, err := st.Get(ctx, "run-01.json"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("get before save = %v", err)
	}

	id := "6f1d3c9e-6a52-4b0e-9d7e-5f7a3f1e2b10"
	key, err := st.Save(ctx, id, record("run-01.cdf", 2))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	rec, err := st.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.FileName != "run-01.cdf" || rec.Summary.TotalPeaks != 2 || rec.TraceData[1][1] != 250.5 {
		t.Fatalf("record = %+v", rec)
	}

	if _, err := st.Save(ctx, "6f1d3c9e-6a52-4b0e-9d7e-5f7a3f1e2b11", record("run-01.cdf", 0)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := st.Save(ctx, "not-a-uuid", record("bad.cdf", 0)); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("bad uuid = %v", err)
	}

	list, err := st.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Key != "run-01.json" || list[0].TotalPeaks != 0 {
		t.Fatalf("list = %+v", list)
	}

	n, err := store.Scalar[int64](ctx, s.PG, `select count(*) from analyses`)
	if err != nil || n != 1 {
		t.Fatalf("count = %d, %v", n, err)
	}
}
