package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chromalyzer/internal/platform/config"
	phttp "chromalyzer/internal/platform/net/http"
)

func TestNewServer_Config(t *testing.T) {
	if got := phttp.NewServer(config.New().Prefix("T_SRV_")).Addr(); got != ":4000" {
		t.Fatalf("default addr = %q", got)
	}
	t.Setenv("T_SRV_PORT", ":12345")
	srv := phttp.NewServer(config.New().Prefix("T_SRV_"))
	if srv.Addr() != ":12345" {
		t.Fatalf("addr = %q", srv.Addr())
	}

	r := srv.Router()
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("ping = %d %q", rec.Code, rec.Body.String())
	}
}

func TestServer_RunStopsWithContext(t *testing.T) {
	t.Setenv("T_RUN_PORT", "127.0.0.1:0")
	t.Setenv("T_RUN_SHUTDOWN_GRACE", "1s")
	srv := phttp.NewServer(config.New().Prefix("T_RUN_"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestServer_RunReturnsListenError(t *testing.T) {
	t.Setenv("T_BAD_PORT", "127.0.0.1:abc")
	if err := phttp.NewServer(config.New().Prefix("T_BAD_")).Run(context.Background()); err == nil {
		t.Fatalf("expected listen error")
	}
}
