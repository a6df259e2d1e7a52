package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func header(k string) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.Header().Set(k, "1")
			next.ServeHTTP(w, r)
		})
	}
}

func TestAdaptChi_RoutesGroupsAndParams(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())
	r.Use(header("X-Root"))
	r.Route("/analyses", func(sr Router) {
		sr.Use(header("X-Route"))
		if sr.Mux() == nil {
			t.Fatalf("subrouter Mux() is nil")
		}
		sr.Post("/", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(stdhttp.StatusCreated) })
		sr.Get("/{key}", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
			_, _ = w.Write([]byte(Param(req, "key")))
		})
		sr.Group(func(g Router) {
			g.Use(header("X-Group"))
			g.Handle("/raw", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
				w.WriteHeader(stdhttp.StatusAccepted)
			}))
		})
	})

	tests := []struct {
		method, path string
		status       int
		body         string
		headers      []string
	}{
		{stdhttp.MethodPost, "/analyses/", stdhttp.StatusCreated, "", []string{"X-Root", "X-Route"}},
		{stdhttp.MethodGet, "/analyses/run-01.json", stdhttp.StatusOK, "run-01.json", []string{"X-Root", "X-Route"}},
		{stdhttp.MethodGet, "/analyses/raw", stdhttp.StatusAccepted, "", []string{"X-Group"}},
		{stdhttp.MethodPut, "/analyses/", stdhttp.StatusMethodNotAllowed, "", nil},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.status {
			t.Fatalf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.status)
		}
		if tt.body != "" && rec.Body.String() != tt.body {
			t.Fatalf("%s %s body = %q", tt.method, tt.path, rec.Body.String())
		}
		for _, h := range tt.headers {
			if rec.Header().Get(h) != "1" {
				t.Fatalf("%s %s missing %s", tt.method, tt.path, h)
			}
		}
	}
}
