package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"chromalyzer/internal/modkit/module"
	"chromalyzer/internal/platform/config"
	phttp "chromalyzer/internal/platform/net/http"
	analysismod "chromalyzer/internal/services/analysis/module"
)

func mountAPI(t *testing.T) http.Handler {
	t.Helper()
	t.Cleanup(module.Reset)
	mux := chi.NewMux()
	if err := Mount(phttp.AdaptChi(mux), Options{Config: config.New()}); err != nil {
		t.Fatalf("mount: %v", err)
	}
	return mux
}

func get(t *testing.T, h http.Handler, path string) (int, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	var env map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v (%s)", path, err, rr.Body.String())
	}
	return rr.Code, env
}

func TestMount_MetaAndAnalysis(t *testing.T) {
	t.Setenv("CORE_ANALYSIS_STORE", "none")
	t.Setenv("CORE_PEAKS_MIN_DISTANCE", "3")
	h := mountAPI(t)

	code, env := get(t, h, "/api/v1/meta/detector")
	if code != http.StatusOK {
		t.Fatalf("detector = %d %v", code, env)
	}
	data := env["data"].(map[string]any)
	opts := data["options"].(map[string]any)
	if opts["min_distance"].(float64) != 3 {
		t.Fatalf("detector options = %v", opts)
	}

	code, env = get(t, h, "/api/v1/meta/ready")
	if code != http.StatusOK || env["data"].(map[string]any)["status"] != "ok" {
		t.Fatalf("ready = %d %v", code, env)
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses/trace",
		strings.NewReader(`{"label":"flat","time":[0,1,2],"intensity":[1,1,1]}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"no_peaks":true`) {
		t.Fatalf("trace = %d %s", rr.Code, rr.Body.String())
	}

	if _, ok := module.PortsAs[analysismod.Ports](module.Analysis); !ok {
		t.Fatalf("analysis ports not registered")
	}
}

func TestMount_DocsListTraceFormats(t *testing.T) {
	t.Setenv("CORE_ANALYSIS_STORE", "none")
	t.Cleanup(module.Reset)
	mux := chi.NewMux()
	if err := Mount(phttp.AdaptChi(mux), Options{Config: config.New(), EnableSwagger: true}); err != nil {
		t.Fatalf("mount: %v", err)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	var doc struct {
		Info struct {
			Formats []string `json:"x-trace-formats"`
		} `json:"info"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil || rr.Code != http.StatusOK {
		t.Fatalf("doc.json = %d %v", rr.Code, err)
	}
	if !slices.Contains(doc.Info.Formats, ".cdf") || !slices.Contains(doc.Info.Formats, ".csv") {
		t.Fatalf("x-trace-formats = %v", doc.Info.Formats)
	}
}

func TestMount_BadDetectorConfig(t *testing.T) {
	t.Setenv("CORE_PEAKS_REL_HEIGHT", "-1")
	t.Cleanup(module.Reset)
	if err := Mount(phttp.AdaptChi(chi.NewMux()), Options{Config: config.New()}); err == nil {
		t.Fatal("expected config error")
	}
}
