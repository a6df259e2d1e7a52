package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "chromalyzer/internal/platform/net/http"
	"chromalyzer/internal/platform/testkit"
)

func fetchDoc(t *testing.T) (int, map[string]any) {
	t.Helper()
	mux := chi.NewMux()
	Mount(phttp.AdaptChi(mux), Docs{Enabled: true, Formats: []string{".cdf", ".csv"}})
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	var doc map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &doc)
	return rr.Code, doc
}

func TestDocJSON_Generated(t *testing.T) {
	code, doc := fetchDoc(t)
	if code != http.StatusOK {
		t.Fatalf("doc.json = %d", code)
	}
	servers := doc["servers"].([]any)
	if servers[0].(map[string]any)["url"] != "/api/v1" {
		t.Fatalf("servers = %v", servers)
	}
	formats, _ := doc["info"].(map[string]any)["x-trace-formats"].([]any)
	if len(formats) != 2 || formats[0] != ".cdf" || formats[1] != ".csv" {
		t.Fatalf("x-trace-formats = %v", formats)
	}
	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatalf("ErrorResponse schema missing")
	}
	post := doc["paths"].(map[string]any)["/analyses"].(map[string]any)["post"].(map[string]any)
	if _, ok := post["responses"].(map[string]any)["default"]; !ok {
		t.Fatalf("default error response missing on POST /analyses")
	}
}

func TestDocJSON_KeepsDeclaredDefaults(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &docReader, func() string {
		return `{"openapi":"3.0.3","info":{"title":"T"},"paths":{"/x":{"get":{"responses":{"default":{"description":"own"}}},"parameters":[]}}}`
	})
	_, doc := fetchDoc(t)
	get := doc["paths"].(map[string]any)["/x"].(map[string]any)["get"].(map[string]any)
	if d := get["responses"].(map[string]any)["default"].(map[string]any); d["description"] != "own" {
		t.Fatalf("declared default replaced: %v", d)
	}
}

func TestDocJSON_BadDocument(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &docReader, func() string { return "{" })
	if code, _ := fetchDoc(t); code != http.StatusInternalServerError {
		t.Fatalf("bad doc = %d", code)
	}
}

func TestMount_Disabled(t *testing.T) {
	mux := chi.NewMux()
	Mount(phttp.AdaptChi(mux), Docs{Formats: []string{".cdf"}})
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("disabled docs = %d", rr.Code)
	}
}
