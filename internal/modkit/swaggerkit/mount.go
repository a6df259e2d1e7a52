// Package swaggerkit serves the chromalyzer API reference and Swagger UI
package swaggerkit

import (
	"net/http"

	phttp "chromalyzer/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Docs configures the API reference
type Docs struct {
	Enabled bool
	// Formats are the trace file extensions POST /analyses/upload accepts.
	// They are published as info.x-trace-formats
	Formats []string
}

// Mount serves the UI under /api/docs/ when enabled. Operations stay
// collapsed to their tags; the analyses group is the one most readers want
func Mount(r phttp.Router, d Docs) {
	if !d.Enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON("/api/v1", d.Formats))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DeepLinking(true),
	))
}
