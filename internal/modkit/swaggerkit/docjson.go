package swaggerkit

import (
	"encoding/json"
	"net/http"

	"chromalyzer/internal/platform/config"
	docs "chromalyzer/internal/services/api/docs"
)

// docReader is a seam so tests can serve a fixed document
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// errorSchema mirrors the envelope written for failed requests
var errorSchema = map[string]any{
	"type":     "object",
	"required": []any{"status_code", "status", "error"},
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer", "example": 422},
		"status":      map[string]any{"type": "string", "example": "Unprocessable Entity"},
		"code":        map[string]any{"type": "integer"},
		"error":       map[string]any{"type": "string", "example": "intensity: trace is empty"},
		"field":       map[string]any{"type": "string", "example": "time"},
		"request_id":  map[string]any{"type": "string"},
	},
}

// serveDocJSON serves the document rooted at base. Every operation gains a
// default response pointing at ErrorResponse unless it declares one
func serveDocJSON(base string, formats []string) http.HandlerFunc {
	suffix := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", "")
	return func(w http.ResponseWriter, _ *http.Request) {
		var doc map[string]any
		if err := json.Unmarshal([]byte(docReader()), &doc); err != nil {
			http.Error(w, "openapi document parse error", http.StatusInternalServerError)
			return
		}
		doc["servers"] = []any{map[string]any{"url": base}}
		info := child(doc, "info")
		if title, ok := info["title"].(string); ok && suffix != "" {
			info["title"] = title + " " + suffix
		}
		if len(formats) > 0 {
			info["x-trace-formats"] = formats
		}
		schemas := child(child(doc, "components"), "schemas")
		if _, ok := schemas["ErrorResponse"]; !ok {
			schemas["ErrorResponse"] = errorSchema
		}
		addDefaultError(doc)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(doc)
	}
}

// child returns m[key] as a map, creating it when missing
func child(m map[string]any, key string) map[string]any {
	if c, ok := m[key].(map[string]any); ok {
		return c
	}
	c := map[string]any{}
	m[key] = c
	return c
}

func addDefaultError(doc map[string]any) {
	paths, _ := doc["paths"].(map[string]any)
	for _, item := range paths {
		ops, _ := item.(map[string]any)
		for _, op := range ops {
			o, ok := op.(map[string]any)
			if !ok {
				continue
			}
			resp := child(o, "responses")
			if _, ok := resp["default"]; ok {
				continue
			}
			resp["default"] = map[string]any{
				"description": "Error envelope",
				"content": map[string]any{"application/json": map[string]any{
					"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				}},
			}
		}
	}
}
