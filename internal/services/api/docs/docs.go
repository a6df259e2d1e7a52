// Package docs registers the OpenAPI document served under /api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "openapi": "3.0.3",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}"
  },
  "paths": {
    "/analyses": {
      "post": {
        "tags": ["Analysis"],
        "summary": "Analyze an uploaded chromatogram",
        "requestBody": {
          "content": {
            "multipart/form-data": {
              "schema": {
                "type": "object",
                "required": ["file"],
                "properties": {
                  "file": {"type": "string", "format": "binary"},
                  "metadata": {"type": "string"},
                  "height_percentile": {"type": "number"},
                  "prominence_percentile": {"type": "number"},
                  "min_distance": {"type": "integer"},
                  "rel_height": {"type": "number"},
                  "persist": {"type": "boolean"},
                  "diagnose": {"type": "boolean"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Analysis result", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Result"}}}},
          "201": {"description": "Analysis result, record stored", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Result"}}}},
          "422": {"description": "Invalid trace", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      },
      "get": {
        "tags": ["Analysis"],
        "summary": "List stored analyses, newest first",
        "parameters": [{"name": "limit", "in": "query", "schema": {"type": "integer", "minimum": 1, "maximum": 500}}],
        "responses": {
          "200": {"description": "Entries", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/Entry"}}}}}
        }
      }
    },
    "/analyses/trace": {
      "post": {
        "tags": ["Analysis"],
        "summary": "Analyze an inline trace",
        "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/TraceInput"}}}},
        "responses": {
          "200": {"description": "Analysis result", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Result"}}}},
          "201": {"description": "Analysis result, record stored", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Result"}}}},
          "422": {"description": "Invalid trace", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/analyses/{key}": {
      "get": {
        "tags": ["Analysis"],
        "summary": "Fetch a stored analysis record",
        "parameters": [{"name": "key", "in": "path", "required": true, "schema": {"type": "string", "example": "run-01.json"}}],
        "responses": {
          "200": {"description": "Record", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Record"}}}},
          "404": {"description": "Not found", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/meta/health": {"get": {"tags": ["Meta"], "summary": "Health check", "responses": {"200": {"description": "ok"}}}},
    "/meta/ready": {"get": {"tags": ["Meta"], "summary": "Readiness with dependency checks", "responses": {"200": {"description": "ok"}}}},
    "/meta/version": {"get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}},
    "/meta/service": {"get": {"tags": ["Meta"], "summary": "Service info and uptime", "responses": {"200": {"description": "ok"}}}},
    "/meta/detector": {"get": {"tags": ["Meta"], "summary": "Active detector settings", "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/DetectorOptions"}}}}}}}
  },
  "components": {
    "schemas": {
      "DetectorOptions": {
        "type": "object",
        "properties": {
          "height_percentile": {"type": "number", "example": 95},
          "prominence_percentile": {"type": "number", "example": 90},
          "min_distance": {"type": "integer", "example": 5},
          "rel_height": {"type": "number", "example": 0.5}
        }
      },
      "Peak": {
        "type": "object",
        "properties": {
          "peak_index": {"type": "integer"},
          "height": {"type": "number"},
          "retention_time": {"type": "number"},
          "area": {"type": "number"},
          "start_time": {"type": "number"},
          "end_time": {"type": "number"}
        }
      },
      "Summary": {
        "type": "object",
        "properties": {
          "total_peaks": {"type": "integer"},
          "max_intensity": {"type": "number"},
          "baseline_intensity": {"type": "number"},
          "peaks": {"type": "array", "items": {"$ref": "#/components/schemas/Peak"}}
        }
      },
      "TraceInput": {
        "type": "object",
        "required": ["label", "time", "intensity"],
        "properties": {
          "label": {"type": "string"},
          "time": {"type": "array", "items": {"type": "number"}},
          "intensity": {"type": "array", "items": {"type": "number"}},
          "metadata": {"type": "string"},
          "options": {"$ref": "#/components/schemas/DetectorOptions"},
          "persist": {"type": "boolean"},
          "diagnose": {"type": "boolean"}
        }
      },
      "Result": {
        "type": "object",
        "properties": {
          "id": {"type": "string", "format": "uuid"},
          "key": {"type": "string"},
          "file_name": {"type": "string"},
          "no_peaks": {"type": "boolean"},
          "report": {"type": "string"},
          "summary": {"$ref": "#/components/schemas/Summary"},
          "stored": {"type": "boolean"},
          "advice": {"type": "object", "properties": {"diagnosis": {"type": "string"}, "troubleshooting": {"type": "string"}}},
          "advice_error": {"type": "string"}
        }
      },
      "Record": {
        "type": "object",
        "properties": {
          "file_name": {"type": "string"},
          "summary": {"$ref": "#/components/schemas/Summary"},
          "trace_data": {"type": "array", "items": {"type": "array", "items": {"type": "number"}, "minItems": 2, "maxItems": 2}}
        }
      },
      "Entry": {
        "type": "object",
        "properties": {
          "key": {"type": "string"},
          "file_name": {"type": "string"},
          "total_peaks": {"type": "integer"},
          "max_intensity": {"type": "number"},
          "created_at": {"type": "string", "format": "date-time"}
        }
      }
    }
  }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	BasePath:         "/api/v1",
	Title:            "Chromalyzer API",
	Description:      "Peak detection and summaries for gas chromatography traces",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
