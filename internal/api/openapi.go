// Package api/openapi provides OpenAPI 3.0 specification and documentation.
//
// SYSTEM ARCHITECTURE ROLE:
// This module generates and serves the OpenAPI specification for the pocket-deck API,
// providing both machine-readable API documentation and interactive documentation UI.
//
// KEY RESPONSIBILITIES:
// - Describe every /api/v1 endpoint with its request and response shapes
// - Serve interactive Swagger UI for API exploration and testing
// - Keep enumerations (slide kinds, export formats, themes) in sync with the live registries
//
// INTEGRATION POINTS:
// - internal/api/server.go: routes registered in Router() must appear in getOpenAPISpec()
// - internal/service/service.go: Capabilities() supplies the enum values
// - internal/errors/handlers.go: ErrorResponse schema matches HTTPErrorHandler.FormatError() output
// - Swagger UI CDN: Uses unpkg.com CDN for Swagger UI assets in handleOpenAPI()
//
// USAGE PATTERNS:
// - Access documentation: Visit /api/docs for interactive interface
// - Machine-readable spec: Access /api/openapi.json for programmatic use
package api

import (
	"encoding/json"
	"net/http"

	"github.com/dpshade/pocket-deck/internal/service"
)

// handleOpenAPI serves the OpenAPI documentation interface
func (s *APIServer) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Pocket Deck API Documentation</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui.css" />
    <style>
        html { box-sizing: border-box; overflow: -moz-scrollbars-vertical; overflow-y: scroll; }
        *, *:before, *:after { box-sizing: inherit; }
        body { margin:0; background: #fafafa; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            const ui = SwaggerUIBundle({
                url: '/api/openapi.json',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIBundle.presets.standalone
                ],
                plugins: [
                    SwaggerUIBundle.plugins.DownloadUrl
                ],
                layout: "StandaloneLayout"
            });
        };
    </script>
</body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

// handleOpenAPISpec serves the OpenAPI JSON specification
func (s *APIServer) handleOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := getOpenAPISpec(s.addr, s.version, s.service.Capabilities())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(spec)
}

func ref(name string) map[string]interface{} {
	return map[string]interface{}{"$ref": "#/components/schemas/" + name}
}

func jsonContent(schema map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"application/json": map[string]interface{}{"schema": schema},
	}
}

func response(description string, schema map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content":     jsonContent(schema),
	}
}

func errorResponses(codes ...string) map[string]interface{} {
	descriptions := map[string]string{
		"400": "Invalid request or presentation spec",
		"404": "Resource not found",
		"422": "Chart data has the wrong shape",
		"500": "Internal server error",
	}
	out := map[string]interface{}{}
	for _, code := range codes {
		out[code] = response(descriptions[code], ref("ErrorResponse"))
	}
	return out
}

func withResponses(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

var deckRequestBody = map[string]interface{}{
	"required": true,
	"content":  jsonContent(ref("RenderRequest")),
}

// getOpenAPISpec returns the OpenAPI 3.0 specification
func getOpenAPISpec(addr string, version string, caps service.Capabilities) map[string]interface{} {
	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       "Pocket Deck API",
			"description": "Compile presentation specs into self-contained HTML slide decks",
			"version":     version,
			"contact": map[string]interface{}{
				"name": "Pocket Deck",
			},
		},
		"servers": []map[string]interface{}{
			{
				"url":         "http://" + addr + "/api/v1",
				"description": "Local server",
			},
		},
		"paths": map[string]interface{}{
			"/render": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Render a presentation",
					"description": "Validate the spec and compile it into a single HTML document",
					"parameters": []map[string]interface{}{
						{
							"name":        "format",
							"in":          "query",
							"description": "Return the HTML document itself instead of the JSON envelope",
							"required":    false,
							"schema": map[string]interface{}{
								"type": "string",
								"enum": []string{"json", "html"},
							},
						},
					},
					"requestBody": deckRequestBody,
					"responses": withResponses(map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Rendered document",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{"schema": ref("RenderResponse")},
								"text/html":        map[string]interface{}{"schema": map[string]interface{}{"type": "string"}},
							},
						},
					}, errorResponses("400", "422", "500")),
				},
			},
			"/validate": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Validate a presentation",
					"description": "Report every issue in the spec. Invalid specs still return 200.",
					"requestBody": deckRequestBody,
					"responses": withResponses(map[string]interface{}{
						"200": response("Validation result", ref("ValidateResponse")),
					}, errorResponses("400")),
				},
			},
			"/export/{format}": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Export a presentation",
					"description": "html is the rendered deck, pdf is print-ready HTML, json is the portable interchange document",
					"parameters": []map[string]interface{}{
						{
							"name":     "format",
							"in":       "path",
							"required": true,
							"schema": map[string]interface{}{
								"type": "string",
								"enum": caps.ExportFormats,
							},
						},
					},
					"requestBody": deckRequestBody,
					"responses": withResponses(map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Exported file, sent as an attachment",
							"content": map[string]interface{}{
								"text/html":        map[string]interface{}{"schema": map[string]interface{}{"type": "string"}},
								"application/json": map[string]interface{}{"schema": ref("ExportDocument")},
							},
						},
					}, errorResponses("400", "422", "500")),
				},
			},
			"/capabilities": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "List slide kinds, chart kinds, export formats and themes",
					"responses": map[string]interface{}{
						"200": response("Capabilities", envelope(ref("Capabilities"))),
					},
				},
			},
			"/themes": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "List registered themes",
					"responses": map[string]interface{}{
						"200": response("Themes", envelope(map[string]interface{}{
							"type":  "array",
							"items": ref("Theme"),
						})),
					},
				},
			},
			"/themes/{id}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Get one theme",
					"parameters": []map[string]interface{}{
						{
							"name":     "id",
							"in":       "path",
							"required": true,
							"schema": map[string]interface{}{
								"type": "string",
								"enum": caps.Themes,
							},
						},
					},
					"responses": withResponses(map[string]interface{}{
						"200": response("Theme", envelope(ref("Theme"))),
					}, errorResponses("400", "404")),
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Health check",
					"responses": map[string]interface{}{
						"200": response("Server is healthy", ref("APIResponse")),
					},
				},
			},
		},
		"components": map[string]interface{}{
			"schemas": map[string]interface{}{
				"APIResponse": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"success":   map[string]interface{}{"type": "boolean"},
						"data":      map[string]interface{}{"type": "object"},
						"message":   map[string]interface{}{"type": "string"},
						"timestamp": map[string]interface{}{"type": "string", "format": "date-time"},
					},
				},
				"ErrorResponse": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"success": map[string]interface{}{"type": "boolean", "example": false},
						"error": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"code":      map[string]interface{}{"type": "string", "example": "SPEC_VALIDATION"},
								"message":   map[string]interface{}{"type": "string"},
								"details":   map[string]interface{}{"type": "string"},
								"issues":    map[string]interface{}{"type": "array", "items": ref("Issue")},
								"example":   map[string]interface{}{"type": "object"},
								"timestamp": map[string]interface{}{"type": "string", "format": "date-time"},
							},
						},
					},
				},
				"Issue": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"path":     map[string]interface{}{"type": "string", "example": "slides[2].chart.type"},
						"code":     map[string]interface{}{"type": "string", "example": "INVALID_ENUM_VALUE"},
						"expected": map[string]interface{}{"type": "string"},
						"actual":   map[string]interface{}{"type": "string"},
						"message":  map[string]interface{}{"type": "string"},
					},
				},
				"RenderRequest": map[string]interface{}{
					"type":     "object",
					"required": []string{"spec"},
					"properties": map[string]interface{}{
						"spec":    ref("PresentationSpec"),
						"options": ref("GenerationOptions"),
					},
				},
				"PresentationSpec": map[string]interface{}{
					"type":     "object",
					"required": []string{"title", "slides"},
					"properties": map[string]interface{}{
						"title":    map[string]interface{}{"type": "string"},
						"theme":    map[string]interface{}{"type": "string", "enum": caps.Themes},
						"metadata": map[string]interface{}{"type": "object"},
						"options":  ref("GenerationOptions"),
						"slides": map[string]interface{}{
							"type":     "array",
							"minItems": 1,
							"items": map[string]interface{}{
								"type":     "object",
								"required": []string{"type"},
								"properties": map[string]interface{}{
									"type":   map[string]interface{}{"type": "string", "enum": caps.SlideKinds},
									"id":     map[string]interface{}{"type": "string"},
									"notes":  map[string]interface{}{"type": "string"},
									"reveal": map[string]interface{}{"type": "boolean"},
								},
							},
						},
					},
				},
				"GenerationOptions": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"theme":        map[string]interface{}{"type": "string"},
						"aspectRatio":  map[string]interface{}{"type": "string", "enum": caps.AspectRatios},
						"fontSize":     map[string]interface{}{"type": "string", "enum": caps.FontSizes},
						"slideNumbers": map[string]interface{}{"type": "boolean"},
						"embedStyles":  map[string]interface{}{"type": "boolean"},
						"minify":       map[string]interface{}{"type": "boolean"},
					},
				},
				"RenderResponse": envelope(map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"html":     map[string]interface{}{"type": "string"},
						"metadata": map[string]interface{}{"type": "object"},
						"options":  ref("GenerationOptions"),
					},
				}),
				"ValidateResponse": envelope(map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"valid":    map[string]interface{}{"type": "boolean"},
						"issues":   map[string]interface{}{"type": "array", "items": ref("Issue")},
						"warnings": map[string]interface{}{"type": "array", "items": ref("Issue")},
						"example":  map[string]interface{}{"type": "object"},
					},
				}),
				"ExportDocument": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"version":  map[string]interface{}{"type": "string", "example": "1.0"},
						"metadata": map[string]interface{}{"type": "object"},
						"slides":   map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "object"}},
						"config":   ref("GenerationOptions"),
					},
				},
				"Capabilities": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"slideKinds":    map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
						"chartKinds":    map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
						"exportFormats": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
						"aspectRatios":  map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
						"fontSizes":     map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
						"themes":        map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
					},
				},
				"Theme": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"id":         map[string]interface{}{"type": "string"},
						"name":       map[string]interface{}{"type": "string"},
						"colors":     map[string]interface{}{"type": "object", "additionalProperties": map[string]interface{}{"type": "string"}},
						"palette":    map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
						"typography": map[string]interface{}{"type": "object"},
					},
				},
			},
		},
	}
}

// envelope wraps a data schema in the APIResponse shape
func envelope(data map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"allOf": []interface{}{
			ref("APIResponse"),
			map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"data": data},
			},
		},
	}
}
