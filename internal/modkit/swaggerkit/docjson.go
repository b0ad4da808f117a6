//go:build swag

package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"devpulse/internal/platform/config"

	docs "devpulse/internal/services/api/docs"
)

// SpecMutator gets a chance to edit the parsed swagger document before
// it is served
type SpecMutator func(map[string]any)

// mutators collects module registrations, in mount order
var mutators []SpecMutator

// docReader is a seam so tests can inject invalid JSON without patching swagger
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// Register queues a mutator; modules call this from init
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// serveDocJSON parses the generated document, applies the shared fixups
// and every registered mutator, then serves the result
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := docReader()

		var spec map[string]any
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		ensureServers(spec, "/api/v1")

		cfg := config.New().Prefix("CORE_API_")
		if v := cfg.MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}

		ensureErrorResponseDefinition(spec)
		addDefaultError(spec)
		addDefaultBadRequest(spec)

		for _, m := range mutators {
			m(spec)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// ensureServers normalizes the document to OAS 3.0.3 with a servers list.
// The embedded UI cannot render 3.1 yet
func ensureServers(spec map[string]any, url string) {
	// lift swagger 2 documents
	if _, hasSwagger := spec["swagger"]; hasSwagger {
		spec["openapi"] = "3.0.3"
		delete(spec, "swagger")
	}

	// cap 3.1 documents at 3.0.3
	if v, ok := spec["openapi"].(string); ok {
		if strings.HasPrefix(v, "3.1") {
			spec["openapi"] = "3.0.3"
		}
	} else {
		// no version at all
		spec["openapi"] = "3.0.3"
	}

	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{
			map[string]any{"url": url},
		}
	}
}

// ensureErrorResponseDefinition registers the error envelope schema.
// Field set must track the runtime Wire struct
func ensureErrorResponseDefinition(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code":         map[string]any{"type": "integer", "format": "int32"},
			"status":              map[string]any{"type": "string"},
			"code":                map[string]any{"type": "integer", "format": "int32"},
			"error":               map[string]any{"type": "string"},
			"request_id":          map[string]any{"type": "string"},
			"retry_after_minutes": map[string]any{"type": "integer", "format": "int32"},
		},
		"required": []any{"status_code", "status"},
	}
}

// errorExample renders an ErrorResponse example for the injected defaults
func errorExample(status int, text string, code int, msg string) map[string]any {
	return map[string]any{
		"description": text,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      text,
					"code":        code,
					"error":       msg,
					"request_id":  "579f33bf50b1/abc-000001",
				},
			},
		},
	}
}

// injectDefaultResponse adds resp under statusKey on every operation that
// does not document that status itself
func injectDefaultResponse(spec map[string]any, statusKey string, resp map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses[statusKey]; !exists {
				responses[statusKey] = resp
			}
		}
	}
}

// every operation can panic, so every operation documents a 500
func addDefaultError(spec map[string]any) {
	injectDefaultResponse(spec, "500",
		errorExample(500, "Internal Server Error", 1, "panic recovered"))
}

// the binder rejects bad payloads before any handler runs, so 400 is universal too
func addDefaultBadRequest(spec map[string]any) {
	injectDefaultResponse(spec, "400",
		errorExample(400, "Bad Request", 8, "login must be a valid GitHub login"))
}
