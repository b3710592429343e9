package gateway

import "github.com/jankiewiet1/circav2-migration/constants"

// BuildResultJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It constrains the service response and is used locally to
// validate the payload before we trust it.
func BuildResultJSONSchema() map[string]any {
	entry := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"date":                 map[string]any{"type": []string{"string", "null"}},
			"activity_description": map[string]any{"type": "string", "minLength": 1},
			"quantity":             map[string]any{"type": []string{"number", "null"}},
			"unit":                 map[string]any{"type": "string"},
			"supplier_vendor":      map[string]any{"type": "string"},
			"cost":                 map[string]any{"type": []string{"number", "null"}},
			"currency":             map[string]any{"type": "string"},
			"invoice_id":           map[string]any{"type": "string"},
			"ghg_scope":            map[string]any{"type": "string", "enum": constants.GHGScopes},
			"confidence_score":     map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"notes":                map[string]any{"type": "string"},
		},
		"required": []string{"activity_description", "ghg_scope"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"document_type":         map[string]any{"type": "string"},
			"extraction_confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"entries":               map[string]any{"type": "array", "items": entry},
			"warnings":              map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"suggestions":           map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"document_type", "extraction_confidence", "entries"},
	}
}
