package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildSystemPrompt composes the system message: the extraction persona and
// the GHG Protocol scope rubric.
func BuildSystemPrompt() string {
	parts := []string{
		"You are a carbon accounting expert specializing in emission data extraction.",
		"Extract EACH individual emission-relevant line item as a separate entry.",
		"Apply GHG Protocol Scope classification:",
		"Scope 1: direct emissions (fuel combustion, company vehicles, natural gas).",
		"Scope 2: indirect energy (purchased electricity, steam, heating/cooling).",
		"Scope 3: other indirect (business travel, purchased goods, waste).",
		"Only include emission-relevant activities.",
		"Use ISO-8601 dates (YYYY-MM-DD); use null when a date, quantity, or cost is not present.",
		"Provide a confidence_score (0.0-1.0) for each entry and an overall extraction_confidence.",
		"Return ONLY JSON that matches the provided JSON Schema.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt serializes the bounded request payload: document type,
// primary text truncated to TextBudget, and at most the first MaxTables
// unified tables.
func BuildUserPrompt(req ExtractRequest) string {
	text := req.Text
	if len(text) > TextBudget {
		// budget counts characters, not bytes; never split a rune
		if r := []rune(text); len(r) > TextBudget {
			text = string(r[:TextBudget])
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DOCUMENT TYPE: %s\n", req.DocumentType)
	fmt.Fprintf(&b, "TEXT CONTENT:\n%s\n\n", text)
	fmt.Fprintf(&b, "TABLES FOUND: %d tables\n", len(req.Tables))

	tables := req.Tables
	if len(tables) > MaxTables {
		tables = tables[:MaxTables]
	}
	if len(tables) > 0 {
		b.WriteString("TABLE DATA:\n")
		b.WriteString(mustJSON(tables))
	} else {
		b.WriteString("TABLE DATA:\nNo tables found")
	}
	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
