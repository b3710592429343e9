package gateway

import (
	"context"

	"github.com/jankiewiet1/circav2-migration/constants"
	"github.com/jankiewiet1/circav2-migration/internal/extract"
)

// Request payload bounds. The service never sees more than TextBudget
// characters of primary text or the first MaxTables unified tables.
const (
	TextBudget = 5000
	MaxTables  = 3
)

// CarbonEntry is one emission-relevant line item extracted from a document.
type CarbonEntry struct {
	Date                *string  `json:"date"` // YYYY-MM-DD or null
	ActivityDescription string   `json:"activity_description"`
	Quantity            *float64 `json:"quantity"`
	Unit                string   `json:"unit"`
	SupplierVendor      string   `json:"supplier_vendor"`
	Cost                *float64 `json:"cost"`
	Currency            string   `json:"currency"`
	InvoiceID           string   `json:"invoice_id"`
	GHGScope            string   `json:"ghg_scope"` // "Scope 1" | "Scope 2" | "Scope 3"
	ConfidenceScore     float64  `json:"confidence_score"`
	Notes               string   `json:"notes"`
}

// Result is the structured-extraction service response.
type Result struct {
	DocumentType         string        `json:"document_type"`
	ExtractionConfidence float64       `json:"extraction_confidence"`
	Entries              []CarbonEntry `json:"entries"`
	Warnings             []string      `json:"warnings"`
	Suggestions          []string      `json:"suggestions"`
}

// ExtractRequest is what the pipeline hands to the gateway.
type ExtractRequest struct {
	DocumentType constants.DocumentType
	Text         string
	Tables       []extract.RawTable
}

// CarbonExtractor is the service-call boundary the gateway wraps.
// Implementations return the parsed result plus the raw response body.
type CarbonExtractor interface {
	ExtractCarbonData(ctx context.Context, req ExtractRequest) (Result, []byte, error)
}
