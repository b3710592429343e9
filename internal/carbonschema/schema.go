// Package carbonschema is the lighter, flat carbon-accounting record used by
// the recognition-agent collaborator. Extracted data is mapped onto a fixed
// field set with "unknown" standing in for anything missing, then validated
// for the required core fields.
package carbonschema

import (
	"path/filepath"
	"strings"
)

// Unknown is the literal placeholder for any field the extraction could not
// fill.
const Unknown = "unknown"

// Record is the flat carbon schema.
type Record struct {
	Date           string `json:"date"`
	Type           string `json:"type"`
	Region         string `json:"region"`
	Amount         string `json:"amount"`
	AmountUnit     string `json:"amount_unit"`
	Year           string `json:"year"`
	Supplier       string `json:"supplier"`
	EnergySource   string `json:"energy_source"`
	ConnectionType string `json:"connection_type"`
	LossFactor     string `json:"loss_factor"`
	RECs           string `json:"recs"`
	InvoiceID      string `json:"invoice_id"`
	Description    string `json:"description"`
}

// requiredFields must be present and not "unknown" for a record to be valid.
var requiredFields = []string{"date", "type", "amount", "amount_unit"}

// Validation is the outcome of checking a Record for completeness.
type Validation struct {
	IsValid        bool     `json:"is_valid"`
	MissingFields  []string `json:"missing_fields"`
	RequiresReview bool     `json:"requires_review"`
}

// NewRecord returns a Record with every field defaulted to "unknown".
func NewRecord() Record {
	return Record{
		Date:           Unknown,
		Type:           Unknown,
		Region:         Unknown,
		Amount:         Unknown,
		AmountUnit:     Unknown,
		Year:           Unknown,
		Supplier:       Unknown,
		EnergySource:   Unknown,
		ConnectionType: Unknown,
		LossFactor:     Unknown,
		RECs:           Unknown,
		InvoiceID:      Unknown,
		Description:    Unknown,
	}
}

// Normalize replaces empty fields with the "unknown" placeholder.
func (r Record) Normalize() Record {
	fields := []*string{
		&r.Date, &r.Type, &r.Region, &r.Amount, &r.AmountUnit, &r.Year,
		&r.Supplier, &r.EnergySource, &r.ConnectionType, &r.LossFactor,
		&r.RECs, &r.InvoiceID, &r.Description,
	}
	for _, f := range fields {
		if *f == "" {
			*f = Unknown
		}
	}
	return r
}

// Validate reports which required fields are missing or "unknown". A record
// with any missing required field requires review.
func (r Record) Validate() Validation {
	value := map[string]string{
		"date":        r.Date,
		"type":        r.Type,
		"amount":      r.Amount,
		"amount_unit": r.AmountUnit,
	}

	var missing []string
	for _, field := range requiredFields {
		if v := value[field]; v == "" || v == Unknown {
			missing = append(missing, field)
		}
	}
	return Validation{
		IsValid:        len(missing) == 0,
		MissingFields:  missing,
		RequiresReview: len(missing) > 0,
	}
}

// FileInfo describes a detected input file type.
type FileInfo struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Filename  string `json:"filename"`
}

var fileTypes = map[string]FileInfo{
	".pdf":  {Type: "pdf", Name: "PDF Document"},
	".xlsx": {Type: "excel", Name: "Excel Spreadsheet"},
	".xls":  {Type: "excel", Name: "Excel Spreadsheet"},
	".csv":  {Type: "csv", Name: "CSV File"},
	".jpg":  {Type: "image", Name: "JPEG Image"},
	".jpeg": {Type: "image", Name: "JPEG Image"},
	".png":  {Type: "image", Name: "PNG Image"},
	".txt":  {Type: "text", Name: "Text Document"},
}

// DetectFileType returns file-type metadata for a path based on its
// extension.
func DetectFileType(path string) FileInfo {
	ext := strings.ToLower(filepath.Ext(path))
	info, ok := fileTypes[ext]
	if !ok {
		info = FileInfo{Type: "unknown", Name: "Unknown File Type"}
	}
	info.Extension = ext
	info.Filename = filepath.Base(path)
	return info
}
