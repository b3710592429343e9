package carbonschema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRecordDefaultsToUnknown(t *testing.T) {
	r := NewRecord()
	require.Equal(t, Unknown, r.Date)
	require.Equal(t, Unknown, r.Type)
	require.Equal(t, Unknown, r.RECs)
	require.Equal(t, Unknown, r.Description)
}

func TestNormalizeFillsEmptyFields(t *testing.T) {
	r := Record{Date: "2024-03-01", Type: "electricity"}.Normalize()
	require.Equal(t, "2024-03-01", r.Date)
	require.Equal(t, "electricity", r.Type)
	require.Equal(t, Unknown, r.Region)
	require.Equal(t, Unknown, r.Amount)
}

func TestValidateCompleteRecord(t *testing.T) {
	r := Record{Date: "2024-03-01", Type: "electricity", Amount: "1250", AmountUnit: "kWh"}
	v := r.Validate()
	require.True(t, v.IsValid)
	require.Empty(t, v.MissingFields)
	require.False(t, v.RequiresReview)
}

func TestValidateReportsMissingRequiredFields(t *testing.T) {
	r := NewRecord()
	r.Type = "gas"
	r.AmountUnit = "m3"

	v := r.Validate()

	require.False(t, v.IsValid)
	require.Equal(t, []string{"date", "amount"}, v.MissingFields)
	require.True(t, v.RequiresReview)
}

func TestValidateTreatsUnknownAsMissing(t *testing.T) {
	r := Record{Date: Unknown, Type: "fuel", Amount: "40", AmountUnit: Unknown}
	v := r.Validate()
	require.Equal(t, []string{"date", "amount_unit"}, v.MissingFields)
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		path     string
		wantType string
	}{
		{"/uploads/invoice.pdf", "pdf"},
		{"energy.XLSX", "excel"},
		{"data.csv", "csv"},
		{"scan.jpeg", "image"},
		{"notes.txt", "text"},
		{"archive.zip", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			info := DetectFileType(tt.path)
			require.Equal(t, tt.wantType, info.Type)
		})
	}

	info := DetectFileType("/uploads/invoice.pdf")
	require.Equal(t, ".pdf", info.Extension)
	require.Equal(t, "invoice.pdf", info.Filename)
}
