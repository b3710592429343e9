package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSpreadsheetExtractorCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "energy.csv")
	csv := "Date,Type,kWh\n2024-01-05,electricity,1250\n2024-02-05,electricity,1310\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	e := NewSpreadsheetExtractor(nil)
	res := e.Extract(context.Background(), path)

	require.Empty(t, res.Err)
	require.Len(t, res.Pages, 1)
	require.Contains(t, res.Text, "--- Page 1 ---")
	require.Contains(t, res.Text, "2024-01-05\telectricity\t1250")

	require.Len(t, res.Tables, 1)
	table := res.Tables[0]
	require.Equal(t, "spreadsheet", table.Source)
	require.Equal(t, []string{"Date", "Type", "kWh"}, table.Headers)
	require.Len(t, table.Records, 2)
	require.Equal(t, "1310", table.Records[1]["kWh"])
}

func TestSpreadsheetExtractorXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utility_q1.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Month", "kWh"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"January", 1250}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	e := NewSpreadsheetExtractor(nil)
	res := e.Extract(context.Background(), path)

	require.Empty(t, res.Err)
	require.Equal(t, 1, res.Metadata.TotalPages)
	require.Len(t, res.Tables, 1)
	require.Equal(t, []string{"Month", "kWh"}, res.Tables[0].Headers)
	require.Equal(t, "1250", res.Tables[0].Records[0]["kWh"])
}

func TestSpreadsheetExtractorMissingFile(t *testing.T) {
	e := NewSpreadsheetExtractor(nil)
	res := e.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.xlsx"))

	require.NotEmpty(t, res.Err)
	require.Empty(t, res.Text)
}
