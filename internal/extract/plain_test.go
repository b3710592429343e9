package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainTextExtractorReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meter.txt")
	content := "Electricity usage 320 kWh\nBilling period 2024-03\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	e := NewPlainTextExtractor(nil)
	res := e.Extract(context.Background(), path)

	require.Empty(t, res.Err)
	require.Equal(t, content, res.Text)
	require.Len(t, res.Pages, 1)
	require.Empty(t, res.Tables)
}

func TestPlainTextExtractorMissingFile(t *testing.T) {
	e := NewPlainTextExtractor(nil)
	res := e.Extract(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))

	require.NotEmpty(t, res.Err)
	require.Empty(t, res.Text)
}
