package batch

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jankiewiet1/circav2-migration/internal/extract"
	"github.com/jankiewiet1/circav2-migration/internal/gateway"
	"github.com/jankiewiet1/circav2-migration/internal/pipeline"
)

type fakeExtractor struct {
	result extract.ExtractionResult
}

func (f *fakeExtractor) Extract(context.Context, string) extract.ExtractionResult {
	return f.result
}

type fakeCarbonExtractor struct {
	result gateway.Result
}

func (f *fakeCarbonExtractor) ExtractCarbonData(_ context.Context, req gateway.ExtractRequest) (gateway.Result, []byte, error) {
	res := f.result
	res.DocumentType = string(req.DocumentType)
	return res, nil, nil
}

type failingRunner struct{}

func (failingRunner) Run(context.Context, string, ...string) ([]byte, []byte, error) {
	return nil, nil, errors.New("exit status 1")
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, string) {
	t.Helper()
	native := &fakeExtractor{result: extract.ExtractionResult{Text: strings.Repeat("diesel ", 30)}}
	gw := gateway.NewService(&fakeCarbonExtractor{result: gateway.Result{
		ExtractionConfidence: 0.9,
		Entries:              []gateway.CarbonEntry{{ActivityDescription: "Fuel", GHGScope: "Scope 1"}},
	}}, nil)
	ocr := extract.NewOCRExtractor(extract.Config{}, failingRunner{}, nil)
	plain := extract.NewPlainTextExtractor(nil)
	proc := pipeline.NewProcessor(pipeline.Config{}, native, &fakeExtractor{}, plain, ocr, nil, gw, nil)

	outDir := filepath.Join(t.TempDir(), "out")
	return NewOrchestrator(proc, outDir, nil), outDir
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("placeholder"), 0o644))
	return path
}

func TestRunIsolatesFailingItem(t *testing.T) {
	orch, outDir := newTestOrchestrator(t)
	inDir := t.TempDir()

	paths := []string{
		touch(t, inDir, "receipt_one.pdf"),
		filepath.Join(inDir, "absent.pdf"), // stat fails
		touch(t, inDir, "receipt_two.pdf"),
	}

	summary, err := orch.Run(context.Background(), paths)
	require.NoError(t, err)

	require.Equal(t, 3, summary.TotalFiles)
	require.Equal(t, 2, summary.Successful)
	require.Equal(t, 1, summary.Failed)
	require.InDelta(t, 2.0/3.0, summary.SuccessRate, 1e-9)
	require.Len(t, summary.Results, 3)

	// Order matches the input order, with the placeholder in the middle.
	require.NotNil(t, summary.Results[0].Record)
	require.NotNil(t, summary.Results[1].Err)
	require.NotNil(t, summary.Results[2].Record)
	require.Equal(t, "absent.pdf", summary.Results[1].Err.Filename)
	require.NotEmpty(t, summary.Results[1].Err.Error)
	require.NotEmpty(t, summary.Results[1].Err.ProcessingTimestamp)

	// Per-document records land next to the summary; the failed item gets none.
	require.FileExists(t, filepath.Join(outDir, "receipt_one_processed.json"))
	require.FileExists(t, filepath.Join(outDir, "receipt_two_processed.json"))
	require.NoFileExists(t, filepath.Join(outDir, "absent_processed.json"))
}

func TestRunWritesSummaryFile(t *testing.T) {
	orch, outDir := newTestOrchestrator(t)
	inDir := t.TempDir()

	summary, err := orch.Run(context.Background(), []string{touch(t, inDir, "fuel_bill.pdf")})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(summary.BatchID, "batch_"))
	require.Len(t, summary.BatchID, len("batch_20060102_150405"))

	b, err := os.ReadFile(filepath.Join(outDir, "batch_summary.json"))
	require.NoError(t, err)

	var persisted Record
	require.NoError(t, json.Unmarshal(b, &persisted))
	require.Equal(t, summary.BatchID, persisted.BatchID)
	require.Equal(t, 1, persisted.Successful)
	require.Len(t, persisted.Results, 1)
	require.NotNil(t, persisted.Results[0].Record)
	require.Equal(t, "fuel_bill.pdf", persisted.Results[0].Record.Filename)
}

func TestRunEmptyBatch(t *testing.T) {
	orch, outDir := newTestOrchestrator(t)

	summary, err := orch.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, summary.TotalFiles)
	require.Zero(t, summary.SuccessRate)
	require.Empty(t, summary.Results)

	// The summary is still persisted for an empty batch.
	require.FileExists(t, filepath.Join(outDir, "batch_summary.json"))
}

func TestRunAllItemsFailed(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	inDir := t.TempDir()

	summary, err := orch.Run(context.Background(), []string{
		filepath.Join(inDir, "gone_one.pdf"),
		filepath.Join(inDir, "gone_two.pdf"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, summary.Failed)
	require.Zero(t, summary.Successful)
	require.Zero(t, summary.SuccessRate)
}

func TestItemJSONRoundTrip(t *testing.T) {
	rec := pipeline.DocumentRecord{Filename: "ok.pdf", TextLength: 12}
	items := []Item{
		{Record: &rec},
		{Err: &ItemError{Filename: "bad.pdf", Error: "stat input: no such file"}},
	}

	b, err := json.Marshal(items)
	require.NoError(t, err)

	var decoded []Item
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded, 2)
	require.NotNil(t, decoded[0].Record)
	require.Nil(t, decoded[0].Err)
	require.Equal(t, "ok.pdf", decoded[0].Record.Filename)
	require.NotNil(t, decoded[1].Err)
	require.Nil(t, decoded[1].Record)
	require.Equal(t, "stat input: no such file", decoded[1].Err.Error)
}
