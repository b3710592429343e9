// Package batch runs the single-document pipeline over many inputs with
// total per-item isolation and persists per-document and aggregate results.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jankiewiet1/circav2-migration/internal/pipeline"
)

// ItemError is the per-item placeholder recorded when a document's own
// pipeline fails.
type ItemError struct {
	Filename            string `json:"filename"`
	Error               string `json:"error"`
	ProcessingTimestamp string `json:"processing_timestamp"`
}

// Item is either a successful DocumentRecord or an error placeholder.
type Item struct {
	Record *pipeline.DocumentRecord
	Err    *ItemError
}

func (i Item) MarshalJSON() ([]byte, error) {
	if i.Err != nil {
		return json.Marshal(i.Err)
	}
	return json.Marshal(i.Record)
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Error != "" {
		i.Err = &ItemError{}
		return json.Unmarshal(data, i.Err)
	}
	i.Record = &pipeline.DocumentRecord{}
	return json.Unmarshal(data, i.Record)
}

// Record is the aggregate batch output.
type Record struct {
	BatchID             string  `json:"batch_id"`
	TotalFiles          int     `json:"total_files"`
	Successful          int     `json:"successful"`
	Failed              int     `json:"failed"`
	SuccessRate         float64 `json:"success_rate"`
	ProcessingTimestamp string  `json:"processing_timestamp"`
	Results             []Item  `json:"results"`
}

// Orchestrator iterates inputs in order, isolating each item's failures.
type Orchestrator struct {
	proc      *pipeline.Processor
	outputDir string
	logger    *slog.Logger
}

func NewOrchestrator(proc *pipeline.Processor, outputDir string, logger *slog.Logger) *Orchestrator {
	if outputDir == "" {
		outputDir = "output"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{proc: proc, outputDir: outputDir, logger: logger}
}

// Run processes every input path. One bad file can reduce the success count
// but never halts the batch; the summary is always written, even when every
// item failed. An empty batch yields success_rate 0.
func (o *Orchestrator) Run(ctx context.Context, paths []string) (Record, error) {
	o.logger.Info("batch.start", "total_files", len(paths), "output_dir", o.outputDir)

	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return Record{}, fmt.Errorf("create output dir: %w", err)
	}

	results := make([]Item, 0, len(paths))
	successful, failed := 0, 0

	for i, path := range paths {
		o.logger.Info("batch.item", "index", i+1, "total", len(paths), "path", path)

		record, err := o.processOne(ctx, path)
		if err != nil {
			o.logger.Error("batch.item_failed", "path", path, "error", err)
			failed++
			results = append(results, Item{Err: &ItemError{
				Filename:            filepath.Base(path),
				Error:               err.Error(),
				ProcessingTimestamp: time.Now().UTC().Format(time.RFC3339),
			}})
			continue
		}

		successful++
		results = append(results, Item{Record: record})
	}

	now := time.Now().UTC()
	summary := Record{
		BatchID:             "batch_" + now.Format("20060102_150405"),
		TotalFiles:          len(paths),
		Successful:          successful,
		Failed:              failed,
		SuccessRate:         successRate(successful, len(paths)),
		ProcessingTimestamp: now.Format(time.RFC3339),
		Results:             results,
	}

	if err := writeJSON(filepath.Join(o.outputDir, "batch_summary.json"), summary); err != nil {
		return summary, fmt.Errorf("write batch summary: %w", err)
	}

	o.logger.Info("batch.done",
		"batch_id", summary.BatchID,
		"successful", successful,
		"failed", failed,
		"success_rate", summary.SuccessRate,
	)
	return summary, nil
}

// processOne runs the pipeline for one input inside a failure boundary: a
// panic escaping the pipeline is recovered and reported like any other
// document-level error.
func (o *Orchestrator) processOne(ctx context.Context, path string) (record *pipeline.DocumentRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	rec, err := o.proc.ProcessDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	out := filepath.Join(o.outputDir, stem(path)+"_processed.json")
	if err := writeJSON(out, rec); err != nil {
		return nil, fmt.Errorf("write document record: %w", err)
	}
	return &rec, nil
}

func successRate(successful, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(successful) / float64(total)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
