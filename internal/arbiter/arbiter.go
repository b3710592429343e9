// Package arbiter decides which extraction method's text is authoritative
// for a document and merges the table outputs of every method into one
// ordered collection.
package arbiter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jankiewiet1/circav2-migration/constants"
	"github.com/jankiewiet1/circav2-migration/internal/extract"
)

// ScannedTextThreshold is the native text length (after trimming) below
// which a document is treated as scanned and OCR is invoked.
const ScannedTextThreshold = 100

// OCRRunner invokes the OCR adapter. The arbiter calls it lazily, only when
// the native text looks insufficient.
type OCRRunner func(ctx context.Context) extract.OCRResult

// Result is the arbitrated view of one document.
type Result struct {
	PrimaryText string
	Method      constants.Method
	Tables      []extract.RawTable

	// OCR diagnostics; zero-valued when OCR never ran or failed outright.
	OCRPages          int
	OCRMeanConfidence float64
}

type Arbiter struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Arbiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Arbiter{logger: logger}
}

// Arbitrate selects the primary text and unifies tables from all sources.
// Native tables come first, then each alternate extractor's tables in
// registry order. Tables are never deduplicated across methods.
func (a *Arbiter) Arbitrate(ctx context.Context, native extract.ExtractionResult, runOCR OCRRunner, altTables ...[]extract.RawTable) Result {
	res := Result{
		PrimaryText: native.Text,
		Method:      constants.MethodNative,
	}

	if len(strings.TrimSpace(native.Text)) < ScannedTextThreshold && runOCR != nil {
		a.logger.Info("arbiter.ocr_invoked", "native_text_len", len(strings.TrimSpace(native.Text)))
		ocr := runOCR(ctx)
		if ocr.Err != "" {
			a.logger.Warn("arbiter.ocr_failed", "error", ocr.Err)
		} else {
			res.OCRPages = len(ocr.Pages)
			res.OCRMeanConfidence = ocr.MeanConfidence()
		}
		if len(ocr.Text) > len(native.Text) {
			res.PrimaryText = ocr.Text
			res.Method = constants.MethodOCR
		}
	}

	res.Tables = append(res.Tables, native.Tables...)
	for _, tables := range altTables {
		res.Tables = append(res.Tables, tables...)
	}

	a.logger.Info("arbiter.done",
		"method", res.Method,
		"text_len", len(res.PrimaryText),
		"tables", len(res.Tables),
	)
	return res
}
