package extract

import (
	"context"
	"log/slog"
	"os"
)

// PlainTextExtractor reads already-textual inputs verbatim.
type PlainTextExtractor struct {
	logger *slog.Logger
}

func NewPlainTextExtractor(logger *slog.Logger) *PlainTextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlainTextExtractor{logger: logger}
}

func (e *PlainTextExtractor) Extract(_ context.Context, path string) ExtractionResult {
	var result ExtractionResult

	b, err := os.ReadFile(path)
	if err != nil {
		e.logger.Error("extract.plain.failed", "path", path, "error", err)
		result.Err = err.Error()
		return result
	}
	result.Text = string(b)
	result.Pages = []RawPage{{Number: 1, Text: result.Text}}

	e.logger.Info("extract.plain.ok", "path", path, "text_len", len(result.Text))
	return result
}
