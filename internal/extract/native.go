package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// NativeExtractor pulls the internal text and table structures out of a
// digital PDF, page by page. Scanned PDFs come back with little or no text;
// that is not an error.
type NativeExtractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewNativeExtractor(cfg Config, runner Runner, logger *slog.Logger) *NativeExtractor {
	cfg.applyDefaults()
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NativeExtractor{cfg: cfg, runner: runner, logger: logger}
}

func (e *NativeExtractor) Extract(ctx context.Context, path string) ExtractionResult {
	e.logger.Info("extract.native.start", "path", path)

	var result ExtractionResult

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		e.logger.Error("extract.native.failed", "path", path, "error", err, "stderr", truncate(string(errb), 2<<10))
		result.Err = err.Error()
		return result
	}

	meta, bbox := e.documentInfo(ctx, path)
	result.Metadata = meta

	// A form-feed \f separates pages in pdftotext output.
	pageTexts := strings.Split(string(out), "\f")
	if result.Metadata.TotalPages == 0 {
		result.Metadata.TotalPages = len(pageTexts)
	}

	var b strings.Builder
	for i, pageText := range pageTexts {
		page := RawPage{
			Number: i + 1,
			Text:   pageText,
			BBox:   bbox,
			Tables: parseLayoutTables(pageText, i+1),
		}
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s", page.Number, pageText)
		result.Tables = append(result.Tables, page.Tables...)
		result.Pages = append(result.Pages, page)
	}
	result.Text = b.String()

	e.logger.Info("extract.native.ok",
		"path", path,
		"pages", len(result.Pages),
		"text_len", len(result.Text),
		"tables", len(result.Tables),
	)
	return result
}

// documentInfo reads title/author/page geometry via pdfinfo. Best effort;
// a missing or failing pdfinfo leaves the metadata empty.
func (e *NativeExtractor) documentInfo(ctx context.Context, path string) (Metadata, [4]float64) {
	var meta Metadata
	var bbox [4]float64

	out, _, err := e.runner.Run(ctx, e.cfg.Pdfinfo, path)
	if err != nil {
		e.logger.Warn("extract.native.pdfinfo_failed", "path", path, "error", err)
		return meta, bbox
	}

	for _, line := range strings.Split(string(out), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Title":
			meta.Title = value
		case "Author":
			meta.Author = value
		case "Pages":
			if n, err := strconv.Atoi(value); err == nil {
				meta.TotalPages = n
			}
		case "Page size":
			// e.g. "612 x 792 pts (letter)"
			fields := strings.Fields(value)
			if len(fields) >= 3 && fields[1] == "x" {
				w, werr := strconv.ParseFloat(fields[0], 64)
				h, herr := strconv.ParseFloat(fields[2], 64)
				if werr == nil && herr == nil {
					bbox = [4]float64{0, 0, w, h}
				}
			}
		}
	}
	return meta, bbox
}
