package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// OCRExtractor rasterizes each PDF page and recognizes it with tesseract.
// A single page's OCR failure is logged and skipped; that page is simply
// absent from the result.
type OCRExtractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewOCRExtractor(cfg Config, runner Runner, logger *slog.Logger) *OCRExtractor {
	cfg.applyDefaults()
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRExtractor{cfg: cfg, runner: runner, logger: logger}
}

func (e *OCRExtractor) Extract(ctx context.Context, path string) OCRResult {
	e.logger.Info("extract.ocr.start", "path", path, "dpi", e.cfg.DPI)

	var result OCRResult

	tmpDir, err := os.MkdirTemp("", "cc-ocr-*")
	if err != nil {
		result.Err = err.Error()
		return result
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("extract.ocr.tmp_cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		e.logger.Error("extract.ocr.rasterize_failed", "path", path, "error", err, "stderr", truncate(string(errb), 2<<10))
		result.Err = err.Error()
		return result
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		result.Err = "pdftoppm produced no images"
		return result
	}

	var b strings.Builder
	for i, img := range matches {
		pageNum := i + 1
		page, err := e.recognizePage(ctx, img, pageNum)
		if err != nil {
			e.logger.Error("extract.ocr.page_failed", "path", path, "page", pageNum, "error", err)
			continue
		}
		fmt.Fprintf(&b, "\n--- Page %d (OCR) ---\n%s", pageNum, page.Text)
		result.Pages = append(result.Pages, page)
	}
	result.Text = b.String()

	e.logger.Info("extract.ocr.ok",
		"path", path,
		"pages", len(result.Pages),
		"text_len", len(result.Text),
		"mean_confidence", result.MeanConfidence(),
	)
	return result
}

// ExtractImage recognizes a standalone image file. No rasterization step;
// the image is fed to tesseract as a single page.
func (e *OCRExtractor) ExtractImage(ctx context.Context, path string) OCRResult {
	e.logger.Info("extract.image.start", "path", path)

	var result OCRResult
	page, err := e.recognizePage(ctx, path, 1)
	if err != nil {
		e.logger.Error("extract.image.failed", "path", path, "error", err)
		result.Err = err.Error()
		return result
	}
	result.Pages = []OCRPage{page}
	result.Text = page.Text

	e.logger.Info("extract.image.ok",
		"path", path,
		"text_len", len(result.Text),
		"confidence", page.Confidence,
	)
	return result
}

func (e *OCRExtractor) recognizePage(ctx context.Context, img string, pageNum int) (OCRPage, error) {
	// tesseract <img> stdout -l <lang> --psm 6
	args := []string{img, "stdout", "-l", e.cfg.TesseractLang, "--psm", "6"}
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return OCRPage{}, fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	text := string(out)

	conf, err := e.pageConfidence(ctx, img)
	if err != nil {
		// keep the recognized text; confidence stays 0
		e.logger.Warn("extract.ocr.confidence_failed", "img", img, "error", err)
		conf = 0
	}

	return OCRPage{
		Number:     pageNum,
		Text:       text,
		Confidence: conf,
		WordCount:  len(strings.Fields(text)),
	}, nil
}

// pageConfidence runs tesseract in TSV mode and returns the mean token
// confidence in 0..100. Tokens with non-positive confidence (no detection)
// are excluded; with no positive tokens the page confidence is 0.
func (e *OCRExtractor) pageConfidence(ctx context.Context, img string) (float64, error) {
	args := []string{img, "stdout", "-l", e.cfg.TesseractLang, "--psm", "6", "tsv"}
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract tsv: %w (%s)", err, truncate(string(errb), 512))
	}

	var sum float64
	var n int
	lines := strings.Split(string(out), "\n")
	for i, ln := range lines {
		if i == 0 || ln == "" {
			continue // header
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf <= 0 {
			continue
		}
		sum += conf
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}
