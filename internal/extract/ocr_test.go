package extract

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const tsvHeader = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n"

func tsvRow(conf, text string) string {
	return "5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t" + conf + "\t" + text + "\n"
}

// ocrRunner fakes pdftoppm (by writing page images) and tesseract.
func ocrRunner(t *testing.T, pages int, failPage string) *fakeRunner {
	t.Helper()
	return &fakeRunner{handlers: map[string]func(args ...string) ([]byte, []byte, error){
		"pdftoppm": func(args ...string) ([]byte, []byte, error) {
			prefix := args[len(args)-1]
			for i := 1; i <= pages; i++ {
				require.NoError(t, os.WriteFile(prefix+"-"+string(rune('0'+i))+".png", []byte("png"), 0o644))
			}
			return nil, nil, nil
		},
		"tesseract": func(args ...string) ([]byte, []byte, error) {
			img := args[0]
			if failPage != "" && strings.Contains(img, failPage) {
				return nil, []byte("Estimating resolution failed"), errors.New("exit status 1")
			}
			if args[len(args)-1] == "tsv" {
				return []byte(tsvHeader + tsvRow("90", "Total") + tsvRow("94", "42.50") + tsvRow("-1", "")), nil, nil
			}
			return []byte("Total 42.50 EUR"), nil, nil
		},
	}}
}

func TestOCRExtractorRecognizesPages(t *testing.T) {
	e := NewOCRExtractor(Config{}, ocrRunner(t, 2, ""), nil)

	res := e.Extract(context.Background(), "scan.pdf")

	require.Empty(t, res.Err)
	require.Len(t, res.Pages, 2)
	require.Contains(t, res.Text, "--- Page 1 (OCR) ---")
	require.Contains(t, res.Text, "--- Page 2 (OCR) ---")

	page := res.Pages[0]
	require.Equal(t, 1, page.Number)
	require.Equal(t, 3, page.WordCount)
	// mean of positive-confidence tokens only: (90 + 94) / 2
	require.InDelta(t, 92.0, page.Confidence, 1e-9)
	require.InDelta(t, 92.0, res.MeanConfidence(), 1e-9)
}

func TestOCRExtractorSkipsFailedPage(t *testing.T) {
	e := NewOCRExtractor(Config{}, ocrRunner(t, 3, "page-2"), nil)

	res := e.Extract(context.Background(), "scan.pdf")

	require.Empty(t, res.Err)
	require.Len(t, res.Pages, 2)
	require.Equal(t, 1, res.Pages[0].Number)
	require.Equal(t, 3, res.Pages[1].Number)
	require.NotContains(t, res.Text, "--- Page 2 (OCR) ---")
}

func TestOCRExtractorRasterizeFailure(t *testing.T) {
	runner := &fakeRunner{handlers: map[string]func(args ...string) ([]byte, []byte, error){
		"pdftoppm": func(args ...string) ([]byte, []byte, error) {
			return nil, []byte("Syntax Error"), errors.New("exit status 99")
		},
	}}
	e := NewOCRExtractor(Config{}, runner, nil)

	res := e.Extract(context.Background(), "scan.pdf")

	require.NotEmpty(t, res.Err)
	require.Empty(t, res.Pages)
	require.Zero(t, res.MeanConfidence())
}

func TestOCRExtractorZeroConfidencePage(t *testing.T) {
	runner := ocrRunner(t, 1, "")
	runner.handlers["tesseract"] = func(args ...string) ([]byte, []byte, error) {
		if args[len(args)-1] == "tsv" {
			// nothing detected: every token has conf -1
			return []byte(tsvHeader + tsvRow("-1", "")), nil, nil
		}
		return []byte(""), nil, nil
	}
	e := NewOCRExtractor(Config{}, runner, nil)

	res := e.Extract(context.Background(), "blank.pdf")

	require.Empty(t, res.Err)
	require.Len(t, res.Pages, 1)
	require.Zero(t, res.Pages[0].Confidence)
	require.Zero(t, res.Pages[0].WordCount)
}

func TestExtractImageSinglePage(t *testing.T) {
	calls := &fakeRunner{handlers: map[string]func(args ...string) ([]byte, []byte, error){
		"tesseract": func(args ...string) ([]byte, []byte, error) {
			require.Equal(t, "receipt.jpg", args[0])
			if args[len(args)-1] == "tsv" {
				return []byte(tsvHeader + tsvRow("88", "Diesel") + tsvRow("92", "40.2L")), nil, nil
			}
			return []byte("Diesel 40.2L"), nil, nil
		},
	}}
	e := NewOCRExtractor(Config{}, calls, nil)

	res := e.ExtractImage(context.Background(), "receipt.jpg")

	require.Empty(t, res.Err)
	require.Len(t, res.Pages, 1)
	require.Equal(t, "Diesel 40.2L", res.Text)
	require.InDelta(t, 90.0, res.MeanConfidence(), 1e-9)
	// no rasterization step for a standalone image
	require.NotContains(t, calls.calls, "pdftoppm")
}

func TestExtractImageFailure(t *testing.T) {
	runner := &fakeRunner{handlers: map[string]func(args ...string) ([]byte, []byte, error){
		"tesseract": func(args ...string) ([]byte, []byte, error) {
			return nil, []byte("Cannot open input file"), errors.New("exit status 1")
		},
	}}
	e := NewOCRExtractor(Config{}, runner, nil)

	res := e.ExtractImage(context.Background(), "broken.png")

	require.NotEmpty(t, res.Err)
	require.Empty(t, res.Pages)
	require.Empty(t, res.Text)
}

func TestOCRExtractorMaxPages(t *testing.T) {
	e := NewOCRExtractor(Config{MaxPages: 1}, ocrRunner(t, 3, ""), nil)

	res := e.Extract(context.Background(), "scan.pdf")

	require.Len(t, res.Pages, 1)
}
