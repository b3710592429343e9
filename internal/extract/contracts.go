package extract

import "context"

// Extractor is one text-extraction strategy: document path -> ExtractionResult.
// Implementations never fail past their boundary; failures land in Err.
type Extractor interface {
	Extract(ctx context.Context, path string) ExtractionResult
}

// TableExtractor is one table-only strategy. Unavailable or failing
// implementations return an empty slice, never an error.
type TableExtractor interface {
	Name() string
	Tables(ctx context.Context, path string) []RawTable
}

// RawTable is a single extracted table, tagged with the method that found it.
// Invariant: every record has exactly the header key set.
type RawTable struct {
	Source  string              `json:"source"`
	Page    int                 `json:"page"`
	Headers []string            `json:"headers"`
	Records []map[string]string `json:"data"`
}

// RawPage is one page of extracted content.
type RawPage struct {
	Number int        `json:"page_number"` // 1-based
	Text   string     `json:"text"`
	BBox   [4]float64 `json:"bbox"`
	Tables []RawTable `json:"tables,omitempty"`
}

// Metadata carries method-specific document metadata where available.
type Metadata struct {
	TotalPages int    `json:"total_pages"`
	Title      string `json:"title,omitempty"`
	Author     string `json:"author,omitempty"`
}

// ExtractionResult is the per-method result. An empty Err means the method
// ran to completion, even if it found zero text.
type ExtractionResult struct {
	Text     string     `json:"text"`
	Pages    []RawPage  `json:"pages"`
	Metadata Metadata   `json:"metadata"`
	Tables   []RawTable `json:"tables,omitempty"`
	Err      string     `json:"error,omitempty"`
}

// OCRPage extends RawPage with token-confidence data.
type OCRPage struct {
	Number     int     `json:"page_number"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // mean token confidence, 0..100
	WordCount  int     `json:"word_count"`
}

// OCRResult is the OCR adapter's document-level result. Pages that failed
// OCR are absent from Pages.
type OCRResult struct {
	Text  string    `json:"text"`
	Pages []OCRPage `json:"pages"`
	Err   string    `json:"error,omitempty"`
}

// MeanConfidence returns the mean page confidence, 0 when no pages survived.
func (r OCRResult) MeanConfidence() float64 {
	if len(r.Pages) == 0 {
		return 0
	}
	var sum float64
	for _, p := range r.Pages {
		sum += p.Confidence
	}
	return sum / float64(len(r.Pages))
}
