// Package pipeline runs one document through every extraction strategy,
// arbitration, classification, and the structured-extraction gateway, and
// assembles the full per-document result record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jankiewiet1/circav2-migration/constants"
	"github.com/jankiewiet1/circav2-migration/internal/arbiter"
	"github.com/jankiewiet1/circav2-migration/internal/common"
	"github.com/jankiewiet1/circav2-migration/internal/classify"
	"github.com/jankiewiet1/circav2-migration/internal/extract"
	"github.com/jankiewiet1/circav2-migration/internal/gateway"
)

// DefaultReviewThreshold is the policy default below which a document's
// extraction confidence flags it for manual review.
const DefaultReviewThreshold = 0.8

// Config holds processing policy for the pipeline.
type Config struct {
	ReviewThreshold float64 // default 0.8
}

// Diagnostics captures per-method extraction counts for one document.
type Diagnostics struct {
	NativeTables      int     `json:"native_tables"`
	TabulaTables      int     `json:"tabula_tables"`
	CamelotTables     int     `json:"camelot_tables"`
	OCRPages          int     `json:"ocr_pages"`
	OCRMeanConfidence float64 `json:"ocr_mean_confidence"`
}

// Summary is the derived per-document rollup.
type Summary struct {
	EntriesExtracted int     `json:"entries_extracted"`
	Confidence       float64 `json:"confidence"`
	RequiresReview   bool    `json:"requires_review"`
}

// DocumentRecord is the full per-document output.
type DocumentRecord struct {
	Filename            string                 `json:"filename"`
	ProcessingTimestamp string                 `json:"processing_timestamp"`
	ExtractionMethod    constants.Method       `json:"extraction_method"`
	DocumentType        constants.DocumentType `json:"document_type"`
	TextLength          int                    `json:"text_length"`
	TablesFound         int                    `json:"tables_found"`
	Diagnostics         Diagnostics            `json:"diagnostics"`
	CarbonData          gateway.Result         `json:"carbon_data"`
	Summary             Summary                `json:"summary"`
}

// Processor composes the extractor adapters, arbiter, classifier, and
// gateway into the single-document pipeline.
type Processor struct {
	cfg         Config
	native      extract.Extractor
	spreadsheet extract.Extractor
	plain       extract.Extractor
	ocr         *extract.OCRExtractor
	tables      []extract.TableExtractor
	arbiter     *arbiter.Arbiter
	gateway     *gateway.Service
	logger      *slog.Logger
}

func NewProcessor(
	cfg Config,
	native extract.Extractor,
	spreadsheet extract.Extractor,
	plain extract.Extractor,
	ocr *extract.OCRExtractor,
	tables []extract.TableExtractor,
	gw *gateway.Service,
	logger *slog.Logger,
) *Processor {
	if cfg.ReviewThreshold <= 0 {
		cfg.ReviewThreshold = DefaultReviewThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		cfg:         cfg,
		native:      native,
		spreadsheet: spreadsheet,
		plain:       plain,
		ocr:         ocr,
		tables:      tables,
		arbiter:     arbiter.New(logger),
		gateway:     gw,
		logger:      logger,
	}
}

// ProcessDocument runs the full pipeline for one input file. It returns an
// error only for document-level failures (unreadable file, unsupported
// format); extraction and service failures are contained below this layer.
func (p *Processor) ProcessDocument(ctx context.Context, path string) (DocumentRecord, error) {
	filename := filepath.Base(path)
	p.logger.Info("pipeline.start", "file", filename)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DocumentRecord{}, fmt.Errorf("%w: %s", common.ErrNotFound, path)
		}
		return DocumentRecord{}, common.WrapError(err, "stat input")
	}

	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		return DocumentRecord{}, fmt.Errorf("%w: %q", common.ErrUnsupported, filepath.Ext(path))
	}

	diag := Diagnostics{}
	var arb arbiter.Result

	switch format {
	case constants.SPREADSHEET, constants.CSVFile:
		native := p.spreadsheet.Extract(ctx, path)
		diag.NativeTables = len(native.Tables)
		arb = p.arbiter.Arbitrate(ctx, native, nil)

	case constants.TEXT:
		native := p.plain.Extract(ctx, path)
		if native.Err != "" {
			return DocumentRecord{}, fmt.Errorf("read text input: %s", native.Err)
		}
		arb = p.arbiter.Arbitrate(ctx, native, nil)

	case constants.IMAGE:
		ocr := p.ocr.ExtractImage(ctx, path)
		if ocr.Err != "" {
			return DocumentRecord{}, fmt.Errorf("image ocr: %s", ocr.Err)
		}
		diag.OCRPages = len(ocr.Pages)
		diag.OCRMeanConfidence = ocr.MeanConfidence()
		arb = arbiter.Result{PrimaryText: ocr.Text, Method: constants.MethodOCR}

	default:
		native := p.native.Extract(ctx, path)
		var runOCR arbiter.OCRRunner
		if p.ocr != nil {
			runOCR = func(ctx context.Context) extract.OCRResult {
				return p.ocr.Extract(ctx, path)
			}
		}
		var altTables [][]extract.RawTable
		for _, te := range p.tables {
			tables := te.Tables(ctx, path)
			altTables = append(altTables, tables)
			switch te.Name() {
			case constants.SourceTabula:
				diag.TabulaTables = len(tables)
			case constants.SourceCamelot:
				diag.CamelotTables = len(tables)
			}
		}
		diag.NativeTables = len(native.Tables)
		arb = p.arbiter.Arbitrate(ctx, native, runOCR, altTables...)
		diag.OCRPages = arb.OCRPages
		diag.OCRMeanConfidence = arb.OCRMeanConfidence
	}

	docType := classify.DocumentType(filename, arb.PrimaryText)

	carbonData := p.gateway.Extract(ctx, gateway.ExtractRequest{
		DocumentType: docType,
		Text:         arb.PrimaryText,
		Tables:       arb.Tables,
	})

	record := DocumentRecord{
		Filename:            filename,
		ProcessingTimestamp: time.Now().UTC().Format(time.RFC3339),
		ExtractionMethod:    arb.Method,
		DocumentType:        docType,
		TextLength:          len(arb.PrimaryText),
		TablesFound:         len(arb.Tables),
		Diagnostics:         diag,
		CarbonData:          carbonData,
		Summary: Summary{
			EntriesExtracted: len(carbonData.Entries),
			Confidence:       carbonData.ExtractionConfidence,
			RequiresReview:   carbonData.ExtractionConfidence < p.cfg.ReviewThreshold,
		},
	}

	p.logger.Info("pipeline.done",
		"file", filename,
		"method", record.ExtractionMethod,
		"document_type", record.DocumentType,
		"entries", record.Summary.EntriesExtracted,
		"confidence", record.Summary.Confidence,
		"requires_review", record.Summary.RequiresReview,
	)
	return record, nil
}
