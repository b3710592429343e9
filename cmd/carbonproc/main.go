package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jankiewiet1/circav2-migration/constants"
	"github.com/jankiewiet1/circav2-migration/internal/batch"
	"github.com/jankiewiet1/circav2-migration/internal/common"
	"github.com/jankiewiet1/circav2-migration/internal/extract"
	"github.com/jankiewiet1/circav2-migration/internal/gateway"
	"github.com/jankiewiet1/circav2-migration/internal/pipeline"
)

var outputDir string

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:   "carbonproc",
		Short: "Extract structured carbon-emission line items from documents",
		Long: `carbonproc ingests digital PDFs, scanned PDFs, and spreadsheets and
produces structured carbon-emission line items using multi-strategy
extraction and an AI structured-extraction service.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&outputDir, "out", "", "output directory (default \"output\")")

	root.AddCommand(processCmd(logger), batchCmd(logger))

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func processCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "process <file>",
		Short: "Process a single document and print its result record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, _, err := buildProcessor(logger)
			if err != nil {
				return err
			}

			record, err := proc.ProcessDocument(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("process %s: %w", args[0], err)
			}

			b, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		},
	}
}

func batchCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <dir|files...>",
		Short: "Process many documents with per-item failure isolation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, cfg, err := buildProcessor(logger)
			if err != nil {
				return err
			}

			paths, err := expandInputs(args)
			if err != nil {
				return err
			}

			dir := outputDir
			if dir == "" {
				dir = cfg.Pipeline.OutputDir
			}
			orch := batch.NewOrchestrator(proc, dir, logger)
			summary, err := orch.Run(context.Background(), paths)
			if err != nil {
				return err
			}

			fmt.Printf("Batch %s complete: %d/%d successful (results in %s)\n",
				summary.BatchID, summary.Successful, summary.TotalFiles, dir)
			return nil
		},
	}
}

func buildProcessor(logger *slog.Logger) (*pipeline.Processor, *common.Config, error) {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	extractCfg := extract.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdfinfo:       cfg.OCR.Pdfinfo,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		Tabula:        cfg.OCR.Tabula,
		Camelot:       cfg.OCR.Camelot,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}

	runner := extract.ExecRunner{}
	native := extract.NewNativeExtractor(extractCfg, runner, logger)
	spreadsheet := extract.NewSpreadsheetExtractor(logger)
	plain := extract.NewPlainTextExtractor(logger)
	ocr := extract.NewOCRExtractor(extractCfg, runner, logger)
	tables := extract.NewTableRegistry(extractCfg, runner, logger)

	client := gateway.NewClient(gateway.Config{
		APIKey:      cfg.Gateway.APIKey,
		BaseURL:     cfg.Gateway.BaseURL,
		Model:       cfg.Gateway.Model,
		Temperature: cfg.Gateway.Temperature,
		Timeout:     cfg.Gateway.Timeout,
	}, logger)
	gw := gateway.NewService(client, logger)

	proc := pipeline.NewProcessor(
		pipeline.Config{ReviewThreshold: cfg.Pipeline.ReviewThreshold},
		native, spreadsheet, plain, ocr, tables, gw, logger,
	)
	return proc, cfg, nil
}

// expandInputs flattens directory arguments into their supported files in
// name order; plain file arguments pass through in input order.
func expandInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", arg, err)
		}
		var files []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := constants.NormalizeExt(filepath.Ext(e.Name()))
			if _, ok := constants.AllowedExtensions[ext]; ok {
				files = append(files, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(files)
		paths = append(paths, files...)
	}
	return paths, nil
}
