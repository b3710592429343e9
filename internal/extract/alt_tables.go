package extract

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jankiewiet1/circav2-migration/constants"
)

// tabulaExtractor shells out to the tabula CLI, which emits one JSON array
// of tables for the whole document.
type tabulaExtractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func (t *tabulaExtractor) Name() string { return constants.SourceTabula }

func (t *tabulaExtractor) Tables(ctx context.Context, path string) []RawTable {
	// tabula -f JSON -p all <pdf>
	out, errb, err := t.runner.Run(ctx, t.cfg.Tabula, "-f", "JSON", "-p", "all", path)
	if err != nil {
		t.logger.Error("extract.tabula.failed", "path", path, "error", err, "stderr", truncate(string(errb), 2<<10))
		return nil
	}

	var raw []struct {
		Data [][]struct {
			Text string `json:"text"`
		} `json:"data"`
	}
	if err := json.Unmarshal(out, &raw); err != nil {
		t.logger.Error("extract.tabula.decode_failed", "path", path, "error", err)
		return nil
	}

	var tables []RawTable
	for _, entry := range raw {
		grid := make([][]string, 0, len(entry.Data))
		for _, row := range entry.Data {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				cells = append(cells, strings.TrimSpace(c.Text))
			}
			grid = append(grid, cells)
		}
		if table, ok := tableFromGrid(grid, constants.SourceTabula); ok {
			tables = append(tables, table)
		}
	}
	t.logger.Info("extract.tabula.ok", "path", path, "tables", len(tables))
	return tables
}

// camelotExtractor shells out to the camelot CLI, which writes one CSV file
// per detected table into an output directory.
type camelotExtractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func (c *camelotExtractor) Name() string { return constants.SourceCamelot }

func (c *camelotExtractor) Tables(ctx context.Context, path string) []RawTable {
	tmpDir, err := os.MkdirTemp("", "cc-camelot-*")
	if err != nil {
		c.logger.Error("extract.camelot.tmp_failed", "error", err)
		return nil
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			c.logger.Warn("extract.camelot.tmp_cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	out := filepath.Join(tmpDir, "tables.csv")
	// camelot -p all -f csv -o <out> lattice <pdf>
	if _, errb, err := c.runner.Run(ctx, c.cfg.Camelot, "-p", "all", "-f", "csv", "-o", out, "lattice", path); err != nil {
		c.logger.Error("extract.camelot.failed", "path", path, "error", err, "stderr", truncate(string(errb), 2<<10))
		return nil
	}

	// camelot names the files tables-page-<N>-table-<M>.csv
	matches, _ := filepath.Glob(filepath.Join(tmpDir, "*.csv"))
	sort.Strings(matches)

	var tables []RawTable
	for _, file := range matches {
		grid, err := readCSVGrid(file)
		if err != nil {
			c.logger.Warn("extract.camelot.csv_failed", "file", file, "error", err)
			continue
		}
		if table, ok := tableFromGrid(grid, constants.SourceCamelot); ok {
			tables = append(tables, table)
		}
	}
	c.logger.Info("extract.camelot.ok", "path", path, "tables", len(tables))
	return tables
}

func readCSVGrid(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// tableFromGrid turns a raw cell grid into a RawTable, padding ragged rows
// so every record keeps the full header key set.
func tableFromGrid(grid [][]string, source string) (RawTable, bool) {
	if len(grid) < 2 || len(grid[0]) == 0 {
		return RawTable{}, false
	}
	headers := uniqueHeaders(grid[0])
	records := make([]map[string]string, 0, len(grid)-1)
	for _, row := range grid[1:] {
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return RawTable{Source: source, Headers: headers, Records: records}, true
}
