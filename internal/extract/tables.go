package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jankiewiet1/circav2-migration/constants"
)

var reColumnGap = regexp.MustCompile(`\s{2,}`)

// parseLayoutTables finds aligned-column tables in pdftotext -layout output.
// Consecutive lines that split into the same number of columns (two or more)
// form a candidate table. A table needs a header row plus at least one data
// row; single-row blocks are discarded as noise.
func parseLayoutTables(pageText string, page int) []RawTable {
	var tables []RawTable
	var block [][]string

	flush := func() {
		if t, ok := tableFromBlock(block, page); ok {
			tables = append(tables, t)
		}
		block = nil
	}

	for _, line := range strings.Split(pageText, "\n") {
		cells := splitColumns(line)
		if len(cells) < 2 {
			flush()
			continue
		}
		if len(block) > 0 && len(block[0]) != len(cells) {
			flush()
		}
		block = append(block, cells)
	}
	flush()

	return tables
}

func splitColumns(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return reColumnGap.Split(line, -1)
}

func tableFromBlock(block [][]string, page int) (RawTable, bool) {
	if len(block) < 2 {
		return RawTable{}, false
	}
	headers := uniqueHeaders(block[0])
	records := make([]map[string]string, 0, len(block)-1)
	for _, row := range block[1:] {
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			rec[h] = row[i]
		}
		records = append(records, rec)
	}
	return RawTable{
		Source:  constants.SourceNative,
		Page:    page,
		Headers: headers,
		Records: records,
	}, true
}

// uniqueHeaders disambiguates duplicate column names so that every record
// keeps exactly the header key set.
func uniqueHeaders(row []string) []string {
	seen := make(map[string]int, len(row))
	out := make([]string, len(row))
	for i, h := range row {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		seen[h]++
		if n := seen[h]; n > 1 {
			h = fmt.Sprintf("%s_%d", h, n)
		}
		out[i] = h
	}
	return out
}
