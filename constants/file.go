package constants

import "strings"

// FileFormat is the coarse input format the pipeline dispatches on.
type FileFormat string

const (
	PDF         FileFormat = "PDF"
	SPREADSHEET FileFormat = "SPREADSHEET"
	CSVFile     FileFormat = "CSV"
	IMAGE       FileFormat = "IMAGE"
	TEXT        FileFormat = "TEXT"
)

// AllowedExtensions holds the file extensions accepted for processing.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"xlsx": {},
	"xls":  {},
	"csv":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"txt":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to its FileFormat.
// Returns "" for unsupported extensions.
func MapExtToFormat(ext string) FileFormat {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "xlsx", "xls":
		return SPREADSHEET
	case "csv":
		return CSVFile
	case "jpg", "jpeg", "png":
		return IMAGE
	case "txt":
		return TEXT
	default:
		return ""
	}
}
