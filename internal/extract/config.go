package extract

// Config locates the external extraction tools. Zero values fall back to
// the plain binary names on PATH.
type Config struct {
	Pdftotext string
	Pdfinfo   string
	Pdftoppm  string
	Tesseract string
	Tabula    string
	Camelot   string

	TesseractLang string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit
}

func (c *Config) applyDefaults() {
	if c.Pdftotext == "" {
		c.Pdftotext = "pdftotext"
	}
	if c.Pdfinfo == "" {
		c.Pdfinfo = "pdfinfo"
	}
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.Tabula == "" {
		c.Tabula = "tabula"
	}
	if c.Camelot == "" {
		c.Camelot = "camelot"
	}
	if c.TesseractLang == "" {
		c.TesseractLang = "eng"
	}
	if c.DPI <= 0 {
		c.DPI = 300
	}
}
