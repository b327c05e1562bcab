package knowledge

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LoadDocument reads the knowledge document at path. PDFs are converted to
// plain text; any other extension is read as text.
func LoadDocument(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return LoadPDF(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}
	return string(data), nil
}

// LoadPDF extracts the plain text of every page, one page per line.
// Pages without content are skipped.
func LoadPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", &LoadError{Path: path, Message: "failed to open pdf", Cause: err}
	}
	defer func() { _ = f.Close() }()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", &LoadError{Path: path, Message: "failed to extract page text", Cause: err}
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return "", &LoadError{Path: path, Message: "no extractable text"}
	}
	return strings.Join(pages, "\n"), nil
}
