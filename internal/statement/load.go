package statement

import (
	"path/filepath"
	"strings"

	"github.com/cleared-dev/concilia/internal/pdftext"
	"github.com/cleared-dev/concilia/internal/tabular"
)

// Load extracts a statement file. PDFs go through text extraction; CSV and
// spreadsheet exports become a single page of table rows.
func Load(path string) (*pdftext.Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdftext.Extract(path, pdftext.DefaultOptions)
	}
	rows, err := tabular.ReadRows(path, tabular.Options{})
	if err != nil {
		return nil, err
	}
	return pdftext.FromRows(path, rows...), nil
}
