// Package tabular reduces ledger and mapping sources (CSV, XLSX, XLS) to
// header-keyed records.
package tabular

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/concilia/internal/textnorm"
)

// ErrUnsupported is returned for file extensions no reader handles.
var ErrUnsupported = errors.New("unsupported file type")

// Encoding names accepted for CSV sources.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

// Options control how a source is read.
type Options struct {
	Delimiter rune   // CSV only, default ';'
	Encoding  string // CSV only, default utf-8 (a BOM is always honoured)
	HeaderRow int    // zero-based row holding the column names
	Sheet     string // spreadsheets only, default first sheet
}

// Table is a source reduced to normalized headers and raw cell rows.
type Table struct {
	Headers []string
	Rows    [][]string
	index   map[string]int
}

// Record is one data row bound to its table's headers.
type Record struct {
	table *Table
	cells []string
	Line  int // 1-based line in the source, for diagnostics
}

// NewTable builds a Table; header names are normalized and blank data rows dropped.
func NewTable(headers []string, rows [][]string) *Table {
	t := &Table{index: make(map[string]int, len(headers))}
	for i, h := range headers {
		key := textnorm.Normalize(h)
		t.Headers = append(t.Headers, key)
		if _, ok := t.index[key]; !ok && key != "" {
			t.index[key] = i
		}
	}
	for _, r := range rows {
		if !blank(r) {
			t.Rows = append(t.Rows, r)
		}
	}
	return t
}

// Records returns every data row. firstLine is the source line of Rows[0].
func (t *Table) Records(firstLine int) []Record {
	recs := make([]Record, len(t.Rows))
	for i, r := range t.Rows {
		recs[i] = Record{table: t, cells: r, Line: firstLine + i}
	}
	return recs
}

// Has reports whether any of the named columns exists.
func (t *Table) Has(names ...string) bool {
	_, ok := t.column(names...)
	return ok
}

func (t *Table) column(names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := t.index[textnorm.Normalize(n)]; ok {
			return i, true
		}
	}
	return 0, false
}

// Get returns the trimmed cell of the first named column present, or "".
func (r Record) Get(names ...string) string {
	i, ok := r.table.column(names...)
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// At returns the trimmed cell at a column position, or "".
func (r Record) At(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// Cells returns the raw cells.
func (r Record) Cells() []string { return r.cells }

// Read dispatches on the file extension and splits off the header row.
func Read(path string, opts Options) (*Table, error) {
	rows, err := ReadRows(path, opts)
	if err != nil {
		return nil, err
	}
	return split(rows, opts.HeaderRow), nil
}

// ReadRows returns every row of the source as raw cells.
func ReadRows(path string, opts Options) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		rows, err = readCSV(path, opts)
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path, opts)
	case ".xls":
		rows, err = readXLS(path, opts)
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func split(rows [][]string, headerRow int) *Table {
	if headerRow < 0 || headerRow >= len(rows) {
		return NewTable(nil, nil)
	}
	return NewTable(rows[headerRow], rows[headerRow+1:])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
