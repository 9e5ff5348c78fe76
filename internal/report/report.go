// Package report writes the accounting-entry exports and the reconciliation
// workbooks. Every artifact is written atomically.
package report

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/concilia/internal/atomicfile"
	"github.com/cleared-dev/concilia/internal/id"
	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/reconcile"
	"github.com/cleared-dev/concilia/internal/textnorm"
)

// ErrInvalidEntry is returned when entries fail validation; nothing is written.
var ErrInvalidEntry = errors.New("invalid accounting entry")

// Artifact names.
const (
	EntriesXLSX      = "lancamentos_contabeis.xlsx"
	EntriesTXT       = "lancamentos_contabeis.txt"
	ConsolidatedXLSX = "conciliacao_consolidada.xlsx"
)

// ReconciliationFile names the workbook for one bank.
func ReconciliationFile(bank string) string {
	return "conciliacao_" + textnorm.Slug(bank) + ".xlsx"
}

// Writer writes artifacts into Dir.
type Writer struct {
	Dir string
	// TXTEncoding is utf-8 (default) or windows-1252.
	TXTEncoding string
}

// WriteEntries validates entries and writes the spreadsheet and the TXT
// export. No entries means no files. Returns the paths written.
func (w *Writer) WriteEntries(entries []model.Entry) ([]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	ids := AssignIDs(entries)
	if errs := ValidateEntries(entries, ids); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %d problem(s), first: %v", ErrInvalidEntry, len(errs), errs[0])
	}

	xlsxPath := filepath.Join(w.Dir, EntriesXLSX)
	if err := atomicfile.Write(xlsxPath, func(out io.Writer) error {
		return writeEntriesXLSX(out, entries, ids)
	}); err != nil {
		return nil, fmt.Errorf("writing %s: %w", EntriesXLSX, err)
	}

	txtPath := filepath.Join(w.Dir, EntriesTXT)
	if err := atomicfile.Write(txtPath, func(out io.Writer) error {
		return WriteTXT(out, entries, w.TXTEncoding)
	}); err != nil {
		return []string{xlsxPath}, fmt.Errorf("writing %s: %w", EntriesTXT, err)
	}
	return []string{xlsxPath, txtPath}, nil
}

// WriteReconciliation writes one workbook with an "Entradas" and a "Saidas"
// sheet. Empty results get no sheet; when both are empty nothing is written
// and the returned path is "".
func (w *Writer) WriteReconciliation(name string, results ...reconcile.Result) (string, error) {
	var nonEmpty []reconcile.Result
	for _, r := range results {
		if !r.Empty() {
			nonEmpty = append(nonEmpty, r)
		}
	}
	if len(nonEmpty) == 0 {
		return "", nil
	}
	path := filepath.Join(w.Dir, name)
	if err := atomicfile.Write(path, func(out io.Writer) error {
		return writeReconciliationXLSX(out, nonEmpty)
	}); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

// AssignIDs numbers entries per month in slice order.
func AssignIDs(entries []model.Entry) []string {
	seq := id.NewSequencer()
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = seq.Next(e.Date)
	}
	return ids
}

// setRow writes values starting at column A of the 1-based row.
func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}
