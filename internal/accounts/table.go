package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/concilia/internal/atomicfile"
	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/tabular"
)

// Kind describes the two columns of a mapping table.
type Kind struct {
	NameColumn string
	CodeColumn string
}

var (
	// DePara is the explicit name to account table.
	DePara = Kind{NameColumn: "nome", CodeColumn: "codigo"}
	// Suppliers is the supplier base.
	Suppliers = Kind{NameColumn: "fornecedor", CodeColumn: "codigo"}
)

const sheetName = "Sheet1"

// ReadMappings reads a mapping table from CSV, XLSX or XLS. Rows without a
// name or code are skipped.
func ReadMappings(path string, kind Kind) ([]model.Mapping, error) {
	tbl, err := tabular.Read(path, tabular.Options{})
	if err != nil {
		return nil, err
	}
	if !tbl.Has(kind.NameColumn) || !tbl.Has(kind.CodeColumn) {
		return nil, fmt.Errorf("%s: expected columns %q and %q", filepath.Base(path), kind.NameColumn, kind.CodeColumn)
	}

	var mappings []model.Mapping
	for _, rec := range tbl.Records(2) {
		m := UnmarshalMapping(rec.Get(kind.NameColumn), rec.Get(kind.CodeColumn))
		if m.Name == "" || m.Code == "" {
			continue
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}

// UnmarshalMapping cleans a raw name/code pair. Spreadsheet codes that were
// stored as floats lose their ".0" suffix.
func UnmarshalMapping(name, code string) model.Mapping {
	code = strings.TrimSpace(code)
	code = strings.TrimSuffix(code, ".0")
	return model.Mapping{Name: strings.TrimSpace(name), Code: code}
}

// MarshalMapping converts a Mapping to a table row.
func MarshalMapping(m model.Mapping) []string {
	return []string{m.Name, m.Code}
}

// WriteMappings replaces the table at path. The format follows the extension:
// .csv is written with ';', anything else as an XLSX workbook.
func WriteMappings(path string, kind Kind, mappings []model.Mapping) error {
	return atomicfile.Write(path, func(w io.Writer) error {
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			return writeCSV(w, kind, mappings)
		}
		return writeXLSX(w, kind, mappings)
	})
}

func writeCSV(w io.Writer, kind Kind, mappings []model.Mapping) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write([]string{kind.NameColumn, kind.CodeColumn}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, m := range mappings {
		if err := cw.Write(MarshalMapping(m)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, kind Kind, mappings []model.Mapping) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(sheetName, "A1", &[]interface{}{kind.NameColumn, kind.CodeColumn}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, m := range mappings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &[]interface{}{m.Name, m.Code}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}
