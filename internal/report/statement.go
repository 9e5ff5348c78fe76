package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/concilia/internal/atomicfile"
	"github.com/cleared-dev/concilia/internal/model"
)

const statementSheet = "Extrato"

var statementHeader = []interface{}{"data", "descricao", "valor", "tipo", "banco"}

// WriteStatement exports canonical statement rows to a workbook at path.
func WriteStatement(path string, txns []model.Transaction) error {
	if err := atomicfile.Write(path, func(w io.Writer) error {
		return writeStatementXLSX(w, txns)
	}); err != nil {
		return fmt.Errorf("writing statement: %w", err)
	}
	return nil
}

func writeStatementXLSX(w io.Writer, txns []model.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", statementSheet); err != nil {
		return err
	}
	if err := setRow(f, statementSheet, 1, statementHeader); err != nil {
		return err
	}
	for i, t := range txns {
		row := []interface{}{
			t.Date.Format(sheetDateFormat),
			t.Description,
			t.Amount.InexactFloat64(),
			string(t.Direction),
			t.Bank,
		}
		if err := setRow(f, statementSheet, i+2, row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
