package report

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/concilia/internal/model"
)

const entriesSheet = "Lancamentos"

var entriesHeader = []interface{}{
	"id", "data", "descricao", "valor", "tipo",
	"conta_debito", "conta_credito", "fornecedor", "banco", "origem",
}

func writeEntriesXLSX(w io.Writer, entries []model.Entry, ids []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", entriesSheet); err != nil {
		return err
	}
	if err := setRow(f, entriesSheet, 1, entriesHeader); err != nil {
		return err
	}
	for i, e := range entries {
		row := []interface{}{
			ids[i],
			e.Date.Format(sheetDateFormat),
			e.Description,
			e.Amount.InexactFloat64(),
			string(e.Direction),
			e.DebitAccount,
			e.CreditAccount,
			e.Counterparty,
			e.Bank,
			string(e.Source),
		}
		if err := setRow(f, entriesSheet, i+2, row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
