package report

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/concilia/internal/reconcile"
)

const sheetDateFormat = "02/01/2006"

// reconciliationHeader lists the columns of a summary sheet. Aggregate
// results get one statement column per bank plus their sum.
func reconciliationHeader(r reconcile.Result) []interface{} {
	if len(r.Banks) == 0 {
		return []interface{}{"data", "total_relatorio", "total_extrato", "diferenca", "status_conciliacao"}
	}
	header := []interface{}{"data", "total_relatorio"}
	for _, b := range r.Banks {
		header = append(header, b+"_extrato")
	}
	return append(header, "total_bancos", "diferenca", "status_conciliacao")
}

func reconciliationRows(r reconcile.Result) [][]interface{} {
	rows := make([][]interface{}, 0, len(r.Rows))
	for _, s := range r.Rows {
		row := []interface{}{s.Date.Format(sheetDateFormat), s.LedgerTotal.InexactFloat64()}
		for _, b := range r.Banks {
			row = append(row, s.StatementTotals[b].InexactFloat64())
		}
		row = append(row, s.StatementTotal.InexactFloat64(), s.Difference.InexactFloat64(), string(s.Status))
		rows = append(rows, row)
	}
	return rows
}

func writeReconciliationXLSX(w io.Writer, results []reconcile.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, r := range results {
		sheet := r.Direction.Label()
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := setRow(f, sheet, 1, reconciliationHeader(r)); err != nil {
			return err
		}
		for j, row := range reconciliationRows(r) {
			if err := setRow(f, sheet, j+2, row); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}
