package ledger

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/concilia/internal/locale"
	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/tabular"
)

// Column names accepted by the bank-column layout.
var (
	colDate         = []string{"data", "data movimento", "datamovimento"}
	colValue        = []string{"valor"}
	colType         = []string{"tipo", "d/c", "c/d"}
	colCounterparty = []string{"cliente/fornecedor", "cliente fornecedor", "fornecedor", "cliente", "historico"}
	colBank         = []string{"banco"}
)

const noHistory = "SEM HISTORICO"

// importBankColumnFile reads a report with one row per movement; the bank
// column routes each row to its bank book.
func (imp *RuleImporter) importBankColumnFile(book *Book, path string) error {
	tbl, err := tabular.Read(path, imp.profile.tabularOptions())
	if err != nil {
		return err
	}
	if !tbl.Has(colBank...) {
		return fmt.Errorf("missing banco column")
	}

	for _, rec := range tbl.Records(imp.profile.HeaderRow + 2) {
		route, ok := imp.profile.Route(rec.Get(colBank...))
		if !ok {
			book.Skipped++
			continue
		}
		amount := locale.AmountOrZero(rec.Get(colValue...)).Abs()
		if amount.IsZero() {
			book.Skipped++
			continue
		}
		date, err := locale.ParseDate(rec.Get(colDate...))
		if err != nil {
			book.Skipped++
			continue
		}
		dir := model.Direction(strings.ToUpper(rec.Get(colType...)))
		if !dir.Valid() {
			book.Skipped++
			continue
		}
		history := rec.Get(colCounterparty...)
		if history == "" {
			history = noHistory
		}

		bank := book.Bank(route)
		e := imp.post(date, amount, dir, history, "", route)
		bank.Entries = append(bank.Entries, e)
		bank.Movements = append(bank.Movements, e.Movement())
	}
	return nil
}
