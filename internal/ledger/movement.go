package ledger

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/concilia/internal/locale"
	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/tabular"
	"github.com/cleared-dev/concilia/internal/textnorm"
)

// Column names accepted by the movement layout, first match wins.
var (
	colMovementDate  = []string{"datamovimento", "data movimento", "data_movimento", "data"}
	colMovementTotal = []string{"valormovimento", "valor movimento", "valor_movimento"}
	colEntrada       = []string{"valorentrada", "valor entrada", "valor_entrada", "entrada"}
	colSaida         = []string{"valorsaida", "valor saida", "valor_saida", "saida"}
	colHistory       = []string{"fornecedor_observacao", "fornecedor observacao", "historico", "descricao"}
	colNote          = []string{"numerotitulo", "numero titulo", "numero_titulo", "documento"}
	colTitle         = []string{"idmovimento", "id movimento", "id_movimento"}
)

// importMovementFile reads a report where a non-zero movement total marks a
// reconciliation movement and every other row is a detail line to classify.
func (imp *RuleImporter) importMovementFile(book *Book, path string) error {
	route, ok := imp.profile.Route(filepath.Base(path))
	if !ok {
		return fmt.Errorf("no bank route matches %q", filepath.Base(path))
	}
	tbl, err := tabular.Read(path, imp.profile.tabularOptions())
	if err != nil {
		return err
	}
	if !tbl.Has(colMovementDate...) {
		return fmt.Errorf("missing date column")
	}

	records := tbl.Records(imp.profile.HeaderRow + 2)
	groups := imp.titleGroups(records)
	bank := book.Bank(route)

	var (
		movements []model.Transaction
		entries   []model.Entry
	)
	for _, rec := range records {
		total := locale.AmountOrZero(rec.Get(colMovementTotal...))
		entrada := locale.AmountOrZero(rec.Get(colEntrada...))
		saida := locale.AmountOrZero(rec.Get(colSaida...))
		if total.IsZero() && entrada.IsZero() && saida.IsZero() {
			book.Skipped++
			continue
		}
		date, err := locale.ParseDate(rec.Get(colMovementDate...))
		if err != nil {
			book.Skipped++
			continue
		}
		history := rec.Get(colHistory...)

		if !total.IsZero() {
			movements = append(movements, model.NewTransaction(date, total, history))
			continue
		}

		if h, ok := groups[rec.Get(colTitle...)]; ok {
			history = h
		}
		switch {
		case entrada.IsPositive():
			entries = append(entries, imp.post(date, entrada, model.Credit, history, rec.Get(colNote...), route))
		case saida.IsPositive():
			entries = append(entries, imp.post(date, saida, model.Debit, history, rec.Get(colNote...), route))
		default:
			book.Skipped++
		}
	}

	// Reports without movement totals reconcile on their detail lines.
	if len(movements) == 0 {
		for _, e := range entries {
			movements = append(movements, e.Movement())
		}
	}
	bank.Entries = append(bank.Entries, entries...)
	bank.Movements = append(bank.Movements, movements...)
	return nil
}

// titleGroups maps a title id to the history of the first row in that title
// whose history holds the group keyword.
func (imp *RuleImporter) titleGroups(records []tabular.Record) map[string]string {
	groups := make(map[string]string)
	kw := textnorm.Normalize(imp.profile.GroupKeyword)
	if kw == "" {
		return groups
	}
	for _, rec := range records {
		title := rec.Get(colTitle...)
		if title == "" {
			continue
		}
		if _, ok := groups[title]; ok {
			continue
		}
		history := rec.Get(colHistory...)
		if strings.Contains(textnorm.Normalize(history), kw) {
			groups[title] = history
		}
	}
	return groups
}
