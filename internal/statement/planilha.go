package statement

import (
	"strings"

	"github.com/cleared-dev/concilia/internal/locale"
	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/pdftext"
	"github.com/cleared-dev/concilia/internal/tabular"
	"github.com/cleared-dev/concilia/internal/textnorm"
)

// Planilha reads statements exported as CSV or spreadsheet. The header row is
// located by its column names; amounts are either signed, paired with a C/D
// type column, or split into credit and debit columns.
type Planilha struct{}

var (
	planilhaDate   = []string{"data", "data lancamento", "data do lancamento", "data movimento", "data mov.", "dt", "date", "posting date"}
	planilhaDesc   = []string{"historico", "descricao", "lancamento", "detalhes", "description", "memo"}
	planilhaAmount = []string{"valor", "valor (r$)", "valor r$", "valor lancamento", "amount"}
	planilhaType   = []string{"tipo", "d/c", "c/d", "natureza", "type"}
	planilhaCredit = []string{"entrada", "entradas", "credito", "creditos", "credit"}
	planilhaDebit  = []string{"saida", "saidas", "debito", "debitos", "debit"}
)

// Format returns the canonicalizer name.
func (c *Planilha) Format() string { return "planilha" }

// Canonicalize implements Canonicalizer.
func (c *Planilha) Canonicalize(doc *pdftext.Document) ([]model.Transaction, error) {
	var txns []model.Transaction
	for _, page := range doc.Pages {
		tbl := findHeader(page.Rows)
		if tbl == nil {
			continue
		}
		for _, rec := range tbl.Records(0) {
			if txn, ok := parsePlanilhaRecord(rec); ok {
				txns = append(txns, txn)
			}
		}
	}
	return txns, nil
}

func findHeader(rows [][]string) *tabular.Table {
	for i, row := range rows {
		tbl := tabular.NewTable(row, rows[i+1:])
		if !tbl.Has(planilhaDate...) {
			continue
		}
		if tbl.Has(planilhaAmount...) || (tbl.Has(planilhaCredit...) && tbl.Has(planilhaDebit...)) {
			return tbl
		}
	}
	return nil
}

func parsePlanilhaRecord(rec tabular.Record) (model.Transaction, bool) {
	date, err := locale.ParseDate(rec.Get(planilhaDate...))
	if err != nil {
		return model.Transaction{}, false
	}
	desc := rec.Get(planilhaDesc...)

	if raw := rec.Get(planilhaAmount...); raw != "" {
		amount, err := locale.ParseAmount(raw)
		if err != nil {
			return model.Transaction{}, false
		}
		if marker := directionMarker(rec.Get(planilhaType...)); marker != "" {
			return marked(date, amount, marker, desc)
		}
		return signed(date, amount, desc), true
	}

	credit := locale.AmountOrZero(rec.Get(planilhaCredit...)).Abs()
	debit := locale.AmountOrZero(rec.Get(planilhaDebit...)).Abs()
	switch {
	case !credit.IsZero() && debit.IsZero():
		return signed(date, credit, desc), true
	case !debit.IsZero() && credit.IsZero():
		return signed(date, debit.Neg(), desc), true
	case !credit.IsZero() && !debit.IsZero():
		return signed(date, credit.Sub(debit), desc), !credit.Equal(debit)
	}
	return model.Transaction{}, false
}

// directionMarker maps type-column values such as "C", "Crédito", "saida" to C or D.
func directionMarker(s string) string {
	n := textnorm.Normalize(s)
	switch {
	case n == "":
		return ""
	case n == "c" || strings.HasPrefix(n, "cred") || strings.HasPrefix(n, "entrada"):
		return string(model.Credit)
	case n == "d" || strings.HasPrefix(n, "deb") || strings.HasPrefix(n, "saida"):
		return string(model.Debit)
	}
	return ""
}
