package statement

import (
	"strings"

	"github.com/cleared-dev/concilia/internal/locale"
	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/pdftext"
	"github.com/cleared-dev/concilia/internal/textnorm"
)

// Columnar reads statements laid out as fixed columns with a dd/mm/yyyy date
// and a signed value.
type Columnar struct {
	Name     string
	DateCol  int
	DescCol  int
	ValueCol int
	// HeaderTable skips everything above the first row naming both a date
	// and a value column.
	HeaderTable bool
}

// Santander reads tables headed "Data ... Valor": history in the third
// column, signed value in the fifth.
func Santander() *Columnar {
	return &Columnar{Name: "santander", DateCol: 0, DescCol: 2, ValueCol: 4, HeaderTable: true}
}

// Sicredi reads rows of date, history, document, signed value.
func Sicredi() *Columnar {
	return &Columnar{Name: "sicredi", DateCol: 0, DescCol: 1, ValueCol: 3}
}

// ItauTabela reads Itaú account exports that share the Sicredi column layout.
func ItauTabela() *Columnar {
	return &Columnar{Name: "itau_tabela", DateCol: 0, DescCol: 1, ValueCol: 3}
}

// Format returns the canonicalizer name.
func (c *Columnar) Format() string { return c.Name }

// Canonicalize implements Canonicalizer.
func (c *Columnar) Canonicalize(doc *pdftext.Document) ([]model.Transaction, error) {
	rows := doc.Rows()
	if c.HeaderTable {
		rows = belowHeader(rows)
	}
	return readRows(rows, c.parseRow), nil
}

// belowHeader returns the rows after the first statement header, or none.
func belowHeader(rows [][]string) [][]string {
	for i, row := range rows {
		if isStatementHeader(row) {
			return rows[i+1:]
		}
	}
	return nil
}

func (c *Columnar) parseRow(row []string) (model.Transaction, bool) {
	if len(row) <= c.ValueCol || len(row) <= c.DescCol {
		return model.Transaction{}, false
	}
	dateCell := strings.TrimSpace(row[c.DateCol])
	if !fullDate.MatchString(dateCell) {
		return model.Transaction{}, false
	}
	date, err := locale.ParseDateLayout(dayFirst, dateCell[:10])
	if err != nil {
		return model.Transaction{}, false
	}
	amount, err := locale.ParseAmount(row[c.ValueCol])
	if err != nil {
		return model.Transaction{}, false
	}
	return signed(date, amount, row[c.DescCol]), true
}

func isStatementHeader(row []string) bool {
	if _, n := soleCell(row); n < 2 || fullDate.MatchString(strings.TrimSpace(row[0])) {
		return false
	}
	var hasDate, hasValue bool
	for _, cell := range row {
		h := textnorm.Normalize(cell)
		hasDate = hasDate || strings.Contains(h, "data")
		hasValue = hasValue || strings.Contains(h, "valor")
	}
	return hasDate && hasValue
}
