package statement

import (
	"regexp"

	"github.com/cleared-dev/concilia/internal/locale"
	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/pdftext"
)

// Caixa reads Caixa Econômica statements from text lines shaped like
// "02/06/2025 000000 PREST EMP 6.512,41 D 433,13 C": date, document,
// history, value, marker, running balance, marker.
type Caixa struct{}

var caixaLine = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+\d+\s+(.+?)\s+([\d.,]+)\s+([DC])\s+-?[\d.,]+\s+[DC]`)

// Format returns the canonicalizer name.
func (c *Caixa) Format() string { return "caixa" }

// Canonicalize implements Canonicalizer.
func (c *Caixa) Canonicalize(doc *pdftext.Document) ([]model.Transaction, error) {
	var txns []model.Transaction
	for _, line := range doc.Lines() {
		m := caixaLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		date, err := locale.ParseDateLayout(dayFirst, m[1])
		if err != nil {
			continue
		}
		amount, err := locale.ParseAmount(m[3])
		if err != nil {
			continue
		}
		if txn, ok := marked(date, amount, m[4], m[2]); ok {
			txns = append(txns, txn)
		}
	}
	return txns, nil
}
