package statement

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/concilia/internal/locale"
	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/pdftext"
)

// BancoBrasil reads Banco do Brasil statements: table rows that start with a
// dd/mm/yyyy date and carry an amount suffixed with C or D.
type BancoBrasil struct{}

var (
	fullDate = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)
	bbAmount = regexp.MustCompile(`(\d{1,3}(?:\.\d{3})*,\d{2})\(?([CD])\)?`)
)

const dayFirst = "02/01/2006"

// Format returns the canonicalizer name.
func (c *BancoBrasil) Format() string { return "banco_brasil" }

// Canonicalize implements Canonicalizer.
func (c *BancoBrasil) Canonicalize(doc *pdftext.Document) ([]model.Transaction, error) {
	return readRows(doc.Rows(), parseBancoBrasilRow), nil
}

func parseBancoBrasilRow(row []string) (model.Transaction, bool) {
	if len(row) < 2 || !fullDate.MatchString(row[0]) {
		return model.Transaction{}, false
	}
	date, err := locale.ParseDateLayout(dayFirst, row[0][:10])
	if err != nil {
		return model.Transaction{}, false
	}

	// The value and its marker may land in one cell or two adjacent ones.
	for i := 1; i < len(row); i++ {
		candidate := strings.ReplaceAll(row[i], " ", "")
		if i+1 < len(row) && len(strings.TrimSpace(row[i+1])) == 1 {
			candidate += strings.TrimSpace(row[i+1])
		}
		m := bbAmount.FindStringSubmatch(candidate)
		if m == nil {
			continue
		}
		amount, err := locale.ParseAmount(m[1])
		if err != nil {
			return model.Transaction{}, false
		}
		desc := strings.Join(row[1:i], " ")
		if desc == "" && len(row) > 2 {
			desc = strings.Join(row[1:len(row)-1], " ")
		}
		if rest := strings.TrimSpace(row[0][10:]); rest != "" {
			desc = rest + " " + desc
		}
		return marked(date, amount, m[2], desc)
	}
	return model.Transaction{}, false
}
