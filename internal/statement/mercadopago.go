package statement

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/concilia/internal/locale"
	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/pdftext"
	"github.com/cleared-dev/concilia/internal/textnorm"
)

// MercadoPago reads Mercado Pago account statements. Each movement starts on
// a line beginning with dd-mm-yyyy and may wrap onto following lines; the
// joined text ends with the operation id, "R$ value" and "R$ balance".
type MercadoPago struct{}

var mercadoPagoSkip = []string{
	"detalhe dos movimentos",
	"data de geracao",
	"voce tem alguma duvida",
	"mercado pago instituicao",
	"agencia: conta:",
	"periodo:",
	"saldo inicial",
	"saldo final",
	"encontre nossos canais",
	"id da operacao",
	"o nosso sac",
	"ligue para",
	"ouvidoria",
	"cnpj",
	"av. das nacoes unidas",
	"portal de ajuda",
	"www.mercadopago",
}

var (
	mercadoPagoHeader = regexp.MustCompile(`^(data|descricao|valor|saldo)(\s|$)|^\d+\s*/\s*\d+$`)
	mercadoPagoStart  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}`)
	mercadoPagoEntry  = regexp.MustCompile(`^(\d{2}-\d{2}-\d{4})\s+(.+?)\s*(\d{9,})\s+R\$\s*(\S+)\s+R\$\s*(\S+)`)
)

// Format returns the canonicalizer name.
func (c *MercadoPago) Format() string { return "mercado_pago" }

// Canonicalize implements Canonicalizer.
func (c *MercadoPago) Canonicalize(doc *pdftext.Document) ([]model.Transaction, error) {
	var txns []model.Transaction
	for _, entry := range groupMercadoPagoLines(doc.Lines()) {
		m := mercadoPagoEntry.FindStringSubmatch(entry)
		if m == nil {
			continue
		}
		date, err := locale.ParseDateLayout("02-01-2006", m[1])
		if err != nil {
			continue
		}
		amount, err := locale.ParseAmount(m[4])
		if err != nil {
			continue
		}
		txns = append(txns, signed(date, amount, strings.TrimSpace(m[2])+" - "+m[3]))
	}
	return txns, nil
}

func skipMercadoPagoLine(line string) bool {
	n := textnorm.Normalize(line)
	if n == "" || mercadoPagoHeader.MatchString(n) {
		return true
	}
	for _, kw := range mercadoPagoSkip {
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}

// groupMercadoPagoLines joins wrapped lines into one string per movement.
// Lines before the first dated line are dropped.
func groupMercadoPagoLines(lines []string) []string {
	var entries []string
	var buf []string
	flush := func() {
		if len(buf) > 0 {
			entries = append(entries, strings.Join(buf, " "))
		}
		buf = nil
	}
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if skipMercadoPagoLine(l) {
			continue
		}
		if mercadoPagoStart.MatchString(l) {
			flush()
			buf = append(buf, l)
			continue
		}
		if len(buf) > 0 {
			buf = append(buf, l)
		}
	}
	flush()
	return entries
}
