// Package statement converts bank statement documents into canonical
// transactions, one canonicalizer per bank layout.
package statement

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/pdftext"
	"github.com/cleared-dev/concilia/internal/textnorm"
)

var (
	// ErrUnknownFormat is returned when no canonicalizer is registered for a format.
	ErrUnknownFormat = errors.New("unknown statement format")
	// ErrEmpty is returned when a document yields no transactions.
	ErrEmpty = errors.New("statement has no transactions")
)

// Canonicalizer converts one extracted statement into canonical transactions.
// A malformed line is skipped, never an error.
type Canonicalizer interface {
	Canonicalize(doc *pdftext.Document) ([]model.Transaction, error)
	Format() string
}

// Options carry hints some layouts need.
type Options struct {
	// Year is used when a layout prints dates without a year and the
	// document does not reveal one. Zero means the current year.
	Year int
}

// Registry holds named canonicalizers.
type Registry struct {
	byFormat map[string]Canonicalizer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byFormat: make(map[string]Canonicalizer)}
}

// Register adds a canonicalizer. Panics on duplicate format.
func (r *Registry) Register(c Canonicalizer) {
	key := strings.ToLower(c.Format())
	if _, ok := r.byFormat[key]; ok {
		panic("duplicate statement format: " + key)
	}
	r.byFormat[key] = c
}

// Get returns the canonicalizer for format, or nil.
func (r *Registry) Get(format string) Canonicalizer {
	return r.byFormat[strings.ToLower(format)]
}

// Formats lists registered formats in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.byFormat))
	for k := range r.byFormat {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in canonicalizers.
func DefaultRegistry(opts Options) *Registry {
	r := NewRegistry()
	r.Register(&BancoBrasil{})
	r.Register(&Caixa{})
	r.Register(&Itau{Year: opts.Year})
	r.Register(Santander())
	r.Register(Sicredi())
	r.Register(ItauTabela())
	r.Register(&MercadoPago{})
	r.Register(&Planilha{})
	return r
}

// Canonicalize runs the canonicalizer for format over doc, then applies the
// shared cleanup and stamps bank on every row.
func (r *Registry) Canonicalize(format, bank string, doc *pdftext.Document) ([]model.Transaction, error) {
	c := r.Get(format)
	if c == nil {
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	txns, err := c.Canonicalize(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Format(), err)
	}
	txns = Finalize(bank, txns)
	if len(txns) == 0 {
		return nil, ErrEmpty
	}
	return txns, nil
}

var noisePhrases = []string{
	"saldo anterior",
	"saldo do dia",
	"saldo inicial",
	"saldo final",
	"saldo disponivel",
	"saldo em conta",
	"saldo bloqueado",
	"s a l d o",
	"periodo:",
	"periodo de",
	"total de lancamentos",
}

var pageNumber = regexp.MustCompile(`^(pagina|pag\.?|page)?\s*\d+\s*(/|de|of)\s*\d+$`)

// IsNoise reports whether a description is a balance, period or page line
// rather than a movement.
func IsNoise(description string) bool {
	d := textnorm.Normalize(description)
	if d == "saldo" {
		return true
	}
	for _, p := range noisePhrases {
		if strings.Contains(d, p) {
			return true
		}
	}
	return pageNumber.MatchString(d)
}

// isOpeningBalance matches the marker some banks print as the first row.
func isOpeningBalance(description string) bool {
	return strings.Contains(textnorm.Normalize(description), "saldo anterior")
}

// Finalize drops an opening-balance first row, noise rows and zero amounts,
// rounds amounts to cents and stamps bank.
func Finalize(bank string, txns []model.Transaction) []model.Transaction {
	if len(txns) > 0 && isOpeningBalance(txns[0].Description) {
		txns = txns[1:]
	}
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if IsNoise(t.Description) {
			continue
		}
		t.Amount = t.Amount.Abs().Round(2)
		if t.Amount.IsZero() || t.Date.IsZero() || !t.Direction.Valid() {
			continue
		}
		t.Bank = bank
		out = append(out, t)
	}
	return out
}

// signed builds a transaction from a signed amount.
func signed(date time.Time, amount decimal.Decimal, description string) model.Transaction {
	return model.NewTransaction(date, amount, cleanDescription(description))
}

// marked builds a transaction from an unsigned amount and a C/D marker.
func marked(date time.Time, amount decimal.Decimal, marker, description string) (model.Transaction, bool) {
	dir := model.Direction(strings.ToUpper(strings.TrimSpace(marker)))
	if !dir.Valid() {
		return model.Transaction{}, false
	}
	return model.Transaction{
		Date:        model.DateOf(date),
		Amount:      amount.Abs().Round(2),
		Direction:   dir,
		Description: cleanDescription(description),
	}, true
}

// readRows parses each row with parse. A row holding a single text cell
// continues the history of the transaction above it; blank rows are skipped.
func readRows(rows [][]string, parse func([]string) (model.Transaction, bool)) []model.Transaction {
	var txns []model.Transaction
	last := -1
	for _, row := range rows {
		if txn, ok := parse(row); ok {
			txns = append(txns, txn)
			last = len(txns) - 1
			continue
		}
		text, cells := soleCell(row)
		switch {
		case cells == 0:
		case cells == 1 && last >= 0 && isContinuation(text):
			txns[last].Description = cleanDescription(txns[last].Description + " " + text)
		default:
			last = -1
		}
	}
	return txns
}

// soleCell returns the text of the last non-blank cell and how many there are.
func soleCell(row []string) (string, int) {
	var text string
	n := 0
	for _, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			text = c
			n++
		}
	}
	return text, n
}

var amountOnly = regexp.MustCompile(`^[-+]?(R\$\s*)?[\d.]+,\d{2}\s*[CD]?$`)

func isContinuation(text string) bool {
	return !anyFullDate.MatchString(text) && !amountOnly.MatchString(text) && !IsNoise(text)
}

func cleanDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
