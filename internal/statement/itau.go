package statement

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/concilia/internal/locale"
	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/pdftext"
)

// Itau reads Itaú statements whose rows print dates as "dd / mmm" with a
// Portuguese month abbreviation and a signed value.
type Itau struct {
	Year int // fallback when the document never prints a full date
}

var (
	itauRow      = regexp.MustCompile(`(\d{2})\s*/\s*([A-Za-z]{3})\b.*?(-?[\d.]+,\d{2})`)
	itauDateCell = regexp.MustCompile(`\d{2}\s*/\s*[A-Za-z]{3}`)
	itauValue    = regexp.MustCompile(`-?[\d.]+,\d{2}`)
	anyFullDate  = regexp.MustCompile(`\b\d{2}/\d{2}/(\d{4})\b`)
)

// Format returns the canonicalizer name.
func (c *Itau) Format() string { return "itau" }

// Canonicalize implements Canonicalizer.
func (c *Itau) Canonicalize(doc *pdftext.Document) ([]model.Transaction, error) {
	year := c.statementYear(doc)
	return readRows(doc.Rows(), func(row []string) (model.Transaction, bool) {
		return parseItauRow(row, year)
	}), nil
}

func parseItauRow(row []string, year int) (model.Transaction, bool) {
	m := itauRow.FindStringSubmatch(strings.Join(row, " | "))
	if m == nil {
		return model.Transaction{}, false
	}
	month, ok := locale.MonthFromAbbrev(m[2])
	if !ok {
		return model.Transaction{}, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return model.Transaction{}, false
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		return model.Transaction{}, false
	}
	amount, err := locale.ParseAmount(m[3])
	if err != nil {
		return model.Transaction{}, false
	}
	return signed(date, amount, itauHistory(row)), true
}

// statementYear takes the year of the first full date printed anywhere in the
// document (header, issue date), then the configured year, then today.
func (c *Itau) statementYear(doc *pdftext.Document) int {
	for _, line := range doc.Lines() {
		if m := anyFullDate.FindStringSubmatch(line); m != nil {
			if y, err := strconv.Atoi(m[1]); err == nil {
				return y
			}
		}
	}
	if c.Year > 0 {
		return c.Year
	}
	return time.Now().Year()
}

// itauHistory picks the first cell that is neither the date nor a value.
func itauHistory(row []string) string {
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" || itauDateCell.MatchString(cell) || itauValue.MatchString(cell) {
			continue
		}
		return cell
	}
	return ""
}
