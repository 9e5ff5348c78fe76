// Package locale parses Brazilian-formatted amounts and day-first dates as
// they appear in ledger exports and bank statements.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmpty is returned for blank inputs.
var ErrEmpty = errors.New("empty value")

var amountNoise = strings.NewReplacer(
	"R$", "",
	"r$", "",
	" ", "",
	"\u00a0", "",
	"\t", "",
)

// ParseAmount parses a signed amount written as "1.234,56", "1234.56",
// "R$ -1.234,56", "(1.234,56)" or "1.234,56-". When both separators occur the
// last one is the decimal separator. A lone dot followed by exactly three
// digits is a thousands separator; longer tails are spreadsheet float noise.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(amountNoise.Replace(s))
	if raw == "" {
		return decimal.Zero, ErrEmpty
	}

	neg := false
	switch {
	case strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")"):
		neg = true
		raw = raw[1 : len(raw)-1]
	case strings.HasSuffix(raw, "-"):
		neg = true
		raw = raw[:len(raw)-1]
	}
	if strings.HasPrefix(raw, "-") {
		neg = !neg
		raw = raw[1:]
	} else {
		raw = strings.TrimPrefix(raw, "+")
	}

	lastDot := strings.LastIndexByte(raw, '.')
	lastComma := strings.LastIndexByte(raw, ',')
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.Replace(raw, ",", ".", 1)
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(raw, ",") > 1 {
			raw = strings.ReplaceAll(raw, ",", "")
		} else {
			raw = strings.Replace(raw, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(raw, ".") > 1 || len(raw)-lastDot-1 == 3 {
			raw = strings.ReplaceAll(raw, ".", "")
		}
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// AmountOrZero parses s and returns zero on any failure.
func AmountOrZero(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount the Brazilian way, "1.234,56".
func FormatAmount(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
