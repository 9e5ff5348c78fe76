// Package textnorm folds free text into comparison keys: lowercase, no
// diacritics, ASCII only, single spaces.
package textnorm

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func newFolder() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
}

// Normalize returns the comparison key for s. It is idempotent.
func Normalize(s string) string {
	folded, _, err := transform.String(newFolder(), s)
	if err != nil {
		folded = asciiOnly(s)
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Stringify coerces spreadsheet cell values and other scalars to text before
// normalization. Integral floats lose their ".0" suffix.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return decimal.NewFromFloat(x).String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// NormalizeAny is Normalize over Stringify.
func NormalizeAny(v any) string {
	return Normalize(Stringify(v))
}

// FirstToken returns the first whitespace-delimited token of the key for s.
func FirstToken(s string) string {
	key := Normalize(s)
	if i := strings.IndexByte(key, ' '); i >= 0 {
		return key[:i]
	}
	return key
}

// HasToken reports whether the normalized s contains token as a whole word.
func HasToken(s, token string) bool {
	token = Normalize(token)
	for _, f := range strings.Fields(Normalize(s)) {
		if f == token {
			return true
		}
	}
	return false
}

// Slug turns s into a file-name safe identifier: "Itaú Matriz" -> "itau_matriz".
func Slug(s string) string {
	var b strings.Builder
	lastSep := true
	for _, r := range Normalize(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			lastSep = false
			continue
		}
		if !lastSep {
			b.WriteByte('_')
			lastSep = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
}
