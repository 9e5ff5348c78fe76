package locale

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order; day-first layouts win over ISO.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2006-01-02",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// Excel serial numbers for 1954-10-03 .. 2119-01-01.
const (
	minExcelSerial = 20000
	maxExcelSerial = 80000
)

// ParseDate parses a day-first date. Spreadsheet serial numbers are accepted.
// The result carries no time of day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmpty
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= minExcelSerial && f < maxExcelSerial {
		t, err := excelize.ExcelDateToTime(f, false)
		if err == nil {
			return dateOnly(t), nil
		}
	}

	// Trailing time or weekday noise: "05/01/2024 - seg", "2024-01-05 00:00:00.000".
	if head, _, ok := strings.Cut(s, " "); ok {
		for _, layout := range dateLayouts[:7] {
			if t, err := time.Parse(layout, head); err == nil {
				return dateOnly(t), nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("parsing date %q: unrecognized layout", s)
}

// ParseDateLayout parses s with a single layout, for formats whose field
// order is fixed by the source.
func ParseDateLayout(layout, s string) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return dateOnly(t), nil
}

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "fev": time.February, "mar": time.March,
	"abr": time.April, "mai": time.May, "jun": time.June,
	"jul": time.July, "ago": time.August, "set": time.September,
	"out": time.October, "nov": time.November, "dez": time.December,
}

// MonthFromAbbrev resolves Portuguese three-letter month names ("jan", "fev", ...).
func MonthFromAbbrev(abbrev string) (time.Month, bool) {
	m, ok := monthAbbrev[strings.ToLower(strings.TrimSpace(abbrev))]
	return m, ok
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
