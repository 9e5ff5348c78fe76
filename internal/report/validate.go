package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/concilia/internal/model"
)

// ValidationError describes a single entry that cannot be exported.
type ValidationError struct {
	Rule        string
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.EntryID, e.Description)
}

// ValidateEntries checks what the accounting import requires of each entry.
// ids are parallel to entries.
func ValidateEntries(entries []model.Entry, ids []string) []ValidationError {
	var errs []ValidationError
	hundred := decimal.NewFromInt(100)

	for i, e := range entries {
		entryID := ids[i]
		fail := func(rule, format string, args ...interface{}) {
			errs = append(errs, ValidationError{Rule: rule, EntryID: entryID, Description: fmt.Sprintf(format, args...)})
		}

		if e.Date.IsZero() {
			fail("date", "missing date")
		}
		if !e.Direction.Valid() {
			fail("direction", "direction %q is neither C nor D", e.Direction)
		}
		if !e.Amount.IsPositive() {
			fail("amount", "amount %s must be positive", e.Amount)
		}
		if cents := e.Amount.Mul(hundred); !cents.Equal(cents.Floor()) {
			fail("decimals", "amount %s has more than 2 decimal places", e.Amount)
		}
		if e.DebitAccount == "" || e.CreditAccount == "" {
			fail("accounts", "debit %q and credit %q must both be set", e.DebitAccount, e.CreditAccount)
		}
	}
	return errs
}
