package reconcile

import (
	"time"

	"github.com/cleared-dev/concilia/internal/model"
)

type transferKey struct {
	date   time.Time
	amount string
}

// RemoveTransfers drops every statement row whose date and amount appear on
// both a credit and a debit row, treating them as moves between the
// entity's own accounts. When several rows share a key, all of them go.
func RemoveTransfers(txns []model.Transaction) []model.Transaction {
	credits := make(map[transferKey]bool)
	debits := make(map[transferKey]bool)
	for _, t := range txns {
		k := keyOf(t)
		switch t.Direction {
		case model.Credit:
			credits[k] = true
		case model.Debit:
			debits[k] = true
		}
	}

	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		k := keyOf(t)
		if credits[k] && debits[k] {
			continue
		}
		out = append(out, t)
	}
	return out
}

func keyOf(t model.Transaction) transferKey {
	return transferKey{date: model.DateOf(t.Date), amount: t.Amount.Abs().StringFixed(2)}
}
