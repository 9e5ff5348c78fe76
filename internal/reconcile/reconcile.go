// Package reconcile compares ledger movements with statement transactions
// per date and reports the difference.
package reconcile

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/concilia/internal/model"
)

// Mode selects whether statements are compared one bank at a time or
// summed across banks.
type Mode string

const (
	ModePerBank   Mode = "per_bank"
	ModeAggregate Mode = "aggregate"
)

// Options select the slice of data to reconcile.
type Options struct {
	Direction model.Direction
	Mode      Mode
	// Bank restricts statement rows in per-bank mode. Empty keeps all rows.
	Bank string
}

// Result is one reconciliation summary.
type Result struct {
	Direction model.Direction
	Bank      string
	Banks     []string // statement columns, aggregate mode only
	Rows      []model.SummaryRow
}

// Reconcile sums both sides per date for one direction and joins them on
// date. Dates present on one side only get a zero on the other. Rows come
// out sorted by date; input order does not matter.
func Reconcile(ledger, statements []model.Transaction, opts Options) Result {
	res := Result{Direction: opts.Direction}
	if opts.Mode != ModeAggregate {
		res.Bank = opts.Bank
	}

	ledgerByDate := make(map[time.Time]decimal.Decimal)
	for _, t := range ledger {
		if !keep(t, opts.Direction) {
			continue
		}
		d := model.DateOf(t.Date)
		ledgerByDate[d] = ledgerByDate[d].Add(t.Amount)
	}

	stmtByDate := make(map[time.Time]map[string]decimal.Decimal)
	banks := make(map[string]bool)
	for _, t := range statements {
		if !keep(t, opts.Direction) {
			continue
		}
		if opts.Mode != ModeAggregate && opts.Bank != "" && t.Bank != opts.Bank {
			continue
		}
		d := model.DateOf(t.Date)
		if stmtByDate[d] == nil {
			stmtByDate[d] = make(map[string]decimal.Decimal)
		}
		stmtByDate[d][t.Bank] = stmtByDate[d][t.Bank].Add(t.Amount)
		banks[t.Bank] = true
	}

	if opts.Mode == ModeAggregate {
		for b := range banks {
			res.Banks = append(res.Banks, b)
		}
		sort.Strings(res.Banks)
	}

	for _, d := range unionDates(ledgerByDate, stmtByDate) {
		row := model.SummaryRow{
			Date:        d,
			Bank:        res.Bank,
			LedgerTotal: ledgerByDate[d].Round(2),
		}
		var total decimal.Decimal
		for _, amount := range stmtByDate[d] {
			total = total.Add(amount)
		}
		if opts.Mode == ModeAggregate {
			row.StatementTotals = make(map[string]decimal.Decimal, len(res.Banks))
			for _, b := range res.Banks {
				row.StatementTotals[b] = stmtByDate[d][b].Round(2)
			}
		}
		row.StatementTotal = total.Round(2)
		row.Difference = row.LedgerTotal.Sub(row.StatementTotal).Round(2)
		row.Status = model.StatusFor(row.Difference)
		res.Rows = append(res.Rows, row)
	}
	return res
}

// Pair reconciles credits ("Entradas") and debits ("Saidas") with the same options.
func Pair(ledger, statements []model.Transaction, opts Options) (entradas, saidas Result) {
	opts.Direction = model.Credit
	entradas = Reconcile(ledger, statements, opts)
	opts.Direction = model.Debit
	saidas = Reconcile(ledger, statements, opts)
	return entradas, saidas
}

// Totals counts rows per status.
type Totals struct {
	OK          int
	NeedsReview int
}

// Summarize counts the statuses of every given result.
func Summarize(results ...Result) Totals {
	var t Totals
	for _, r := range results {
		for _, row := range r.Rows {
			if row.Status == model.StatusOK {
				t.OK++
			} else {
				t.NeedsReview++
			}
		}
	}
	return t
}

// Empty reports whether the result has no rows.
func (r Result) Empty() bool { return len(r.Rows) == 0 }

func keep(t model.Transaction, dir model.Direction) bool {
	if t.Date.IsZero() || t.Amount.IsZero() {
		return false
	}
	return dir == "" || t.Direction == dir
}

func unionDates(ledger map[time.Time]decimal.Decimal, stmt map[time.Time]map[string]decimal.Decimal) []time.Time {
	seen := make(map[time.Time]bool, len(ledger)+len(stmt))
	var dates []time.Time
	for d := range ledger {
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	for d := range stmt {
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
