package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the outcome of comparing ledger and statement totals for a date.
type Status string

const (
	StatusOK          Status = "OK"
	StatusNeedsReview Status = "NEEDS_REVIEW"
)

// Tolerance is the largest absolute difference still reported as OK.
var Tolerance = decimal.New(1, -2)

// StatusFor derives the status for a rounded difference.
func StatusFor(diff decimal.Decimal) Status {
	if diff.Abs().LessThan(Tolerance) {
		return StatusOK
	}
	return StatusNeedsReview
}

// SummaryRow is one date of a reconciliation summary.
type SummaryRow struct {
	Date            time.Time
	Bank            string // empty in aggregate mode
	LedgerTotal     decimal.Decimal
	StatementTotals map[string]decimal.Decimal // per bank, aggregate mode only
	StatementTotal  decimal.Decimal
	Difference      decimal.Decimal
	Status          Status
}
