package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClassificationSource records which classifier step produced an account.
type ClassificationSource string

const (
	SourceExplicit ClassificationSource = "explicit"
	SourceVendor   ClassificationSource = "vendor"
	SourceKeyword  ClassificationSource = "keyword"
	SourceFuzzy    ClassificationSource = "fuzzy"
	SourceFallback ClassificationSource = "fallback"
	SourceBank     ClassificationSource = "bank" // account taken from the bank route, no classification
)

// Entry is one accounting entry: a debit account and a credit account for a
// single amount on a single date.
type Entry struct {
	Date          time.Time
	Description   string
	Amount        decimal.Decimal // unsigned
	Direction     Direction
	DebitAccount  string
	CreditAccount string
	Counterparty  string // only set for exact or fuzzy vendor matches
	Bank          string
	Source        ClassificationSource
}

// Movement returns the reconciliation movement that mirrors the entry.
func (e Entry) Movement() Transaction {
	return Transaction{
		Date:        e.Date,
		Amount:      e.Amount,
		Direction:   e.Direction,
		Description: e.Description,
	}
}
