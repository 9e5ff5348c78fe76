package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction marks a movement as money in (credit) or money out (debit).
type Direction string

const (
	Credit Direction = "C"
	Debit  Direction = "D"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == Credit || d == Debit
}

// Label returns the sheet label used for the direction in reconciliation reports.
func (d Direction) Label() string {
	if d == Credit {
		return "Entradas"
	}
	return "Saidas"
}

// DirectionOf derives the direction from the sign of a signed amount.
// Zero is reported as Debit; callers drop zero amounts before asking.
func DirectionOf(signed decimal.Decimal) Direction {
	if signed.IsPositive() {
		return Credit
	}
	return Debit
}

// Transaction is a canonical statement or ledger movement.
type Transaction struct {
	Date        time.Time
	Amount      decimal.Decimal // unsigned, 2 decimal places
	Direction   Direction
	Description string
	Bank        string // set on statement rows only
}

// NewTransaction builds a Transaction from a signed amount. The amount is
// stored as its rounded magnitude and the sign becomes the direction.
func NewTransaction(date time.Time, signed decimal.Decimal, description string) Transaction {
	return Transaction{
		Date:        DateOf(date),
		Amount:      signed.Abs().Round(2),
		Direction:   DirectionOf(signed),
		Description: description,
	}
}

// Signed returns the amount with credits positive and debits negative.
func (t Transaction) Signed() decimal.Decimal {
	if t.Direction == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// DateOf strips the time of day, keeping the calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
