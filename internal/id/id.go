// Package id numbers accounting entries as "2025-01-001": year, month and a
// per-month sequence.
package id

import (
	"fmt"
	"time"
)

// FormatEntryID returns an entry ID like "2025-01-001".
func FormatEntryID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// Sequencer hands out consecutive IDs per calendar month.
type Sequencer struct {
	next map[[2]int]int
}

// NewSequencer starts every month at 1.
func NewSequencer() *Sequencer {
	return &Sequencer{next: make(map[[2]int]int)}
}

// Next returns the next ID for the month of date.
func (s *Sequencer) Next(date time.Time) string {
	key := [2]int{date.Year(), int(date.Month())}
	s.next[key]++
	return FormatEntryID(key[0], key[1], s.next[key])
}
