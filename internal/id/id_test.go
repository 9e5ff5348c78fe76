package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatEntryID(t *testing.T) {
	assert.Equal(t, "2024-03-007", FormatEntryID(2024, 3, 7))
	assert.Equal(t, "2024-11-1000", FormatEntryID(2024, 11, 1000), "sequence widens past three digits")
}

func TestSequencer(t *testing.T) {
	s := NewSequencer()
	jan := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-001", s.Next(jan))
	assert.Equal(t, "2024-01-002", s.Next(jan.AddDate(0, 0, 20)))
	assert.Equal(t, "2024-02-001", s.Next(feb))
	assert.Equal(t, "2024-01-003", s.Next(jan))
	assert.Equal(t, "2025-01-001", s.Next(jan.AddDate(1, 0, 0)), "years are counted apart")
}

func TestSequencer_Independent(t *testing.T) {
	day := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	a, b := NewSequencer(), NewSequencer()
	a.Next(day)
	assert.Equal(t, "2024-06-001", b.Next(day))
}
