// Package ledger imports an entity's accounting reports into accounting
// entries and reconciliation movements, grouped by bank.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cleared-dev/concilia/internal/model"
)

var (
	// ErrSource marks a ledger file that could not be read at all.
	ErrSource = errors.New("ledger source unreadable")
	// ErrUnknownEntity is returned for entity ids with no registered importer.
	ErrUnknownEntity = errors.New("unknown entity")
)

// Importer turns one entity's ledger files into a Book.
type Importer interface {
	Entity() string
	Import(ctx context.Context, files []string) (*Book, error)
}

// SourceError reports a ledger file that failed as a whole.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("reading ledger %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is makes every SourceError match ErrSource.
func (e *SourceError) Is(target error) bool { return target == ErrSource }

// SourceErrors flattens an Import error into its per-file failures.
func SourceErrors(err error) []*SourceError {
	if err == nil {
		return nil
	}
	var out []*SourceError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, SourceErrors(e)...)
		}
		return out
	}
	var se *SourceError
	if errors.As(err, &se) {
		out = append(out, se)
	}
	return out
}

// BankBook is everything imported for one bank.
type BankBook struct {
	Bank            string
	Account         string
	StatementFormat string
	Entries         []model.Entry
	Movements       []model.Transaction
}

// Book is the import result for one entity.
type Book struct {
	Entity  string
	Banks   []*BankBook // first-seen order
	Skipped int         // malformed or empty rows
	byBank  map[string]*BankBook
}

// NewBook creates an empty Book.
func NewBook(entity string) *Book {
	return &Book{Entity: entity, byBank: make(map[string]*BankBook)}
}

// Bank returns the book for route's bank, creating it on first use.
func (b *Book) Bank(route Route) *BankBook {
	if bb, ok := b.byBank[route.Bank]; ok {
		return bb
	}
	bb := &BankBook{Bank: route.Bank, Account: route.Account, StatementFormat: route.StatementFormat}
	b.byBank[route.Bank] = bb
	b.Banks = append(b.Banks, bb)
	return bb
}

// Lookup returns the book for a bank name, if any.
func (b *Book) Lookup(bank string) (*BankBook, bool) {
	bb, ok := b.byBank[bank]
	return bb, ok
}

// Entries returns every entry across banks.
func (b *Book) Entries() []model.Entry {
	var out []model.Entry
	for _, bb := range b.Banks {
		out = append(out, bb.Entries...)
	}
	return out
}

// Movements returns every reconciliation movement across banks.
func (b *Book) Movements() []model.Transaction {
	var out []model.Transaction
	for _, bb := range b.Banks {
		out = append(out, bb.Movements...)
	}
	return out
}
