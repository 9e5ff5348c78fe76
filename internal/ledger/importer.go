package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/concilia/internal/classifier"
	"github.com/cleared-dev/concilia/internal/logger"
	"github.com/cleared-dev/concilia/internal/model"
)

// Knowledge is the shared lookup data every entity classifies against.
type Knowledge struct {
	DePara    []model.Mapping
	Suppliers []model.Mapping
}

// RuleImporter is the single rule engine behind every entity; a Profile
// supplies the layout, routes, rules and posting policy.
type RuleImporter struct {
	entity     string
	profile    Profile
	classifier *classifier.Classifier
}

// NewImporter builds a RuleImporter with a fresh classifier cache.
func NewImporter(entity string, p Profile, k Knowledge) (*RuleImporter, error) {
	switch p.Layout {
	case LayoutMovement, LayoutBankColumn:
	default:
		return nil, fmt.Errorf("entity %s: unknown layout %q", entity, p.Layout)
	}
	if p.Posting == "" {
		p.Posting = PostingStandard
	}
	scorer, err := classifier.ScorerByName(p.Scorer)
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", entity, err)
	}
	cfg := classifier.Config{
		Rules:     p.Rules,
		KeyPolicy: p.KeyPolicy,
		Threshold: p.Threshold,
		Scorer:    scorer,
		Unknown:   p.Unknown,
	}
	if !p.KeywordsOnly {
		cfg.Explicit = k.DePara
		cfg.Vendors = k.Suppliers
	}
	return &RuleImporter{entity: entity, profile: p, classifier: classifier.New(cfg)}, nil
}

// Entity returns the entity id.
func (imp *RuleImporter) Entity() string { return imp.entity }

// Profile returns the profile driving this importer.
func (imp *RuleImporter) Profile() Profile { return imp.profile }

// Classifier exposes the run's classifier, for statistics and dry runs.
func (imp *RuleImporter) Classifier() *classifier.Classifier { return imp.classifier }

// Import reads every file into one Book. A file that cannot be read is
// reported as a SourceError and the remaining files are still imported.
// Cancellation is checked between files.
func (imp *RuleImporter) Import(ctx context.Context, files []string) (*Book, error) {
	log := logger.FromContext(ctx)
	book := NewBook(imp.entity)
	var errs []error
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		var err error
		switch imp.profile.Layout {
		case LayoutMovement:
			err = imp.importMovementFile(book, path)
		case LayoutBankColumn:
			err = imp.importBankColumnFile(book, path)
		}
		if err != nil {
			errs = append(errs, &SourceError{Path: path, Err: err})
			log.Warn().Str("file", path).Err(err).Msg("ledger file skipped")
			continue
		}
		log.Debug().Str("file", path).Msg("ledger file imported")
	}
	return book, errors.Join(errs...)
}

// post turns one classified detail line into an entry.
func (imp *RuleImporter) post(date time.Time, amount decimal.Decimal, dir model.Direction, history, note string, route Route) model.Entry {
	res := imp.classifier.Classify(history)
	e := model.Entry{
		Date:         model.DateOf(date),
		Description:  imp.describe(dir, history, note),
		Amount:       amount.Abs().Round(2),
		Direction:    dir,
		Counterparty: res.Name,
		Bank:         route.Bank,
		Source:       res.Source,
	}

	switch {
	case imp.profile.Posting == PostingInverted && dir == model.Credit:
		e.DebitAccount, e.CreditAccount = res.Account, route.Account
	case imp.profile.Posting == PostingInverted:
		e.DebitAccount, e.CreditAccount = route.Account, res.Account
		if res.Source == model.SourceFallback {
			e.CreditAccount = imp.profile.CreditDefault
		}
	case dir == model.Credit:
		e.DebitAccount, e.CreditAccount = route.Account, imp.profile.CreditDefault
		e.Source = model.SourceBank
	default:
		e.DebitAccount, e.CreditAccount = res.Account, route.Account
	}
	return e
}

func (imp *RuleImporter) describe(dir model.Direction, history, note string) string {
	history = strings.ToUpper(strings.TrimSpace(history))
	if imp.profile.Description != DescriptionNote {
		return history
	}
	prefix := "Recebimento NF"
	if dir == model.Debit {
		prefix = "Pagamento NF"
	}
	return strings.Join(strings.Fields(prefix+" "+note+" "+history), " ")
}
