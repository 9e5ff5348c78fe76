// Package pipeline runs one reconciliation for an entity: scan inputs,
// import ledgers, canonicalize statements, reconcile, write reports.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/concilia/internal/classifier"
	"github.com/cleared-dev/concilia/internal/gitops"
	"github.com/cleared-dev/concilia/internal/ledger"
	"github.com/cleared-dev/concilia/internal/logger"
	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/reconcile"
	"github.com/cleared-dev/concilia/internal/report"
	"github.com/cleared-dev/concilia/internal/runlog"
	"github.com/cleared-dev/concilia/internal/statement"
)

// ErrNoInputs is returned when scanning finds nothing to process.
var ErrNoInputs = errors.New("no input files")

// FileError is a failure tied to one input file and pipeline step. The run
// continues with the other files.
type FileError struct {
	Path string
	Step string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Step, filepath.Base(e.Path), e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Options configure one run.
type Options struct {
	Entity    string
	Inputs    []string // files or directories
	OutputDir string
	// Mode overrides the entity's reconciliation mode when set.
	Mode string
	// Year is the fallback for statements that print dates without one.
	Year        int
	TXTEncoding string
	Archive     bool
	Commit      bool
	Author      gitops.Author
}

// Summary reports what a run did.
type Summary struct {
	RunID      string
	Entity     string
	Mode       string
	Ledgers    []string
	Statements []string
	Entries    int
	Movements  int
	Rows       int // canonical statement rows after filtering
	Skipped    int
	Totals     reconcile.Totals
	Outputs    []string
	Failures   []*FileError
	Commit     string
	CacheHits  int
	CacheMiss  int
}

// Pipeline holds what runs share: the entity registry and profiles.
type Pipeline struct {
	importers *ledger.Registry
	profiles  map[string]ledger.Profile
}

// New creates a Pipeline.
func New(importers *ledger.Registry, profiles map[string]ledger.Profile) *Pipeline {
	return &Pipeline{importers: importers, profiles: profiles}
}

// run is the state of one execution.
type run struct {
	opts    Options
	profile ledger.Profile
	log     zerolog.Logger
	rec     *runlog.Recorder
	sum     *Summary
}

func (r *run) fail(path, step string, err error) {
	fe := &FileError{Path: path, Step: step, Err: err}
	r.sum.Failures = append(r.sum.Failures, fe)
	r.rec.Record(step, filepath.Base(path), runlog.StatusFailed, err.Error())
	r.log.Warn().Str("step", step).Str("file", path).Err(err).Msg("file failed")
}

// Run executes the full pipeline. File-level problems end up in
// Summary.Failures; the returned error is reserved for problems that stop
// the run: unknown entity, no inputs, unwritable output, cancellation.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	entity := strings.ToLower(opts.Entity)
	profile, ok := p.profiles[entity]
	if !ok {
		return nil, fmt.Errorf("%q: %w", opts.Entity, ledger.ErrUnknownEntity)
	}

	rec := runlog.NewRecorder(entity)
	log := logger.FromContext(ctx).With().Str("run_id", rec.RunID).Str("entity", entity).Logger()
	ctx = logger.WithContext(ctx, log)

	mode := profile.Mode
	if opts.Mode != "" {
		mode = opts.Mode
	}
	r := &run{
		opts:    opts,
		profile: profile,
		log:     log,
		rec:     rec,
		sum:     &Summary{RunID: rec.RunID, Entity: entity, Mode: mode},
	}

	files, err := Scan(opts.Inputs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoInputs
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	ledgers, statements := Split(files)
	r.sum.Ledgers = paths(ledgers)
	r.sum.Statements = paths(statements)
	rec.Record(runlog.StepScan, "", runlog.StatusOK, fmt.Sprintf("ledgers=%d statements=%d", len(ledgers), len(statements)))
	log.Info().Str("step", runlog.StepScan).Int("ledgers", len(ledgers)).Int("statements", len(statements)).Msg("inputs found")

	book, err := r.importLedgers(ctx, p.importers, ledgers)
	if err != nil {
		return r.abort(runlog.StepImport, err)
	}

	stmts, err := r.canonicalize(ctx, statements)
	if err != nil {
		return r.abort(runlog.StepStatement, err)
	}
	if profile.TransferFilter {
		before := len(stmts)
		stmts = reconcile.RemoveTransfers(stmts)
		log.Info().Str("step", runlog.StepStatement).Int("removed", before-len(stmts)).Msg("intra-bank transfers removed")
	}
	r.sum.Rows = len(stmts)

	writer := &report.Writer{Dir: opts.OutputDir, TXTEncoding: opts.TXTEncoding}
	r.reconcile(writer, book, stmts, reconcile.Mode(mode))
	r.writeEntries(writer, book.Entries())

	if opts.Archive {
		r.archive(files)
	}
	if err := r.finish(); err != nil {
		return r.sum, err
	}
	return r.sum, nil
}

func (r *run) abort(step string, err error) (*Summary, error) {
	r.rec.Record(step, "", runlog.StatusFailed, err.Error())
	if ferr := r.rec.Flush(r.opts.OutputDir); ferr != nil {
		r.log.Error().Err(ferr).Msg("writing run log")
	}
	return r.sum, err
}

func (r *run) importLedgers(ctx context.Context, importers *ledger.Registry, files []FileInfo) (*ledger.Book, error) {
	imp, err := importers.New(r.sum.Entity)
	if err != nil {
		return nil, err
	}
	book, err := imp.Import(ctx, paths(files))
	if cerr := ctx.Err(); cerr != nil {
		return nil, cerr
	}

	failed := make(map[string]bool)
	for _, se := range ledger.SourceErrors(err) {
		failed[se.Path] = true
		r.fail(se.Path, runlog.StepImport, se.Err)
	}
	for _, f := range files {
		if !failed[f.Path] {
			r.rec.Record(runlog.StepImport, f.Name, runlog.StatusOK, "")
		}
	}

	r.sum.Entries = len(book.Entries())
	r.sum.Movements = len(book.Movements())
	r.sum.Skipped = book.Skipped
	if ri, ok := imp.(interface{ Classifier() *classifier.Classifier }); ok {
		r.sum.CacheHits, r.sum.CacheMiss = ri.Classifier().Stats()
	}
	r.log.Info().Str("step", runlog.StepImport).
		Int("entries", r.sum.Entries).Int("movements", r.sum.Movements).Int("skipped", book.Skipped).
		Int("cache_hits", r.sum.CacheHits).Int("cache_misses", r.sum.CacheMiss).
		Msg("ledgers imported")
	return book, nil
}

func (r *run) canonicalize(ctx context.Context, files []FileInfo) ([]model.Transaction, error) {
	reg := statement.DefaultRegistry(statement.Options{Year: r.opts.Year})
	var all []model.Transaction
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		route, ok := r.profile.Route(f.Name)
		if !ok {
			r.fail(f.Path, runlog.StepStatement, errors.New("no bank matches the file name"))
			continue
		}
		format := "planilha"
		if strings.EqualFold(filepath.Ext(f.Name), ".pdf") {
			format = route.StatementFormat
		}
		if format == "" {
			r.fail(f.Path, runlog.StepStatement, fmt.Errorf("bank %s has no statement format", route.Bank))
			continue
		}

		doc, err := statement.Load(f.Path)
		if err != nil {
			r.fail(f.Path, runlog.StepStatement, err)
			continue
		}
		txns, err := reg.Canonicalize(format, route.Bank, doc)
		if err != nil {
			r.fail(f.Path, runlog.StepStatement, err)
			continue
		}
		all = append(all, txns...)
		r.rec.Record(runlog.StepStatement, f.Name, runlog.StatusOK, fmt.Sprintf("bank=%s format=%s rows=%d", route.Bank, format, len(txns)))
		r.log.Debug().Str("step", runlog.StepStatement).Str("file", f.Path).Str("bank", route.Bank).Int("rows", len(txns)).Msg("statement canonicalized")
	}
	return all, nil
}

// banks lists the banks to reconcile: ledger banks in first-seen order,
// then statement-only banks sorted.
func banks(book *ledger.Book, stmts []model.Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range book.Banks {
		if !seen[b.Bank] {
			seen[b.Bank] = true
			out = append(out, b.Bank)
		}
	}
	var extra []string
	for _, t := range stmts {
		if !seen[t.Bank] {
			seen[t.Bank] = true
			extra = append(extra, t.Bank)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func (r *run) reconcile(w *report.Writer, book *ledger.Book, stmts []model.Transaction, mode reconcile.Mode) {
	write := func(bank string, ledgerRows []model.Transaction, opts reconcile.Options) {
		entradas, saidas := reconcile.Pair(ledgerRows, stmts, opts)
		totals := reconcile.Summarize(entradas, saidas)
		r.sum.Totals.OK += totals.OK
		r.sum.Totals.NeedsReview += totals.NeedsReview

		name := outputName(bank)
		path, err := w.WriteReconciliation(name, entradas, saidas)
		if err != nil {
			r.fail(name, runlog.StepReconcile, err)
			return
		}
		if path == "" {
			r.rec.Record(runlog.StepReconcile, name, runlog.StatusSkipped, "no rows")
			return
		}
		r.sum.Outputs = append(r.sum.Outputs, path)
		r.rec.Record(runlog.StepReconcile, name, runlog.StatusOK, fmt.Sprintf("ok=%d needs_review=%d", totals.OK, totals.NeedsReview))
		r.log.Info().Str("step", runlog.StepReconcile).Str("file", path).
			Int("ok", totals.OK).Int("needs_review", totals.NeedsReview).Msg("reconciliation written")
	}

	if mode == reconcile.ModeAggregate {
		write("", book.Movements(), reconcile.Options{Mode: reconcile.ModeAggregate})
		return
	}
	for _, bank := range banks(book, stmts) {
		var movements []model.Transaction
		if bb, ok := book.Lookup(bank); ok {
			movements = bb.Movements
		}
		write(bank, movements, reconcile.Options{Mode: reconcile.ModePerBank, Bank: bank})
	}
}

func (r *run) writeEntries(w *report.Writer, entries []model.Entry) {
	written, err := w.WriteEntries(entries)
	r.sum.Outputs = append(r.sum.Outputs, written...)
	if err != nil {
		r.fail(report.EntriesXLSX, runlog.StepReport, err)
		return
	}
	if len(written) == 0 {
		r.rec.Record(runlog.StepReport, report.EntriesXLSX, runlog.StatusSkipped, "no entries")
		return
	}
	r.rec.Record(runlog.StepReport, report.EntriesXLSX, runlog.StatusOK, fmt.Sprintf("entries=%d", len(entries)))
}

// archive moves inputs that were processed without failure.
func (r *run) archive(files []FileInfo) {
	failed := make(map[string]bool)
	for _, fe := range r.sum.Failures {
		failed[fe.Path] = true
	}
	for _, f := range files {
		if failed[f.Path] {
			continue
		}
		if err := MarkProcessed(f.Path); err != nil {
			r.fail(f.Path, runlog.StepArchive, err)
			continue
		}
		r.rec.Record(runlog.StepArchive, f.Name, runlog.StatusOK, "")
	}
}

// finish writes the run log and, when asked, commits the outputs.
func (r *run) finish() error {
	if err := r.rec.Flush(r.opts.OutputDir); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}
	if !r.opts.Commit {
		return nil
	}
	if !gitops.IsRepo(r.opts.OutputDir) {
		r.log.Warn().Str("dir", r.opts.OutputDir).Msg("output dir is not a git repository; skipping commit")
		return nil
	}

	files := append([]string{runlog.Path(r.opts.OutputDir)}, r.sum.Outputs...)
	hash, err := gitops.CommitFiles(r.opts.OutputDir, files, gitops.CommitMessage(r.sum.Entity, r.sum.RunID), r.opts.Author)
	if err != nil {
		r.fail(r.opts.OutputDir, runlog.StepCommit, err)
	} else {
		r.sum.Commit = hash
		r.rec.Record(runlog.StepCommit, "", runlog.StatusOK, hash)
	}
	if err := r.rec.Flush(r.opts.OutputDir); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}
	return nil
}
