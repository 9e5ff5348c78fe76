package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/concilia/internal/gitops"
	"github.com/cleared-dev/concilia/internal/ledger"
	"github.com/cleared-dev/concilia/internal/pipeline"
)

type runFlags struct {
	entity   string
	output   string
	mode     string
	year     int
	archive  bool
	commit   bool
	noCommit bool
}

func newRunCommand(g *globals) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run --entity <id> <input-dir|file>...",
		Short: "Import ledgers and statements, reconcile and write reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch f.mode {
			case "", ledger.ModePerBank, ledger.ModeAggregate:
			default:
				return fmt.Errorf("--mode must be %s or %s", ledger.ModePerBank, ledger.ModeAggregate)
			}
			return runRun(g, f, args)
		},
	}

	cmd.Flags().StringVar(&f.entity, "entity", "", "entity id (required)")
	_ = cmd.MarkFlagRequired("entity")
	cmd.Flags().StringVar(&f.output, "output", "", "output directory (default from config)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "reconciliation mode: per_bank or aggregate (default from entity)")
	cmd.Flags().IntVar(&f.year, "year", 0, "year for statements that omit it (default current year)")
	cmd.Flags().BoolVar(&f.archive, "archive", false, "move processed inputs to processed/")
	cmd.Flags().BoolVar(&f.commit, "commit", false, "commit outputs when the output directory is a git repository")
	cmd.Flags().BoolVar(&f.noCommit, "no-commit", false, "never commit, even with git.auto_commit")

	return cmd
}

func runRun(g *globals, f runFlags, inputs []string) error {
	cfg, ctx, err := g.load()
	if err != nil {
		return err
	}
	if _, err := profile(cfg, f.entity); err != nil {
		return err
	}

	output := f.output
	if output == "" {
		output = cfg.OutputDir()
	}
	output, err = filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	profiles := cfg.Profiles()
	knowledge := pipeline.LoadKnowledge(ctx, cfg.Paths.DePara, cfg.Paths.Suppliers)
	p := pipeline.New(ledger.DefaultRegistry(profiles, knowledge), profiles)

	sum, err := p.Run(ctx, pipeline.Options{
		Entity:      f.entity,
		Inputs:      inputs,
		OutputDir:   output,
		Mode:        f.mode,
		Year:        f.year,
		TXTEncoding: cfg.Report.TXTEncoding,
		Archive:     f.archive,
		Commit:      (cfg.Git.AutoCommit || f.commit) && !f.noCommit,
		Author:      gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail},
	})
	if sum != nil {
		printSummary(sum)
	}
	if err != nil {
		return err
	}
	if n := len(sum.Failures); n > 0 {
		return fmt.Errorf("%d file(s) failed", n)
	}
	return nil
}

func printSummary(sum *pipeline.Summary) {
	fmt.Printf("Run %s (%s, %s)\n", sum.RunID, sum.Entity, sum.Mode)
	fmt.Printf("  ledgers: %d, statements: %d\n", len(sum.Ledgers), len(sum.Statements))
	fmt.Printf("  entries: %d, movements: %d, statement rows: %d, skipped rows: %d\n",
		sum.Entries, sum.Movements, sum.Rows, sum.Skipped)
	fmt.Printf("  reconciliation: %d OK, %d NEEDS_REVIEW\n", sum.Totals.OK, sum.Totals.NeedsReview)
	for _, out := range sum.Outputs {
		fmt.Printf("  wrote %s\n", out)
	}
	for _, fe := range sum.Failures {
		fmt.Printf("  FAILED %s\n", fe)
	}
	if sum.Commit != "" {
		fmt.Printf("  committed %s\n", sum.Commit)
	}
}
