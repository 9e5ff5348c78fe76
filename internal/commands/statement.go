package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/concilia/internal/report"
	"github.com/cleared-dev/concilia/internal/statement"
)

type statementFlags struct {
	format string
	bank   string
	year   int
	xlsx   string
}

func newStatementCommand(g *globals) *cobra.Command {
	var f statementFlags

	cmd := &cobra.Command{
		Use:   "statement --format <format> <file>",
		Short: "Canonicalize one bank statement",
		Long: "Canonicalize one bank statement and print its rows.\n\nFormats: " +
			strings.Join(statement.DefaultRegistry(statement.Options{}).Formats(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatement(g, f, args[0])
		},
	}

	cmd.Flags().StringVar(&f.format, "format", "", "statement format (required)")
	_ = cmd.MarkFlagRequired("format")
	cmd.Flags().StringVar(&f.bank, "bank", "", "bank stamped on each row (default: the format)")
	cmd.Flags().IntVar(&f.year, "year", 0, "year for statements that omit it")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "also export the rows to this workbook")

	return cmd
}

func runStatement(g *globals, f statementFlags, path string) error {
	if _, _, err := g.load(); err != nil {
		return err
	}

	bank := f.bank
	if bank == "" {
		bank = strings.ToLower(f.format)
	}

	doc, err := statement.Load(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	txns, err := statement.DefaultRegistry(statement.Options{Year: f.year}).Canonicalize(f.format, bank, doc)
	if err != nil {
		return err
	}

	net := decimal.Zero
	for _, t := range txns {
		fmt.Printf("%s  %s  %12s  %s\n", t.Date.Format("02/01/2006"), t.Direction, t.Amount.StringFixed(2), t.Description)
		net = net.Add(t.Signed())
	}
	fmt.Printf("%d row(s), net %s\n", len(txns), net.StringFixed(2))

	if f.xlsx != "" {
		if err := report.WriteStatement(f.xlsx, txns); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", f.xlsx)
	}
	return nil
}
