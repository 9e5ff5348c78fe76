package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/concilia/internal/ledger"
	"github.com/cleared-dev/concilia/internal/pipeline"
)

func newClassifyCommand(g *globals) *cobra.Command {
	var entity string

	cmd := &cobra.Command{
		Use:   "classify --entity <id> <description>...",
		Short: "Show how descriptions resolve to accounts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(g, entity, args)
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "entity id (required)")
	_ = cmd.MarkFlagRequired("entity")

	return cmd
}

func runClassify(g *globals, entity string, descriptions []string) error {
	cfg, ctx, err := g.load()
	if err != nil {
		return err
	}
	p, err := profile(cfg, entity)
	if err != nil {
		return err
	}

	knowledge := pipeline.LoadKnowledge(ctx, cfg.Paths.DePara, cfg.Paths.Suppliers)
	imp, err := ledger.NewImporter(strings.ToLower(entity), p, knowledge)
	if err != nil {
		return err
	}

	c := imp.Classifier()
	for _, d := range descriptions {
		res := c.Classify(d)
		line := fmt.Sprintf("%s -> %s (%s)", d, res.Account, res.Source)
		if res.Name != "" {
			line += " " + res.Name
		}
		if res.Score > 0 {
			line += fmt.Sprintf(" score=%.1f", res.Score)
		}
		fmt.Println(line)
	}
	return nil
}
