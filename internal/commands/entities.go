package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newEntitiesCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List configured entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntities(g)
		},
	}
}

func runEntities(g *globals) error {
	cfg, _, err := g.load()
	if err != nil {
		return err
	}
	profiles := cfg.Profiles()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tLAYOUT\tMODE\tPOSTING\tBANKS")
	for _, name := range cfg.EntityNames() {
		p := profiles[name]
		var banks []string
		for _, r := range p.Routes {
			banks = append(banks, r.Bank)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", name, p.Layout, p.Mode, p.Posting, strings.Join(banks, ", "))
	}
	return tw.Flush()
}
