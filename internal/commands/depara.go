package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/concilia/internal/accounts"
	"github.com/cleared-dev/concilia/internal/model"
)

func newDeParaCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depara",
		Short: "Maintain the DE-PARA name to account table",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the DE-PARA table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeParaList(g)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <code>",
		Short: "Append a name/account pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeParaAdd(g, args[0], args[1])
		},
	})
	return cmd
}

func runDeParaList(g *globals) error {
	cfg, _, err := g.load()
	if err != nil {
		return err
	}
	svc, err := accounts.Load(cfg.Paths.DePara, accounts.DePara)
	if err != nil {
		return err
	}
	for _, m := range svc.All() {
		fmt.Printf("%s\t%s\n", m.Name, m.Code)
	}
	fmt.Printf("%d mapping(s)\n", svc.Len())
	return nil
}

func runDeParaAdd(g *globals, name, code string) error {
	cfg, _, err := g.load()
	if err != nil {
		return err
	}
	path := cfg.Paths.DePara
	svc, err := accounts.Load(path, accounts.DePara)
	if err != nil && !accounts.IsMissing(err) {
		return err
	}
	if existing, ok := svc.Get(name); ok {
		return fmt.Errorf("%q is already mapped to %s", existing.Name, existing.Code)
	}
	if err := svc.Append(model.Mapping{Name: name, Code: code}); err != nil {
		return err
	}
	if err := svc.Save(path); err != nil {
		return err
	}
	fmt.Printf("Added %s -> %s (%s)\n", name, code, path)
	return nil
}
