package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/concilia/internal/runlog"
)

type logFlags struct {
	output string
	entity string
	run    string
	failed bool
}

func newLogCommand(g *globals) *cobra.Command {
	var f logFlags
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the run log of the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(g, f)
		},
	}
	cmd.Flags().StringVar(&f.output, "output", "", "output directory (default from config)")
	cmd.Flags().StringVar(&f.entity, "entity", "", "only show runs of this entity")
	cmd.Flags().StringVar(&f.run, "run", "", "only show this run id (a prefix is enough)")
	cmd.Flags().BoolVar(&f.failed, "failed", false, "only show failed steps")
	return cmd
}

func runLog(g *globals, f logFlags) error {
	dir := f.output
	if dir == "" {
		cfg, _, err := g.load()
		if err != nil {
			return err
		}
		dir = cfg.OutputDir()
	}

	entries, err := runlog.Read(dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("no runs recorded in %s\n", runlog.Path(dir))
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tRUN\tENTITY\tSTEP\tFILE\tSTATUS\tDETAILS")
	shown := 0
	for _, e := range entries {
		if f.entity != "" && !strings.EqualFold(e.Entity, f.entity) {
			continue
		}
		if f.run != "" && !strings.HasPrefix(e.RunID, f.run) {
			continue
		}
		if f.failed && e.Status != runlog.StatusFailed {
			continue
		}
		file := e.File
		if file != "" {
			file = filepath.Base(file)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), shortRunID(e.RunID), e.Entity, e.Step, file, e.Status, e.Details)
		shown++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d step(s)\n", shown)
	return nil
}

// shortRunID keeps the first group of a uuid, enough to tell runs apart.
func shortRunID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
