package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/concilia/internal/accounts"
	"github.com/cleared-dev/concilia/internal/config"
	"github.com/cleared-dev/concilia/internal/gitops"
)

// Directories created by init.
const (
	inputDir  = "entrada"
	outputDir = "saida"
	configDir = "config"
)

func newInitCommand() *cobra.Command {
	var force, withGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a concilia workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, force, withGit)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing "+config.FileName)
	cmd.Flags().BoolVar(&withGit, "git", false, "initialize a git repository and commit outputs after each run")

	return cmd
}

func runInit(dir string, force, withGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	for _, d := range []string{configDir, inputDir, outputDir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Paths.Output = outputDir
	cfg.Git.AutoCommit = withGit
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := accounts.Seed(filepath.Join(dir, configDir)); err != nil {
		return fmt.Errorf("writing mapping tables: %w", err)
	}

	if !withGit {
		fmt.Printf("Initialized concilia workspace at %s\n", dir)
		return nil
	}

	gitignore := inputDir + "/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return err
		}
	}
	depara, suppliers := accounts.DefaultPaths(filepath.Join(dir, configDir))
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitFiles(dir, []string{cfgPath, depara, suppliers, filepath.Join(dir, ".gitignore")}, "init: concilia workspace", author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized concilia workspace at %s (%s)\n", dir, hash)
	return nil
}
