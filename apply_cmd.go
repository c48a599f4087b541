package main

import (
	"github.com/CiaranMcAleer/esify/internal/sitegen"
	"github.com/spf13/cobra"
)

var applyDryRun bool

var applyCmd = &cobra.Command{
	Use:   "apply [dir]",
	Short: "Convert header, navbar, marquee and footer markup to ESI includes",
	Long: `Scans the directory (default: current directory) for pages that are
missing any ESI include, replaces each recognised section with its include
directive and rewrites the page in place. Finishes with a completeness check
of every page.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().BoolVarP(&applyDryRun, "dry-run", "n", false, "Report what would change without writing files")
}

func runApply(cmd *cobra.Command, args []string) error {
	dryRun := cfg.DryRun
	if cmd.Flags().Changed("dry-run") {
		dryRun = applyDryRun
	}
	p := sitegen.NewProcessor(rules, logger, cmd.OutOrStdout())
	_, err := p.Apply(sitegen.Options{
		Root:        targetDir(args),
		Pattern:     cfg.Pattern,
		ExcludeDirs: cfg.ExcludeDirs,
		DryRun:      dryRun,
	})
	return err
}
