package main

import (
	"fmt"

	"github.com/CiaranMcAleer/esify/internal/sitegen"
	"github.com/spf13/cobra"
)

var (
	statusStrict bool
	statusHTML   string
)

var statusCmd = &cobra.Command{
	Use:   "status [dir]",
	Short: "Report which pages already carry all ESI includes",
	Long: `Counts <esi:include> directives in every page. A page with four or more
is reported complete. With --strict a page must also reference each of the
header, navbar, marquee and footer includes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusStrict, "strict", false, "Require every section's include, not just the count")
	statusCmd.Flags().StringVar(&statusHTML, "html", "", "Also write the report as an HTML page to this path")
}

func runStatus(cmd *cobra.Command, args []string) error {
	p := sitegen.NewProcessor(rules, logger, cmd.OutOrStdout())
	rep, err := p.Status(sitegen.Options{
		Root:        targetDir(args),
		Pattern:     cfg.Pattern,
		ExcludeDirs: cfg.ExcludeDirs,
	}, statusStrict)
	if err != nil {
		return err
	}
	rep.Render(cmd.OutOrStdout())

	if statusHTML != "" {
		if err := rep.WriteHTML(statusHTML); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n[Report] Wrote %s\n", statusHTML)
	}
	return nil
}
