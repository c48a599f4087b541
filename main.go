// main project file, entry point of the cli
package main

import (
	"fmt"
	"os"

	"github.com/CiaranMcAleer/esify/internal/config"
	"github.com/CiaranMcAleer/esify/internal/esi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev" // Version set during build with go build -ldflags "-X main.version=1.2.3"

var (
	// Global flags
	configPath  string
	verbose     bool
	pattern     string
	excludeDirs []string

	cfg    *config.Config
	rules  *esi.Rules
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "esify",
	Short: "Replace inline page sections with ESI include directives",
	Long: `esify rewrites static HTML pages in place, swapping the inline header,
navigation bar, marquee and footer markup for <esi:include> directives that
point at /includes/<section>.html, and reports which pages are converted.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("pattern") {
			cfg.Pattern = pattern
		}
		if cmd.Flags().Changed("exclude") {
			cfg.ExcludeDirs = excludeDirs
		}

		logger, err = config.NewLogger(cfg.LogLevel, verbose)
		if err != nil {
			return err
		}
		rules, err = cfg.BuildRules()
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default esify.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&pattern, "pattern", "p", "*.html", "Glob selecting documents, relative to the directory (** allowed)")
	rootCmd.PersistentFlags().StringSliceVar(&excludeDirs, "exclude", []string{"includes"}, "Directory names to skip")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// targetDir returns the directory argument or the working directory.
func targetDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
