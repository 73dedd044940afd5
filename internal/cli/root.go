// Package cli is the wikiquery command tree.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"wikiquery/internal/config"
	"wikiquery/internal/logging"
)

// RootOptions holds global flags and the state shared by subcommands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"

	Config *config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command of the wikiquery CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wikiquery",
		Short: "Query the MediaWiki API and crawl category trees",
		Long: `wikiquery builds MediaWiki Query API requests, follows continuation,
and crawls category trees into S3 or PostgreSQL.

Configuration is read from the environment (and an optional .env file).`,
		SilenceUsage:  true,
		SilenceErrors: true, // main logs the error
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.Config = cfg

			level := cfg.Log.Level
			if opts.Verbose {
				level = "DEBUG"
			}
			// Logs go to stderr so they never corrupt json or yaml output.
			opts.Logger = logging.New(cmd.ErrOrStderr(), logging.Config{Level: level, Format: cfg.Log.Format})
			slog.SetDefault(opts.Logger)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewCrawlCommand(opts))
	cmd.AddCommand(NewEnqueueCommand(opts))
	cmd.AddCommand(NewConsumeCommand(opts))

	return cmd
}
