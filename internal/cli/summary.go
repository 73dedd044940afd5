package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"wikiquery/pkg/wikiquery"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <title>",
		Short: "Print the description and intro of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(rootOpts, nil)
			page, err := wikiquery.PageSummary(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			f := newFormatter(rootOpts, cmd.OutOrStdout())
			return f.Print(page, func(w io.Writer) error {
				if page.Missing {
					_, err := fmt.Fprintf(w, "%s: page does not exist\n", page.Title)
					return err
				}
				title := page.Title
				if page.Description != "" {
					title += " - " + page.Description
				}
				_, err := fmt.Fprintf(w, "%s\n%s\n\n%s\n", title, page.CanonicalURL, strings.TrimSpace(page.Extract))
				return err
			})
		},
	}
}
