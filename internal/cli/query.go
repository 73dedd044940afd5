package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wikiquery/pkg/wikiquery"
)

// queryOptions are the flags shared by every query subcommand.
type queryOptions struct {
	All       bool
	DryRun    bool
	MaxRounds int
}

// QueryResult is what a query command prints. Records are aggregated over
// every round when --all is given.
type QueryResult struct {
	Request    string                     `json:"request"`
	Rounds     int                        `json:"rounds"`
	Complete   bool                       `json:"complete"`
	Categories []wikiquery.Category       `json:"categories,omitempty"`
	Members    []wikiquery.CategoryMember `json:"members,omitempty"`
	Pages      []wikiquery.Page           `json:"pages,omitempty"`
	Continue   *wikiquery.ContinueBlock   `json:"continue,omitempty"`
	Warnings   map[string]string          `json:"warnings,omitempty"`
}

// NewQueryCommand creates the query command and its list/prop subcommands.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	qopts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Send a single Query API request",
		Long: `Build a Query API request from flags and print the decoded reply.

With --all, continuation tokens are followed until the result set is
complete. With --dry-run, the request URI is printed and nothing is sent.`,
	}
	cmd.PersistentFlags().BoolVar(&qopts.All, "all", false, "follow continuation until complete")
	cmd.PersistentFlags().BoolVar(&qopts.DryRun, "dry-run", false, "print the request URI without sending it")
	cmd.PersistentFlags().IntVar(&qopts.MaxRounds, "max-rounds", 0, "cap on requests with --all (0 uses WIKIQUERY_MAX_PAGES)")

	cmd.AddCommand(newAllCategoriesCommand(rootOpts, qopts))
	cmd.AddCommand(newCategoryMembersCommand(rootOpts, qopts))
	cmd.AddCommand(newPagesCommand(rootOpts, qopts))
	return cmd
}

func newAllCategoriesCommand(rootOpts *RootOptions, qopts *queryOptions) *cobra.Command {
	var (
		from, to, prefix, dir, limit string
		minSize, maxSize             int
		props                        []string
	)
	cmd := &cobra.Command{
		Use:   "allcategories",
		Short: "Enumerate all categories (list=allcategories)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := wikiquery.NewQuery()
			ac := q.AllCategories()
			setIf(from, func(v string) { ac.ACFrom(wikiquery.Escape(wikiquery.Title(v))) })
			setIf(to, func(v string) { ac.ACTo(wikiquery.Escape(wikiquery.Title(v))) })
			setIf(prefix, func(v string) { ac.ACPrefix(wikiquery.Escape(wikiquery.Title(v))) })
			setIf(dir, func(v string) { ac.ACDir(v) })
			setIf(limit, func(v string) { ac.ACLimit(v) })
			if cmd.Flags().Changed("min") {
				ac.ACMin(strconv.Itoa(minSize))
			}
			if cmd.Flags().Changed("max") {
				ac.ACMax(strconv.Itoa(maxSize))
			}
			for _, p := range props {
				ac.ACProp(p)
			}
			return runQuery(cmd, rootOpts, qopts, q)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "category to start enumerating from")
	cmd.Flags().StringVar(&to, "to", "", "category to stop enumerating at")
	cmd.Flags().StringVar(&prefix, "prefix", "", "only categories beginning with this value")
	cmd.Flags().StringVar(&dir, "dir", "", "sort direction (ascending|descending)")
	cmd.Flags().StringVar(&limit, "limit", "", "categories per request (number or max)")
	cmd.Flags().IntVar(&minSize, "min", 0, "only categories with at least this many members")
	cmd.Flags().IntVar(&maxSize, "max", 0, "only categories with at most this many members")
	cmd.Flags().StringSliceVar(&props, "prop", nil, "properties to get (size, hidden)")
	return cmd
}

func newCategoryMembersCommand(rootOpts *RootOptions, qopts *queryOptions) *cobra.Command {
	var (
		title, pageID, limit, sortBy, dir, start, end string
		props, types                                  []string
	)
	cmd := &cobra.Command{
		Use:   "categorymembers",
		Short: "List pages in a category (list=categorymembers)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" && pageID == "" {
				return errors.New("one of --title or --pageid is required")
			}
			q := wikiquery.NewQuery()
			cm := q.CategoryMembers()
			setIf(title, func(v string) { cm.CMTitle(wikiquery.Escape(wikiquery.Title(v))) })
			setIf(pageID, func(v string) { cm.CMPageID(v) })
			setIf(limit, func(v string) { cm.CMLimit(v) })
			setIf(sortBy, func(v string) { cm.CMSort(v) })
			setIf(dir, func(v string) { cm.CMDir(v) })
			setIf(start, func(v string) { cm.CMStart(v) })
			setIf(end, func(v string) { cm.CMEnd(v) })
			for _, p := range props {
				cm.CMProp(p)
			}
			for _, t := range types {
				cm.CMType(t)
			}
			return runQuery(cmd, rootOpts, qopts, q)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "category to enumerate, including the Category: prefix")
	cmd.Flags().StringVar(&pageID, "pageid", "", "page id of the category to enumerate")
	cmd.Flags().StringVar(&limit, "limit", "", "members per request (number or max)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "property to sort by (sortkey|timestamp)")
	cmd.Flags().StringVar(&dir, "dir", "", "sort direction (asc|desc)")
	cmd.Flags().StringVar(&start, "start", "", "timestamp to start listing from (with --sort timestamp)")
	cmd.Flags().StringVar(&end, "end", "", "timestamp to end listing at (with --sort timestamp)")
	cmd.Flags().StringSliceVar(&props, "prop", []string{"ids", "title", "type"}, "properties to get")
	cmd.Flags().StringSliceVar(&types, "type", nil, "member types to include (page, subcat, file)")
	return cmd
}

func newPagesCommand(rootOpts *RootOptions, qopts *queryOptions) *cobra.Command {
	var (
		titles, pageIDs, inProps                      []string
		info, description, extracts, intro, plaintext bool
		preferSource, chars, sentences, exLimit       string
	)
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Fetch props for a page set (titles or pageids)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(titles) == 0 && len(pageIDs) == 0 {
				return errors.New("one of --titles or --pageids is required")
			}
			q := wikiquery.NewQuery()
			pages := q.Pages()
			for _, t := range titles {
				pages.Titles(wikiquery.Escape(wikiquery.Title(t)))
			}
			for _, id := range pageIDs {
				pages.PageIDs(id)
			}
			if info || len(inProps) > 0 {
				pages.Info()
				for _, p := range inProps {
					pages.INProp(p)
				}
			}
			if description || preferSource != "" {
				pages.Description()
				setIf(preferSource, func(v string) { pages.DescPreferSource(v) })
			}
			if extracts || intro || plaintext || chars != "" || sentences != "" {
				pages.Extracts()
				setIf(chars, func(v string) { pages.EXChars(v) })
				setIf(sentences, func(v string) { pages.EXSentences(v) })
				setIf(exLimit, func(v string) { pages.EXLimit(v) })
				if intro {
					pages.EXIntro()
				}
				if plaintext {
					pages.EXPlainText()
				}
			}
			return runQuery(cmd, rootOpts, qopts, q)
		},
	}
	cmd.Flags().StringSliceVar(&titles, "titles", nil, "titles to work on")
	cmd.Flags().StringSliceVar(&pageIDs, "pageids", nil, "page ids to work on")
	cmd.Flags().BoolVar(&info, "info", false, "request prop=info")
	cmd.Flags().StringSliceVar(&inProps, "inprop", nil, "additional info properties (url, displaytitle, protection, ...)")
	cmd.Flags().BoolVar(&description, "description", false, "request prop=description")
	cmd.Flags().StringVar(&preferSource, "prefer-source", "", "description source to prefer (local|central)")
	cmd.Flags().BoolVar(&extracts, "extracts", false, "request prop=extracts")
	cmd.Flags().StringVar(&chars, "chars", "", "extract length in characters")
	cmd.Flags().StringVar(&sentences, "sentences", "", "extract length in sentences")
	cmd.Flags().StringVar(&exLimit, "exlimit", "", "how many extracts to return")
	cmd.Flags().BoolVar(&intro, "intro", false, "only the content before the first section")
	cmd.Flags().BoolVar(&plaintext, "plaintext", false, "plain text extracts instead of HTML")
	return cmd
}

func setIf(v string, set func(string)) {
	if v != "" {
		set(v)
	}
}

func runQuery(cmd *cobra.Command, rootOpts *RootOptions, qopts *queryOptions, q *wikiquery.Query) error {
	f := newFormatter(rootOpts, cmd.OutOrStdout())
	client := newClient(rootOpts, nil)

	uri, err := q.URIFor(client.Endpoint())
	if err != nil {
		return err
	}
	if qopts.DryRun {
		return f.Print(map[string]string{"request": uri.String()}, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, uri.String())
			return err
		})
	}

	result := &QueryResult{Request: uri.String()}
	collect := func(resp *wikiquery.Response) {
		result.Rounds++
		result.Complete = resp.Complete()
		result.Categories = append(result.Categories, resp.Query.AllCategories...)
		result.Members = append(result.Members, resp.Query.CategoryMembers...)
		result.Pages = append(result.Pages, resp.Query.Pages...)
		result.Continue = resp.Continue
		for k, v := range resp.Warnings.Messages() {
			if result.Warnings == nil {
				result.Warnings = make(map[string]string)
			}
			result.Warnings[k] = v
		}
	}

	ctx := cmd.Context()
	if qopts.All {
		maxRounds := qopts.MaxRounds
		if maxRounds == 0 {
			maxRounds = rootOpts.Config.API.MaxRounds
		}
		p := wikiquery.NewPaginator(client, q, wikiquery.WithMaxRounds(maxRounds))
		err := p.All(ctx, func(resp *wikiquery.Response) error {
			collect(resp)
			return nil
		})
		if err != nil && !errors.Is(err, wikiquery.ErrRoundLimit) {
			return err
		}
		if err != nil {
			rootOpts.Logger.Warn("stopped before the result set was complete", "rounds", p.Rounds())
		}
	} else {
		resp, err := client.Do(ctx, q)
		if err != nil {
			return err
		}
		collect(resp)
	}

	return f.Print(result, func(w io.Writer) error { return printQueryText(w, result) })
}

func printQueryText(w io.Writer, r *QueryResult) error {
	var b strings.Builder
	for _, c := range r.Categories {
		if c.Size != nil {
			fmt.Fprintf(&b, "%s\t%d\n", c.Category, *c.Size)
		} else {
			fmt.Fprintf(&b, "%s\n", c.Category)
		}
	}
	for _, m := range r.Members {
		id := ""
		if m.PageID != nil {
			id = strconv.FormatInt(*m.PageID, 10)
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\n", id, m.Type, m.Title)
	}
	for _, p := range r.Pages {
		if p.Missing {
			fmt.Fprintf(&b, "%s (missing)\n", p.Title)
			continue
		}
		fmt.Fprintf(&b, "%s [%d]\n", p.Title, p.PageID)
		if p.Description != "" {
			fmt.Fprintf(&b, "  description: %s\n", p.Description)
		}
		if p.CanonicalURL != "" {
			fmt.Fprintf(&b, "  url: %s\n", p.CanonicalURL)
		}
		if p.Extract != "" {
			fmt.Fprintf(&b, "  %s\n", strings.TrimSpace(p.Extract))
		}
	}
	keys := make([]string, 0, len(r.Warnings))
	for k := range r.Warnings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "warning (%s): %s\n", k, r.Warnings[k])
	}
	if r.Continue != nil {
		fmt.Fprintf(&b, "more results available (continue=%s); rerun with --all\n", r.Continue.Continue)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
