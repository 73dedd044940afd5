package wikiquery

import (
	"context"
	"errors"
	"fmt"
)

// ErrRoundLimit is returned by Paginator.Next when the configured maximum
// number of rounds has been used up while continuation is still pending.
var ErrRoundLimit = errors.New("wikiquery: pagination round limit reached")

// Doer sends a query and decodes its reply. *Client implements it.
type Doer interface {
	Do(ctx context.Context, q *Query) (*Response, error)
}

// Paginator follows continuation tokens: send, decode, and while the reply
// carries a continue block, merge it and send again.
type Paginator struct {
	doer      Doer
	query     *Query
	maxRounds int
	rounds    int
	done      bool
	metrics   *Metrics
}

// PaginatorOption configures a Paginator.
type PaginatorOption func(*Paginator)

// WithMaxRounds caps the number of requests; 0 means no cap.
func WithMaxRounds(n int) PaginatorOption {
	return func(p *Paginator) { p.maxRounds = n }
}

// WithPaginatorMetrics counts merged continuation rounds.
func WithPaginatorMetrics(m *Metrics) PaginatorOption {
	return func(p *Paginator) { p.metrics = m }
}

func NewPaginator(doer Doer, q *Query, opts ...PaginatorOption) *Paginator {
	p := &Paginator{doer: doer, query: q}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Rounds returns how many replies have been received.
func (p *Paginator) Rounds() int {
	return p.rounds
}

// Next sends the next request. It returns ErrDone once a reply without a
// continue block has been returned. A failed request leaves the state
// unchanged, so calling Next again repeats it.
func (p *Paginator) Next(ctx context.Context) (*Response, error) {
	if p.done {
		return nil, ErrDone
	}
	if p.maxRounds > 0 && p.rounds >= p.maxRounds {
		return nil, ErrRoundLimit
	}

	resp, err := p.doer.Do(ctx, p.query)
	if err != nil {
		return nil, err
	}
	p.rounds++

	if resp.Continue == nil {
		p.done = true
		return resp, nil
	}
	p.query.resetContinue()
	p.query.Continue(resp.Continue)
	p.metrics.continued()
	return resp, nil
}

// All calls fn with every reply until the result set is complete.
func (p *Paginator) All(ctx context.Context, fn func(*Response) error) error {
	for {
		resp, err := p.Next(ctx)
		if errors.Is(err, ErrDone) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(resp); err != nil {
			return err
		}
	}
}

// AllCategoryMembers returns every member of the category, following
// continuation until the listing is complete.
func AllCategoryMembers(ctx context.Context, doer Doer, title string) ([]CategoryMember, error) {
	q := NewQuery()
	q.CategoryMembers().
		CMTitle(Escape(Title(title))).
		CMProp("ids").
		CMProp("title").
		CMProp("type").
		CMLimit("max")

	var all []CategoryMember
	err := NewPaginator(doer, q).All(ctx, func(resp *Response) error {
		all = append(all, resp.Query.CategoryMembers...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("category members of %q: %w", title, err)
	}
	return all, nil
}

// AllCategories returns every category whose name starts with prefix.
func AllCategories(ctx context.Context, doer Doer, prefix string) ([]Category, error) {
	q := NewQuery()
	ac := q.AllCategories().ACProp("size").ACLimit("max")
	if prefix != "" {
		ac.ACPrefix(Escape(Title(prefix)))
	}

	var all []Category
	err := NewPaginator(doer, q).All(ctx, func(resp *Response) error {
		all = append(all, resp.Query.AllCategories...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("categories with prefix %q: %w", prefix, err)
	}
	return all, nil
}

// PageSummary fetches description, plain-text intro extract and info for
// a single title.
func PageSummary(ctx context.Context, doer Doer, title string) (*Page, error) {
	q := NewQuery()
	q.Pages().
		Titles(Escape(Title(title))).
		Description().
		Extracts().EXIntro().EXPlainText().EXLimit("1").
		Info().INProp("url").INProp("displaytitle")

	resp, err := doer.Do(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("summary of %q: %w", title, err)
	}
	if len(resp.Query.Pages) == 0 {
		return nil, fmt.Errorf("no page returned for %s", title)
	}
	return &resp.Query.Pages[0], nil
}
