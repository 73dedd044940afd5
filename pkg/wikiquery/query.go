package wikiquery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const (
	// DefaultEndpoint is the scheme and authority requests are sent to when
	// no other endpoint is given.
	DefaultEndpoint = "https://en.wikipedia.org"
	// APIPath is the path of the MediaWiki action API.
	APIPath = "/w/api.php"

	DefaultFormat        = "json"
	DefaultFormatVersion = "2"
)

const (
	paramAction        = "action"
	paramFormat        = "format"
	paramFormatVersion = "formatversion"
	paramList          = "list"
	paramProp          = "prop"

	actionQuery = "query"
)

// Query is a builder for a single action=query request. It owns the
// parameter table; the sub-query builders it hands out write into that
// table and carry no state of their own.
//
//	q := wikiquery.NewQuery()
//	q.AllCategories().ACFrom("Lists_of_colors").ACMin("1").ACLimit("5")
//	req, err := q.Build(ctx)
type Query struct {
	params Params
}

// NewQuery returns an empty Query.
func NewQuery() *Query {
	return &Query{params: make(Params)}
}

// Params exposes the underlying parameter table.
func (q *Query) Params() Params {
	return q.params
}

// AllCategories attaches a list=allcategories sub-query.
func (q *Query) AllCategories() *AllCategoriesQuery {
	return newAllCategoriesQuery(q.params)
}

// CategoryMembers attaches a list=categorymembers sub-query.
func (q *Query) CategoryMembers() *CategoryMembersQuery {
	return newCategoryMembersQuery(q.params)
}

// Pages attaches a page set. Props are added through the returned builder.
func (q *Query) Pages() *PagesQuery {
	return newPagesQuery(q.params)
}

// Format sets the output format. When unset, RequestTarget uses
// DefaultFormat.
func (q *Query) Format(format string) *Query {
	q.params.Set(paramFormat, format)
	return q
}

// FormatVersion sets the output format version. When unset, RequestTarget
// uses DefaultFormatVersion.
func (q *Query) FormatVersion(version string) *Query {
	q.params.Set(paramFormatVersion, version)
	return q
}

// Continue folds the continuation tokens of a previous response into the
// table so the next request resumes where that one stopped. A nil block
// means the previous result was complete and leaves the table untouched.
func (q *Query) Continue(block *ContinueBlock) *Query {
	if block == nil {
		return q
	}
	q.params.Set(paramContinue, block.Continue)
	for _, tok := range block.tokens() {
		if tok.value != "" {
			q.params.Set(tok.key, tok.value)
		}
	}
	return q
}

func (q *Query) finalize() {
	q.params.SetDefault(paramFormat, DefaultFormat)
	q.params.SetDefault(paramFormatVersion, DefaultFormatVersion)
	q.params.Set(paramAction, actionQuery)
}

// RequestTarget finalizes the default parameters and returns the path and
// query string of the request. Values are not escaped.
func (q *Query) RequestTarget() string {
	q.finalize()
	return APIPath + "?" + q.params.Encode()
}

// URI returns the absolute request URI against DefaultEndpoint.
func (q *Query) URI() (*url.URL, error) {
	return q.URIFor(DefaultEndpoint)
}

// URIFor returns the absolute request URI against endpoint, which must
// carry a scheme and a host.
func (q *Query) URIFor(endpoint string) (*url.URL, error) {
	target := endpoint + q.RequestTarget()
	u, err := url.Parse(target)
	if err != nil {
		return nil, &BuildError{Target: target, Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &BuildError{Target: target, Err: fmt.Errorf("missing scheme or host in endpoint %q", endpoint)}
	}
	return u, nil
}

// Build returns a GET request for the query against DefaultEndpoint.
func (q *Query) Build(ctx context.Context) (*http.Request, error) {
	return q.BuildFor(ctx, DefaultEndpoint)
}

// BuildFor returns a GET request for the query against endpoint.
func (q *Query) BuildFor(ctx context.Context, endpoint string) (*http.Request, error) {
	u, err := q.URIFor(endpoint)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &BuildError{Target: u.String(), Err: err}
	}
	return req, nil
}

// resetContinue drops every continuation parameter so the next merge
// starts from exactly the tokens the server sent last.
func (q *Query) resetContinue() {
	delete(q.params, paramContinue)
	for _, tok := range (&ContinueBlock{}).tokens() {
		delete(q.params, tok.key)
	}
}
