package crawl

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"wikiquery/internal/enrich"
	"wikiquery/internal/models"
	"wikiquery/pkg/wikiquery"
)

// pageQuery selects the article by page id when it has one, by title
// otherwise.
func pageQuery(a *models.Article) (*wikiquery.Query, *wikiquery.PagesQuery) {
	q := wikiquery.NewQuery()
	pages := q.Pages()
	if a.PageID > 0 {
		pages.PageIDs(strconv.FormatInt(a.PageID, 10))
	} else {
		pages.Titles(wikiquery.Escape(wikiquery.Title(a.Title)))
	}
	return q, pages
}

func firstPage(ctx context.Context, doer wikiquery.Doer, q *wikiquery.Query, title string) (*wikiquery.Page, error) {
	resp, err := doer.Do(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(resp.Query.Pages) == 0 {
		return nil, fmt.Errorf("no page returned for %s", title)
	}
	return &resp.Query.Pages[0], nil
}

// DescribeStep fills the short description and the plain-text intro.
func DescribeStep(doer wikiquery.Doer) enrich.Step[models.Article] {
	return func(ctx context.Context, a *models.Article) error {
		q, pages := pageQuery(a)
		pages.Description().Extracts().EXIntro().EXPlainText().EXLimit("1")

		page, err := firstPage(ctx, doer, q, a.Title)
		if err != nil {
			return fmt.Errorf("describe %q: %w", a.Title, err)
		}
		a.Description = page.Description
		a.DescriptionSource = page.DescriptionSource
		a.Extract = page.Extract
		return nil
	}
}

// InfoStep fills page metadata from prop=info.
func InfoStep(doer wikiquery.Doer) enrich.Step[models.Article] {
	return func(ctx context.Context, a *models.Article) error {
		q, pages := pageQuery(a)
		pages.Info().INProp("url").INProp("displaytitle")

		page, err := firstPage(ctx, doer, q, a.Title)
		if err != nil {
			return fmt.Errorf("info %q: %w", a.Title, err)
		}
		a.Missing = page.Missing
		a.DisplayTitle = page.DisplayTitle
		a.CanonicalURL = page.CanonicalURL
		a.ContentModel = page.ContentModel
		if page.Length != nil {
			a.Length = *page.Length
		}
		if page.LastRevID != nil {
			a.LastRevID = *page.LastRevID
		}
		return nil
	}
}

// StampStep records when the article was fetched.
func StampStep(now func() time.Time) enrich.Step[models.Article] {
	return func(_ context.Context, a *models.Article) error {
		a.FetchedAt = now().UTC()
		return nil
	}
}

// DefaultPipeline fetches description and info in parallel, then stamps
// the article.
func DefaultPipeline(doer wikiquery.Doer, now func() time.Time) *enrich.Pipeline[models.Article] {
	return enrich.NewPipeline(
		enrich.NewStage(DescribeStep(doer), InfoStep(doer)).Named("fetch"),
		enrich.NewStage(StampStep(now)).Named("stamp"),
	)
}
