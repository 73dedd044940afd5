// Package crawl walks a category tree and streams the articles it finds.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"wikiquery/internal/enrich"
	"wikiquery/internal/models"
	"wikiquery/pkg/wikiquery"
)

type Crawler struct {
	doer     wikiquery.Doer
	pipeline *enrich.Pipeline[models.Article]
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Crawler)

// WithPipeline replaces the enrichment applied to each article.
func WithPipeline(p *enrich.Pipeline[models.Article]) Option {
	return func(c *Crawler) { c.pipeline = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Crawler) { c.logger = l }
}

// WithClock sets the time source used to stamp articles.
func WithClock(now func() time.Time) Option {
	return func(c *Crawler) { c.now = now }
}

func NewCrawler(doer wikiquery.Doer, opts ...Option) *Crawler {
	c := &Crawler{
		doer:   doer,
		logger: slog.Default(),
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pipeline == nil {
		c.pipeline = DefaultPipeline(doer, c.now)
	}
	c.pipeline.WithLogger(c.logger)
	return c
}

// Run is a single crawl. Articles is closed when the crawl ends; Err is
// valid after that.
type Run struct {
	ID       string
	articles chan models.Article
	err      error
	visited  map[string]struct{}
	found    int
}

func (r *Run) Articles() <-chan models.Article {
	return r.articles
}

// Err reports why the crawl stopped early, if it did. Failures below the
// root category are logged and skipped.
func (r *Run) Err() error {
	return r.err
}

// Found returns how many articles were emitted.
func (r *Run) Found() int {
	return r.found
}

// Crawl lists job.Category and descends into subcategories up to
// job.Depth levels below it. Every category and page is visited at most
// once per run.
func (c *Crawler) Crawl(ctx context.Context, job models.CrawlJob) *Run {
	run := &Run{
		ID:       c.newID(),
		articles: make(chan models.Article),
		visited:  make(map[string]struct{}),
	}
	go func() {
		defer close(run.articles)
		logger := c.logger.With("run_id", run.ID, "category", job.Category)
		logger.Info("crawl started", "depth", job.Depth)

		start := time.Now()
		if err := c.process(ctx, run, job.Category, 0, job.Depth); err != nil {
			run.err = err
			logger.Error("crawl stopped", "error", err)
			return
		}
		logger.Info("crawl finished", "articles", run.found, "elapsed", time.Since(start))
	}()
	return run
}

func (c *Crawler) process(ctx context.Context, run *Run, category string, depth, maxDepth int) error {
	if _, seen := run.visited[category]; seen {
		return nil
	}
	run.visited[category] = struct{}{}

	members, err := wikiquery.AllCategoryMembers(ctx, c.doer, category)
	if err != nil {
		if depth == 0 || ctx.Err() != nil {
			return err
		}
		c.logger.Warn("skipping category", "category", category, "error", err)
		return nil
	}

	for _, member := range members {
		if ctx.Err() != nil {
			return fmt.Errorf("crawl %s: %w", category, context.Cause(ctx))
		}
		if _, seen := run.visited[member.Title]; seen {
			continue
		}

		if member.IsSubcategory() {
			if depth >= maxDepth {
				continue
			}
			if err := c.process(ctx, run, member.Title, depth+1, maxDepth); err != nil {
				return err
			}
			continue
		}
		run.visited[member.Title] = struct{}{}

		article := models.Article{
			RunID:    run.ID,
			Category: category,
			Depth:    depth,
			Title:    member.Title,
		}
		if member.PageID != nil {
			article.PageID = *member.PageID
		}
		if member.NS != nil {
			article.NS = *member.NS
		}
		c.pipeline.Apply(ctx, &article)

		select {
		case run.articles <- article:
			run.found++
		case <-ctx.Done():
			return fmt.Errorf("crawl %s: %w", category, context.Cause(ctx))
		}
	}
	return nil
}
