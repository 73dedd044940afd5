// Package storage persists crawled articles.
package storage

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"wikiquery/internal/models"
)

// Sink stores a single article.
type Sink interface {
	Store(ctx context.Context, article models.Article) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, article models.Article) error

func (f SinkFunc) Store(ctx context.Context, article models.Article) error {
	return f(ctx, article)
}

// StoreFromChannel drains articles into sink using at most workers
// concurrent Store calls. Failed stores are logged and counted; the
// channel is always drained.
func StoreFromChannel(ctx context.Context, sink Sink, articles <-chan models.Article, workers int) (stored, failed int64, err error) {
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(v any) {
		slog.Error("store worker panic", "panic", v)
	}))
	if err != nil {
		return 0, 0, err
	}
	defer pool.Release()

	var (
		wg      sync.WaitGroup
		nStored atomic.Int64
		nFailed atomic.Int64
	)
	for article := range articles {
		a := article
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := sink.Store(ctx, a); err != nil {
				nFailed.Add(1)
				slog.Error("failed to store article", "title", a.Title, "error", err)
				return
			}
			nStored.Add(1)
		}); err != nil {
			wg.Done()
			nFailed.Add(1)
			slog.Error("failed to schedule store", "title", a.Title, "error", err)
		}
	}
	wg.Wait()

	slog.Info("finished storing articles", "stored", nStored.Load(), "failed", nFailed.Load())
	return nStored.Load(), nFailed.Load(), nil
}
