package enrich

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
)

// Pipeline applies a fixed sequence of stages to each item it is given.
type Pipeline[T any] struct {
	stages []Stage[T]
	logger *slog.Logger
}

// NewPipeline constructs a Pipeline from the provided stages. Stages are
// applied to each item in order.
func NewPipeline[T any](stages ...Stage[T]) *Pipeline[T] {
	return &Pipeline[T]{stages: stages, logger: slog.Default()}
}

// WithLogger sets the logger used for step failures.
func (p *Pipeline[T]) WithLogger(logger *slog.Logger) *Pipeline[T] {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Apply runs every stage against item. All steps of a stage finish before
// the next stage starts. It returns the number of failed steps.
func (p *Pipeline[T]) Apply(ctx context.Context, item *T) int {
	var (
		mu     sync.Mutex
		failed int
	)
	for i, stage := range p.stages {
		if ctx.Err() != nil {
			return failed
		}
		var wg sync.WaitGroup
		for _, step := range stage.steps {
			wg.Add(1)
			go func(step Step[T]) {
				defer wg.Done()
				if err := step(ctx, item); err != nil {
					p.logger.Warn("step failed", "stage", stageName(stage, i), "error", err)
					mu.Lock()
					failed++
					mu.Unlock()
				}
			}(step)
		}
		wg.Wait()
	}
	return failed
}

// Process applies the pipeline to every item read from in and forwards it
// on the returned channel, which is closed once in is drained. Items that
// arrive after ctx is done are dropped.
func (p *Pipeline[T]) Process(ctx context.Context, in <-chan *T) <-chan *T {
	out := make(chan *T)
	go func() {
		defer close(out)
		for item := range in {
			if ctx.Err() != nil {
				continue
			}
			p.Apply(ctx, item)
			select {
			case out <- item:
			case <-ctx.Done():
			}
		}
	}()
	return out
}

func stageName[T any](s Stage[T], i int) string {
	if s.name != "" {
		return s.name
	}
	return "stage-" + strconv.Itoa(i)
}
