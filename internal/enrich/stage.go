// Package enrich runs independent steps against an item in parallel within
// a stage, and runs stages one after another.
package enrich

import (
	"context"
)

// Step mutates item in place. Steps in the same stage run concurrently on
// the same item, so they must write to disjoint fields. A returned error is
// logged and does not stop the item.
//
// Example:
//
//	func addExtract(ctx context.Context, a *models.Article) error { a.Extract = "..."; return nil }
type Step[T any] func(ctx context.Context, item *T) error

// Stage groups steps that may run in parallel for one item.
type Stage[T any] struct {
	name  string
	steps []Step[T]
}

// NewStage constructs a Stage from the provided steps.
func NewStage[T any](steps ...Step[T]) Stage[T] {
	return Stage[T]{steps: steps}
}

// Named returns a copy of s that carries name in its log lines.
func (s Stage[T]) Named(name string) Stage[T] {
	s.name = name
	return s
}

// Len reports how many steps the stage holds.
func (s Stage[T]) Len() int {
	return len(s.steps)
}
