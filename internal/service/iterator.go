// Package service consumes crawl jobs from a message source and runs them.
package service

import (
	"context"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// Iterator decodes messages from a MessageIterator into values of type T.
// It does not start or stop the message source.
type Iterator[T any] struct {
	msgIterator MessageIterator
	decode      DecodeFunc[T]
	logger      *slog.Logger
}

func NewIterator[T any](iterator MessageIterator, decode DecodeFunc[T], logger *slog.Logger) *Iterator[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Iterator[T]{
		msgIterator: iterator,
		decode:      decode,
		logger:      logger,
	}
}

// Objects streams decoded deliveries until the source closes or ctx is
// done. Messages that fail to decode are logged, committed and skipped so
// they are not redelivered forever. Offsets of emitted deliveries are left
// to the caller.
func (it *Iterator[T]) Objects(ctx context.Context) <-chan Delivery[T] {
	out := make(chan Delivery[T])
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-it.msgIterator.Messages():
				if !ok {
					return
				}
				data, err := it.decode(msg.Value)
				if err != nil {
					it.logger.Warn("dropping undecodable message", "offset", msg.Offset, "partition", msg.Partition, "error", err)
					it.commit(ctx, msg)
					continue
				}
				select {
				case out <- Delivery[T]{Data: data, Message: msg}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Run hands every decoded value to handler and commits its offset once
// handler succeeds. It returns when the source closes or ctx is done.
func (it *Iterator[T]) Run(ctx context.Context, handler HandlerFunc[T]) error {
	for d := range it.Objects(ctx) {
		if err := handler(ctx, d.Data); err != nil {
			it.logger.Error("handler failed, offset not committed", "offset", d.Message.Offset, "partition", d.Message.Partition, "error", err)
			continue
		}
		it.commit(ctx, d.Message)
	}
	return context.Cause(ctx)
}

func (it *Iterator[T]) commit(ctx context.Context, msg kafka.Message) {
	if err := it.msgIterator.CommitOffset(ctx, msg); err != nil {
		it.logger.Error("failed to commit offset", "offset", msg.Offset, "error", err)
	}
}
