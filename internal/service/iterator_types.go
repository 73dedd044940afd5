package service

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessageIterator is the message source consumed by Iterator.
// Implementations own the lifecycle of the underlying connection.
type MessageIterator interface {
	// Messages returns a channel that is closed when the consumer stops.
	Messages() <-chan kafka.Message

	// CommitOffset acknowledges that msg has been processed.
	CommitOffset(ctx context.Context, msg kafka.Message) error
}

// DecodeFunc turns a message payload into a T.
type DecodeFunc[T any] func(data []byte) (T, error)

// HandlerFunc processes one decoded message. Returning an error leaves the
// offset uncommitted.
type HandlerFunc[T any] func(ctx context.Context, item T) error

// Delivery pairs a decoded value with the message it came from.
type Delivery[T any] struct {
	Data    T
	Message kafka.Message
}
