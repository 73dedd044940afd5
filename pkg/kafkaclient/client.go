// Package kafkaclient wraps kafka-go readers and writers for the crawl job
// queue.
package kafkaclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Reader is the part of *kafka.Reader the consumer uses.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config selects the topic and consumer group to read from.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
	// RetryBackoff is the pause after a failed read. Defaults to one second.
	RetryBackoff time.Duration
}

func (c Config) validate() error {
	switch {
	case len(c.Brokers) == 0 || c.Brokers[0] == "":
		return errors.New("kafka: at least one broker is required")
	case c.Topic == "":
		return errors.New("kafka: topic is required")
	case c.GroupID == "":
		return errors.New("kafka: group id is required")
	}
	return nil
}

// Consumer reads messages in a background loop and hands them out on a
// channel. Offsets are only committed through CommitOffset.
type Consumer struct {
	reader   Reader
	backoff  time.Duration
	logger   *slog.Logger
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	messages chan kafka.Message
}

// NewConsumer creates a Consumer for cfg.
func NewConsumer(cfg Config, logger *slog.Logger) (*Consumer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
		// Offsets are committed explicitly.
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       10e6,
	})
	return newConsumer(reader, cfg.RetryBackoff, logger), nil
}

func newConsumer(reader Reader, backoff time.Duration, logger *slog.Logger) *Consumer {
	if backoff <= 0 {
		backoff = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		reader:   reader,
		backoff:  backoff,
		logger:   logger,
		done:     make(chan struct{}),
		messages: make(chan kafka.Message),
	}
}

// Messages returns the channel fed by StartConsuming. It is closed when
// the loop exits.
func (c *Consumer) Messages() <-chan kafka.Message {
	return c.messages
}

func (c *Consumer) CommitOffset(ctx context.Context, msg kafka.Message) error {
	c.logger.Debug("committing offset", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
	return c.reader.CommitMessages(ctx, msg)
}

// StartConsuming begins the read loop in a separate goroutine.
func (c *Consumer) StartConsuming(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(c.messages)

		c.logger.Info("starting kafka consumer loop")
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("context canceled, stopping consumer loop")
				return
			case <-c.done:
				c.logger.Info("shutdown signal received, stopping consumer loop")
				return
			default:
			}

			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) {
					c.logger.Info("kafka reader closed")
					return
				}
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("error reading message", "error", err)
				if !c.sleep(ctx) {
					return
				}
				continue
			}

			select {
			case c.messages <- msg:
				c.logger.Debug("message received", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
		}
	}()
}

// sleep waits out the backoff and reports whether the loop should go on.
func (c *Consumer) sleep(ctx context.Context) bool {
	t := time.NewTimer(c.backoff)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	case <-c.done:
		return false
	}
}

// Stop ends the read loop and closes the reader. It is safe to call more
// than once.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() {
		c.logger.Info("stopping kafka consumer")
		close(c.done)
		if err := c.reader.Close(); err != nil {
			c.logger.Error("failed to close kafka reader", "error", err)
		}
		c.wg.Wait()
		c.logger.Info("kafka consumer stopped")
	})
}
