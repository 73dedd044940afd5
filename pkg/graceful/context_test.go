package graceful

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"syscall"
	"testing"
	"time"
)

func TestGracefulContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx, cancel := Context(context.Background(), logger)
	defer cancel()

	go func() {
		time.Sleep(100 * time.Millisecond)
		if err := syscall.Kill(syscall.Getpid(), syscall.SIGINT); err != nil {
			t.Errorf("Failed to send SIGINT: %v", err)
		}
	}()

	select {
	case <-ctx.Done():
		if !errors.Is(ctx.Err(), context.Canceled) {
			t.Errorf("Expected context.Canceled error, got %v", ctx.Err())
		}
		var sigErr *SignalError
		if !errors.As(context.Cause(ctx), &sigErr) || sigErr.Signal != syscall.SIGINT {
			t.Errorf("Expected SIGINT cause, got %v", context.Cause(ctx))
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Test timed out waiting for context to be canceled.")
	}
}

func TestGracefulContext_Cancel(t *testing.T) {
	ctx, cancel := Context(context.Background(), nil)
	cancel()

	select {
	case <-ctx.Done():
		if !errors.Is(context.Cause(ctx), context.Canceled) {
			t.Errorf("Expected context.Canceled cause, got %v", context.Cause(ctx))
		}
	case <-time.After(time.Second):
		t.Fatal("cancel did not close the context")
	}
}
