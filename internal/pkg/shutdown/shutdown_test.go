package shutdown

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"clipcap/internal/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json", Output: io.Discard})
}

func TestShutdownRunsHandlers(t *testing.T) {
	m := NewManager(testLogger(), 5*time.Second)

	var calls int32
	m.Register("first", func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	m.Register("second", func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	m.Shutdown()

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 handlers to run, got %d", got)
	}

	select {
	case <-m.Done():
	default:
		t.Error("expected Done channel to be closed after Shutdown")
	}
}

func TestShutdownHandlerError(t *testing.T) {
	m := NewManager(testLogger(), 5*time.Second)

	var ran int32
	m.Register("failing", func(ctx context.Context) error {
		return fmt.Errorf("cleanup failed")
	})
	m.Register("ok", func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})

	// A failing handler must not prevent the others from running.
	m.Shutdown()

	if atomic.LoadInt32(&ran) != 1 {
		t.Error("expected remaining handler to run despite failure")
	}
}

func TestShutdownTimeout(t *testing.T) {
	m := NewManager(testLogger(), 50*time.Millisecond)

	m.Register("slow", func(ctx context.Context) error {
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
		}
		return nil
	})

	start := time.Now()
	m.Shutdown()
	elapsed := time.Since(start)

	if elapsed > 2*time.Second {
		t.Errorf("Shutdown should respect the timeout, took %s", elapsed)
	}
}

func TestDefaultTimeout(t *testing.T) {
	m := NewManager(testLogger(), 0)
	if m.timeout != 30*time.Second {
		t.Errorf("expected default timeout of 30s, got %s", m.timeout)
	}
}
