package latency

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitZeroDelayReturnsImmediately(t *testing.T) {
	if err := New(0).Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if New(-time.Second).Delay() != 0 {
		t.Fatal("negative delays clamp to zero")
	}
}

func TestWaitHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	started := time.Now()
	err := New(time.Hour).Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(started) > time.Second {
		t.Fatal("wait should return as soon as the context is done")
	}
}

func TestWaitSleeps(t *testing.T) {
	started := time.Now()
	if err := New(20 * time.Millisecond).Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(started) < 20*time.Millisecond {
		t.Fatal("expected the delay to elapse")
	}
}
