package proposal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLimiter_AcquireRelease(t *testing.T) {
	limiter := NewLimiter(2, time.Second, nil)
	ctx := context.Background()

	if got := limiter.Available(); got != 2 {
		t.Errorf("initial Available = %d, want 2", got)
	}

	if err := limiter.Acquire(ctx, "a"); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	if err := limiter.Acquire(ctx, "b"); err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}

	if got := limiter.ActiveCount(); got != 2 {
		t.Errorf("after two Acquires, ActiveCount = %d, want 2", got)
	}
	if got := limiter.Available(); got != 0 {
		t.Errorf("after two Acquires, Available = %d, want 0", got)
	}

	limiter.Release("a")
	limiter.Release("b")

	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("after Release, ActiveCount = %d, want 0", got)
	}
	if got := limiter.Available(); got != 2 {
		t.Errorf("after Release, Available = %d, want 2", got)
	}
}

func TestLimiter_ReleaseUnknownID(t *testing.T) {
	limiter := NewLimiter(1, time.Second, nil)
	if err := limiter.Acquire(context.Background(), "a"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	limiter.Release("missing")
	limiter.Release("a")
	limiter.Release("a")

	if got := limiter.Available(); got != 1 {
		t.Errorf("Available = %d, want 1", got)
	}
}

func TestLimiter_BlocksWhenFull(t *testing.T) {
	limiter := NewLimiter(1, 50*time.Millisecond, nil)
	ctx := context.Background()

	if err := limiter.Acquire(ctx, "a"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release("a")

	start := time.Now()
	err := limiter.Acquire(ctx, "b")
	elapsed := time.Since(start)

	if err != ErrTooManyPending {
		t.Errorf("expected ErrTooManyPending, got %v", err)
	}
	if elapsed < 40*time.Millisecond {
		t.Errorf("returned after %v, expected to wait for the timeout", elapsed)
	}
}

func TestLimiter_ContextCancelled(t *testing.T) {
	limiter := NewLimiter(1, time.Second, nil)

	if err := limiter.Acquire(context.Background(), "a"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release("a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Acquire(ctx, "b"); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLimiter_GateRefusesBeforeWaiting(t *testing.T) {
	errClosed := errors.New("closed")
	limiter := NewLimiter(1, time.Second, func() error { return errClosed })

	start := time.Now()
	err := limiter.Acquire(context.Background(), "a")

	if !errors.Is(err, errClosed) {
		t.Fatalf("expected gate error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("gate refusal took %v, expected it to be immediate", elapsed)
	}
	if got := limiter.Available(); got != 1 {
		t.Errorf("Available = %d, want 1", got)
	}
}

func TestLimiter_GateClosesWhileWaiting(t *testing.T) {
	errClosed := errors.New("closed")
	var closed atomic.Bool
	limiter := NewLimiter(1, time.Second, func() error {
		if closed.Load() {
			return errClosed
		}
		return nil
	})
	ctx := context.Background()

	if err := limiter.Acquire(ctx, "first"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	result := make(chan error, 1)
	go func() { result <- limiter.Acquire(ctx, "second") }()

	// The second submission is queued for the slot when the gate closes.
	time.Sleep(30 * time.Millisecond)
	closed.Store(true)
	limiter.Release("first")

	select {
	case err := <-result:
		if !errors.Is(err, errClosed) {
			t.Fatalf("expected gate error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("queued Acquire did not return")
	}

	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("ActiveCount = %d, want 0", got)
	}
	if got := limiter.Available(); got != 1 {
		t.Errorf("refused submission kept its slot: Available = %d, want 1", got)
	}
}

func TestLimiter_PendingOldestFirst(t *testing.T) {
	limiter := NewLimiter(3, time.Second, nil)
	ctx := context.Background()

	if got := limiter.OldestAge(); got != 0 {
		t.Errorf("idle OldestAge = %v, want 0", got)
	}

	for i := 0; i < 3; i++ {
		if err := limiter.Acquire(ctx, fmt.Sprintf("sub-%d", i)); err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	got := limiter.Pending()
	want := []string{"sub-0", "sub-1", "sub-2"}
	if len(got) != len(want) {
		t.Fatalf("Pending = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Pending[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if age := limiter.OldestAge(); age < 10*time.Millisecond {
		t.Errorf("OldestAge = %v, want at least 10ms", age)
	}

	limiter.Release("sub-0")
	if got := limiter.Pending(); len(got) != 2 || got[0] != "sub-1" {
		t.Errorf("after release, Pending = %v", got)
	}
}

func TestLimiter_WaitForDrain(t *testing.T) {
	limiter := NewLimiter(3, time.Second, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("sub-%d", i)
		if err := limiter.Acquire(ctx, id); err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(30 * time.Millisecond)
			limiter.Release(id)
		}()
	}

	drainCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := limiter.WaitForDrain(drainCtx); err != nil {
		t.Errorf("WaitForDrain failed: %v", err)
	}
	wg.Wait()

	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("after drain, ActiveCount = %d, want 0", got)
	}
}

func TestLimiter_WaitForDrainTimeout(t *testing.T) {
	limiter := NewLimiter(1, time.Second, nil)
	if err := limiter.Acquire(context.Background(), "a"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release("a")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := limiter.WaitForDrain(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}
