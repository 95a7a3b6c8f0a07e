package proposal

// limiter.go admits proposals for forwarding and tracks them until the
// forward finishes.
//
// Admission has two parts. A gate decides whether forwarding makes sense
// at all (the endpoint breaker is not open). It is checked before a
// submission queues for a slot and again once the slot is held, since the
// breaker may trip while the submission waits. The slots bound how many
// forwards run at once; a submission waits up to maxWait for one before
// failing with ErrTooManyPending.
//
// Each admitted forward is tracked by submission ID so shutdown can report
// what is still outstanding.

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrTooManyPending is returned when all forward slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyPending = errors.New("too many pending proposals, please try again later")

// DefaultMaxConcurrent is the default limit for parallel forwards.
const DefaultMaxConcurrent = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 2 * time.Second

// Gate reports whether a proposal may be forwarded right now.
// A non-nil error is returned to the submitter unchanged.
type Gate func() error

// Limiter admits proposal forwards and tracks the ones in flight.
type Limiter struct {
	semaphore chan struct{}
	maxWait   time.Duration
	gate      Gate

	mu       sync.Mutex
	inflight map[string]time.Time
}

// NewLimiter creates a limiter that allows at most maxConcurrent simultaneous
// forwards. A nil gate admits everything.
func NewLimiter(maxConcurrent int, maxWait time.Duration, gate Gate) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	if gate == nil {
		gate = func() error { return nil }
	}

	return &Limiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
		gate:      gate,
		inflight:  make(map[string]time.Time),
	}
}

// Capacity returns the number of forwards allowed at once.
func (l *Limiter) Capacity() int {
	return cap(l.semaphore)
}

// Acquire admits submission id for forwarding.
// Returns the gate's error if forwarding is refused, ErrTooManyPending if
// no slot frees up in time, or the caller's context error.
// On success the caller MUST call Release(id) when the forward completes.
func (l *Limiter) Acquire(ctx context.Context, id string) error {
	if err := l.gate(); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
	case <-waitCtx.Done():
		// Distinguish caller cancellation from our own timeout
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyPending
	}

	if err := l.gate(); err != nil {
		<-l.semaphore
		return err
	}

	l.mu.Lock()
	l.inflight[id] = time.Now()
	l.mu.Unlock()
	return nil
}

// Release frees the slot held by submission id.
func (l *Limiter) Release(id string) {
	l.mu.Lock()
	_, ok := l.inflight[id]
	delete(l.inflight, id)
	l.mu.Unlock()

	if ok {
		<-l.semaphore
	}
}

// ActiveCount returns the number of forwards in flight.
func (l *Limiter) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.inflight)
}

// Available returns the number of free slots.
func (l *Limiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// Pending returns the IDs of forwards in flight, oldest first.
func (l *Limiter) Pending() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, 0, len(l.inflight))
	for id := range l.inflight {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return l.inflight[ids[i]].Before(l.inflight[ids[j]])
	})
	return ids
}

// OldestAge returns how long the oldest in-flight forward has been running,
// or zero when nothing is in flight.
func (l *Limiter) OldestAge() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	var oldest time.Time
	for _, started := range l.inflight {
		if oldest.IsZero() || started.Before(oldest) {
			oldest = started
		}
	}
	if oldest.IsZero() {
		return 0
	}
	return time.Since(oldest)
}

// WaitForDrain blocks until all forwards complete or ctx is cancelled.
func (l *Limiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
