package workers

import (
	"context"
	"time"

	"timeline-media/internal/metrics"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Gate bounds how many media items are processed at once. Waiters are
// admitted in arrival order.
type Gate struct {
	sem *semaphore.Weighted
}

// NewGate creates a gate with the given number of slots (minimum 1).
func NewGate(limit int) *Gate {
	if limit < 1 {
		limit = 1
	}
	return &Gate{sem: semaphore.NewWeighted(int64(limit))}
}

// Acquire blocks until a slot is free or ctx is done. Every successful
// Acquire must be paired with exactly one Release.
func (g *Gate) Acquire(ctx context.Context) error {
	start := time.Now()
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	metrics.GateWaitDuration.Observe(time.Since(start).Seconds())
	metrics.GateInFlight.Inc()
	return nil
}

// Release frees a slot taken by Acquire.
func (g *Gate) Release() {
	metrics.GateInFlight.Dec()
	g.sem.Release(1)
}

// Go waits for a slot in the calling goroutine, then runs fn on group while
// holding it. Calls are admitted in the order they are made. The slot is
// released on every exit path of fn, including panics. A non-nil error means
// no slot was taken and fn was not started.
func (g *Gate) Go(ctx context.Context, group *errgroup.Group, fn func() error) error {
	if err := g.Acquire(ctx); err != nil {
		return err
	}
	group.Go(func() error {
		defer g.Release()
		return fn()
	})
	return nil
}
