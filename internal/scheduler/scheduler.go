// Package scheduler runs per-segment work under a concurrency ceiling with a
// staggered launch, keeping every result in its input slot.
package scheduler

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pricofy/chunked-translator/internal/domain"
)

// Worker translates one segment. It must not fail; failures are outcomes.
type Worker func(ctx context.Context, seg domain.Segment) domain.SegmentOutcome

// RunAll runs worker once per segment with at most limit in flight and at
// least stagger between successive launches. The outcome of segments[i] is
// returned at position i whatever the completion order.
func RunAll(ctx context.Context, segments []domain.Segment, worker Worker, limit int, stagger time.Duration) []domain.SegmentOutcome {
	return Run[domain.Segment, domain.SegmentOutcome](ctx, segments, limit, stagger, worker)
}

// Run is the generic form of RunAll.
//
// A token is taken from a buffered channel before each launch and returned
// when the task finishes, so a full pool blocks the launching loop until a
// task completes. A single item runs inline on the caller's goroutine.
// Cancelling ctx skips the remaining stagger waits but every item is still
// launched exactly once; fn is expected to observe ctx itself.
func Run[T, R any](ctx context.Context, items []T, limit int, stagger time.Duration, fn func(context.Context, T) R) []R {
	results := make([]R, len(items))

	switch len(items) {
	case 0:
		return results
	case 1:
		results[0] = fn(ctx, items[0])
		return results
	}

	if limit < 1 {
		limit = 1
	}

	sem := make(chan struct{}, limit)
	var g errgroup.Group

	for i, item := range items {
		if i > 0 {
			wait(ctx, stagger)
		}

		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			results[i] = fn(ctx, item)
			return nil
		})
	}

	// Tasks never return errors; Wait is only the join.
	_ = g.Wait()
	return results
}

// wait sleeps for d unless ctx is done first.
func wait(ctx context.Context, d time.Duration) {
	if d <= 0 || ctx.Err() != nil {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
