// Package retry provides a bounded fixed-interval retry utility for operations
// whose effects are only eventually visible.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy describes a bounded retry budget: up to Attempts tries with Interval
// between consecutive tries. The first attempt runs immediately.
type Policy struct {
	Attempts int
	Interval time.Duration
}

// Do runs op until it succeeds, the budget is exhausted, or ctx is done.
// Exhausting the budget returns the last error from op; ctx cancellation
// returns ctx.Err.
func (p Policy) Do(ctx context.Context, op func() error) error {
	if p.Attempts < 1 {
		return fmt.Errorf("retry policy must allow at least one attempt")
	}

	var last error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Interval):
			}
		}

		if last = op(); last == nil {
			return nil
		}
	}

	return fmt.Errorf("retry budget exhausted after %d attempts: %w", p.Attempts, last)
}
