// Package ratelimit paces outbound knowledge-base calls so a long run stays
// within the public endpoints' courtesy limits.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer sleeps a fixed delay before every outbound call and provides the
// pause inserted between identities. The limiter keeps callers sharing one
// pacer at least one interval apart.
type Pacer struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// New creates a pacer delaying each call by interval. A non-positive
// interval disables pacing.
func New(interval time.Duration) *Pacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Pacer{
		limiter:  rate.NewLimiter(limit, 1),
		interval: interval,
	}
}

// Interval reports the configured minimum spacing.
func (p *Pacer) Interval() time.Duration {
	if p == nil {
		return 0
	}
	return p.interval
}

// Wait sleeps the fixed delay, including before the first call of a run,
// then takes a limiter token. It returns early when ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if err := SleepWithContext(ctx, p.interval); err != nil {
		return err
	}
	return p.limiter.Wait(ctx)
}

// Pause sleeps for d unless ctx is cancelled first.
func (p *Pacer) Pause(ctx context.Context, d time.Duration) error {
	return SleepWithContext(ctx, d)
}

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
