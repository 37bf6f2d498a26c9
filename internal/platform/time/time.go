// Package time contains time related helpers
package time

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"
)

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// ParseBound reads an optional RFC3339 instant, blank yields nil
func ParseBound(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return Ptr(t.UTC()), nil
}

// SleepCtx waits for d or until ctx is done, whichever comes first
// d <= 0 returns at once
func SleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Jitter picks a duration in [d/2, d); durations too small to halve come back unchanged
func Jitter(d time.Duration) time.Duration {
	half := d / 2
	if half <= 0 {
		return d
	}
	return half + rand.N(half)
}

// Backoff doubles base per attempt up to ceiling
// the shift is capped so large attempt counts cannot overflow into a negative duration
func Backoff(base, ceiling time.Duration, attempt int) time.Duration {
	d := base << uint(min(max(attempt, 0), 16))
	if d <= 0 || d > ceiling {
		return ceiling
	}
	return d
}
