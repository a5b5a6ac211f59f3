// Package retry provides the exponential backoff policy that bounds login
// attempts. The policy never sleeps; callers own suspension.
package retry

import (
	"context"
	"time"
)

// DefaultMaxAttempts is the attempt bound when none is configured.
const DefaultMaxAttempts = 3

// baseDelay is the delay after the first failed attempt.
const baseDelay = time.Second

// maxShift caps the exponent so large attempt numbers cannot overflow.
const maxShift = 16

// Policy is an exponential backoff controller: 1s, 2s, 4s, ...
type Policy struct {
	MaxAttempts int
}

// New returns a Policy bounded by maxAttempts, falling back to
// DefaultMaxAttempts for non-positive values.
func New(maxAttempts int) Policy {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return Policy{MaxAttempts: maxAttempts}
}

// NextDelay returns the delay that follows a failed attempt:
// 2^(attempt-1) seconds. Attempts below 1 are treated as 1.
func (p Policy) NextDelay(attempt int) time.Duration {
	return NextDelay(attempt)
}

// ShouldRetry reports whether another attempt is allowed after attempt.
func (p Policy) ShouldRetry(attempt int) bool {
	return ShouldRetry(attempt, p.MaxAttempts)
}

// NextDelay returns 2^(attempt-1) seconds.
func NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	shift := attempt - 1
	if shift > maxShift {
		shift = maxShift
	}
	return baseDelay << shift
}

// ShouldRetry reports whether attempt is below maxAttempts.
func ShouldRetry(attempt, maxAttempts int) bool {
	return attempt < maxAttempts
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
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
