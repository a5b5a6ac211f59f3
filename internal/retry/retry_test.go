package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 1, want: 1 * time.Second},
		{attempt: 2, want: 2 * time.Second},
		{attempt: 3, want: 4 * time.Second},
		{attempt: 4, want: 8 * time.Second},
		{attempt: 0, want: 1 * time.Second},
		{attempt: -5, want: 1 * time.Second},
		{attempt: 1000, want: (1 << maxShift) * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NextDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestPolicy_DefaultSequence(t *testing.T) {
	p := New(0)
	assert.Equal(t, DefaultMaxAttempts, p.MaxAttempts)

	var delays []time.Duration
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		delays = append(delays, p.NextDelay(attempt))
	}
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, delays)
}

func TestShouldRetry(t *testing.T) {
	p := New(3)
	assert.True(t, p.ShouldRetry(1))
	assert.True(t, p.ShouldRetry(2))
	assert.False(t, p.ShouldRetry(3))
	assert.False(t, p.ShouldRetry(4))

	assert.False(t, ShouldRetry(1, 1))
}

func TestSleep(t *testing.T) {
	t.Run("returns after delay", func(t *testing.T) {
		start := time.Now()
		assert.NoError(t, Sleep(context.Background(), 10*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	})

	t.Run("honors cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		err := Sleep(ctx, time.Hour)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("zero delay returns immediately", func(t *testing.T) {
		assert.NoError(t, Sleep(context.Background(), 0))
	})
}
