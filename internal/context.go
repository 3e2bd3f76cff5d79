package internal

import (
	"context"
	"time"
)

// DefaultTimeout bounds store calls when the caller supplies none.
const DefaultTimeout = 5 * time.Second

// WithTimeout returns a context with timeout, defaulting to DefaultTimeout if duration is zero or negative.
// A parent deadline that is already sooner wins.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if duration <= 0 {
		duration = DefaultTimeout
	}
	return context.WithTimeout(ctx, duration)
}
