package booking

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates all outbound platform calls issued by the catalog and the
// executor. Permits replenish on a timer independent of request outcomes, so
// waiting may block the caller but never deadlocks.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter allows maxRequests calls per period, with bursting up to the full
// allowance. Non-positive inputs fall back to one request per minute.
func NewLimiter(maxRequests int, period time.Duration) *Limiter {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	if period <= 0 {
		period = time.Minute
	}
	interval := period / time.Duration(maxRequests)
	return &Limiter{limiter: rate.NewLimiter(rate.Every(interval), maxRequests)}
}

// Wait blocks until a permit is available or the context is cancelled. A nil
// limiter admits every call.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
