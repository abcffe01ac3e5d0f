package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SlotBooker issues a reservation request for a slot identifier. The client
// reference accompanies every attempt of one booking series so the platform
// can correlate and deduplicate repeated requests.
type SlotBooker interface {
	BookSlot(ctx context.Context, slotID, clientReference string) error
}

// CredentialRefresher exchanges the stored refresh token for a new access
// token without re-authenticating with primary credentials.
type CredentialRefresher interface {
	Refresh(ctx context.Context) error
}

// Executor attempts to reserve slots under a bounded retry policy with
// credential refresh on token expiry.
type Executor struct {
	booker       SlotBooker
	session      CredentialRefresher
	limiter      *Limiter
	maxRetries   int
	retryDelay   time.Duration
	sleep        func(ctx context.Context, d time.Duration)
	newReference func() string
	logger       *slog.Logger
}

// NewExecutor constructs an Executor. maxRetries bounds the total attempt
// count per slot; retryDelay is the fixed pause between attempts.
func NewExecutor(booker SlotBooker, session CredentialRefresher, limiter *Limiter, maxRetries int, retryDelay time.Duration, logger *slog.Logger) *Executor {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	if retryDelay < 0 {
		retryDelay = 0
	}
	return &Executor{
		booker:       booker,
		session:      session,
		limiter:      limiter,
		maxRetries:   maxRetries,
		retryDelay:   retryDelay,
		sleep:        sleepContext,
		newReference: uuid.NewString,
		logger:       defaultLogger(logger),
	}
}

// Book attempts to reserve the slot and reports whether a reservation was
// confirmed. Each attempt acquires a rate-limiter permit; a 2xx response is
// terminal success, a token expiry triggers exactly one credential refresh
// before the next attempt, and any other failure consumes the attempt. After
// maxRetries attempts without success the outcome is terminal failure. No
// delay is spent after the final attempt.
func (e *Executor) Book(ctx context.Context, slot Slot) bool {
	logger := serviceLogger(ctx, e.logger, "Executor", "Book",
		"class_id", slot.ID,
		"class_name", slot.Name,
	)

	reference := e.newReference()
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		if err := e.limiter.Wait(ctx); err != nil {
			logger.WarnContext(ctx, "rate limiter wait aborted", "error", err)
			return false
		}

		err := e.booker.BookSlot(ctx, slot.ID, reference)
		if err == nil {
			logger.InfoContext(ctx, "successfully booked class", "attempt", attempt)
			return true
		}

		if errors.Is(err, ErrTokenExpired) {
			logger.WarnContext(ctx, "token expired, refreshing")
			if refreshErr := e.session.Refresh(ctx); refreshErr != nil {
				logger.ErrorContext(ctx, "token refresh failed", "error", refreshErr, "error_kind", ErrorKind(refreshErr))
			}
		} else {
			logger.ErrorContext(ctx, "booking attempt failed", "error", err, "error_kind", ErrorKind(err), "attempt", attempt)
		}

		if attempt < e.maxRetries {
			e.sleep(ctx, e.retryDelay)
		}
	}

	logger.ErrorContext(ctx, "booking failed after exhausting retries", "attempts", e.maxRetries)
	return false
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
