// Package notify delivers booking events to the configured channels. Delivery
// is best effort: one channel's failure never prevents the others from being
// attempted and never propagates to the caller.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Category labels the kind of event being broadcast.
type Category string

const (
	CategorySlotFound      Category = "slot_found"
	CategoryBookingSuccess Category = "booking_success"
	CategoryBookingFailure Category = "booking_failure"
	CategoryError          Category = "error"
	CategoryLifecycle      Category = "lifecycle"
)

// Categories lists every valid event category.
func Categories() []Category {
	return []Category{
		CategorySlotFound,
		CategoryBookingSuccess,
		CategoryBookingFailure,
		CategoryError,
		CategoryLifecycle,
	}
}

// Event is the transient subject/body tuple broadcast to all channels within
// one cycle.
type Event struct {
	Category Category
	Subject  string
	Body     string
}

// ErrNotConfigured is returned by a channel whose credentials are incomplete.
// The channel skips delivery rather than failing the fanout.
var ErrNotConfigured = errors.New("notify: channel not configured")

// Notifier is one delivery channel.
type Notifier interface {
	Name() string
	Send(ctx context.Context, subject, body string) error
}

// Fanout broadcasts an event to every registered channel independently. A
// fanout with zero channels is a valid no-op configuration.
type Fanout struct {
	notifiers []Notifier
	logger    *slog.Logger
	warnEmpty sync.Once
}

// NewFanout constructs a Fanout over the supplied channels.
func NewFanout(logger *slog.Logger, notifiers ...Notifier) *Fanout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fanout{notifiers: notifiers, logger: logger}
}

// Add registers an additional channel.
func (f *Fanout) Add(notifier Notifier) {
	if notifier == nil {
		return
	}
	f.notifiers = append(f.notifiers, notifier)
}

// Len reports the number of registered channels.
func (f *Fanout) Len() int {
	return len(f.notifiers)
}

// Notify attempts delivery of the event on every channel. Failures are logged
// and contained; no ordering guarantee is provided between channels.
func (f *Fanout) Notify(ctx context.Context, event Event) {
	if len(f.notifiers) == 0 {
		f.warnEmpty.Do(func() {
			f.logger.Warn("no notification channels configured")
		})
		return
	}

	for _, notifier := range f.notifiers {
		if err := f.send(ctx, notifier, event); err != nil {
			if errors.Is(err, ErrNotConfigured) {
				f.logger.WarnContext(ctx, "notification channel skipped",
					"channel", notifier.Name(), "error", err)
				continue
			}
			f.logger.ErrorContext(ctx, "notification delivery failed",
				"channel", notifier.Name(), "category", string(event.Category), "error", err)
			continue
		}
		f.logger.InfoContext(ctx, "notification sent",
			"channel", notifier.Name(), "category", string(event.Category), "subject", event.Subject)
	}
}

// send guards a single channel so a panicking implementation cannot take the
// remaining channels down with it.
func (f *Fanout) send(ctx context.Context, notifier Notifier, event Event) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("channel panicked: %v", recovered)
		}
	}()
	return notifier.Send(ctx, event.Subject, event.Body)
}
