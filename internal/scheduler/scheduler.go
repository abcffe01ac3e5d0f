// Package scheduler drives the periodic fetch, match, book, notify cycle and
// owns the process lifecycle around it.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/usc-booking-bot/internal/booking"
	"github.com/example/usc-booking-bot/internal/notify"
)

// State is the lifecycle phase of the scheduler.
type State string

const (
	StateIdle         State = "idle"
	StateInitializing State = "initializing"
	StateRunning      State = "running"
	StateStopping     State = "stopping"
	StateStopped      State = "stopped"
)

// SessionControl is the slice of the platform session the scheduler drives.
type SessionControl interface {
	Authenticate(ctx context.Context) error
	Close() error
}

// SlotFinder yields the slots that match preferences and still have capacity.
type SlotFinder interface {
	FindMatching(ctx context.Context) []booking.Slot
}

// SlotBooker attempts a reservation and reports the terminal outcome.
type SlotBooker interface {
	Book(ctx context.Context, slot booking.Slot) bool
}

// Notifier broadcasts an event to all configured channels.
type Notifier interface {
	Notify(ctx context.Context, event notify.Event)
}

// Config carries the scheduling policy.
type Config struct {
	// CheckInterval is the fixed wall-clock period between cycle triggers.
	CheckInterval time.Duration
	// AutoBook enables reservation attempts for matched slots.
	AutoBook bool
	// MaxBookingsPerCycle caps reservation attempts within one cycle.
	MaxBookingsPerCycle int
	// NotifyOn restricts which event categories produce notifications.
	// Lifecycle events are always delivered.
	NotifyOn []notify.Category
}

// Scheduler executes one cycle per tick: fetch slots, filter, book matches up
// to the per-cycle cap, and report each significant transition. A cycle in
// flight suppresses further ticks until it returns, so cycles never overlap.
type Scheduler struct {
	session  SessionControl
	finder   SlotFinder
	booker   SlotBooker
	notifier Notifier

	interval    time.Duration
	autoBook    bool
	maxBookings int
	notifyOn    map[notify.Category]bool

	now    func() time.Time
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// New constructs a Scheduler. A non-positive interval defaults to five
// minutes; an empty NotifyOn list enables every category.
func New(session SessionControl, finder SlotFinder, booker SlotBooker, notifier Notifier, cfg Config, now func() time.Time, logger *slog.Logger) *Scheduler {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 5 * time.Minute
	}
	if cfg.MaxBookingsPerCycle <= 0 {
		cfg.MaxBookingsPerCycle = 1
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	enabled := make(map[notify.Category]bool)
	if len(cfg.NotifyOn) == 0 {
		for _, category := range notify.Categories() {
			enabled[category] = true
		}
	} else {
		for _, category := range cfg.NotifyOn {
			enabled[category] = true
		}
	}

	return &Scheduler{
		session:     session,
		finder:      finder,
		booker:      booker,
		notifier:    notifier,
		interval:    cfg.CheckInterval,
		autoBook:    cfg.AutoBook,
		maxBookings: cfg.MaxBookingsPerCycle,
		notifyOn:    enabled,
		now:         now,
		logger:      logger,
		state:       StateIdle,
	}
}

// State returns the current lifecycle phase.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Run blocks until the context is cancelled. Initialization failure is fatal
// and returned to the caller after a best-effort failure notification; any
// error inside a single cycle is contained, reported, and survived.
func (s *Scheduler) Run(ctx context.Context) error {
	s.setState(StateInitializing)

	if err := s.initialize(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to initialize scheduler", "error", err)
		s.notifier.Notify(ctx, notify.Event{
			Category: notify.CategoryError,
			Subject:  "Booking Bot Error",
			Body:     fmt.Sprintf("Failed to initialize: %v", err),
		})
		s.setState(StateStopped)
		return err
	}

	s.setState(StateRunning)
	s.notifier.Notify(ctx, notify.Event{
		Category: notify.CategoryLifecycle,
		Subject:  "Booking Bot Started",
		Body:     fmt.Sprintf("The booking bot has started monitoring at %s", s.now().Format(time.RFC3339)),
	})
	s.logger.InfoContext(ctx, "scheduler started", "check_interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case <-ticker.C:
			// runCycle executes synchronously: ticks arriving while a
			// cycle is in flight are dropped, never queued.
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) initialize(ctx context.Context) error {
	if err := s.session.Authenticate(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "scheduler initialized successfully")
	return nil
}

// runCycle executes one fetch/match/book/notify pass. Failures inside the
// cycle, including panics from collaborators, are reported and contained so
// the loop keeps ticking.
func (s *Scheduler) runCycle(ctx context.Context) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err := fmt.Errorf("cycle failed: %v", recovered)
			s.logger.ErrorContext(ctx, "error during check and book", "error", err)
			if s.notifyOn[notify.CategoryError] {
				s.notifier.Notify(ctx, notify.Event{
					Category: notify.CategoryError,
					Subject:  "Booking Bot Error",
					Body:     fmt.Sprintf("An error occurred: %v", err),
				})
			}
		}
	}()

	s.logger.InfoContext(ctx, "checking for available classes")
	matches := s.finder.FindMatching(ctx)
	if len(matches) == 0 {
		s.logger.DebugContext(ctx, "no matching classes found")
		return
	}

	if s.notifyOn[notify.CategorySlotFound] {
		s.notifier.Notify(ctx, notify.Event{
			Category: notify.CategorySlotFound,
			Subject:  "Available Classes Found",
			Body:     fmt.Sprintf("Found %d matching classes:\n\n%s", len(matches), slotList(matches)),
		})
	}

	if !s.autoBook {
		return
	}

	limit := min(s.maxBookings, len(matches))
	for _, slot := range matches[:limit] {
		if ctx.Err() != nil {
			return
		}
		if s.booker.Book(ctx, slot) {
			s.notifyBookingOutcome(ctx, slot, true)
		} else {
			s.notifyBookingOutcome(ctx, slot, false)
		}
	}
}

func (s *Scheduler) notifyBookingOutcome(ctx context.Context, slot booking.Slot, success bool) {
	category := notify.CategoryBookingSuccess
	subject := "Class Booked Successfully"
	verb := "Successfully booked"
	if !success {
		category = notify.CategoryBookingFailure
		subject = "Booking Failed"
		verb = "Failed to book"
	}
	if !s.notifyOn[category] {
		return
	}
	s.notifier.Notify(ctx, notify.Event{
		Category: category,
		Subject:  subject,
		Body: fmt.Sprintf("%s: %s\nLocation: %s\nTime: %s",
			verb, slot.Name, slot.Location, slot.Start.Format("2006-01-02 15:04")),
	})
}

// shutdown runs the teardown path: close the session and announce the stop.
// It runs even when the stop was triggered mid-schedule by an interrupt.
func (s *Scheduler) shutdown() {
	s.setState(StateStopping)
	s.logger.Info("scheduler stopping")

	if err := s.session.Close(); err != nil {
		s.logger.Error("failed to close session", "error", err)
	}

	// The run context is already cancelled; teardown notifications get
	// their own short-lived context so they can still go out.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.notifier.Notify(ctx, notify.Event{
		Category: notify.CategoryLifecycle,
		Subject:  "Booking Bot Stopped",
		Body:     fmt.Sprintf("The booking bot has stopped at %s", s.now().Format(time.RFC3339)),
	})

	s.setState(StateStopped)
	s.logger.Info("scheduler stopped")
}

func slotList(slots []booking.Slot) string {
	lines := make([]string, 0, len(slots))
	for _, slot := range slots {
		lines = append(lines, slot.Summary())
	}
	return strings.Join(lines, "\n")
}
