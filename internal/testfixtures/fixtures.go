// Package testfixtures provides deterministic fixtures shared by the booking
// and scheduler test suites.
package testfixtures

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/usc-booking-bot/internal/booking"
)

var slotCounter uint64

// referenceTime is a Tuesday evening, inside the canonical preference window.
var referenceTime = time.Date(2024, time.January, 16, 18, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// SlotOption configures the generated slot fixture.
type SlotOption func(*booking.Slot)

// WithLocation overrides the slot location.
func WithLocation(location string) SlotOption {
	return func(s *booking.Slot) { s.Location = location }
}

// WithActivity overrides the slot activity.
func WithActivity(activity string) SlotOption {
	return func(s *booking.Slot) { s.Activity = activity }
}

// WithStart overrides the slot start, keeping a one hour duration.
func WithStart(start time.Time) SlotOption {
	return func(s *booking.Slot) {
		s.Start = start
		s.End = start.Add(time.Hour)
	}
}

// WithAvailability overrides the free and total capacity.
func WithAvailability(available, total int) SlotOption {
	return func(s *booking.Slot) {
		s.AvailableSlots = available
		s.TotalSlots = total
	}
}

// NewSlotFixture returns a deterministic bookable slot with optional overrides.
func NewSlotFixture(opts ...SlotOption) booking.Slot {
	idx := atomic.AddUint64(&slotCounter, 1)
	slot := booking.Slot{
		ID:             fmt.Sprintf("class-%03d", idx),
		Name:           fmt.Sprintf("Yoga Flow %03d", idx),
		Location:       "Berlin Mitte",
		Activity:       "Yoga",
		Start:          referenceTime,
		End:            referenceTime.Add(time.Hour),
		AvailableSlots: 5,
		TotalSlots:     20,
		Instructor:     "Alex Schmidt",
	}
	for _, opt := range opts {
		opt(&slot)
	}
	return slot
}

// NewPreferencesFixture returns preferences that accept the canonical slot
// fixture: Berlin Mitte yoga on Tuesday evenings.
func NewPreferencesFixture() booking.Preferences {
	return booking.Preferences{
		Locations:           []string{"Berlin Mitte"},
		Activities:          []string{"Yoga"},
		DaysOfWeek:          []int{1},
		Window:              booking.TimeWindow{Start: "18:00", End: "21:00"},
		AutoBook:            true,
		MaxBookingsPerCycle: 3,
	}
}

// IDGenerator produces deterministic identifiers for tests.
type IDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter uint64
}

// NewIDGenerator constructs a generator that yields identifiers with the given
// prefix. When prefix is empty, "id" is used.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%d", g.prefix, g.counter)
}

// NextFunc exposes Next as a function suitable for dependency injection.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}
