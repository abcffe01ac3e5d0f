package booking

import (
	"fmt"
	"time"
)

// Slot represents one bookable class instance fetched from the platform.
// Slots are reconstructed on every fetch and discarded at the end of the
// cycle; they are never persisted.
type Slot struct {
	ID             string
	Name           string
	Location       string
	Activity       string
	Start          time.Time
	End            time.Time
	AvailableSlots int
	TotalSlots     int
	Instructor     string
}

// Bookable reports whether the slot still has free capacity. Capacity is a
// caller-side guard, not part of the preference predicate.
func (s Slot) Bookable() bool {
	return s.AvailableSlots > 0
}

// Summary renders the single-line description used in notification bodies.
func (s Slot) Summary() string {
	return fmt.Sprintf("- %s at %s (%s)", s.Name, s.Location, s.Start.Format("2006-01-02 15:04"))
}

// SlotRecord carries the raw field values of one class record as returned by
// the platform API, before timestamp parsing.
type SlotRecord struct {
	ID             string
	Name           string
	Location       string
	Activity       string
	StartTime      string
	EndTime        string
	AvailableSlots int
	TotalSlots     int
	Instructor     string
}

// SlotFromRecord converts a raw record into a Slot. Unparseable timestamps are
// substituted with the current time so that a single malformed record never
// aborts a fetch.
func SlotFromRecord(record SlotRecord, now func() time.Time) Slot {
	if now == nil {
		now = time.Now
	}
	return Slot{
		ID:             record.ID,
		Name:           record.Name,
		Location:       record.Location,
		Activity:       record.Activity,
		Start:          parseTimestamp(record.StartTime, now),
		End:            parseTimestamp(record.EndTime, now),
		AvailableSlots: record.AvailableSlots,
		TotalSlots:     record.TotalSlots,
		Instructor:     record.Instructor,
	}
}

func parseTimestamp(value string, now func() time.Time) time.Time {
	if value == "" {
		return now()
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return now()
	}
	return parsed
}

// TimeWindow bounds the accepted time of day as inclusive "HH:MM" strings.
type TimeWindow struct {
	Start string
	End   string
}

// IsZero reports whether no window was configured.
func (w TimeWindow) IsZero() bool {
	return w.Start == "" && w.End == ""
}

// Preferences captures the user's matching policy. An empty set accepts any
// value for that dimension. Weekdays are Monday=0 through Sunday=6.
type Preferences struct {
	Locations           []string
	Activities          []string
	DaysOfWeek          []int
	Window              TimeWindow
	AutoBook            bool
	MaxBookingsPerCycle int
}
