package booking

import (
	"context"
	"log/slog"
	"time"
)

// SlotFetcher retrieves raw class records for a date window from the platform.
type SlotFetcher interface {
	FetchSlots(ctx context.Context, start, end time.Time) ([]SlotRecord, error)
}

// Catalog fetches bookable slots and filters them against the configured
// preferences. Fetch failures are recoverable: the catalog logs them and
// yields no candidates so that the surrounding cycle keeps running.
type Catalog struct {
	fetcher   SlotFetcher
	limiter   *Limiter
	prefs     Preferences
	daysAhead int
	now       func() time.Time
	logger    *slog.Logger
}

// NewCatalog constructs a Catalog bound to the supplied fetcher and shared
// rate limiter.
func NewCatalog(fetcher SlotFetcher, limiter *Limiter, prefs Preferences, daysAhead int, now func() time.Time, logger *slog.Logger) *Catalog {
	if daysAhead <= 0 {
		daysAhead = 7
	}
	if now == nil {
		now = time.Now
	}
	return &Catalog{
		fetcher:   fetcher,
		limiter:   limiter,
		prefs:     prefs,
		daysAhead: daysAhead,
		now:       now,
		logger:    defaultLogger(logger),
	}
}

// FetchSlots returns the slots within the requested window. Zero bounds
// default to now through now plus the configured days-ahead horizon. On any
// fetch failure the result is empty; the condition is logged, never fatal.
func (c *Catalog) FetchSlots(ctx context.Context, start, end time.Time) []Slot {
	logger := serviceLogger(ctx, c.logger, "Catalog", "FetchSlots")

	if start.IsZero() {
		start = c.now()
	}
	if end.IsZero() {
		end = start.AddDate(0, 0, c.daysAhead)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		logger.WarnContext(ctx, "rate limiter wait aborted", "error", err)
		return nil
	}

	records, err := c.fetcher.FetchSlots(ctx, start, end)
	if err != nil {
		logger.ErrorContext(ctx, "failed to fetch classes", "error", err, "error_kind", ErrorKind(err))
		return nil
	}

	slots := make([]Slot, 0, len(records))
	for _, record := range records {
		slots = append(slots, SlotFromRecord(record, c.now))
	}
	logger.InfoContext(ctx, "fetched classes", "count", len(slots))
	return slots
}

// FindMatching returns the slots that satisfy the preferences and still have
// free capacity, preserving the order the platform returned them in.
func (c *Catalog) FindMatching(ctx context.Context) []Slot {
	logger := serviceLogger(ctx, c.logger, "Catalog", "FindMatching")

	all := c.FetchSlots(ctx, time.Time{}, time.Time{})
	matching := make([]Slot, 0, len(all))
	for _, slot := range all {
		if slot.Bookable() && Matches(slot, c.prefs) {
			matching = append(matching, slot)
		}
	}
	logger.InfoContext(ctx, "found matching classes with available slots", "count", len(matching))
	return matching
}
