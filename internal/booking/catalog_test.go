package booking

import (
	"context"
	"errors"
	"testing"
	"time"
)

type slotFetcherStub struct {
	records   []SlotRecord
	err       error
	lastStart time.Time
	lastEnd   time.Time
	calls     int
}

func (s *slotFetcherStub) FetchSlots(ctx context.Context, start, end time.Time) ([]SlotRecord, error) {
	s.calls++
	s.lastStart = start
	s.lastEnd = end
	return s.records, s.err
}

func TestCatalog_FetchSlots(t *testing.T) {
	t.Parallel()

	frozen := time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)
	now := func() time.Time { return frozen }

	t.Run("defaults the window to now plus days ahead", func(t *testing.T) {
		t.Parallel()
		fetcher := &slotFetcherStub{}
		catalog := NewCatalog(fetcher, nil, Preferences{}, 7, now, nil)

		catalog.FetchSlots(context.Background(), time.Time{}, time.Time{})

		if !fetcher.lastStart.Equal(frozen) {
			t.Fatalf("expected window start at now, got %v", fetcher.lastStart)
		}
		if !fetcher.lastEnd.Equal(frozen.AddDate(0, 0, 7)) {
			t.Fatalf("expected window end seven days ahead, got %v", fetcher.lastEnd)
		}
	})

	t.Run("converts records into slots", func(t *testing.T) {
		t.Parallel()
		fetcher := &slotFetcherStub{records: []SlotRecord{
			{ID: "class-1", StartTime: "2024-01-16T18:30:00Z", AvailableSlots: 3},
			{ID: "class-2", StartTime: "garbled", AvailableSlots: 1},
		}}
		catalog := NewCatalog(fetcher, nil, Preferences{}, 7, now, nil)

		slots := catalog.FetchSlots(context.Background(), time.Time{}, time.Time{})
		if len(slots) != 2 {
			t.Fatalf("expected both records converted, got %d", len(slots))
		}
		if !slots[1].Start.Equal(frozen) {
			t.Fatalf("expected malformed timestamp to be substituted, got %v", slots[1].Start)
		}
	})

	t.Run("yields no candidates on fetch failure", func(t *testing.T) {
		t.Parallel()
		fetcher := &slotFetcherStub{err: errors.New("boom")}
		catalog := NewCatalog(fetcher, nil, Preferences{}, 7, now, nil)

		if slots := catalog.FetchSlots(context.Background(), time.Time{}, time.Time{}); len(slots) != 0 {
			t.Fatalf("expected empty result on failure, got %d slots", len(slots))
		}
	})

	t.Run("aborts without fetching when the context is cancelled", func(t *testing.T) {
		t.Parallel()
		fetcher := &slotFetcherStub{}
		catalog := NewCatalog(fetcher, NewLimiter(1, time.Minute), Preferences{}, 7, now, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// Exhaust the burst allowance so the second call must wait and
		// observe the cancellation.
		catalog.FetchSlots(context.Background(), time.Time{}, time.Time{})
		if slots := catalog.FetchSlots(ctx, time.Time{}, time.Time{}); len(slots) != 0 {
			t.Fatalf("expected empty result on cancelled context, got %d slots", len(slots))
		}
		if fetcher.calls != 1 {
			t.Fatalf("expected the cancelled fetch not to reach the platform, got %d calls", fetcher.calls)
		}
	})
}

func TestCatalog_FindMatching(t *testing.T) {
	t.Parallel()

	frozen := time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)
	now := func() time.Time { return frozen }
	prefs := Preferences{
		Locations: []string{"Berlin Mitte"},
		Window:    booking18to21(),
	}

	fetcher := &slotFetcherStub{records: []SlotRecord{
		{ID: "match", Location: "Berlin Mitte", StartTime: "2024-01-16T18:30:00Z", AvailableSlots: 5},
		{ID: "full", Location: "Berlin Mitte", StartTime: "2024-01-16T19:00:00Z", AvailableSlots: 0},
		{ID: "elsewhere", Location: "Berlin Kreuzberg", StartTime: "2024-01-16T18:30:00Z", AvailableSlots: 5},
	}}
	catalog := NewCatalog(fetcher, nil, prefs, 7, now, nil)

	matches := catalog.FindMatching(context.Background())
	if len(matches) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(matches))
	}
	if matches[0].ID != "match" {
		t.Fatalf("expected the available Berlin Mitte slot, got %s", matches[0].ID)
	}
}

func booking18to21() TimeWindow {
	return TimeWindow{Start: "18:00", End: "21:00"}
}
