package booking

import (
	"slices"
	"time"
)

// Matches reports whether a slot satisfies the user's preferences. The
// predicate is pure: each empty preference dimension accepts any value, the
// time window compares the slot's local start as an inclusive lexical "HH:MM"
// range, and capacity is deliberately not consulted here.
func Matches(slot Slot, prefs Preferences) bool {
	if len(prefs.Locations) > 0 && !slices.Contains(prefs.Locations, slot.Location) {
		return false
	}
	if len(prefs.Activities) > 0 && !slices.Contains(prefs.Activities, slot.Activity) {
		return false
	}
	if len(prefs.DaysOfWeek) > 0 && !slices.Contains(prefs.DaysOfWeek, mondayIndexedWeekday(slot.Start.Weekday())) {
		return false
	}
	if !prefs.Window.IsZero() {
		startOfDay := slot.Start.Format("15:04")
		if startOfDay < prefs.Window.Start || startOfDay > prefs.Window.End {
			return false
		}
	}
	return true
}

// mondayIndexedWeekday converts Go's Sunday=0 weekday to the Monday=0
// convention used by preference configuration.
func mondayIndexedWeekday(day time.Weekday) int {
	return (int(day) + 6) % 7
}
