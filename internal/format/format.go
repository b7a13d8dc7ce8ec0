// Package format renders durations and workout dates for display.
package format

import (
	"fmt"
	"time"
)

// Duration renders an elapsed number of seconds.
//
// Under a minute it renders "<n> s". Above that only the leading tiers are
// shown: "<m>m" below an hour, "<h>h <m>m" when both are non-zero, and a bare
// "<h>" for whole hours. Leftover seconds are never shown once minutes are.
func Duration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%d s", seconds)
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%d", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}

// Clock renders elapsed seconds as a zero-padded "mm:ss" stopwatch reading.
// Minutes keep counting past 59.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Date renders an RFC 3339 timestamp relative to now's calendar day in now's
// location: "Today", "Yesterday", or a short "Mon, Jan 2" form.
func Date(iso string, now time.Time) (string, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", fmt.Errorf("parsing date %q: %w", iso, err)
	}
	return DateOf(t, now), nil
}

// DateOf is Date for an already parsed time.
func DateOf(t, now time.Time) string {
	t = t.In(now.Location())
	switch {
	case sameDay(t, now):
		return "Today"
	case sameDay(t, now.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return t.Format("Mon, Jan 2")
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
