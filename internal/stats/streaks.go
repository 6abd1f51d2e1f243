package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
)

// CurrentStreak counts consecutive calendar days with an entry, ending at
// today or yesterday. Without an entry on either of those days the streak
// is broken and the count is zero.
func CurrentStreak(entries []models.Entry, now time.Time) int {
	days := entryDates(entries)
	if len(days) == 0 {
		return 0
	}

	start := now
	today := now.Format(constants.DateFormat)
	yesterday := now.AddDate(0, 0, -1).Format(constants.DateFormat)

	switch {
	case days[today]:
		// start from today
	case days[yesterday]:
		start = now.AddDate(0, 0, -1)
	default:
		return 0
	}

	streak := 0
	for day := start; days[day.Format(constants.DateFormat)]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive calendar days with
// an entry across the whole collection. Duplicate dates are collapsed so
// an imported double entry never splits a streak.
func LongestStreak(entries []models.Entry) int {
	days := entryDates(entries)
	if len(days) == 0 {
		return 0
	}

	dates := make([]time.Time, 0, len(days))
	for day := range days {
		t, err := time.Parse(constants.DateFormat, day)
		if err != nil {
			continue
		}
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	longest, streak := 1, 1
	for i := 1; i < len(dates); i++ {
		if daysBetween(dates[i-1], dates[i]) == 1 {
			streak++
		} else {
			streak = 1
		}
		if streak > longest {
			longest = streak
		}
	}
	return longest
}

// entryDates collects the distinct dates present.
func entryDates(entries []models.Entry) map[string]bool {
	days := make(map[string]bool, len(entries))
	for _, entry := range entries {
		days[entry.Date] = true
	}
	return days
}

// daysBetween returns whole calendar days from a to b, ignoring any
// time-of-day component.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
