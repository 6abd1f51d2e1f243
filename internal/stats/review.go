package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
)

// MonthlyReviewDue reports whether to prompt for last month's review: only
// on the first day of a month, when the previous month has at least one
// entry and no reflection yet.
func MonthlyReviewDue(entries []models.Entry, reflections []models.MonthlyReflection, now time.Time) bool {
	if now.Day() != 1 {
		return false
	}

	prevMonth := now.AddDate(0, 0, -1).Format(constants.MonthFormat)
	if !monthHasEntries(entries, prevMonth) {
		return false
	}
	return !monthHasReflection(reflections, prevMonth)
}

// YearlyReviewEligible reports whether to offer the yearly review. It is
// offered only during January, once December's monthly review is handled:
// on January 1st that means completed; from the 2nd on, a dismissed
// December prompt counts as handled too. Whether the user dismissed the
// prompt is tracked by the caller and passed in.
func YearlyReviewEligible(reflections []models.MonthlyReflection, now time.Time, decemberDismissed bool) bool {
	if now.Month() != time.January {
		return false
	}

	december := now.AddDate(0, 0, -now.YearDay()).Format(constants.MonthFormat)
	completed := monthHasReflection(reflections, december)

	if now.Day() == 1 {
		return completed
	}
	return completed || decemberDismissed
}

// MonthsNeedingReview lists past months that have entries but no
// reflection yet, most recent first. The current month is never included;
// a month only needs review once it is over.
func MonthsNeedingReview(entries []models.Entry, reflections []models.MonthlyReflection, now time.Time) []string {
	current := now.Format(constants.MonthFormat)

	seen := make(map[string]bool)
	var months []string
	for _, entry := range entries {
		month := entry.Month()
		if month >= current || seen[month] {
			continue
		}
		seen[month] = true
		if !monthHasReflection(reflections, month) {
			months = append(months, month)
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

func monthHasEntries(entries []models.Entry, month string) bool {
	for _, entry := range entries {
		if entry.Month() == month {
			return true
		}
	}
	return false
}

func monthHasReflection(reflections []models.MonthlyReflection, month string) bool {
	for _, reflection := range reflections {
		if reflection.Month == month {
			return true
		}
	}
	return false
}
