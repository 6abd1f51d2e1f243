package stats

import (
	"math"
	"time"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
)

// Progress is the ratio of days practiced to days elapsed in a period.
type Progress struct {
	DaysPracticed int
	DaysElapsed   int
	Percent       int
	Message       string
}

// MonthProgress reports consistency within the current calendar month,
// measured against days elapsed so far.
func MonthProgress(entries []models.Entry, now time.Time) Progress {
	month := now.Format(constants.MonthFormat)
	practiced := 0
	for day := range entryDates(entries) {
		if len(day) >= 7 && day[:7] == month {
			practiced++
		}
	}
	return newProgress(practiced, now.Day())
}

// WeekProgress reports consistency within the current week. Weeks start on
// Monday.
func WeekProgress(entries []models.Entry, now time.Time) Progress {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the week
	}
	weekStart := now.AddDate(0, 0, -(weekday - 1))

	days := entryDates(entries)
	practiced := 0
	for i := 0; i < weekday; i++ {
		if days[weekStart.AddDate(0, 0, i).Format(constants.DateFormat)] {
			practiced++
		}
	}
	return newProgress(practiced, weekday)
}

func newProgress(practiced, elapsed int) Progress {
	if elapsed < 1 {
		elapsed = 1
	}
	percent := roundPercent(practiced, elapsed)
	return Progress{
		DaysPracticed: practiced,
		DaysElapsed:   elapsed,
		Percent:       percent,
		Message:       progressMessage(percent),
	}
}

func progressMessage(percent int) string {
	switch {
	case percent >= constants.ProgressGreatThreshold:
		return "Outstanding consistency!"
	case percent >= constants.ProgressGoodThreshold:
		return "Great rhythm, keep going."
	case percent >= constants.ProgressFairThreshold:
		return "Solid progress."
	default:
		return "Every entry counts. Start small."
	}
}

func roundPercent(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	return int(math.Round(float64(numerator) / float64(denominator) * 100))
}
