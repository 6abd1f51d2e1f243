package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
)

// YearSummary aggregates one calendar year of practice. TotalReflections
// counts entries — an entry is one day's reflection — while
// MonthlyReflectionCount counts the month retrospectives written that year.
type YearSummary struct {
	Year                   string
	DaysPracticed          int
	TotalReflections       int
	MonthlyReflectionCount int
	TotalItems             int
	StarredCount           int
	LongestStreak          int
	Consistency            int // percent of elapsed days practiced
	TopMoments             []models.StarredItem
}

// YearSummaryFor computes the summary for one year. Consistency divides
// unique days practiced by the full year length for past years, or by days
// elapsed so far for the current year. TopMoments prefers the favorites
// curated in monthly reflections; a year without any curated selection
// falls back to every starred item.
func YearSummaryFor(year string, entries []models.Entry, reflections []models.MonthlyReflection, now time.Time) YearSummary {
	var yearEntries []models.Entry
	for _, entry := range entries {
		if entry.Year() == year {
			yearEntries = append(yearEntries, entry)
		}
	}

	starred := 0
	for _, entry := range yearEntries {
		for _, item := range entry.Items {
			if item.Favorite {
				starred++
			}
		}
	}

	uniqueDays := len(entryDates(yearEntries))

	yearReflections := 0
	for _, reflection := range reflections {
		if len(reflection.Month) >= 4 && reflection.Month[:4] == year {
			yearReflections++
		}
	}

	return YearSummary{
		Year:                   year,
		DaysPracticed:          uniqueDays,
		TotalReflections:       len(yearEntries),
		MonthlyReflectionCount: yearReflections,
		TotalItems:             len(yearEntries) * constants.ItemsPerEntry,
		StarredCount:           starred,
		LongestStreak:          LongestStreak(yearEntries),
		Consistency:            roundPercent(uniqueDays, daysElapsedInYear(year, now)),
		TopMoments:             TopMoments(year, entries, reflections),
	}
}

// TopMoments returns a year's highlight reel: the favorites selected in
// that year's monthly reflections, or, when no reflection selected any,
// all starred items for the year. The two sources never merge. Results
// are in chronological order.
func TopMoments(year string, entries []models.Entry, reflections []models.MonthlyReflection) []models.StarredItem {
	var refs []models.FavoriteRef
	for _, reflection := range reflections {
		if len(reflection.Month) >= 4 && reflection.Month[:4] == year {
			refs = append(refs, reflection.SelectedFavorites...)
		}
	}

	var moments []models.StarredItem
	if len(refs) > 0 {
		moments = ResolveFavorites(refs, entries)
	} else {
		for _, entry := range entries {
			if entry.Year() != year {
				continue
			}
			for i, item := range entry.Items {
				if item.Favorite {
					moments = append(moments, models.StarredItem{
						EntryID:   entry.ID,
						ItemIndex: i,
						Text:      item.Text,
						Date:      entry.Date,
						Month:     entry.Month(),
					})
				}
			}
		}
	}

	sort.SliceStable(moments, func(a, b int) bool {
		return moments[a].Date < moments[b].Date
	})
	return moments
}

// ResolveFavorites looks favorite refs up against the entry collection.
// Unresolvable refs — missing entry, out-of-range item index — are
// silently skipped rather than errored.
func ResolveFavorites(refs []models.FavoriteRef, entries []models.Entry) []models.StarredItem {
	byID := make(map[string]models.Entry, len(entries))
	for _, entry := range entries {
		byID[entry.ID] = entry
	}

	var items []models.StarredItem
	for _, ref := range refs {
		entry, ok := byID[ref.EntryID]
		if !ok {
			continue
		}
		if ref.ItemIndex < 0 || ref.ItemIndex >= len(entry.Items) {
			continue
		}
		items = append(items, models.StarredItem{
			EntryID:   entry.ID,
			ItemIndex: ref.ItemIndex,
			Text:      entry.Items[ref.ItemIndex].Text,
			Date:      entry.Date,
			Month:     entry.Month(),
		})
	}
	return items
}

// daysElapsedInYear returns the full year length for past years and the
// days elapsed so far for the current year. Future years count one day to
// keep the division defined.
func daysElapsedInYear(year string, now time.Time) int {
	start, err := time.Parse(constants.YearFormat, year)
	if err != nil {
		return 1
	}

	switch {
	case year == now.Format(constants.YearFormat):
		return now.YearDay()
	case start.Year() > now.Year():
		return 1
	default:
		return daysBetween(start, start.AddDate(1, 0, 0))
	}
}
