package journal

import (
	"fmt"
	"sort"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
	"github.com/julianstephens/threethings/internal/validation"
)

// SaveEntry stores a new day's reflection. The id is assigned as
// "<date>-<time>" and the entry is prepended, keeping the collection in
// newest-first display order.
func (j *Journal) SaveEntry(entry models.Entry) (models.Entry, error) {
	if !validation.IsValidDate(entry.Date) {
		return models.Entry{}, fmt.Errorf("invalid entry date: %q", entry.Date)
	}
	if !validation.IsValidTime(entry.Time) {
		return models.Entry{}, fmt.Errorf("invalid entry time: %q", entry.Time)
	}

	entry.ID = fmt.Sprintf("%s-%s", entry.Date, entry.Time)
	entry.Items = normalizeItems(entry.Items)

	prev := j.entries
	next := make([]models.Entry, 0, len(prev)+1)
	next = append(next, entry)
	next = append(next, prev...)
	j.entries = next

	if err := j.persistEntries(); err != nil {
		j.entries = prev
		return models.Entry{}, j.recordStorageErr(err, constants.EntriesKey)
	}

	j.notify(EventEntriesChanged)
	return entry, nil
}

// UpdateEntry replaces the items of the entry matching id, preserving its
// id, date and time. Unknown ids are a no-op.
func (j *Journal) UpdateEntry(id string, items []models.EntryItem) error {
	idx := j.entryIndex(id)
	if idx < 0 {
		return nil
	}

	prev := j.entries
	next := make([]models.Entry, len(prev))
	copy(next, prev)
	next[idx].Items = normalizeItems(items)
	j.entries = next

	if err := j.persistEntries(); err != nil {
		j.entries = prev
		return j.recordStorageErr(err, constants.EntriesKey)
	}

	j.notify(EventEntriesChanged)
	return nil
}

// DeleteEntry removes the entry matching id. Unknown ids are a no-op.
func (j *Journal) DeleteEntry(id string) error {
	idx := j.entryIndex(id)
	if idx < 0 {
		return nil
	}

	prev := j.entries
	next := make([]models.Entry, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)
	j.entries = next

	if err := j.persistEntries(); err != nil {
		j.entries = prev
		return j.recordStorageErr(err, constants.EntriesKey)
	}

	j.notify(EventEntriesChanged)
	return nil
}

// Entries returns the in-memory collection. Callers must treat it as
// read-only; all writes go through the mutation operations.
func (j *Journal) Entries() []models.Entry {
	return j.entries
}

// EntryByID looks up an entry by id.
func (j *Journal) EntryByID(id string) (models.Entry, bool) {
	idx := j.entryIndex(id)
	if idx < 0 {
		return models.Entry{}, false
	}
	return j.entries[idx], true
}

// HasTodayEntry reports whether an entry exists for the current local date.
func (j *Journal) HasTodayEntry() bool {
	_, ok := j.TodayEntry()
	return ok
}

// HasYesterdayEntry reports whether an entry exists for yesterday.
func (j *Journal) HasYesterdayEntry() bool {
	_, ok := j.YesterdayEntry()
	return ok
}

// TodayEntry returns the entry for the current local date, if any.
func (j *Journal) TodayEntry() (models.Entry, bool) {
	return j.entryForDate(j.now().Format(constants.DateFormat))
}

// YesterdayEntry returns the entry for the previous local date, if any.
func (j *Journal) YesterdayEntry() (models.Entry, bool) {
	return j.entryForDate(j.now().AddDate(0, 0, -1).Format(constants.DateFormat))
}

func (j *Journal) entryForDate(date string) (models.Entry, bool) {
	for _, entry := range j.entries {
		if entry.Date == date {
			return entry, true
		}
	}
	return models.Entry{}, false
}

// EntriesForMonth returns all entries whose date falls in the given
// YYYY-MM month, preserving collection order.
func (j *Journal) EntriesForMonth(month string) []models.Entry {
	var result []models.Entry
	for _, entry := range j.entries {
		if entry.Month() == month {
			result = append(result, entry)
		}
	}
	return result
}

// StarredItemsForMonth flattens the favorite-marked items of a month's
// entries, keeping entry id and item index so each item stays addressable.
func (j *Journal) StarredItemsForMonth(month string) []models.StarredItem {
	return starredItems(j.EntriesForMonth(month))
}

// YearsWithEntries returns the distinct years present, newest first.
func (j *Journal) YearsWithEntries() []string {
	seen := make(map[string]bool)
	var years []string
	for _, entry := range j.entries {
		year := entry.Year()
		if !seen[year] {
			seen[year] = true
			years = append(years, year)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

// YearEntries returns all entries for the given YYYY year.
func (j *Journal) YearEntries(year string) []models.Entry {
	var result []models.Entry
	for _, entry := range j.entries {
		if entry.Year() == year {
			result = append(result, entry)
		}
	}
	return result
}

// YearStarredItems flattens the favorite-marked items of a year's entries.
func (j *Journal) YearStarredItems(year string) []models.StarredItem {
	return starredItems(j.YearEntries(year))
}

func (j *Journal) entryIndex(id string) int {
	for i, entry := range j.entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

func starredItems(entries []models.Entry) []models.StarredItem {
	var result []models.StarredItem
	for _, entry := range entries {
		for i, item := range entry.Items {
			if item.Favorite {
				result = append(result, models.StarredItem{
					EntryID:   entry.ID,
					ItemIndex: i,
					Text:      item.Text,
					Date:      entry.Date,
					Month:     entry.Month(),
				})
			}
		}
	}
	return result
}

// normalizeItems pads or truncates to exactly three items.
func normalizeItems(items []models.EntryItem) []models.EntryItem {
	result := make([]models.EntryItem, constants.ItemsPerEntry)
	copy(result, items)
	return result
}
