package journal

import (
	"fmt"
	"time"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
	"github.com/julianstephens/threethings/internal/validation"
)

// SaveMonthlyReflection stores a month's retrospective. When a reflection
// for the month already exists its content fields are overwritten in place,
// preserving id and createdAt; otherwise a new record is created. At most
// one reflection exists per month.
func (j *Journal) SaveMonthlyReflection(month string, favorites []models.FavoriteRef, text string) (models.MonthlyReflection, error) {
	if !validation.IsValidMonth(month) {
		return models.MonthlyReflection{}, fmt.Errorf("invalid month: %q", month)
	}

	prev := j.monthly
	next := make([]models.MonthlyReflection, len(prev))
	copy(next, prev)

	var saved models.MonthlyReflection
	found := false
	for i, reflection := range next {
		if reflection.Month == month {
			next[i].SelectedFavorites = favorites
			next[i].ReflectionText = text
			saved = next[i]
			found = true
			break
		}
	}
	if !found {
		saved = models.MonthlyReflection{
			ID:                fmt.Sprintf("reflection-%s-%d", month, j.now().UnixMilli()),
			Month:             month,
			SelectedFavorites: favorites,
			ReflectionText:    text,
			CreatedAt:         j.now().Format(time.RFC3339),
		}
		next = append(next, saved)
	}

	j.monthly = next
	if err := j.persistMonthly(); err != nil {
		j.monthly = prev
		return models.MonthlyReflection{}, j.recordStorageErr(err, constants.MonthlyReflectionsKey)
	}

	j.notify(EventMonthlyReflectionsChanged)
	return saved, nil
}

// ReflectionPatch holds the partial fields UpdateMonthlyReflection merges.
type ReflectionPatch struct {
	SelectedFavorites *[]models.FavoriteRef
	ReflectionText    *string
}

// UpdateMonthlyReflection merges partial fields into the reflection
// matching id. Unknown ids are a no-op.
func (j *Journal) UpdateMonthlyReflection(id string, patch ReflectionPatch) error {
	idx := -1
	for i, reflection := range j.monthly {
		if reflection.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	prev := j.monthly
	next := make([]models.MonthlyReflection, len(prev))
	copy(next, prev)

	if patch.SelectedFavorites != nil {
		next[idx].SelectedFavorites = *patch.SelectedFavorites
	}
	if patch.ReflectionText != nil {
		next[idx].ReflectionText = *patch.ReflectionText
	}

	j.monthly = next
	if err := j.persistMonthly(); err != nil {
		j.monthly = prev
		return j.recordStorageErr(err, constants.MonthlyReflectionsKey)
	}

	j.notify(EventMonthlyReflectionsChanged)
	return nil
}

// SaveYearlyReview stores a year's free-text review with the same
// overwrite-or-create semantics as monthly reflections, keyed on year.
func (j *Journal) SaveYearlyReview(year, text string) (models.YearlyReview, error) {
	if !validation.IsValidYear(year) {
		return models.YearlyReview{}, fmt.Errorf("invalid year: %q", year)
	}

	prev := j.yearly
	next := make([]models.YearlyReview, len(prev))
	copy(next, prev)

	var saved models.YearlyReview
	found := false
	for i, review := range next {
		if review.Year == year {
			next[i].ReflectionText = text
			saved = next[i]
			found = true
			break
		}
	}
	if !found {
		saved = models.YearlyReview{
			ID:             fmt.Sprintf("review-%s-%d", year, j.now().UnixMilli()),
			Year:           year,
			ReflectionText: text,
			CreatedAt:      j.now().Format(time.RFC3339),
		}
		next = append(next, saved)
	}

	j.yearly = next
	if err := j.persistYearly(); err != nil {
		j.yearly = prev
		return models.YearlyReview{}, j.recordStorageErr(err, constants.YearlyReviewsKey)
	}

	j.notify(EventYearlyReviewsChanged)
	return saved, nil
}

// MonthlyReflections returns the in-memory collection, read-only.
func (j *Journal) MonthlyReflections() []models.MonthlyReflection {
	return j.monthly
}

// MonthlyReflectionForMonth looks up the reflection for a YYYY-MM month.
func (j *Journal) MonthlyReflectionForMonth(month string) (models.MonthlyReflection, bool) {
	for _, reflection := range j.monthly {
		if reflection.Month == month {
			return reflection, true
		}
	}
	return models.MonthlyReflection{}, false
}

// YearlyReviews returns the in-memory collection, read-only.
func (j *Journal) YearlyReviews() []models.YearlyReview {
	return j.yearly
}

// YearlyReviewForYear looks up the review for a YYYY year.
func (j *Journal) YearlyReviewForYear(year string) (models.YearlyReview, bool) {
	for _, review := range j.yearly {
		if review.Year == year {
			return review, true
		}
	}
	return models.YearlyReview{}, false
}
