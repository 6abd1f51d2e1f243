package review

import (
	"fmt"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/journal"
	"github.com/julianstephens/threethings/internal/models"
	"github.com/julianstephens/threethings/internal/validation"
)

// MonthlyPhase tracks where a monthly review session is.
type MonthlyPhase int

const (
	// PhaseStarCandidates lets the user star any item of the month.
	PhaseStarCandidates MonthlyPhase = iota
	// PhaseSelectTop lets the user pick up to five starred items.
	PhaseSelectTop
)

// MonthlySession drives the two-phase monthly review on top of the
// journal's primitives. Re-opening a month that already has a reflection
// resumes with its previous selection and text.
type MonthlySession struct {
	journal *journal.Journal
	month   string
	phase   MonthlyPhase

	selected []models.FavoriteRef
	text     string
}

func NewMonthlySession(j *journal.Journal, month string) (*MonthlySession, error) {
	if !validation.IsValidMonth(month) {
		return nil, fmt.Errorf("invalid month: %q", month)
	}

	s := &MonthlySession{journal: j, month: month}
	if existing, ok := j.MonthlyReflectionForMonth(month); ok {
		s.selected = append(s.selected, existing.SelectedFavorites...)
		s.text = existing.ReflectionText
	}
	return s, nil
}

func (s *MonthlySession) Month() string {
	return s.month
}

func (s *MonthlySession) Phase() MonthlyPhase {
	return s.phase
}

// Entries returns the month's entries, the candidate pool for starring.
func (s *MonthlySession) Entries() []models.Entry {
	return s.journal.EntriesForMonth(s.month)
}

// Starred returns the month's currently starred items.
func (s *MonthlySession) Starred() []models.StarredItem {
	return s.journal.StarredItemsForMonth(s.month)
}

// ToggleStar flips the favorite flag on one item, persisting through the
// journal. Unstarring an item that was already picked as a top moment also
// drops it from the pending selection.
func (s *MonthlySession) ToggleStar(entryID string, itemIndex int) error {
	entry, ok := s.journal.EntryByID(entryID)
	if !ok {
		return fmt.Errorf("entry not found: %s", entryID)
	}
	if itemIndex < 0 || itemIndex >= len(entry.Items) {
		return fmt.Errorf("item index out of range: %d", itemIndex)
	}

	items := make([]models.EntryItem, len(entry.Items))
	copy(items, entry.Items)
	items[itemIndex].Favorite = !items[itemIndex].Favorite

	if err := s.journal.UpdateEntry(entryID, items); err != nil {
		return err
	}

	if !items[itemIndex].Favorite {
		s.Deselect(models.FavoriteRef{EntryID: entryID, ItemIndex: itemIndex})
	}
	return nil
}

// BeginSelection moves the session to the top-five phase.
func (s *MonthlySession) BeginSelection() {
	s.phase = PhaseSelectTop
}

// Select adds a starred item to the top-moment selection. Returns false
// when the cap is reached or the item is already selected; the caller
// disables the action rather than reporting an error.
func (s *MonthlySession) Select(ref models.FavoriteRef) bool {
	if len(s.selected) >= constants.MaxSelectedFavorites {
		return false
	}
	for _, existing := range s.selected {
		if existing == ref {
			return false
		}
	}
	s.selected = append(s.selected, ref)
	return true
}

// Deselect removes a ref from the pending selection, if present.
func (s *MonthlySession) Deselect(ref models.FavoriteRef) {
	for i, existing := range s.selected {
		if existing == ref {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return
		}
	}
}

// Selected returns the pending top-moment selection.
func (s *MonthlySession) Selected() []models.FavoriteRef {
	return s.selected
}

// SetSelection replaces the pending selection wholesale, truncating at the
// cap. Used by form-driven flows that collect the whole pick at once.
func (s *MonthlySession) SetSelection(refs []models.FavoriteRef) {
	if len(refs) > constants.MaxSelectedFavorites {
		refs = refs[:constants.MaxSelectedFavorites]
	}
	s.selected = append([]models.FavoriteRef(nil), refs...)
}

func (s *MonthlySession) ReflectionText() string {
	return s.text
}

func (s *MonthlySession) SetReflectionText(text string) {
	s.text = text
}

// Save persists the reflection, overwriting any existing one for the month.
func (s *MonthlySession) Save() (models.MonthlyReflection, error) {
	return s.journal.SaveMonthlyReflection(s.month, s.selected, s.text)
}
