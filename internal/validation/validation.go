package validation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
)

// RecordKind tags which collection a rejected record came from.
type RecordKind string

const (
	KindEntry             RecordKind = "invalid_entry"
	KindMonthlyReflection RecordKind = "invalid_reflection"
	KindYearlyReview      RecordKind = "invalid_review"
)

// RecordError describes one rejected or repaired record. Position is the
// 1-based index within the input batch, or 0 when a whole stored
// collection was unreadable; Raw carries the offending payload for
// diagnostics.
type RecordError struct {
	Kind     RecordKind
	Position int
	Message  string
	Raw      json.RawMessage
}

func (e RecordError) Error() string {
	return fmt.Sprintf("%s #%d: %s", e.Kind, e.Position, e.Message)
}

// EntryResult is the outcome of a batch entry validation: the accepted
// records (including repaired ones) and one error per rejection or repair.
type EntryResult struct {
	Valid    []models.Entry
	Errors   []RecordError
	Repaired int
}

// ReflectionResult is the outcome of a batch monthly-reflection validation.
type ReflectionResult struct {
	Valid  []models.MonthlyReflection
	Errors []RecordError
}

// ReviewResult is the outcome of a batch yearly-review validation.
type ReviewResult struct {
	Valid  []models.YearlyReview
	Errors []RecordError
}

// Validator decides record validity and repairs entries. The clock is
// injectable because repair defaults a missing time to "now".
type Validator struct {
	now func() time.Time
}

func New() *Validator {
	return &Validator{now: time.Now}
}

// NewWithClock is used by tests that need a fixed wall clock.
func NewWithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// ValidateEntries partitions raw entry records into accepted and rejected.
// Invalid entries go through repair before being discarded; repairs are
// reported as errors so the caller can tell the user, not silently applied.
func (v *Validator) ValidateEntries(raws []json.RawMessage) EntryResult {
	result := EntryResult{Valid: []models.Entry{}, Errors: []RecordError{}}

	for i, raw := range raws {
		pos := i + 1
		if entry, ok := parseEntry(raw); ok {
			result.Valid = append(result.Valid, entry)
			continue
		}

		repaired, ok := v.RepairEntry(raw)
		if !ok {
			result.Errors = append(result.Errors, RecordError{
				Kind:     KindEntry,
				Position: pos,
				Message:  "entry could not be repaired and was discarded",
				Raw:      raw,
			})
			continue
		}

		result.Valid = append(result.Valid, repaired)
		result.Repaired++
		result.Errors = append(result.Errors, RecordError{
			Kind:     KindEntry,
			Position: pos,
			Message:  "entry was repaired automatically",
			Raw:      raw,
		})
	}

	return result
}

// ValidateMonthlyReflections partitions raw monthly-reflection records.
// Reflections are never repaired; invalid ones are discarded outright.
func (v *Validator) ValidateMonthlyReflections(raws []json.RawMessage) ReflectionResult {
	result := ReflectionResult{Valid: []models.MonthlyReflection{}, Errors: []RecordError{}}

	for i, raw := range raws {
		reflection, ok := parseMonthlyReflection(raw)
		if !ok {
			result.Errors = append(result.Errors, RecordError{
				Kind:     KindMonthlyReflection,
				Position: i + 1,
				Message:  "monthly reflection is invalid and was discarded",
				Raw:      raw,
			})
			continue
		}
		result.Valid = append(result.Valid, reflection)
	}

	return result
}

// ValidateYearlyReviews partitions raw yearly-review records. Like monthly
// reflections, there is no repair path.
func (v *Validator) ValidateYearlyReviews(raws []json.RawMessage) ReviewResult {
	result := ReviewResult{Valid: []models.YearlyReview{}, Errors: []RecordError{}}

	for i, raw := range raws {
		review, ok := parseYearlyReview(raw)
		if !ok {
			result.Errors = append(result.Errors, RecordError{
				Kind:     KindYearlyReview,
				Position: i + 1,
				Message:  "yearly review is invalid and was discarded",
				Raw:      raw,
			})
			continue
		}
		result.Valid = append(result.Valid, review)
	}

	return result
}

// Loose shapes for structural checking. Fields stay raw so a wrong-typed
// field fails its own check instead of failing the whole unmarshal.
type looseEntry struct {
	ID    json.RawMessage `json:"id"`
	Date  json.RawMessage `json:"date"`
	Time  json.RawMessage `json:"time"`
	Items json.RawMessage `json:"items"`
}

type looseItem struct {
	Text     json.RawMessage `json:"text"`
	Favorite json.RawMessage `json:"favorite"`
}

// parseEntry applies the strict entry shape rules and returns the decoded
// entry when they all hold.
func parseEntry(raw json.RawMessage) (models.Entry, bool) {
	var le looseEntry
	if err := json.Unmarshal(raw, &le); err != nil {
		return models.Entry{}, false
	}

	id, ok := asString(le.ID)
	if !ok || id == "" {
		return models.Entry{}, false
	}
	date, ok := asString(le.Date)
	if !ok || !IsValidDate(date) {
		return models.Entry{}, false
	}
	timeStr, ok := asString(le.Time)
	if !ok || !IsValidTime(timeStr) {
		return models.Entry{}, false
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(le.Items, &rawItems); err != nil {
		return models.Entry{}, false
	}
	if len(rawItems) != constants.ItemsPerEntry {
		return models.Entry{}, false
	}

	items := make([]models.EntryItem, 0, constants.ItemsPerEntry)
	for _, rawItem := range rawItems {
		var li looseItem
		if err := json.Unmarshal(rawItem, &li); err != nil {
			return models.Entry{}, false
		}
		text, ok := asString(li.Text)
		if !ok {
			return models.Entry{}, false
		}
		// Favorite is coerced: anything but a strict boolean true is false.
		fav, _ := asBool(li.Favorite)
		items = append(items, models.EntryItem{Text: text, Favorite: fav})
	}

	return models.Entry{ID: id, Date: date, Time: timeStr, Items: items}, true
}

func parseMonthlyReflection(raw json.RawMessage) (models.MonthlyReflection, bool) {
	var loose struct {
		ID                json.RawMessage `json:"id"`
		Month             json.RawMessage `json:"month"`
		SelectedFavorites json.RawMessage `json:"selectedFavorites"`
		ReflectionText    json.RawMessage `json:"reflectionText"`
		CreatedAt         json.RawMessage `json:"createdAt"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return models.MonthlyReflection{}, false
	}

	id, ok := asString(loose.ID)
	if !ok || id == "" {
		return models.MonthlyReflection{}, false
	}
	month, ok := asString(loose.Month)
	if !ok || !IsValidMonth(month) {
		return models.MonthlyReflection{}, false
	}
	text, ok := asString(loose.ReflectionText)
	if !ok {
		return models.MonthlyReflection{}, false
	}
	createdAt, ok := asString(loose.CreatedAt)
	if !ok || createdAt == "" {
		return models.MonthlyReflection{}, false
	}

	var rawFavs []json.RawMessage
	if err := json.Unmarshal(loose.SelectedFavorites, &rawFavs); err != nil {
		return models.MonthlyReflection{}, false
	}

	// Favorite refs that fail to parse are dropped here; the statistics
	// engine would skip them as unresolvable anyway.
	favorites := make([]models.FavoriteRef, 0, len(rawFavs))
	for _, rawFav := range rawFavs {
		var ref models.FavoriteRef
		if err := json.Unmarshal(rawFav, &ref); err != nil {
			continue
		}
		favorites = append(favorites, ref)
	}

	return models.MonthlyReflection{
		ID:                id,
		Month:             month,
		SelectedFavorites: favorites,
		ReflectionText:    text,
		CreatedAt:         createdAt,
	}, true
}

func parseYearlyReview(raw json.RawMessage) (models.YearlyReview, bool) {
	var loose struct {
		ID             json.RawMessage `json:"id"`
		Year           json.RawMessage `json:"year"`
		ReflectionText json.RawMessage `json:"reflectionText"`
		CreatedAt      json.RawMessage `json:"createdAt"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return models.YearlyReview{}, false
	}

	id, ok := asString(loose.ID)
	if !ok || id == "" {
		return models.YearlyReview{}, false
	}
	year, ok := asString(loose.Year)
	if !ok || !IsValidYear(year) {
		return models.YearlyReview{}, false
	}
	text, ok := asString(loose.ReflectionText)
	if !ok {
		return models.YearlyReview{}, false
	}
	createdAt, ok := asString(loose.CreatedAt)
	if !ok || createdAt == "" {
		return models.YearlyReview{}, false
	}

	return models.YearlyReview{
		ID:             id,
		Year:           year,
		ReflectionText: text,
		CreatedAt:      createdAt,
	}, true
}

// IsValidDate requires YYYY-MM-DD and a real calendar date.
func IsValidDate(s string) bool {
	if len(s) != len(constants.DateFormat) {
		return false
	}
	_, err := time.Parse(constants.DateFormat, s)
	return err == nil
}

// IsValidTime requires HH:MM.
func IsValidTime(s string) bool {
	if len(s) != len("15:04") {
		return false
	}
	_, err := time.Parse(constants.TimeFormat, s)
	return err == nil
}

// IsValidMonth requires YYYY-MM.
func IsValidMonth(s string) bool {
	if len(s) != len("2006-01") {
		return false
	}
	_, err := time.Parse(constants.MonthFormat, s)
	return err == nil
}

// IsValidYear requires exactly four digits.
func IsValidYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func asString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func asBool(raw json.RawMessage) (bool, bool) {
	if raw == nil {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}
