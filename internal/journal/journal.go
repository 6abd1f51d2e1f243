package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
	"github.com/julianstephens/threethings/internal/storage"
	"github.com/julianstephens/threethings/internal/validation"
)

// Event names what a mutation changed, for observer notifications.
type Event string

const (
	EventEntriesChanged            Event = "entries"
	EventMonthlyReflectionsChanged Event = "monthly-reflections"
	EventYearlyReviewsChanged      Event = "yearly-reviews"
)

// Journal owns the three persisted collections. Every mutation applies the
// new collection in memory first, then persists through the gateway, and
// rolls the memory back if the write fails, so memory and storage never
// disagree after a call returns.
//
// Journal is not safe for concurrent use; mutations are expected to run one
// at a time in response to discrete user actions. Running multiple
// threethings processes against the same store is not supported.
type Journal struct {
	gw        storage.Gateway
	validator *validation.Validator
	now       func() time.Time

	entries []models.Entry
	monthly []models.MonthlyReflection
	yearly  []models.YearlyReview

	storageErr     *storage.Error
	validationErrs []validation.RecordError

	subs    map[int]func(Event)
	nextSub int
}

func New(gw storage.Gateway) *Journal {
	return &Journal{
		gw:        gw,
		validator: validation.New(),
		now:       time.Now,
		subs:      make(map[int]func(Event)),
	}
}

// NewWithClock is used by tests that need a fixed wall clock.
func NewWithClock(gw storage.Gateway, now func() time.Time) *Journal {
	j := New(gw)
	j.now = now
	j.validator = validation.NewWithClock(now)
	return j
}

// Load reads all three keys from the gateway, validating and repairing as
// it goes. A missing or unreadable key degrades to an empty collection.
// When loading repaired any entry, the repaired collection is re-persisted
// immediately so the corruption is fixed once instead of on every start.
func (j *Journal) Load() error {
	if err := j.gw.Load(); err != nil {
		return err
	}

	j.validationErrs = nil

	entryResult := j.validator.ValidateEntries(j.loadRaw(constants.EntriesKey, validation.KindEntry))
	j.entries = entryResult.Valid
	j.validationErrs = append(j.validationErrs, entryResult.Errors...)

	reflectionResult := j.validator.ValidateMonthlyReflections(j.loadRaw(constants.MonthlyReflectionsKey, validation.KindMonthlyReflection))
	j.monthly = reflectionResult.Valid
	j.validationErrs = append(j.validationErrs, reflectionResult.Errors...)

	reviewResult := j.validator.ValidateYearlyReviews(j.loadRaw(constants.YearlyReviewsKey, validation.KindYearlyReview))
	j.yearly = reviewResult.Valid
	j.validationErrs = append(j.validationErrs, reviewResult.Errors...)

	if entryResult.Repaired > 0 {
		if err := j.persistEntries(); err != nil {
			// The repaired data still lives in memory; surface the write
			// failure through the error slot instead of failing the load.
			j.storageErr = storage.AsError(err, constants.EntriesKey)
		}
	}

	return nil
}

func (j *Journal) Close() error {
	return j.gw.Close()
}

// Gateway exposes the underlying store for diagnostics.
func (j *Journal) Gateway() storage.Gateway {
	return j.gw
}

// loadRaw reads one key and splits it into raw records. A read failure
// yields no records; a stored value that is not a JSON array also yields
// none, but is reported as a validation error so the corruption is
// surfaced to the user instead of silently overwritten on the next save.
// Position 0 marks a whole-key failure rather than a single bad record.
func (j *Journal) loadRaw(key string, kind validation.RecordKind) []json.RawMessage {
	value, ok := j.gw.Get(key)
	if !ok || value == "" {
		return nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal([]byte(value), &raws); err != nil {
		j.validationErrs = append(j.validationErrs, validation.RecordError{
			Kind:     kind,
			Position: 0,
			Message:  fmt.Sprintf("stored %s value is corrupted and was ignored; export a backup before saving", key),
			Raw:      json.RawMessage(value),
		})
		return nil
	}
	return raws
}

func (j *Journal) persistEntries() error {
	return j.persist(constants.EntriesKey, j.entries)
}

func (j *Journal) persistMonthly() error {
	return j.persist(constants.MonthlyReflectionsKey, j.monthly)
}

func (j *Journal) persistYearly() error {
	return j.persist(constants.YearlyReviewsKey, j.yearly)
}

func (j *Journal) persist(key string, collection any) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	return j.gw.Set(key, string(data))
}

// recordStorageErr stashes a failed write in the error slot and returns it.
func (j *Journal) recordStorageErr(err error, key string) error {
	j.storageErr = storage.AsError(err, key)
	return j.storageErr
}

// StorageError returns the most recent persistence failure, if any.
func (j *Journal) StorageError() *storage.Error {
	return j.storageErr
}

func (j *Journal) ClearStorageError() {
	j.storageErr = nil
}

// ValidationErrors returns the records rejected or repaired during load
// and import, newest batch last.
func (j *Journal) ValidationErrors() []validation.RecordError {
	return j.validationErrs
}

func (j *Journal) ClearValidationErrors() {
	j.validationErrs = nil
}

// Subscribe registers an observer called after every successful mutation.
// The returned function unsubscribes. Notification is fire-and-forget; a
// collaborator that misses it simply reads stale data until its next query.
func (j *Journal) Subscribe(fn func(Event)) func() {
	id := j.nextSub
	j.nextSub++
	j.subs[id] = fn
	return func() {
		delete(j.subs, id)
	}
}

func (j *Journal) notify(event Event) {
	for _, fn := range j.subs {
		fn(event)
	}
}
