package journal

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
	"github.com/julianstephens/threethings/internal/storage"
	"github.com/julianstephens/threethings/internal/validation"
)

// memGateway is an in-memory Gateway whose writes can be made to fail.
type memGateway struct {
	values  map[string]string
	failSet error
	sets    int
}

func newMemGateway() *memGateway {
	return &memGateway{values: make(map[string]string)}
}

func (g *memGateway) Init() error { return nil }
func (g *memGateway) Load() error { return nil }
func (g *memGateway) Close() error {
	return nil
}

func (g *memGateway) Set(key, value string) error {
	g.sets++
	if g.failSet != nil {
		return storage.AsError(g.failSet, key)
	}
	g.values[key] = value
	return nil
}

func (g *memGateway) Get(key string) (string, bool) {
	value, ok := g.values[key]
	return value, ok
}

func (g *memGateway) Remove(key string) bool {
	if _, ok := g.values[key]; !ok {
		return false
	}
	delete(g.values, key)
	return true
}

func (g *memGateway) IsAvailable() bool { return g.failSet == nil }
func (g *memGateway) Path() string      { return "mem" }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestJournal(t *testing.T, gw *memGateway) *Journal {
	t.Helper()
	j := NewWithClock(gw, fixedClock(testNow))
	if err := j.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return j
}

func entryFor(date string, texts ...string) models.Entry {
	entry := models.Entry{Date: date, Time: "08:00"}
	for _, text := range texts {
		entry.Items = append(entry.Items, models.EntryItem{Text: text})
	}
	return entry
}

func TestSaveEntryAssignsID(t *testing.T) {
	gw := newMemGateway()
	j := newTestJournal(t, gw)

	saved, err := j.SaveEntry(entryFor("2025-03-10", "a", "b", "c"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if saved.ID != "2025-03-10-08:00" {
		t.Errorf("unexpected id: %q", saved.ID)
	}
	if len(saved.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(saved.Items))
	}

	// The persisted value should parse back to the same entry.
	value, ok := gw.Get(constants.EntriesKey)
	if !ok {
		t.Fatal("entries were not persisted")
	}
	var persisted []models.Entry
	if err := json.Unmarshal([]byte(value), &persisted); err != nil {
		t.Fatalf("persisted value unparseable: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != saved.ID {
		t.Errorf("unexpected persisted entry: %+v", persisted)
	}
}

func TestSaveEntryPrepends(t *testing.T) {
	j := newTestJournal(t, newMemGateway())

	if _, err := j.SaveEntry(entryFor("2025-03-09", "a", "b", "c")); err != nil {
		t.Fatal(err)
	}
	if _, err := j.SaveEntry(entryFor("2025-03-10", "d", "e", "f")); err != nil {
		t.Fatal(err)
	}

	entries := j.Entries()
	if entries[0].Date != "2025-03-10" || entries[1].Date != "2025-03-09" {
		t.Errorf("expected newest first, got %s then %s", entries[0].Date, entries[1].Date)
	}
}

func TestSaveEntryRejectsBadDate(t *testing.T) {
	j := newTestJournal(t, newMemGateway())

	if _, err := j.SaveEntry(entryFor("03/10/2025", "a", "b", "c")); err == nil {
		t.Error("expected invalid date to be rejected")
	}
}

func TestMutationRollsBackOnPersistFailure(t *testing.T) {
	gw := newMemGateway()
	j := newTestJournal(t, gw)

	if _, err := j.SaveEntry(entryFor("2025-03-09", "a", "b", "c")); err != nil {
		t.Fatal(err)
	}

	gw.failSet = errors.New("disk exploded")
	_, err := j.SaveEntry(entryFor("2025-03-10", "d", "e", "f"))
	if err == nil {
		t.Fatal("expected save to fail")
	}

	var serr *storage.Error
	if !errors.As(err, &serr) {
		t.Errorf("expected a storage error, got %T", err)
	}
	if j.StorageError() == nil {
		t.Error("expected the error slot to be populated")
	}

	if len(j.Entries()) != 1 || j.Entries()[0].Date != "2025-03-09" {
		t.Errorf("expected in-memory state rolled back, got %+v", j.Entries())
	}

	gw.failSet = nil
	j.ClearStorageError()
	if _, err := j.SaveEntry(entryFor("2025-03-10", "d", "e", "f")); err != nil {
		t.Fatalf("expected save to work after failure cleared: %v", err)
	}
}

func TestUpdateAndDeleteEntry(t *testing.T) {
	j := newTestJournal(t, newMemGateway())

	saved, err := j.SaveEntry(entryFor("2025-03-10", "a", "b", "c"))
	if err != nil {
		t.Fatal(err)
	}

	items := []models.EntryItem{{Text: "x"}, {Text: "y", Favorite: true}, {Text: "z"}}
	if err := j.UpdateEntry(saved.ID, items); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, ok := j.EntryByID(saved.ID)
	if !ok {
		t.Fatal("entry vanished")
	}
	if got.Items[1].Text != "y" || !got.Items[1].Favorite {
		t.Errorf("update did not apply: %+v", got.Items)
	}
	if got.Date != "2025-03-10" || got.Time != "08:00" {
		t.Errorf("update must preserve date and time: %+v", got)
	}

	if err := j.UpdateEntry("nope", items); err != nil {
		t.Errorf("unknown id should be a no-op, got %v", err)
	}

	if err := j.DeleteEntry(saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(j.Entries()) != 0 {
		t.Error("entry not deleted")
	}
	if err := j.DeleteEntry(saved.ID); err != nil {
		t.Errorf("deleting twice should be a no-op, got %v", err)
	}
}

func TestTodayAndYesterdayLookups(t *testing.T) {
	j := newTestJournal(t, newMemGateway())

	if j.HasTodayEntry() {
		t.Error("empty journal should have no today entry")
	}

	if _, err := j.SaveEntry(entryFor("2025-03-10", "a", "b", "c")); err != nil {
		t.Fatal(err)
	}
	if _, err := j.SaveEntry(entryFor("2025-03-09", "d", "e", "f")); err != nil {
		t.Fatal(err)
	}

	if !j.HasTodayEntry() {
		t.Error("expected today entry")
	}
	yesterday, ok := j.YesterdayEntry()
	if !ok || yesterday.Date != "2025-03-09" {
		t.Errorf("unexpected yesterday entry: %+v (%v)", yesterday, ok)
	}
}

func TestMonthAndYearQueries(t *testing.T) {
	j := newTestJournal(t, newMemGateway())

	dates := []string{"2025-03-10", "2025-03-01", "2025-02-28", "2024-12-31"}
	for _, date := range dates {
		if _, err := j.SaveEntry(entryFor(date, "a", "b", "c")); err != nil {
			t.Fatal(err)
		}
	}

	if got := len(j.EntriesForMonth("2025-03")); got != 2 {
		t.Errorf("expected 2 entries for 2025-03, got %d", got)
	}
	if got := len(j.YearEntries("2025")); got != 3 {
		t.Errorf("expected 3 entries for 2025, got %d", got)
	}

	years := j.YearsWithEntries()
	if len(years) != 2 || years[0] != "2025" || years[1] != "2024" {
		t.Errorf("unexpected years: %v", years)
	}
}

func TestStarredItemsForMonth(t *testing.T) {
	j := newTestJournal(t, newMemGateway())

	saved, err := j.SaveEntry(entryFor("2025-03-10", "a", "b", "c"))
	if err != nil {
		t.Fatal(err)
	}
	items := []models.EntryItem{{Text: "a"}, {Text: "b", Favorite: true}, {Text: "c", Favorite: true}}
	if err := j.UpdateEntry(saved.ID, items); err != nil {
		t.Fatal(err)
	}

	starred := j.StarredItemsForMonth("2025-03")
	if len(starred) != 2 {
		t.Fatalf("expected 2 starred items, got %d", len(starred))
	}
	if starred[0].EntryID != saved.ID || starred[0].ItemIndex != 1 || starred[0].Text != "b" {
		t.Errorf("unexpected starred item: %+v", starred[0])
	}
}

func TestSaveMonthlyReflectionKeyedByMonth(t *testing.T) {
	j := newTestJournal(t, newMemGateway())

	first, err := j.SaveMonthlyReflection("2025-02", nil, "first take")
	if err != nil {
		t.Fatal(err)
	}

	favs := []models.FavoriteRef{{EntryID: "2025-02-03-08:00", ItemIndex: 0}}
	second, err := j.SaveMonthlyReflection("2025-02", favs, "second take")
	if err != nil {
		t.Fatal(err)
	}

	if len(j.MonthlyReflections()) != 1 {
		t.Fatalf("expected one reflection per month, got %d", len(j.MonthlyReflections()))
	}
	if second.ID != first.ID || second.CreatedAt != first.CreatedAt {
		t.Error("overwrite must preserve id and createdAt")
	}
	if second.ReflectionText != "second take" || len(second.SelectedFavorites) != 1 {
		t.Errorf("overwrite did not apply: %+v", second)
	}

	if _, err := j.SaveMonthlyReflection("February", nil, "x"); err == nil {
		t.Error("expected invalid month to be rejected")
	}
}

func TestUpdateMonthlyReflectionPatch(t *testing.T) {
	j := newTestJournal(t, newMemGateway())

	saved, err := j.SaveMonthlyReflection("2025-02", nil, "original")
	if err != nil {
		t.Fatal(err)
	}

	text := "patched"
	if err := j.UpdateMonthlyReflection(saved.ID, ReflectionPatch{ReflectionText: &text}); err != nil {
		t.Fatal(err)
	}

	got, ok := j.MonthlyReflectionForMonth("2025-02")
	if !ok || got.ReflectionText != "patched" {
		t.Errorf("patch did not apply: %+v", got)
	}
	if got.SelectedFavorites != nil && len(got.SelectedFavorites) != 0 {
		t.Errorf("untouched field changed: %+v", got.SelectedFavorites)
	}
}

func TestSaveYearlyReviewKeyedByYear(t *testing.T) {
	j := newTestJournal(t, newMemGateway())

	first, err := j.SaveYearlyReview("2024", "what a year")
	if err != nil {
		t.Fatal(err)
	}
	second, err := j.SaveYearlyReview("2024", "revised")
	if err != nil {
		t.Fatal(err)
	}

	if len(j.YearlyReviews()) != 1 {
		t.Fatalf("expected one review per year, got %d", len(j.YearlyReviews()))
	}
	if second.ID != first.ID {
		t.Error("overwrite must preserve id")
	}
	if second.ReflectionText != "revised" {
		t.Errorf("overwrite did not apply: %+v", second)
	}
}

func TestLoadRepairsAndRePersists(t *testing.T) {
	gw := newMemGateway()
	// One valid record, one repairable (missing time), one hopeless.
	gw.values[constants.EntriesKey] = `[
		{"id":"2025-03-09-08:00","date":"2025-03-09","time":"08:00","items":[{"text":"a"},{"text":"b"},{"text":"c"}]},
		{"id":"broken","date":"2025-03-10","items":[{"text":"x"},{"text":"y"},{"text":"z"}]},
		{"garbage":true}
	]`

	j := newTestJournal(t, gw)

	if len(j.Entries()) != 2 {
		t.Fatalf("expected 2 entries after repair, got %d", len(j.Entries()))
	}
	if len(j.ValidationErrors()) != 2 {
		t.Errorf("expected repair + discard errors, got %d", len(j.ValidationErrors()))
	}

	// The repaired collection must have been written back.
	var persisted []models.Entry
	if err := json.Unmarshal([]byte(gw.values[constants.EntriesKey]), &persisted); err != nil {
		t.Fatal(err)
	}
	if len(persisted) != 2 {
		t.Errorf("expected repaired collection persisted, got %d records", len(persisted))
	}
	for _, entry := range persisted {
		if entry.Time == "" {
			t.Errorf("persisted entry still missing time: %+v", entry)
		}
	}
}

func TestLoadReportsCorruptedKey(t *testing.T) {
	gw := newMemGateway()
	gw.values[constants.EntriesKey] = `{not valid json`

	j := newTestJournal(t, gw)

	if len(j.Entries()) != 0 {
		t.Fatalf("expected empty collection, got %d entries", len(j.Entries()))
	}

	errs := j.ValidationErrors()
	if len(errs) != 1 {
		t.Fatalf("expected the corrupted key reported, got %d errors", len(errs))
	}
	if errs[0].Kind != validation.KindEntry {
		t.Errorf("unexpected kind: %s", errs[0].Kind)
	}
	if errs[0].Position != 0 {
		t.Errorf("whole-key corruption should use position 0, got %d", errs[0].Position)
	}
	if !strings.Contains(errs[0].Message, constants.EntriesKey) {
		t.Errorf("error should name the key: %q", errs[0].Message)
	}

	// The corrupted value must survive untouched until the user acts on
	// the warning; loading alone never writes.
	if gw.values[constants.EntriesKey] != `{not valid json` {
		t.Error("load overwrote the corrupted value")
	}
}

func TestImportEntriesDedup(t *testing.T) {
	j := newTestJournal(t, newMemGateway())

	if _, err := j.SaveEntry(entryFor("2025-03-09", "mine", "b", "c")); err != nil {
		t.Fatal(err)
	}

	incoming := []json.RawMessage{
		json.RawMessage(`{"id":"2025-03-09-08:00","date":"2025-03-09","time":"08:00","items":[{"text":"theirs"},{"text":"b"},{"text":"c"}]}`),
		json.RawMessage(`{"id":"2025-03-08-07:00","date":"2025-03-08","time":"07:00","items":[{"text":"new"},{"text":"b"},{"text":"c"}]}`),
	}

	count, err := j.ImportEntries(incoming, false)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected only the new entry counted, got %d", count)
	}

	kept, _ := j.EntryByID("2025-03-09-08:00")
	if kept.Items[0].Text != "mine" {
		t.Error("without overwrite the existing entry must win")
	}

	count, err = j.ImportEntries(incoming, true)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected both records counted with overwrite, got %d", count)
	}
	replaced, _ := j.EntryByID("2025-03-09-08:00")
	if replaced.Items[0].Text != "theirs" {
		t.Error("with overwrite the imported entry must win")
	}

	// Result stays sorted by date, newest first.
	entries := j.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Date < entries[i].Date {
			t.Errorf("entries out of order: %s before %s", entries[i-1].Date, entries[i].Date)
		}
	}
}

func TestImportEntriesAllCollisionsNoWrite(t *testing.T) {
	gw := newMemGateway()
	j := newTestJournal(t, gw)

	if _, err := j.SaveEntry(entryFor("2025-03-09", "mine", "b", "c")); err != nil {
		t.Fatal(err)
	}
	setsBefore := gw.sets

	incoming := []json.RawMessage{
		json.RawMessage(`{"id":"2025-03-09-08:00","date":"2025-03-09","time":"08:00","items":[{"text":"theirs"},{"text":"b"},{"text":"c"}]}`),
	}

	count, err := j.ImportEntries(incoming, false)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected nothing counted, got %d", count)
	}
	if gw.sets != setsBefore {
		t.Errorf("import with no changes must not persist, got %d extra writes", gw.sets-setsBefore)
	}
}

func TestImportSkipsInvalidRecords(t *testing.T) {
	j := newTestJournal(t, newMemGateway())

	incoming := []json.RawMessage{
		json.RawMessage(`{"id":"2025-03-08-07:00","date":"2025-03-08","time":"07:00","items":[{"text":"good"},{"text":"b"},{"text":"c"}]}`),
		json.RawMessage(`{"nonsense":true}`),
	}

	count, err := j.ImportEntries(incoming, false)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 imported, got %d", count)
	}
	if len(j.ValidationErrors()) != 1 {
		t.Errorf("expected the bad record reported, got %d errors", len(j.ValidationErrors()))
	}
}

func TestImportReflectionsKeyedOnMonth(t *testing.T) {
	j := newTestJournal(t, newMemGateway())

	if _, err := j.SaveMonthlyReflection("2025-02", nil, "mine"); err != nil {
		t.Fatal(err)
	}

	incoming := []json.RawMessage{
		json.RawMessage(`{"id":"r-other","month":"2025-02","selectedFavorites":[],"reflectionText":"theirs","createdAt":"2025-03-01T10:00:00Z"}`),
	}

	count, err := j.ImportMonthlyReflections(incoming, false)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected collision skipped, got %d", count)
	}

	count, err = j.ImportMonthlyReflections(incoming, true)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected overwrite counted, got %d", count)
	}
	got, _ := j.MonthlyReflectionForMonth("2025-02")
	if got.ReflectionText != "theirs" {
		t.Errorf("overwrite did not apply: %+v", got)
	}
}

func TestSubscribeNotifiesOnMutations(t *testing.T) {
	j := newTestJournal(t, newMemGateway())

	var events []Event
	unsubscribe := j.Subscribe(func(e Event) { events = append(events, e) })

	if _, err := j.SaveEntry(entryFor("2025-03-10", "a", "b", "c")); err != nil {
		t.Fatal(err)
	}
	if _, err := j.SaveMonthlyReflection("2025-02", nil, "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := j.SaveYearlyReview("2024", "y"); err != nil {
		t.Fatal(err)
	}

	want := []Event{EventEntriesChanged, EventMonthlyReflectionsChanged, EventYearlyReviewsChanged}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, events[i], want[i])
		}
	}

	unsubscribe()
	if _, err := j.SaveEntry(entryFor("2025-03-09", "d", "e", "f")); err != nil {
		t.Fatal(err)
	}
	if len(events) != len(want) {
		t.Error("unsubscribed observer still notified")
	}
}

func TestFailedMutationDoesNotNotify(t *testing.T) {
	gw := newMemGateway()
	j := newTestJournal(t, gw)

	notified := false
	j.Subscribe(func(Event) { notified = true })

	gw.failSet = errors.New("nope")
	if _, err := j.SaveEntry(entryFor("2025-03-10", "a", "b", "c")); err == nil {
		t.Fatal("expected failure")
	}
	if notified {
		t.Error("failed mutation must not notify observers")
	}
}
