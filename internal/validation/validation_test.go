package validation

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/threethings/internal/models"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	}
}

func validEntryJSON(id, date string) string {
	return `{"id":"` + id + `","date":"` + date + `","time":"08:00","items":[` +
		`{"text":"morning coffee","favorite":false},` +
		`{"text":"a long walk","favorite":true},` +
		`{"text":"called mom","favorite":false}]}`
}

func rawBatch(records ...string) []json.RawMessage {
	raws := make([]json.RawMessage, len(records))
	for i, r := range records {
		raws[i] = json.RawMessage(r)
	}
	return raws
}

func TestValidateEntriesBatch(t *testing.T) {
	v := NewWithClock(fixedClock())

	raws := rawBatch(
		validEntryJSON("2025-03-08-08:00", "2025-03-08"),
		// Missing time: repairable, defaults to the clock.
		`{"id":"x","date":"2025-03-09","items":[{"text":"a"},{"text":"b"},{"text":"c"}]}`,
		validEntryJSON("2025-03-10-08:00", "2025-03-10"),
		// Missing date: unrepairable.
		`{"id":"y","time":"08:00","items":[{"text":"a"},{"text":"b"},{"text":"c"}]}`,
		`not even json`,
	)

	result := v.ValidateEntries(raws)

	if len(result.Valid) != 3 {
		t.Fatalf("expected 3 valid entries, got %d", len(result.Valid))
	}
	if result.Repaired != 1 {
		t.Errorf("expected 1 repaired entry, got %d", result.Repaired)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 record errors, got %d", len(result.Errors))
	}

	if result.Errors[0].Position != 2 || result.Errors[0].Message != "entry was repaired automatically" {
		t.Errorf("unexpected first error: %+v", result.Errors[0])
	}
	if result.Errors[1].Position != 4 || result.Errors[1].Message != "entry could not be repaired and was discarded" {
		t.Errorf("unexpected second error: %+v", result.Errors[1])
	}
	if result.Errors[2].Position != 5 {
		t.Errorf("expected position 5 for garbage record, got %d", result.Errors[2].Position)
	}
}

func TestValidateEntriesStrictShape(t *testing.T) {
	v := NewWithClock(fixedClock())

	tests := []struct {
		name string
		raw  string
	}{
		{"missing id derived", `{"date":"2025-03-10","time":"08:00","items":[{"text":"a"},{"text":"b"},{"text":"c"}]}`},
		{"two items padded", `{"id":"e1","date":"2025-03-10","time":"08:00","items":[{"text":"a"},{"text":"b"}]}`},
		{"four items truncated", `{"id":"e1","date":"2025-03-10","time":"08:00","items":[{"text":"a"},{"text":"b"},{"text":"c"},{"text":"d"}]}`},
		{"numeric text dropped", `{"id":"e1","date":"2025-03-10","time":"08:00","items":[{"text":42},{"text":"b"},{"text":"c"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidateEntries(rawBatch(tt.raw))
			if len(result.Valid) != 1 {
				t.Fatalf("expected repair to recover the entry, got %d valid", len(result.Valid))
			}
			if result.Repaired != 1 {
				t.Errorf("expected the entry to count as repaired")
			}
			if len(result.Valid[0].Items) != 3 {
				t.Errorf("expected exactly 3 items, got %d", len(result.Valid[0].Items))
			}
		})
	}
}

func TestRepairEntryDefaults(t *testing.T) {
	v := NewWithClock(fixedClock())

	raw := json.RawMessage(`{"date":"2025-03-10","items":[{"text":"a","favorite":"yes"},{"text":"b"}]}`)
	entry, ok := v.RepairEntry(raw)
	if !ok {
		t.Fatal("expected repair to succeed")
	}

	if entry.Time != "09:30" {
		t.Errorf("expected time to default to clock, got %q", entry.Time)
	}
	if !strings.HasPrefix(entry.ID, "entry-") {
		t.Errorf("expected synthetic id for record without a time, got %q", entry.ID)
	}
	if entry.Items[0].Favorite {
		t.Error("string favorite should coerce to false")
	}
	if len(entry.Items) != 3 || entry.Items[2].Text != "" {
		t.Errorf("expected padding to 3 items, got %+v", entry.Items)
	}
}

func TestRepairEntryDerivedID(t *testing.T) {
	v := NewWithClock(fixedClock())

	raw := json.RawMessage(`{"date":"2025-03-10","time":"07:15","items":[{"text":"a"},{"text":"b"}]}`)
	entry, ok := v.RepairEntry(raw)
	if !ok {
		t.Fatal("expected repair to succeed")
	}
	if entry.ID != "2025-03-10-07:15" {
		t.Errorf("expected id derived from date and time, got %q", entry.ID)
	}
	if entry.Time != "07:15" {
		t.Errorf("expected stored time to be kept, got %q", entry.Time)
	}
}

func TestRepairEntryUnrepairable(t *testing.T) {
	v := NewWithClock(fixedClock())

	tests := []struct {
		name string
		raw  string
	}{
		{"missing date", `{"id":"e1","time":"08:00","items":[{"text":"a"}]}`},
		{"malformed date", `{"id":"e1","date":"03/10/2025","items":[{"text":"a"}]}`},
		{"all items blank", `{"date":"2025-03-10","items":[{"text":""},{"text":""},{"text":""}]}`},
		{"no items", `{"date":"2025-03-10"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := v.RepairEntry(json.RawMessage(tt.raw)); ok {
				t.Error("expected repair to fail")
			}
		})
	}
}

func TestRepairEntryIdempotent(t *testing.T) {
	v := NewWithClock(fixedClock())

	raw := json.RawMessage(`{"date":"2025-03-10","items":[{"text":"a"},{"text":"b"}]}`)
	first, ok := v.RepairEntry(raw)
	if !ok {
		t.Fatal("expected repair to succeed")
	}

	data, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, ok := v.RepairEntry(data)
	if !ok {
		t.Fatal("expected repaired entry to pass repair again")
	}

	if first.ID != second.ID || first.Date != second.Date || first.Time != second.Time {
		t.Errorf("repair not idempotent: %+v vs %+v", first, second)
	}
}

func TestValidateMonthlyReflections(t *testing.T) {
	v := New()

	raws := rawBatch(
		`{"id":"r1","month":"2025-02","selectedFavorites":["2025-02-03-08:00-1",{"entryId":"2025-02-04-09:00","itemIndex":2}],"reflectionText":"good month","createdAt":"2025-03-01T10:00:00Z"}`,
		`{"id":"r2","month":"February","selectedFavorites":[],"reflectionText":"","createdAt":"x"}`,
		`{"id":"","month":"2025-01","selectedFavorites":[],"reflectionText":"","createdAt":"x"}`,
	)

	result := v.ValidateMonthlyReflections(raws)
	if len(result.Valid) != 1 {
		t.Fatalf("expected 1 valid reflection, got %d", len(result.Valid))
	}
	if len(result.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d", len(result.Errors))
	}

	favs := result.Valid[0].SelectedFavorites
	if len(favs) != 2 {
		t.Fatalf("expected both favorite refs to parse, got %d", len(favs))
	}
	want := models.FavoriteRef{EntryID: "2025-02-03-08:00", ItemIndex: 1}
	if favs[0] != want {
		t.Errorf("legacy string ref parsed wrong: %+v", favs[0])
	}
	if favs[1].EntryID != "2025-02-04-09:00" || favs[1].ItemIndex != 2 {
		t.Errorf("object ref parsed wrong: %+v", favs[1])
	}
}

func TestValidateYearlyReviews(t *testing.T) {
	v := New()

	raws := rawBatch(
		`{"id":"y1","year":"2024","reflectionText":"a full year","createdAt":"2025-01-01T09:00:00Z"}`,
		`{"id":"y2","year":"24","reflectionText":"","createdAt":"x"}`,
	)

	result := v.ValidateYearlyReviews(raws)
	if len(result.Valid) != 1 {
		t.Fatalf("expected 1 valid review, got %d", len(result.Valid))
	}
	if result.Valid[0].Year != "2024" {
		t.Errorf("unexpected year: %q", result.Valid[0].Year)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(result.Errors))
	}
}

func TestDatePredicates(t *testing.T) {
	tests := []struct {
		fn    func(string) bool
		input string
		want  bool
	}{
		{IsValidDate, "2025-03-10", true},
		{IsValidDate, "2025-3-10", false},
		{IsValidDate, "2025-02-30", false},
		{IsValidTime, "08:05", true},
		{IsValidTime, "8:05", false},
		{IsValidTime, "25:00", false},
		{IsValidMonth, "2025-03", true},
		{IsValidMonth, "2025-13", false},
		{IsValidYear, "2025", true},
		{IsValidYear, "202a", false},
	}

	for _, tt := range tests {
		if got := tt.fn(tt.input); got != tt.want {
			t.Errorf("predicate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
