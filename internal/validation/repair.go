package validation

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
)

// RepairEntry reconstructs an invalid entry where possible:
//
//   - a missing or invalid id is derived from date-time, or synthesized
//   - a missing or invalid date is unrepairable
//   - a missing or invalid time defaults to the current wall-clock time
//   - items are coerced to exactly three, padding with empty text and keeping
//     favorite only when it is strictly boolean true
//
// An entry whose repaired items are all blank carries no data and is
// discarded. The repaired entry is re-validated before acceptance, so
// running repair twice produces the same result.
func (v *Validator) RepairEntry(raw json.RawMessage) (models.Entry, bool) {
	var le looseEntry
	if err := json.Unmarshal(raw, &le); err != nil {
		return models.Entry{}, false
	}

	date, ok := asString(le.Date)
	if !ok || !IsValidDate(date) {
		return models.Entry{}, false
	}

	timeStr, timeOK := asString(le.Time)
	if !timeOK || !IsValidTime(timeStr) {
		timeStr = v.now().Format(constants.TimeFormat)
		timeOK = false
	}

	id, ok := asString(le.ID)
	if !ok || id == "" {
		// The date-time id is only trustworthy when the record carried its
		// own time; a defaulted time would mint an id that shifts with the
		// clock, so those records get a synthetic one instead.
		if timeOK {
			id = fmt.Sprintf("%s-%s", date, timeStr)
		} else {
			id = syntheticEntryID(v)
		}
	}

	entry := models.Entry{
		ID:    id,
		Date:  date,
		Time:  timeStr,
		Items: repairItems(le.Items),
	}

	if entry.IsBlank() {
		return models.Entry{}, false
	}

	// Round-trip through the strict parser so acceptance uses the exact
	// same rules as first-pass validation.
	data, err := json.Marshal(entry)
	if err != nil {
		return models.Entry{}, false
	}
	return parseEntry(data)
}

// repairItems coerces an arbitrary items value to exactly three entry items.
func repairItems(raw json.RawMessage) []models.EntryItem {
	items := make([]models.EntryItem, 0, constants.ItemsPerEntry)

	var rawItems []json.RawMessage
	if raw != nil {
		// A non-array value leaves rawItems empty and pads below.
		_ = json.Unmarshal(raw, &rawItems)
	}

	for _, rawItem := range rawItems {
		if len(items) == constants.ItemsPerEntry {
			break
		}
		var li looseItem
		item := models.EntryItem{}
		if err := json.Unmarshal(rawItem, &li); err == nil {
			if text, ok := asString(li.Text); ok {
				item.Text = text
			}
			if fav, ok := asBool(li.Favorite); ok && fav {
				item.Favorite = true
			}
		}
		items = append(items, item)
	}

	for len(items) < constants.ItemsPerEntry {
		items = append(items, models.EntryItem{})
	}

	return items
}

func syntheticEntryID(v *Validator) string {
	return fmt.Sprintf("entry-%d-%s", v.now().UnixMilli(), uuid.NewString()[:8])
}
