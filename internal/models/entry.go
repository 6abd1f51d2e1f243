package models

import "strings"

// EntryItem is one gratitude statement. Items have no identity of their
// own; they are addressed by position within their entry.
type EntryItem struct {
	Text     string `json:"text"`
	Favorite bool   `json:"favorite"`
}

// Entry is one calendar day's reflection: exactly three items.
type Entry struct {
	ID    string      `json:"id"`
	Date  string      `json:"date"` // YYYY-MM-DD format
	Time  string      `json:"time"` // HH:MM format
	Items []EntryItem `json:"items"`
}

// Month returns the YYYY-MM prefix of the entry date.
func (e Entry) Month() string {
	if len(e.Date) < 7 {
		return e.Date
	}
	return e.Date[:7]
}

// Year returns the YYYY prefix of the entry date.
func (e Entry) Year() string {
	if len(e.Date) < 4 {
		return e.Date
	}
	return e.Date[:4]
}

// IsBlank reports whether every item text is empty or whitespace.
func (e Entry) IsBlank() bool {
	for _, item := range e.Items {
		if strings.TrimSpace(item.Text) != "" {
			return false
		}
	}
	return true
}

// StarredItem is a favorite-marked item flattened out of its entry,
// carrying enough context to display and to resolve back to the source.
type StarredItem struct {
	EntryID   string `json:"entryId"`
	ItemIndex int    `json:"itemIndex"`
	Text      string `json:"text"`
	Date      string `json:"date"`
	Month     string `json:"month,omitempty"`
}
