package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FavoriteRef identifies one item within one entry. Earlier versions of the
// export format encoded this as a single "<entryId>-<itemIndex>" string;
// UnmarshalJSON still accepts that form (split at the last hyphen, since
// entry ids contain hyphens themselves) so old backups import cleanly.
type FavoriteRef struct {
	EntryID   string `json:"entryId"`
	ItemIndex int    `json:"itemIndex"`
}

func (r FavoriteRef) String() string {
	return fmt.Sprintf("%s-%d", r.EntryID, r.ItemIndex)
}

// ParseFavoriteRef parses the legacy concatenated form.
func ParseFavoriteRef(s string) (FavoriteRef, error) {
	i := strings.LastIndex(s, "-")
	if i <= 0 || i == len(s)-1 {
		return FavoriteRef{}, fmt.Errorf("malformed favorite key: %q", s)
	}
	idx, err := strconv.Atoi(s[i+1:])
	if err != nil || idx < 0 {
		return FavoriteRef{}, fmt.Errorf("malformed item index in favorite key: %q", s)
	}
	return FavoriteRef{EntryID: s[:i], ItemIndex: idx}, nil
}

func (r *FavoriteRef) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		ref, err := ParseFavoriteRef(legacy)
		if err != nil {
			return err
		}
		*r = ref
		return nil
	}

	type plain FavoriteRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = FavoriteRef(p)
	return nil
}

// MonthlyReflection is one retrospective per calendar month: up to five
// selected favorite items plus optional free text. CreatedAt is preserved
// across edits; only the content fields change on re-save.
type MonthlyReflection struct {
	ID                string        `json:"id"`
	Month             string        `json:"month"` // YYYY-MM format
	SelectedFavorites []FavoriteRef `json:"selectedFavorites"`
	ReflectionText    string        `json:"reflectionText"`
	CreatedAt         string        `json:"createdAt"` // RFC3339 timestamp
}

// YearlyReview is one free-text retrospective per calendar year.
type YearlyReview struct {
	ID             string `json:"id"`
	Year           string `json:"year"` // YYYY format
	ReflectionText string `json:"reflectionText"`
	CreatedAt      string `json:"createdAt"` // RFC3339 timestamp
}
