package review

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/threethings/internal/journal"
	"github.com/julianstephens/threethings/internal/models"
	"github.com/julianstephens/threethings/internal/stats"
)

// YearlySession presents one year's aggregated summary and captures the
// optional free-text review. Saving the text is independent from monthly
// review saving.
type YearlySession struct {
	journal *journal.Journal
	year    string
}

// YearsWithReflections returns the years eligible for a yearly review:
// those with at least one monthly reflection, newest first.
func YearsWithReflections(j *journal.Journal) []string {
	seen := make(map[string]bool)
	var years []string
	for _, reflection := range j.MonthlyReflections() {
		if len(reflection.Month) < 4 {
			continue
		}
		year := reflection.Month[:4]
		if !seen[year] {
			seen[year] = true
			years = append(years, year)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

func NewYearlySession(j *journal.Journal, year string) (*YearlySession, error) {
	for _, candidate := range YearsWithReflections(j) {
		if candidate == year {
			return &YearlySession{journal: j, year: year}, nil
		}
	}
	return nil, fmt.Errorf("no monthly reflections for year %s yet", year)
}

func (s *YearlySession) Year() string {
	return s.year
}

// Summary aggregates the year's statistics and top moments.
func (s *YearlySession) Summary(now time.Time) stats.YearSummary {
	return stats.YearSummaryFor(s.year, s.journal.Entries(), s.journal.MonthlyReflections(), now)
}

// Existing returns the already-saved review for the year, if any.
func (s *YearlySession) Existing() (models.YearlyReview, bool) {
	return s.journal.YearlyReviewForYear(s.year)
}

// SaveReflection persists the year's free-text review, overwriting any
// existing one.
func (s *YearlySession) SaveReflection(text string) (models.YearlyReview, error) {
	return s.journal.SaveYearlyReview(s.year, text)
}
