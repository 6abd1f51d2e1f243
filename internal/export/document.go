package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/journal"
	"github.com/julianstephens/threethings/internal/models"
)

// Document is the portable backup format: everything the journal owns,
// plus counts and the writing version for compatibility checks on import.
type Document struct {
	Version                 string                     `json:"version"`
	ExportDate              string                     `json:"exportDate"`
	TotalEntries            int                        `json:"totalEntries"`
	TotalMonthlyReflections int                        `json:"totalMonthlyReflections"`
	TotalYearlyReviews      int                        `json:"totalYearlyReviews"`
	Entries                 []models.Entry             `json:"entries"`
	MonthlyReflections      []models.MonthlyReflection `json:"monthlyReflections"`
	YearlyReviews           []models.YearlyReview      `json:"yearlyReviews"`
}

// BuildDocument snapshots the journal into a backup document.
func BuildDocument(j *journal.Journal, now time.Time) Document {
	entries := j.Entries()
	monthly := j.MonthlyReflections()
	yearly := j.YearlyReviews()

	return Document{
		Version:                 constants.AppVersion,
		ExportDate:              now.Format(time.RFC3339),
		TotalEntries:            len(entries),
		TotalMonthlyReflections: len(monthly),
		TotalYearlyReviews:      len(yearly),
		Entries:                 entries,
		MonthlyReflections:      monthly,
		YearlyReviews:           yearly,
	}
}

// MarshalDocument renders a document as indented JSON.
func MarshalDocument(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize backup: %w", err)
	}
	return data, nil
}

// ParsedDocument carries an imported document's records still raw, so the
// journal's validator decides what is acceptable.
type ParsedDocument struct {
	Version            string
	Entries            []json.RawMessage
	MonthlyReflections []json.RawMessage
	YearlyReviews      []json.RawMessage
}

// ParseDocument checks an imported backup before any collection is
// touched: the entries array is required, monthlyReflections and
// yearlyReviews are optional for older exports, and a newer major version
// rejects the whole document.
func ParseDocument(data []byte) (*ParsedDocument, error) {
	var loose struct {
		Version            json.RawMessage `json:"version"`
		Entries            json.RawMessage `json:"entries"`
		MonthlyReflections json.RawMessage `json:"monthlyReflections"`
		YearlyReviews      json.RawMessage `json:"yearlyReviews"`
	}
	if err := json.Unmarshal(data, &loose); err != nil {
		return nil, fmt.Errorf("backup file is not valid JSON: %w", err)
	}

	doc := &ParsedDocument{}
	if loose.Version != nil {
		// A missing or malformed version is tolerated; only a parseable
		// newer major version blocks the import.
		_ = json.Unmarshal(loose.Version, &doc.Version)
	}

	if major, err := majorVersion(doc.Version); err == nil {
		current, _ := majorVersion(constants.AppVersion)
		if major > current {
			return nil, fmt.Errorf("backup is from a newer version of threethings (%s); update before importing", doc.Version)
		}
	}

	if loose.Entries == nil {
		return nil, fmt.Errorf("backup is missing its entries list")
	}
	if err := json.Unmarshal(loose.Entries, &doc.Entries); err != nil {
		return nil, fmt.Errorf("backup entries must be an array: %w", err)
	}

	if loose.MonthlyReflections != nil {
		if err := json.Unmarshal(loose.MonthlyReflections, &doc.MonthlyReflections); err != nil {
			return nil, fmt.Errorf("backup monthlyReflections must be an array: %w", err)
		}
	}
	if loose.YearlyReviews != nil {
		if err := json.Unmarshal(loose.YearlyReviews, &doc.YearlyReviews); err != nil {
			return nil, fmt.Errorf("backup yearlyReviews must be an array: %w", err)
		}
	}

	return doc, nil
}

// ImportCounts reports how many records an import added or updated.
type ImportCounts struct {
	Entries            int
	MonthlyReflections int
	YearlyReviews      int
}

// ImportDocument merges a parsed backup into the journal.
func ImportDocument(j *journal.Journal, doc *ParsedDocument, overwrite bool) (ImportCounts, error) {
	var counts ImportCounts
	var err error

	if counts.Entries, err = j.ImportEntries(doc.Entries, overwrite); err != nil {
		return counts, err
	}
	if counts.MonthlyReflections, err = j.ImportMonthlyReflections(doc.MonthlyReflections, overwrite); err != nil {
		return counts, err
	}
	if counts.YearlyReviews, err = j.ImportYearlyReviews(doc.YearlyReviews, overwrite); err != nil {
		return counts, err
	}
	return counts, nil
}

func majorVersion(version string) (int, error) {
	version = strings.TrimPrefix(version, "v")
	head, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("unparseable version: %q", version)
	}
	return major, nil
}
