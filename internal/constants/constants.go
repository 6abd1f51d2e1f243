package constants

const (
	// AppVersion is the semver version written into export documents.
	// Imports are rejected when the document's major version is newer.
	AppVersion = "1.0.0"

	DateFormat  = "2006-01-02"
	TimeFormat  = "15:04"
	MonthFormat = "2006-01"
	YearFormat  = "2006"

	// Storage keys. Each holds a JSON array as a single string value.
	EntriesKey            = "three-things-entries"
	MonthlyReflectionsKey = "three-things-monthly-reflections"
	YearlyReviewsKey      = "three-things-yearly-reviews"

	// ItemsPerEntry is the fixed number of gratitude statements per day.
	ItemsPerEntry = 3

	// MaxSelectedFavorites caps a monthly reflection's top-moment selection.
	MaxSelectedFavorites = 5
)

// Consistency message thresholds (percent of days practiced in a period).
const (
	ProgressGreatThreshold = 90
	ProgressGoodThreshold  = 70
	ProgressFairThreshold  = 50
)
