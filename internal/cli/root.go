package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/journal"
	"github.com/julianstephens/threethings/internal/models"
	"github.com/julianstephens/threethings/internal/storage"
	"github.com/julianstephens/threethings/internal/validation"
)

type Context struct {
	Journal *journal.Journal
}

// Load opens the journal and reports anything the startup validation had
// to repair or discard, without failing the command.
func (ctx *Context) Load() error {
	if err := ctx.Journal.Load(); err != nil {
		return err
	}

	if errs := ctx.Journal.ValidationErrors(); len(errs) > 0 {
		repaired := 0
		for _, e := range errs {
			if e.Kind == validation.KindEntry && e.Message == "entry was repaired automatically" {
				repaired++
			}
		}
		dropped := len(errs) - repaired
		if repaired > 0 {
			fmt.Printf("⚠ Repaired %d damaged record(s) on load\n", repaired)
		}
		if dropped > 0 {
			fmt.Printf("⚠ Discarded %d unreadable record(s); run 'threethings doctor' for details\n", dropped)
		}
	}

	if serr := ctx.Journal.StorageError(); serr != nil {
		fmt.Printf("⚠ Storage trouble: %v\n   %s\n", serr, serr.Advice())
	}

	return nil
}

// reportStorageError surfaces a persist failure with actionable advice.
func reportStorageError(err error) error {
	var serr *storage.Error
	if errors.As(err, &serr) {
		return fmt.Errorf("%w\n   %s", err, serr.Advice())
	}
	return err
}

// resolveDate accepts "today", "yesterday", or YYYY-MM-DD.
func resolveDate(s string, now time.Time) (string, error) {
	switch s {
	case "today", "":
		return now.Format(constants.DateFormat), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(constants.DateFormat), nil
	}
	if !validation.IsValidDate(s) {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD, 'today', or 'yesterday'", s)
	}
	return s, nil
}

// resolveMonth accepts "current", "previous", or YYYY-MM.
func resolveMonth(s string, now time.Time) (string, error) {
	switch s {
	case "current", "":
		return now.Format(constants.MonthFormat), nil
	case "previous":
		// Stepping back through the last day of the previous month avoids
		// AddDate normalization (Mar 31 minus a month is "Feb 31" = Mar 3).
		return now.AddDate(0, 0, -now.Day()).Format(constants.MonthFormat), nil
	}
	if !validation.IsValidMonth(s) {
		return "", fmt.Errorf("invalid month %q, use YYYY-MM, 'current', or 'previous'", s)
	}
	return s, nil
}

// resolveYear accepts "current" or YYYY.
func resolveYear(s string, now time.Time) (string, error) {
	if s == "current" || s == "" {
		return now.Format(constants.YearFormat), nil
	}
	if !validation.IsValidYear(s) {
		return "", fmt.Errorf("invalid year %q, use YYYY or 'current'", s)
	}
	return s, nil
}

func printEntry(entry models.Entry) {
	fmt.Printf("%s (%s)\n", entry.Date, entry.Time)
	for i, item := range entry.Items {
		star := " "
		if item.Favorite {
			star = "⭐"
		}
		fmt.Printf("  %d. %s %s\n", i+1, item.Text, star)
	}
}
