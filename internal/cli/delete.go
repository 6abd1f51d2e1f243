package cli

import (
	"fmt"
	"time"
)

type DeleteCmd struct {
	Date string `arg:"" help:"Date to delete (YYYY-MM-DD, 'today', or 'yesterday')." default:"today"`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	defer ctx.Journal.Close()

	date, err := resolveDate(c.Date, time.Now())
	if err != nil {
		return err
	}

	entry, ok := entryForDate(ctx, date)
	if !ok {
		return fmt.Errorf("no entry found for %s", date)
	}

	if err := ctx.Journal.DeleteEntry(entry.ID); err != nil {
		return reportStorageError(err)
	}

	fmt.Printf("✓ Deleted entry for %s\n", date)
	return nil
}
