package cli

import (
	"fmt"
	"time"
)

type ShowCmd struct {
	Date string `arg:"" help:"Date to show (YYYY-MM-DD, 'today', or 'yesterday')." default:"today"`
}

func (c *ShowCmd) Run(ctx *Context) error {
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
		fmt.Printf("No entry for %s yet. Record one with 'threethings add'.\n", date)
		return nil
	}

	printEntry(entry)
	return nil
}
