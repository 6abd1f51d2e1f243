package cli

import (
	"fmt"
	"time"
)

type MonthCmd struct {
	Month string `arg:"" help:"Month to show (YYYY-MM, 'current', or 'previous')." default:"current"`
}

func (c *MonthCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	defer ctx.Journal.Close()

	month, err := resolveMonth(c.Month, time.Now())
	if err != nil {
		return err
	}

	entries := ctx.Journal.EntriesForMonth(month)
	if len(entries) == 0 {
		fmt.Printf("No entries for %s.\n", month)
		return nil
	}

	fmt.Printf("Entries for %s:\n\n", month)
	for _, entry := range entries {
		printEntry(entry)
		fmt.Println()
	}

	starred := ctx.Journal.StarredItemsForMonth(month)
	if len(starred) > 0 {
		fmt.Println("Starred moments:")
		for _, item := range starred {
			fmt.Printf("  ⭐ %s (%s)\n", item.Text, item.Date)
		}
		fmt.Println()
	}

	if reflection, ok := ctx.Journal.MonthlyReflectionForMonth(month); ok {
		fmt.Printf("Reflection:\n%s\n", reflection.ReflectionText)
	}

	return nil
}
