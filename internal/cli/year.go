package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/threethings/internal/stats"
)

type YearCmd struct {
	Year string `arg:"" help:"Year to summarize (YYYY or 'current')." default:"current"`
}

func (c *YearCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	defer ctx.Journal.Close()

	now := time.Now()
	year, err := resolveYear(c.Year, now)
	if err != nil {
		return err
	}

	entries := ctx.Journal.YearEntries(year)
	if len(entries) == 0 {
		fmt.Printf("No entries for %s.\n", year)
		return nil
	}

	summary := stats.YearSummaryFor(year, entries, ctx.Journal.MonthlyReflections(), now)

	fmt.Printf("Year in review: %s\n\n", summary.Year)
	fmt.Printf("  Days practiced:      %d\n", summary.DaysPracticed)
	fmt.Printf("  Things recorded:     %d\n", summary.TotalItems)
	fmt.Printf("  Starred moments:     %d\n", summary.StarredCount)
	fmt.Printf("  Monthly reflections: %d\n", summary.MonthlyReflectionCount)
	fmt.Printf("  Longest streak:      %d day(s)\n", summary.LongestStreak)
	fmt.Printf("  Consistency:         %d%%\n", summary.Consistency)

	if len(summary.TopMoments) > 0 {
		fmt.Println("\n  Top moments:")
		for _, m := range summary.TopMoments {
			fmt.Printf("    ⭐ %s (%s)\n", m.Text, m.Date)
		}
	}

	if review, ok := ctx.Journal.YearlyReviewForYear(year); ok {
		fmt.Printf("\nYour reflection:\n%s\n", review.ReflectionText)
	}

	return nil
}
