package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/threethings/internal/stats"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	defer ctx.Journal.Close()

	now := time.Now()
	entries := ctx.Journal.Entries()
	reflections := ctx.Journal.MonthlyReflections()

	fmt.Printf("Current streak: %d day(s)\n", stats.CurrentStreak(entries, now))
	fmt.Printf("Longest streak: %d day(s)\n", stats.LongestStreak(entries))
	fmt.Println()

	month := stats.MonthProgress(entries, now)
	week := stats.WeekProgress(entries, now)
	fmt.Printf("This month: %d/%d days (%d%%) — %s\n",
		month.DaysPracticed, month.DaysElapsed, month.Percent, month.Message)
	fmt.Printf("This week:  %d/%d days (%d%%)\n",
		week.DaysPracticed, week.DaysElapsed, week.Percent)

	if pending := stats.MonthsNeedingReview(entries, reflections, now); len(pending) > 0 {
		fmt.Println()
		fmt.Printf("⚠ Months awaiting review: %s\n", strings.Join(pending, ", "))
		fmt.Println("   Run 'threethings review month <YYYY-MM>' to reflect.")
	}

	return nil
}
