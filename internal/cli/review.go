package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
	"github.com/julianstephens/threethings/internal/review"
	"github.com/julianstephens/threethings/internal/stats"
)

type ReviewCmd struct {
	Month ReviewMonthCmd `cmd:"" help:"Review a month: star moments, pick favorites, reflect."`
	Year  ReviewYearCmd  `cmd:"" help:"Write a yearly review."`
}

type ReviewMonthCmd struct {
	Month string `arg:"" help:"Month to review (YYYY-MM, 'current', or 'previous')." default:"previous"`
}

func (c *ReviewMonthCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	defer ctx.Journal.Close()

	month, err := resolveMonth(c.Month, time.Now())
	if err != nil {
		return err
	}

	session, err := review.NewMonthlySession(ctx.Journal, month)
	if err != nil {
		return err
	}
	entries := session.Entries()
	if len(entries) == 0 {
		fmt.Printf("No entries for %s, nothing to review.\n", month)
		return nil
	}

	// Phase 1: star the moments worth remembering.
	if err := runStarPhase(session, entries); err != nil {
		return err
	}

	session.BeginSelection()

	// Phase 2: narrow the stars down and write the reflection.
	starred := session.Starred()
	if len(starred) > 0 {
		if err := runSelectionPhase(session, starred); err != nil {
			return err
		}
	}

	text := session.ReflectionText()
	prompt := huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title(fmt.Sprintf("Reflection on %s", month)).
			Description("What stood out? What are you taking with you?").
			Value(&text),
	))
	if err := prompt.Run(); err != nil {
		return fmt.Errorf("review cancelled: %w", err)
	}
	session.SetReflectionText(text)

	if _, err := session.Save(); err != nil {
		return reportStorageError(err)
	}

	fmt.Printf("✓ Saved reflection for %s\n", month)
	return nil
}

func runStarPhase(session *review.MonthlySession, entries []models.Entry) error {
	var options []huh.Option[models.FavoriteRef]
	starred := make(map[models.FavoriteRef]bool)
	for _, ref := range refsOf(session.Starred()) {
		starred[ref] = true
	}
	for _, entry := range entries {
		for i, item := range entry.Items {
			if item.Text == "" {
				continue
			}
			ref := models.FavoriteRef{EntryID: entry.ID, ItemIndex: i}
			label := fmt.Sprintf("%s — %s", entry.Date, item.Text)
			options = append(options, huh.NewOption(label, ref).Selected(starred[ref]))
		}
	}

	var selected []models.FavoriteRef
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[models.FavoriteRef]().
			Title("Star the moments worth remembering").
			Options(options...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("review cancelled: %w", err)
	}

	want := make(map[models.FavoriteRef]bool, len(selected))
	for _, ref := range selected {
		want[ref] = true
	}
	for _, opt := range options {
		ref := opt.Value
		if want[ref] != starred[ref] {
			if err := session.ToggleStar(ref.EntryID, ref.ItemIndex); err != nil {
				return reportStorageError(err)
			}
		}
	}
	return nil
}

func runSelectionPhase(session *review.MonthlySession, starred []models.StarredItem) error {
	var options []huh.Option[models.FavoriteRef]
	preselected := make(map[models.FavoriteRef]bool)
	for _, ref := range session.Selected() {
		preselected[ref] = true
	}
	for _, item := range starred {
		ref := models.FavoriteRef{EntryID: item.EntryID, ItemIndex: item.ItemIndex}
		label := fmt.Sprintf("%s — %s", item.Date, item.Text)
		options = append(options, huh.NewOption(label, ref).Selected(preselected[ref]))
	}

	var selected []models.FavoriteRef
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[models.FavoriteRef]().
			Title(fmt.Sprintf("Pick up to %d favorites", constants.MaxSelectedFavorites)).
			Options(options...).
			Limit(constants.MaxSelectedFavorites).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("review cancelled: %w", err)
	}

	session.SetSelection(selected)
	return nil
}

func refsOf(items []models.StarredItem) []models.FavoriteRef {
	refs := make([]models.FavoriteRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, models.FavoriteRef{EntryID: item.EntryID, ItemIndex: item.ItemIndex})
	}
	return refs
}

type ReviewYearCmd struct {
	Year string `arg:"" help:"Year to review (YYYY or 'current')." default:"current"`
}

func (c *ReviewYearCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	defer ctx.Journal.Close()

	now := time.Now()
	year, err := resolveYear(c.Year, now)
	if err != nil {
		return err
	}

	session, err := review.NewYearlySession(ctx.Journal, year)
	if err != nil {
		return err
	}

	summary := session.Summary(now)
	fmt.Printf("Year in review: %s\n", summary.Year)
	fmt.Printf("  %d days practiced, %d%% consistency, longest streak %d day(s)\n",
		summary.DaysPracticed, summary.Consistency, summary.LongestStreak)
	if len(summary.TopMoments) > 0 {
		fmt.Println("  Top moments:")
		for _, m := range summary.TopMoments {
			fmt.Printf("    ⭐ %s (%s)\n", m.Text, m.Date)
		}
	}
	fmt.Println()

	text := ""
	if existing, ok := session.Existing(); ok {
		text = existing.ReflectionText
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title(fmt.Sprintf("Looking back on %s", year)).
			Description("What defined this year for you?").
			Value(&text),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("review cancelled: %w", err)
	}

	if _, err := session.SaveReflection(text); err != nil {
		return reportStorageError(err)
	}

	fmt.Printf("✓ Saved yearly review for %s\n", year)
	return nil
}

// reviewNudges reports due reviews, printed before the TUI starts.
func reviewNudges(ctx *Context, now time.Time) []string {
	var nudges []string
	entries := ctx.Journal.Entries()
	reflections := ctx.Journal.MonthlyReflections()
	if stats.MonthlyReviewDue(entries, reflections, now) {
		prev := now.AddDate(0, 0, -now.Day()).Format(constants.MonthFormat)
		nudges = append(nudges, fmt.Sprintf("Monthly review for %s is due", prev))
	}
	if stats.YearlyReviewEligible(reflections, now, false) {
		year := now.AddDate(0, 0, -now.YearDay()).Format(constants.YearFormat)
		if _, done := ctx.Journal.YearlyReviewForYear(year); !done {
			nudges = append(nudges, fmt.Sprintf("Yearly review for %s is ready", year))
		}
	}
	return nudges
}
