package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
)

type AddCmd struct {
	Items     []string `arg:"" optional:"" help:"The three things you are grateful for today."`
	Yesterday bool     `short:"y" help:"Record the entry for yesterday instead of today."`
}

func (c *AddCmd) Validate() error {
	if len(c.Items) != 0 && len(c.Items) != constants.ItemsPerEntry {
		return fmt.Errorf("provide exactly %d things (or none to be prompted)", constants.ItemsPerEntry)
	}
	return nil
}

func (c *AddCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	defer ctx.Journal.Close()

	now := time.Now()
	date := now.Format(constants.DateFormat)
	if c.Yesterday {
		date = now.AddDate(0, 0, -1).Format(constants.DateFormat)
	}

	items := c.Items
	if len(items) == 0 {
		var err error
		items, err = promptForItems(date, nil)
		if err != nil {
			return err
		}
	}

	entry := models.Entry{
		Date: date,
		Time: now.Format(constants.TimeFormat),
	}
	for _, text := range items {
		entry.Items = append(entry.Items, models.EntryItem{Text: text})
	}

	saved, err := ctx.Journal.SaveEntry(entry)
	if err != nil {
		return reportStorageError(err)
	}

	fmt.Printf("✓ Saved entry for %s\n", saved.Date)
	return nil
}

// promptForItems collects three things interactively, pre-filling any
// existing texts when editing.
func promptForItems(date string, existing []string) ([]string, error) {
	items := make([]string, constants.ItemsPerEntry)
	copy(items, existing)

	fields := make([]huh.Field, 0, constants.ItemsPerEntry)
	for i := range items {
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("Thing %d for %s", i+1, date)).
			Value(&items[i]))
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("entry cancelled: %w", err)
	}
	return items, nil
}
