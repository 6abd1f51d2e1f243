package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/threethings/internal/models"
)

type EditCmd struct {
	Date  string   `arg:"" help:"Date to edit (YYYY-MM-DD, 'today', or 'yesterday')." default:"today"`
	Items []string `arg:"" optional:"" help:"Replacement texts for the three things."`
}

func (c *EditCmd) Run(ctx *Context) error {
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

	texts := c.Items
	if len(texts) == 0 {
		existing := make([]string, len(entry.Items))
		for i, item := range entry.Items {
			existing[i] = item.Text
		}
		texts, err = promptForItems(date, existing)
		if err != nil {
			return err
		}
	}

	items := make([]models.EntryItem, len(entry.Items))
	copy(items, entry.Items)
	for i := range items {
		if i < len(texts) {
			items[i].Text = texts[i]
		}
	}

	if err := ctx.Journal.UpdateEntry(entry.ID, items); err != nil {
		return reportStorageError(err)
	}

	fmt.Printf("✓ Updated entry for %s\n", date)
	return nil
}

func entryForDate(ctx *Context, date string) (models.Entry, bool) {
	for _, entry := range ctx.Journal.Entries() {
		if entry.Date == date {
			return entry, true
		}
	}
	return models.Entry{}, false
}
