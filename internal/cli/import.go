package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/threethings/internal/export"
	"github.com/julianstephens/threethings/internal/snapshot"
)

type ImportCmd struct {
	File      string `arg:"" help:"Backup file to import." type:"existingfile"`
	Overwrite bool   `help:"Replace existing records when IDs collide (default keeps yours)."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	defer ctx.Journal.Close()

	// Startup warnings were already reported; from here on the error list
	// should describe only the imported file.
	ctx.Journal.ClearValidationErrors()

	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	doc, err := export.ParseDocument(data)
	if err != nil {
		return err
	}

	// Keep a copy of the store before merging someone else's data into it.
	if path, err := snapshot.NewManager(ctx.Journal.Gateway().Path()).Create(); err == nil {
		fmt.Printf("Snapshot saved: %s\n", filepath.Base(path))
	}

	counts, err := export.ImportDocument(ctx.Journal, doc, c.Overwrite)
	if err != nil {
		return reportStorageError(err)
	}

	fmt.Printf("✓ Imported %d entries, %d monthly reflections, %d yearly reviews\n",
		counts.Entries, counts.MonthlyReflections, counts.YearlyReviews)

	if errs := ctx.Journal.ValidationErrors(); len(errs) > 0 {
		fmt.Printf("⚠ Skipped %d record(s) that could not be read:\n", len(errs))
		for _, e := range errs {
			fmt.Printf("   record %d: %s\n", e.Position, e.Message)
		}
		ctx.Journal.ClearValidationErrors()
	}

	return nil
}
