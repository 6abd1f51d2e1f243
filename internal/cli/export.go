package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/threethings/internal/export"
)

type ExportCmd struct {
	Output string `arg:"" help:"Destination file." type:"path"`
	Format string `short:"f" help:"Export format (json|csv|md|txt)." enum:"json,csv,md,txt" default:"json"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	defer ctx.Journal.Close()

	doc := export.BuildDocument(ctx.Journal, time.Now())

	var data []byte
	var err error
	switch c.Format {
	case "json":
		data, err = export.MarshalDocument(doc)
	case "csv":
		f, ferr := os.Create(c.Output)
		if ferr != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, ferr)
		}
		defer f.Close()
		if err := export.WriteCSV(f, doc.Entries); err != nil {
			return err
		}
		fmt.Printf("✓ Exported %d entries to %s\n", doc.TotalEntries, c.Output)
		return nil
	case "md":
		data = []byte(export.Markdown(doc))
	case "txt":
		data = []byte(export.Text(doc))
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.Output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Output, err)
	}

	fmt.Printf("✓ Exported %d entries to %s\n", doc.TotalEntries, c.Output)
	return nil
}
