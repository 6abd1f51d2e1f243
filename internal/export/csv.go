package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
)

// WriteCSV renders entries as one row per day, three item columns and a
// favorite flag per item, with standard quoting for commas and newlines.
func WriteCSV(w io.Writer, entries []models.Entry) error {
	cw := csv.NewWriter(w)

	header := []string{"date", "time"}
	for i := 1; i <= constants.ItemsPerEntry; i++ {
		header = append(header, fmt.Sprintf("item%d", i), fmt.Sprintf("item%d_favorite", i))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range entries {
		row := []string{entry.Date, entry.Time}
		for i := 0; i < constants.ItemsPerEntry; i++ {
			var item models.EntryItem
			if i < len(entry.Items) {
				item = entry.Items[i]
			}
			row = append(row, item.Text, strconv.FormatBool(item.Favorite))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", entry.Date, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
