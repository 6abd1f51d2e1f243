package export

import (
	"fmt"
	"strings"

	"github.com/julianstephens/threethings/internal/models"
)

// Markdown renders a backup document as a readable Markdown journal,
// newest month first, with reflections following their month's entries.
func Markdown(doc Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Three Things Journal\n\n")
	fmt.Fprintf(&b, "Exported %s — %d entries\n", doc.ExportDate, doc.TotalEntries)

	reflections := make(map[string]models.MonthlyReflection, len(doc.MonthlyReflections))
	for _, r := range doc.MonthlyReflections {
		reflections[r.Month] = r
	}

	var month string
	for _, entry := range doc.Entries {
		if entry.Month() != month {
			if r, ok := reflections[month]; ok && month != "" {
				writeMarkdownReflection(&b, r)
			}
			month = entry.Month()
			fmt.Fprintf(&b, "\n## %s\n", month)
		}
		fmt.Fprintf(&b, "\n### %s\n\n", entry.Date)
		for _, item := range entry.Items {
			marker := "-"
			if item.Favorite {
				marker = "- ⭐"
			}
			fmt.Fprintf(&b, "%s %s\n", marker, item.Text)
		}
	}
	if r, ok := reflections[month]; ok && month != "" {
		writeMarkdownReflection(&b, r)
	}

	for _, review := range doc.YearlyReviews {
		fmt.Fprintf(&b, "\n## Year in review: %s\n\n%s\n", review.Year, review.ReflectionText)
	}

	return b.String()
}

func writeMarkdownReflection(b *strings.Builder, r models.MonthlyReflection) {
	fmt.Fprintf(b, "\n**Reflection on %s**\n\n%s\n", r.Month, r.ReflectionText)
}

// Text renders a backup document as plain text, suitable for printing.
func Text(doc Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Three Things Journal (exported %s)\n", doc.ExportDate)
	for _, entry := range doc.Entries {
		fmt.Fprintf(&b, "\n%s\n", entry.Date)
		for i, item := range entry.Items {
			star := " "
			if item.Favorite {
				star = "*"
			}
			fmt.Fprintf(&b, "  %d.%s %s\n", i+1, star, item.Text)
		}
	}
	return b.String()
}
