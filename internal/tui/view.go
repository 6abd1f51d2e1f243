package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/threethings/internal/stats"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateMonth:
		content = m.viewMonth()
	case StateStats:
		content = m.viewStats()
	case StateEntryForm:
		content = m.form.View()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	sections := []string{m.viewTabs(), content}
	if m.statusMsg != "" {
		sections = append(sections, m.statusMsg)
	}
	sections = append(sections, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "Month", "Stats"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	var b strings.Builder

	now := time.Now()
	b.WriteString(titleStyle.Render(now.Format("Monday, January 2")) + "\n\n")

	if entry, ok := m.journal.TodayEntry(); ok {
		for i, item := range entry.Items {
			star := ""
			if item.Favorite {
				star = " ⭐"
			}
			fmt.Fprintf(&b, "  %d. %s%s\n", i+1, item.Text, star)
		}
		b.WriteString(dimStyle.Render("\nPress 'a' to revise today's things."))
	} else {
		b.WriteString(dimStyle.Render("No entry yet. Press 'a' to record three things."))
	}

	if _, ok := m.journal.YesterdayEntry(); !ok {
		b.WriteString(warnStyle.Render("\n\nYesterday is still blank — press 'y' to fill it in."))
	}

	streak := stats.CurrentStreak(m.journal.Entries(), now)
	if streak > 0 {
		fmt.Fprintf(&b, "\n\n🔥 %d day streak", streak)
	}

	return docStyle.Render(b.String())
}

func (m Model) viewMonth() string {
	header := titleStyle.Render(m.month)
	if reflection, ok := m.journal.MonthlyReflectionForMonth(m.month); ok && reflection.ReflectionText != "" {
		header += dimStyle.Render("  (reflected)")
	}
	return docStyle.Render(header + "\n" + m.entryList.View())
}

func (m Model) viewStats() string {
	var b strings.Builder

	now := time.Now()
	entries := m.journal.Entries()
	reflections := m.journal.MonthlyReflections()

	b.WriteString(titleStyle.Render("Practice") + "\n\n")
	fmt.Fprintf(&b, "  Current streak: %d day(s)\n", stats.CurrentStreak(entries, now))
	fmt.Fprintf(&b, "  Longest streak: %d day(s)\n\n", stats.LongestStreak(entries))

	month := stats.MonthProgress(entries, now)
	week := stats.WeekProgress(entries, now)
	fmt.Fprintf(&b, "  This month: %d/%d days (%d%%)\n", month.DaysPracticed, month.DaysElapsed, month.Percent)
	fmt.Fprintf(&b, "  This week:  %d/%d days (%d%%)\n\n", week.DaysPracticed, week.DaysElapsed, week.Percent)
	b.WriteString("  " + month.Message)

	if pending := stats.MonthsNeedingReview(entries, reflections, now); len(pending) > 0 {
		b.WriteString("\n\n" + warnStyle.Render(fmt.Sprintf("⚠ Months awaiting review: %s", strings.Join(pending, ", "))))
		b.WriteString(dimStyle.Render("\n   Run 'threethings review month' from the shell."))
	}

	return docStyle.Render(b.String())
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete the entry for %s?", m.deletingDate)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
