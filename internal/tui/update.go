package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/models"
	"github.com/julianstephens/threethings/internal/tui/components/entrylist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.entryList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case entrylist.EditEntryMsg:
		texts := make([]string, len(msg.Entry.Items))
		for i, item := range msg.Entry.Items {
			texts[i] = item.Text
		}
		m.startEntryForm(msg.Entry.Date, msg.Entry.ID, texts)
		return m, m.form.Init()

	case entrylist.DeleteEntryMsg:
		if entry, ok := m.journal.EntryByID(msg.ID); ok {
			m.deletingID = entry.ID
			m.deletingDate = entry.Date
			m.previousState = m.state
			m.state = StateConfirmDelete
		}
		return m, nil
	}

	switch m.state {
	case StateEntryForm:
		return m.updateEntryForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % 3
			m.statusMsg = ""
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state + 2) % 3
			m.statusMsg = ""
			return m, nil
		}
	}

	switch m.state {
	case StateToday:
		return m.updateToday(msg)
	case StateMonth:
		return m.updateMonth(msg)
	}
	return m, nil
}

func (m Model) updateToday(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	now := time.Now()
	switch {
	case key.Matches(keyMsg, m.keys.Add):
		date := now.Format(constants.DateFormat)
		if entry, ok := m.journal.TodayEntry(); ok {
			texts := itemTexts(entry.Items)
			m.startEntryForm(date, entry.ID, texts)
		} else {
			m.startEntryForm(date, "", nil)
		}
		return m, m.form.Init()

	case key.Matches(keyMsg, m.keys.Yesterday):
		date := now.AddDate(0, 0, -1).Format(constants.DateFormat)
		if entry, ok := m.journal.YesterdayEntry(); ok {
			m.startEntryForm(date, entry.ID, itemTexts(entry.Items))
		} else {
			m.startEntryForm(date, "", nil)
		}
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) updateMonth(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.PrevMonth):
			m.month = shiftMonth(m.month, -1)
			m.refreshEntries()
			return m, nil
		case key.Matches(keyMsg, m.keys.NextMonth):
			m.month = shiftMonth(m.month, 1)
			m.refreshEntries()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

func (m Model) updateEntryForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.saveEntryForm()
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m *Model) saveEntryForm() {
	if m.editingID != "" {
		existing, ok := m.journal.EntryByID(m.editingID)
		if !ok {
			m.statusMsg = dangerStyle.Render("Entry disappeared while editing")
			return
		}
		items := make([]models.EntryItem, len(existing.Items))
		copy(items, existing.Items)
		for i := range items {
			if i < len(m.entryForm.Items) {
				items[i].Text = m.entryForm.Items[i]
			}
		}
		if err := m.journal.UpdateEntry(m.editingID, items); err != nil {
			m.statusMsg = dangerStyle.Render(fmt.Sprintf("Save failed: %v", err))
			return
		}
	} else {
		entry := models.Entry{
			Date: m.entryForm.Date,
			Time: time.Now().Format(constants.TimeFormat),
		}
		for _, text := range m.entryForm.Items {
			entry.Items = append(entry.Items, models.EntryItem{Text: text})
		}
		if _, err := m.journal.SaveEntry(entry); err != nil {
			m.statusMsg = dangerStyle.Render(fmt.Sprintf("Save failed: %v", err))
			return
		}
	}
	m.statusMsg = fmt.Sprintf("✓ Saved %s", m.entryForm.Date)
	m.refreshEntries()
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y":
		if err := m.journal.DeleteEntry(m.deletingID); err != nil {
			m.statusMsg = dangerStyle.Render(fmt.Sprintf("Delete failed: %v", err))
		} else {
			m.statusMsg = fmt.Sprintf("✓ Deleted %s", m.deletingDate)
			m.refreshEntries()
		}
		m.state = m.previousState
	case "n", "esc", "q":
		m.state = m.previousState
	}
	return m, nil
}

func itemTexts(items []models.EntryItem) []string {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}
	return texts
}

func shiftMonth(month string, delta int) string {
	t, err := time.Parse(constants.MonthFormat, month)
	if err != nil {
		return month
	}
	return t.AddDate(0, delta, 0).Format(constants.MonthFormat)
}
