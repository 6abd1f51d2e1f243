package entrylist

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/threethings/internal/models"
)

type EditEntryMsg struct {
	Entry models.Entry
}

type DeleteEntryMsg struct {
	ID string
}

type Item struct {
	Entry models.Entry
}

func (i Item) Title() string { return i.Entry.Date }

func (i Item) Description() string {
	var parts []string
	for _, item := range i.Entry.Items {
		if item.Text == "" {
			continue
		}
		text := item.Text
		if item.Favorite {
			text = "⭐ " + text
		}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, " · ")
}

func (i Item) FilterValue() string {
	var texts []string
	for _, item := range i.Entry.Items {
		texts = append(texts, item.Text)
	}
	return i.Entry.Date + " " + strings.Join(texts, " ")
}

type KeyMap struct {
	Edit   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(entries []models.Entry, width, height int) Model {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false) // Help is handled globally in the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Edit, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Edit, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func (m *Model) SetEntries(entries []models.Entry) {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	m.list.SetItems(items)
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Selected() (models.Entry, bool) {
	if item, ok := m.list.SelectedItem().(Item); ok {
		return item.Entry, true
	}
	return models.Entry{}, false
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Edit):
			if entry, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditEntryMsg{Entry: entry} }
			}
		case key.Matches(msg, m.keys.Delete):
			if entry, ok := m.Selected(); ok {
				id := entry.ID
				return m, func() tea.Msg { return DeleteEntryMsg{ID: id} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}
