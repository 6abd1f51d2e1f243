package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/threethings/internal/constants"
	"github.com/julianstephens/threethings/internal/journal"
	"github.com/julianstephens/threethings/internal/tui/components/entrylist"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateMonth
	StateStats
	StateEntryForm
	StateConfirmDelete
)

type EntryFormModel struct {
	Date  string
	Items []string
}

type Model struct {
	journal       *journal.Journal
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	entryList     entrylist.Model
	month         string
	form          *huh.Form
	entryForm     *EntryFormModel
	editingID     string // empty means the form creates a new entry
	deletingID    string
	deletingDate  string
	statusMsg     string
	quitting      bool
	width         int
	height        int
}

func NewModel(j *journal.Journal) Model {
	month := time.Now().Format(constants.MonthFormat)

	m := Model{
		journal:   j,
		state:     StateToday,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		entryList: entrylist.New(j.EntriesForMonth(month), 0, 0),
		month:     month,
	}
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateToday:
		keys = append(keys, m.keys.Add, m.keys.Yesterday)
	case StateMonth:
		keys = append(keys, m.keys.Edit, m.keys.Delete, m.keys.PrevMonth, m.keys.NextMonth)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}

	var actions []key.Binding
	switch m.state {
	case StateToday:
		actions = []key.Binding{m.keys.Add, m.keys.Yesterday}
	case StateMonth:
		actions = []key.Binding{m.keys.Edit, m.keys.Delete, m.keys.PrevMonth, m.keys.NextMonth}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refreshEntries reloads the visible month after a mutation.
func (m *Model) refreshEntries() {
	m.entryList.SetEntries(m.journal.EntriesForMonth(m.month))
}

// startEntryForm opens the three-input form, pre-filled when editing.
func (m *Model) startEntryForm(date, editingID string, existing []string) {
	items := make([]string, constants.ItemsPerEntry)
	copy(items, existing)

	m.entryForm = &EntryFormModel{Date: date, Items: items}
	m.editingID = editingID

	fields := make([]huh.Field, 0, constants.ItemsPerEntry)
	for i := range m.entryForm.Items {
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("Thing %d for %s", i+1, date)).
			Value(&m.entryForm.Items[i]))
	}
	m.form = huh.NewForm(huh.NewGroup(fields...))

	m.previousState = m.state
	m.state = StateEntryForm
}
