// Package tui is the interactive column-mapping editor for CSV imports.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/topsheet/internal/csvimport"
)

const previewRows = 3

// Model is the bubbletea model of the mapping editor. The user's choices
// win over anything guessed or remembered.
type Model struct {
	onChange        func(csvimport.Mapping, bool, bool)
	mapping         csvimport.Mapping
	theme           Theme
	keymap          KeyMap
	help            help.Model
	status          string
	headers         []string
	rows            [][]string
	cursor          int
	width           int
	importFirstRow  bool
	replaceExisting bool
	confirmed       bool
	quitting        bool
}

// NewModel creates an editor over headers and data rows (without the header
// row), starting from mapping.
func NewModel(headers []string, rows [][]string, mapping csvimport.Mapping, importFirstRow, replaceExisting bool) Model {
	return Model{
		mapping:         mapping.Sanitize(len(headers)),
		headers:         headers,
		rows:            rows,
		importFirstRow:  importFirstRow,
		replaceExisting: replaceExisting,
		theme:           DefaultTheme,
		keymap:          DefaultKeyMap(),
		help:            help.New(),
	}
}

// NewSessionModel creates an editor for an import session. Every edit is
// applied to the session, and so saved, as it happens.
func NewSessionModel(ctx context.Context, s *csvimport.Session) Model {
	rows, _ := s.DataRows()
	if s.ImportFirstRow() && len(rows) > 0 {
		rows = rows[1:]
	}
	m := NewModel(s.Headers(), rows, s.Mapping(), s.ImportFirstRow(), s.ReplaceExisting())
	m.onChange = func(mapping csvimport.Mapping, importFirstRow, replaceExisting bool) {
		s.Apply(ctx, mapping, importFirstRow, replaceExisting)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	field := csvimport.Fields[m.cursor]
	changed := false

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Confirm):
		if missing := m.mapping.Missing(); len(missing) > 0 {
			m.status = "Map required fields first: " + fieldLabels(missing)
			return m, nil
		}
		m.confirmed = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(csvimport.Fields)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keymap.NextColumn):
		changed = m.cycle(field, 1)
	case key.Matches(msg, m.keymap.PrevColumn):
		changed = m.cycle(field, -1)
	case key.Matches(msg, m.keymap.Clear):
		if _, ok := m.mapping[field]; ok {
			m.mapping = m.mapping.Clone()
			delete(m.mapping, field)
			changed = true
		}
	case key.Matches(msg, m.keymap.Reset):
		m.mapping = csvimport.Guess(m.headers)
		m.status = "Mapping re-guessed from headers"
		changed = true
	case key.Matches(msg, m.keymap.ToggleFirstRow):
		m.importFirstRow = !m.importFirstRow
		changed = true
	case key.Matches(msg, m.keymap.ToggleReplace):
		m.replaceExisting = !m.replaceExisting
		changed = true
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	if changed && m.onChange != nil {
		m.onChange(m.mapping.Clone(), m.importFirstRow, m.replaceExisting)
	}
	return m, nil
}

// cycle moves field to the next or previous column, passing through
// "unmapped" between the last and first column. It reports whether the
// mapping changed.
func (m *Model) cycle(field csvimport.Field, delta int) bool {
	n := len(m.headers)
	if n == 0 {
		return false
	}
	current := -1
	if col, ok := m.mapping.Column(field); ok {
		current = col
	}
	// Positions 0..n map to unmapped, column 0 .. column n-1.
	next := ((current+1+delta)%(n+1) + n + 1) % (n + 1)

	m.mapping = m.mapping.Clone()
	if next == 0 {
		delete(m.mapping, field)
		return true
	}
	m.mapping.Assign(field, next-1)
	return true
}

// Confirmed reports whether the user accepted the mapping.
func (m Model) Confirmed() bool {
	return m.confirmed
}

// Mapping returns the edited mapping.
func (m Model) Mapping() csvimport.Mapping {
	return m.mapping.Clone()
}

// ImportFirstRow reports the edited header-row flag.
func (m Model) ImportFirstRow() bool {
	return m.importFirstRow
}

// ReplaceExisting reports the edited replace flag.
func (m Model) ReplaceExisting() bool {
	return m.replaceExisting
}

// preview returns the rows that will be imported first.
func (m Model) preview() [][]string {
	rows := m.rows
	if m.importFirstRow {
		rows = append([][]string{m.headers}, rows...)
	}
	if len(rows) > previewRows {
		rows = rows[:previewRows]
	}
	return rows
}

func fieldLabels(fields []csvimport.Field) string {
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = f.Label()
	}
	return strings.Join(labels, ", ")
}

func (m Model) columnName(col int) string {
	name := strings.TrimSpace(m.headers[col])
	if name == "" {
		return fmt.Sprintf("Column %d", col+1)
	}
	return name
}
