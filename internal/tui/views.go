package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/topsheet/internal/csvimport"
)

const sampleWidth = 28

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting || m.confirmed {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Map CSV columns to actual fields"))
	b.WriteString("\n")
	b.WriteString(m.renderFields())
	b.WriteString("\n")
	b.WriteString(m.renderFlags())
	b.WriteString("\n\n")
	b.WriteString(m.renderPreview())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.theme.Error.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

func (m Model) renderFields() string {
	sample := []string(nil)
	if p := m.preview(); len(p) > 0 {
		sample = p[0]
	}

	lines := make([]string, 0, len(csvimport.Fields))
	for i, f := range csvimport.Fields {
		label := f.Label()
		if f.Required() {
			label += m.theme.Required.Render(" *")
		}

		column := "(unmapped)"
		value := ""
		col, mapped := m.mapping.Column(f)
		if mapped {
			column = m.columnName(col)
			if col < len(sample) {
				value = truncate(sample[col], sampleWidth)
			}
		}

		cursor := "  "
		switch {
		case i == m.cursor:
			cursor = "› "
			column = m.theme.Selected.Render("‹ " + column + " ›")
		case !mapped:
			column = m.theme.Missing.Render(column)
		default:
			column = m.theme.Normal.Render(column)
		}

		lines = append(lines, fmt.Sprintf("%s%-20s %s  %s",
			cursor,
			label,
			column,
			m.theme.Muted.Render(value)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFlags() string {
	return fmt.Sprintf("%s Import first row    %s Replace existing actuals",
		checkbox(m.importFirstRow), checkbox(m.replaceExisting))
}

func checkbox(v bool) string {
	if v {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) renderPreview() string {
	rows := m.preview()
	if len(rows) == 0 {
		return m.theme.Muted.Render("No data rows")
	}

	header := make([]string, len(m.headers))
	for i := range m.headers {
		header[i] = m.theme.TableHead.Render(truncate(m.columnName(i), sampleWidth/2))
	}

	lines := []string{strings.Join(header, " │ ")}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = truncate(cell, sampleWidth/2)
		}
		lines = append(lines, strings.Join(cells, " │ "))
	}

	box := m.theme.Box
	if m.width > 4 {
		box = box.MaxWidth(m.width)
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
