package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/topsheet/internal/csvimport"
)

// RunMappingEditor lets the user adjust the session's column mapping and
// flags. Edits are saved as they are made, whether or not the user goes on
// to confirm. It reports whether the user confirmed.
func RunMappingEditor(ctx context.Context, s *csvimport.Session, opts ...tea.ProgramOption) (bool, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(NewSessionModel(ctx, s), opts...)

	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("mapping editor failed: %w", err)
	}

	m, ok := final.(Model)
	return ok && m.Confirmed(), nil
}
