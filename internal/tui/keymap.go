package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the mapping editor's keyboard shortcuts.
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	PrevColumn     key.Binding
	NextColumn     key.Binding
	Clear          key.Binding
	ToggleFirstRow key.Binding
	ToggleReplace  key.Binding
	Reset          key.Binding
	Confirm        key.Binding
	Quit           key.Binding
	Help           key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "previous column"),
		),
		NextColumn: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "next column"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x", "backspace", "delete"),
			key.WithHelp("x", "unmap field"),
		),
		ToggleFirstRow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "import first row"),
		),
		ToggleReplace: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "replace existing"),
		),
		Reset: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "re-guess"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "import"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextColumn, k.Confirm, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevColumn, k.NextColumn},
		{k.Clear, k.Reset, k.ToggleFirstRow, k.ToggleReplace},
		{k.Confirm, k.Quit, k.Help},
	}
}
