package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap holds the bindings shared by the list views.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "refresh"),
	),
	Help: key.NewBinding(
		key.WithKeys("h", "?"),
		key.WithHelp("h", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// moveCursor applies the navigation bindings to a cursor over n rows.
// It reports whether msg was a navigation key.
func moveCursor(msg tea.KeyMsg, cursor, n int) (int, bool) {
	switch {
	case key.Matches(msg, keys.Up):
		if cursor > 0 {
			cursor--
		}
	case key.Matches(msg, keys.Down):
		if cursor < n-1 {
			cursor++
		}
	case key.Matches(msg, keys.Top):
		cursor = 0
	case key.Matches(msg, keys.Bottom):
		cursor = max(n-1, 0)
	default:
		return cursor, false
	}
	return cursor, true
}
