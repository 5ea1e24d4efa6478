package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/ledpanel/internal/input"
)

// panelKeyMap binds terminal keys to the panel's buttons
type panelKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Confirm key.Binding
	Back    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k panelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k panelKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Confirm, k.Back},
	}
}

func newPanelKeyMap() panelKeyMap {
	return panelKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "toggle"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace", "q"),
			key.WithHelp("esc/q", "exit"),
		),
	}
}

// lookup maps a key press to a panel button
func (k panelKeyMap) lookup(msg tea.KeyMsg) (input.Key, bool) {
	switch {
	case key.Matches(msg, k.Confirm):
		return input.KeyConfirm, true
	case key.Matches(msg, k.Back):
		return input.KeyBack, true
	case key.Matches(msg, k.Up):
		return input.KeyUp, true
	case key.Matches(msg, k.Down):
		return input.KeyDown, true
	case key.Matches(msg, k.Left):
		return input.KeyLeft, true
	case key.Matches(msg, k.Right):
		return input.KeyRight, true
	}
	return 0, false
}
