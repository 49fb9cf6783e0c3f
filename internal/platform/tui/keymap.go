package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/deep-stoker/internal/core"
)

// KeyMapper translates Bubble Tea key messages to console actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a shift console action.
// q/a, w/s and e/d move the vent, coolant and magnetics sliders, so quitting
// the console is ctrl+c only.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	switch msg.String() {
	case "ctrl+c":
		return core.ActionQuit
	case "q":
		return core.ActionVentUp
	case "a":
		return core.ActionVentDown
	case "w":
		return core.ActionCoolantUp
	case "s":
		return core.ActionCoolantDown
	case "e":
		return core.ActionMagneticsUp
	case "d":
		return core.ActionMagneticsDown
	case "x":
		return core.ActionPurge
	case "p", " ":
		return core.ActionPause
	case "r":
		return core.ActionRestart
	case "b", "esc":
		return core.ActionBack
	case "enter":
		return core.ActionConfirm
	}

	return core.ActionNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}

	return MenuActionNone
}

// ShiftKeyMap describes the shift console bindings for the help bar.
type ShiftKeyMap struct {
	Vent      key.Binding
	Coolant   key.Binding
	Magnetics key.Binding
	Purge     key.Binding
	Pause     key.Binding
	Restart   key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ShiftKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Vent, k.Coolant, k.Magnetics, k.Purge, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ShiftKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Vent, k.Coolant, k.Magnetics},
		{k.Purge, k.Pause, k.Restart, k.Back, k.Quit},
	}
}

// DefaultShiftKeyMap returns the bindings MapKey implements.
func DefaultShiftKeyMap() ShiftKeyMap {
	return ShiftKeyMap{
		Vent: key.NewBinding(
			key.WithKeys("q", "a"),
			key.WithHelp("q/a", "vent"),
		),
		Coolant: key.NewBinding(
			key.WithKeys("w", "s"),
			key.WithHelp("w/s", "coolant"),
		),
		Magnetics: key.NewBinding(
			key.WithKeys("e", "d"),
			key.WithHelp("e/d", "magnetics"),
		),
		Purge: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "purge"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new shift"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
