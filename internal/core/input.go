package core

// Action represents a semantic console action, abstracted from physical key presses.
type Action int

const (
	ActionNone Action = iota

	ActionVentUp        // Q - raise vent pressure slider
	ActionVentDown      // A - lower vent pressure slider
	ActionCoolantUp     // W - raise coolant slider
	ActionCoolantDown   // S - lower coolant slider
	ActionMagneticsUp   // E - raise magnetics slider
	ActionMagneticsDown // D - lower magnetics slider

	ActionPurge   // X - emergency purge
	ActionConfirm // Enter - confirm selection in menu
	ActionBack    // B, Escape - go back to menu
	ActionRestart // R - start a new shift after the summary
	ActionQuit    // Ctrl+C - exit session
	ActionPause   // P, Space - pause/unpause
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionVentUp:
		return "VentUp"
	case ActionVentDown:
		return "VentDown"
	case ActionCoolantUp:
		return "CoolantUp"
	case ActionCoolantDown:
		return "CoolantDown"
	case ActionMagneticsUp:
		return "MagneticsUp"
	case ActionMagneticsDown:
		return "MagneticsDown"
	case ActionPurge:
		return "Purge"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// SliderMove describes which slider an action moves and in which direction.
// Slider indexes follow the reactor's control order: vent, coolant, magnetics.
type SliderMove struct {
	Slider int
	Dir    int // +1 or -1
}

// Slider returns the slider movement for a control action.
func (a Action) Slider() (SliderMove, bool) {
	switch a {
	case ActionVentUp:
		return SliderMove{0, +1}, true
	case ActionVentDown:
		return SliderMove{0, -1}, true
	case ActionCoolantUp:
		return SliderMove{1, +1}, true
	case ActionCoolantDown:
		return SliderMove{1, -1}, true
	case ActionMagneticsUp:
		return SliderMove{2, +1}, true
	case ActionMagneticsDown:
		return SliderMove{2, -1}, true
	default:
		return SliderMove{}, false
	}
}
