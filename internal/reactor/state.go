// Package reactor implements the shift simulation: drifting danger metrics,
// control alignment, randomized hazards, critical timers with an emergency
// purge, a bounded event log, and the end-of-shift credit calculation.
//
// The engine performs no I/O and has no Bubble Tea dependency. Callers
// drive it through Engine's methods and receive Snapshot copies through an
// Observer.
package reactor

import (
	"errors"
	"fmt"
	"strings"
)

// Metric identifies one of the three danger metrics.
type Metric int

const (
	Temperature Metric = iota
	Pressure
	Containment
)

// Metrics lists every metric in display order.
var Metrics = [...]Metric{Temperature, Pressure, Containment}

// String returns the lowercase metric name.
func (m Metric) String() string {
	switch m {
	case Temperature:
		return "temperature"
	case Pressure:
		return "pressure"
	case Containment:
		return "containment"
	default:
		return "unknown"
	}
}

// Control is a player-operated slider. The numeric value is the slider index
// used by HazardState.JammedSlider.
type Control int

const (
	VentPressure       Control = iota // drives pressure
	InjectCoolant                     // drives temperature
	StabilizeMagnetics                // drives containment
)

// Controls lists every control in slider order.
var Controls = [...]Control{VentPressure, InjectCoolant, StabilizeMagnetics}

// Metric returns the metric this control acts on.
func (c Control) Metric() Metric {
	switch c {
	case VentPressure:
		return Pressure
	case InjectCoolant:
		return Temperature
	default:
		return Containment
	}
}

// Valid reports whether c is one of the three known controls.
func (c Control) Valid() bool {
	return c >= VentPressure && c <= StabilizeMagnetics
}

// String returns the control's wire name, e.g. "VENT_PRESSURE".
func (c Control) String() string {
	switch c {
	case VentPressure:
		return "VENT_PRESSURE"
	case InjectCoolant:
		return "INJECT_COOLANT"
	case StabilizeMagnetics:
		return "STABILIZE_MAGNETICS"
	default:
		return "UNKNOWN"
	}
}

// ParseControl converts a wire name back into a Control.
func ParseControl(s string) (Control, error) {
	for _, c := range Controls {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("reactor: unknown control %q", s)
}

// PerMetric holds one value per danger metric.
type PerMetric[T any] struct {
	Temperature T `json:"temperature"`
	Pressure    T `json:"pressure"`
	Containment T `json:"containment"`
}

// Uniform returns a PerMetric with every field set to v.
func Uniform[T any](v T) PerMetric[T] {
	return PerMetric[T]{Temperature: v, Pressure: v, Containment: v}
}

// Get returns the value for m.
func (p PerMetric[T]) Get(m Metric) T {
	switch m {
	case Temperature:
		return p.Temperature
	case Pressure:
		return p.Pressure
	default:
		return p.Containment
	}
}

// Set stores v for m.
func (p *PerMetric[T]) Set(m Metric, v T) {
	switch m {
	case Temperature:
		p.Temperature = v
	case Pressure:
		p.Pressure = v
	case Containment:
		p.Containment = v
	}
}

type (
	// DriftMultipliers accelerate drift per metric; never below 1.0.
	DriftMultipliers = PerMetric[float64]

	// ControlAlignment records whether each metric's control is in its optimal band.
	ControlAlignment = PerMetric[bool]

	// CriticalTimers count consecutive seconds each metric spent above the critical threshold.
	CriticalTimers = PerMetric[float64]
)

// NoJam is the JammedSlider value when no control is jammed.
const NoJam = -1

// HazardState holds the transient hazard flags.
type HazardState struct {
	TrenchLightning bool `json:"trench_lightning"`
	HeavyCurrent    bool `json:"heavy_current"`
	DeepSeaEntity   bool `json:"deep_sea_entity"`
	JammedSlider    int  `json:"jammed_slider"`
}

// Jammed returns the jammed control, if any.
func (h HazardState) Jammed() (Control, bool) {
	if h.JammedSlider == NoJam {
		return 0, false
	}
	return Control(h.JammedSlider), true
}

// Any reports whether any hazard is currently active.
func (h HazardState) Any() bool {
	return h.TrenchLightning || h.HeavyCurrent || h.DeepSeaEntity || h.JammedSlider != NoJam
}

// Cause says why a shift ended.
type Cause string

const (
	CauseShiftComplete Cause = "SHIFT_COMPLETE"
	CauseMeltdown      Cause = "MELTDOWN"
	CauseImplosion     Cause = "IMPLOSION"
)

// Config selects the shift parameters for Initialize.
type Config struct {
	// Duration is the shift length in seconds. Must be positive.
	Duration float64 `json:"duration"`

	// ReactorType names a registered reactor core. Empty means the default core.
	ReactorType string `json:"reactor_type"`

	// DifficultyMult scales the reward. Zero means 1.0; otherwise must be >= 1.
	DifficultyMult float64 `json:"difficulty_mult"`
}

// ErrInvalidConfig is returned by Initialize for a config the engine cannot run.
var ErrInvalidConfig = errors.New("invalid config")

// LogEntry is one line of the event log.
type LogEntry struct {
	ID        string  `json:"id"`
	Message   string  `json:"message"`
	Timestamp string  `json:"timestamp"`
	Elapsed   float64 `json:"elapsed"`
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	SessionID string `json:"session_id"`

	Temperature   float64 `json:"temperature"`
	Pressure      float64 `json:"pressure"`
	Containment   float64 `json:"containment"`
	HullIntegrity float64 `json:"hull_integrity"`

	SurvivalTime   float64 `json:"survival_time"`
	ElapsedTime    float64 `json:"elapsed_time"`
	ShiftDuration  float64 `json:"shift_duration"`
	DifficultyMult float64 `json:"difficulty_mult"`
	ReactorType    string  `json:"reactor_type"`

	IsActive bool `json:"is_active"`
	IsPaused bool `json:"is_paused"`

	Rank     string   `json:"rank"`
	Upgrades []string `json:"upgrades"`

	Drift          DriftMultipliers `json:"drift"`
	Alignment      ControlAlignment `json:"alignment"`
	Hazards        HazardState      `json:"hazards"`
	CriticalTimers CriticalTimers   `json:"critical_timers"`
	ShowPurge      bool             `json:"show_purge"`

	Logs []LogEntry `json:"logs"`
}

// Metric returns the value of m.
func (s Snapshot) Metric(m Metric) float64 {
	switch m {
	case Temperature:
		return s.Temperature
	case Pressure:
		return s.Pressure
	default:
		return s.Containment
	}
}

// Remaining returns the seconds left in the shift, never negative.
func (s Snapshot) Remaining() float64 {
	if r := s.ShiftDuration - s.ElapsedTime; r > 0 {
		return r
	}
	return 0
}

// TerminalResult reports how a shift ended.
type TerminalResult struct {
	Success  bool     `json:"success"`
	Cause    Cause    `json:"cause"`
	Snapshot Snapshot `json:"snapshot"`
}
