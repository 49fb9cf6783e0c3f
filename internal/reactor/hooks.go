package reactor

// Cue is a fire-and-forget notification for sound or visual effects.
type Cue int

const (
	CueHazard Cue = iota + 1
	CueMetalCreak
	CueLowPowerHum
	CueSuccessChime
	CueImplosion
	CueLowFrequencyAlarm
	CueStaticNoise
)

// String returns a human-readable name for the cue.
func (c Cue) String() string {
	switch c {
	case CueHazard:
		return "hazard"
	case CueMetalCreak:
		return "metal-creak"
	case CueLowPowerHum:
		return "low-power-hum"
	case CueSuccessChime:
		return "success-chime"
	case CueImplosion:
		return "implosion"
	case CueLowFrequencyAlarm:
		return "low-frequency-alarm"
	case CueStaticNoise:
		return "static-noise"
	default:
		return "unknown"
	}
}

// Notifier receives cues. Notify is called under the engine lock and must not block.
type Notifier interface {
	Notify(Cue)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Cue)

func (f NotifierFunc) Notify(c Cue) { f(c) }

type nopNotifier struct{}

func (nopNotifier) Notify(Cue) {}
