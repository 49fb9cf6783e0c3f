package reactor

import "strings"

// maxLogEntries is how many recent events a session keeps.
const maxLogEntries = 6

// Event messages the engine emits.
const (
	msgDriftSpike      = "DRIFT SPIKE"
	msgPurge           = "EMERGENCY PURGE ACTIVATED"
	msgNominal         = "STATUS: NOMINAL"
	msgTrenchLightning = "TRENCH LIGHTNING"
	msgHeavyCurrent    = "HEAVY CURRENT"
	msgDeepSeaEntity   = "DEEP-SEA ENTITY"
	msgSliderJammed    = "SLIDER JAMMED"
	msgSliderUnjammed  = "SLIDER UNJAMMED"
	msgShiftComplete   = "REACTOR STABILIZED: SHIFT COMPLETE"
	msgMeltdown        = "CRITICAL FAILURE: CORE MELTDOWN"
	msgImplosion       = "HULL IMPLOSION: STRUCTURAL FAILURE"
)

// allowedPrefixes are the event names worth showing to the player.
var allowedPrefixes = []string{
	"SHIFT STARTED",
	"STATIONARY STEADY",
	"PRESSURE ANOMALY",
	"HAZARD DETECTED",
	msgTrenchLightning,
	msgHeavyCurrent,
	msgDeepSeaEntity,
	msgSliderJammed,
	msgSliderUnjammed,
	msgPurge,
	msgNominal,
	msgDriftSpike,
	"REACTOR STABILIZED",
}

// alwaysAllowed marks severe events regardless of their prefix.
var alwaysAllowed = []string{"FAILURE", "CRITICAL", "IMPLOSION"}

// Allowed reports whether a message passes the event-log allow-list.
func Allowed(message string) bool {
	for _, p := range allowedPrefixes {
		if strings.HasPrefix(message, p) {
			return true
		}
	}
	for _, w := range alwaysAllowed {
		if strings.Contains(message, w) {
			return true
		}
	}
	return false
}

// eventLog is a fixed-size ring of the most recent entries.
type eventLog struct {
	buf   [maxLogEntries]LogEntry
	start int
	size  int
}

func (l *eventLog) append(e LogEntry) {
	if l.size < maxLogEntries {
		l.buf[(l.start+l.size)%maxLogEntries] = e
		l.size++
		return
	}
	// Full: overwrite the oldest.
	l.buf[l.start] = e
	l.start = (l.start + 1) % maxLogEntries
}

// entries returns a chronological copy.
func (l *eventLog) entries() []LogEntry {
	out := make([]LogEntry, l.size)
	for i := 0; i < l.size; i++ {
		out[i] = l.buf[(l.start+i)%maxLogEntries]
	}
	return out
}

func (l *eventLog) reset() {
	*l = eventLog{}
}
