package live

import (
	"time"

	"github.com/vovakirdan/deep-stoker/internal/reactor"
)

// Event is anything the board publishes to spectators.
type Event interface {
	isEvent()

	// Kind is the wire name of the event.
	Kind() string
}

// ShiftStarted is published when a player begins a shift.
type ShiftStarted struct {
	Shift Shift `json:"shift"`
}

// ShiftUpdated carries the latest snapshot of a running shift.
type ShiftUpdated struct {
	ShiftID  string           `json:"shift_id"`
	Player   string           `json:"player"`
	Snapshot reactor.Snapshot `json:"snapshot"`
}

// ShiftEnded is published once per shift. Aborted shifts were stopped
// before reaching a terminal state and carry a zero Result.
type ShiftEnded struct {
	ShiftID string                 `json:"shift_id"`
	Player  string                 `json:"player"`
	Aborted bool                   `json:"aborted"`
	Result  reactor.TerminalResult `json:"result"`
	EndedAt time.Time              `json:"ended_at"`
}

func (ShiftStarted) isEvent() {}
func (ShiftUpdated) isEvent() {}
func (ShiftEnded) isEvent()   {}

func (ShiftStarted) Kind() string { return "shift_started" }
func (ShiftUpdated) Kind() string { return "shift_updated" }
func (ShiftEnded) Kind() string   { return "shift_ended" }

// Envelope is the JSON frame sent to remote spectators.
type Envelope struct {
	Type string `json:"type"`
	Data Event  `json:"data"`
}

// Wrap builds the wire envelope for evt.
func Wrap(evt Event) Envelope {
	return Envelope{Type: evt.Kind(), Data: evt}
}
