// Package live tracks shifts that are currently running so spectators
// can follow them. Each running shift publishes through a Feed, and
// subscribers receive every event without ever blocking the engine.
package live

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/deep-stoker/internal/reactor"
)

// Shift describes a running shift.
type Shift struct {
	ID          string    `json:"id"`
	Player      string    `json:"player"`
	ShiftType   string    `json:"shift_type"`
	ReactorType string    `json:"reactor_type"`
	StartedAt   time.Time `json:"started_at"`
}

// Status is a running shift with its most recent snapshot.
type Status struct {
	Shift
	Snapshot reactor.Snapshot `json:"snapshot"`
}

// Board is the registry of running shifts and their spectators.
type Board struct {
	mu     sync.RWMutex
	feeds  map[string]*Feed
	subs   map[string]*Subscriber
	now    func() time.Time
	logger *log.Logger
}

// NewBoard creates an empty board. A nil logger discards output.
func NewBoard(logger *log.Logger) *Board {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Board{
		feeds:  make(map[string]*Feed),
		subs:   make(map[string]*Subscriber),
		now:    time.Now,
		logger: logger,
	}
}

// Begin registers a new running shift and announces it. The returned feed
// must be passed to the engine as its observer (directly or through
// reactor.Observers) and closed if the shift is abandoned.
func (b *Board) Begin(player, shiftType string, initial reactor.Snapshot) *Feed {
	id := initial.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	f := &Feed{
		board: b,
		shift: Shift{
			ID:          id,
			Player:      player,
			ShiftType:   shiftType,
			ReactorType: initial.ReactorType,
			StartedAt:   b.now(),
		},
		latest: initial,
	}

	b.mu.Lock()
	if old, ok := b.feeds[id]; ok {
		old.markEnded()
	}
	b.feeds[id] = f
	b.mu.Unlock()

	b.logger.Debug("shift on board", "shift", id, "player", player, "type", shiftType)
	b.publish(ShiftStarted{Shift: f.shift})
	return f
}

// Live lists running shifts, oldest first.
func (b *Board) Live() []Status {
	b.mu.RLock()
	out := make([]Status, 0, len(b.feeds))
	for _, f := range b.feeds {
		out = append(out, f.status())
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// Get returns the running shift with the given ID.
func (b *Board) Get(id string) (Status, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	f, ok := b.feeds[id]
	if !ok {
		return Status{}, false
	}
	return f.status(), true
}

// Subscribe registers a spectator. buffer <= 0 selects DefaultBuffer.
func (b *Board) Subscribe(buffer int) *Subscriber {
	sub := newSubscriber(uuid.NewString(), buffer)

	b.mu.Lock()
	b.subs[sub.ID()] = sub
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes and closes a spectator.
func (b *Board) Unsubscribe(id string) {
	b.mu.Lock()
	sub, ok := b.subs[id]
	delete(b.subs, id)
	b.mu.Unlock()

	if ok {
		sub.Close()
	}
}

// Subscribers returns the number of registered spectators.
func (b *Board) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Board) publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		sub.Send(evt)
	}
}

func (b *Board) remove(f *Feed) {
	b.mu.Lock()
	if cur, ok := b.feeds[f.shift.ID]; ok && cur == f {
		delete(b.feeds, f.shift.ID)
	}
	b.mu.Unlock()
}
