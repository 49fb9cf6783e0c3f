package live

import (
	"sync"

	"github.com/vovakirdan/deep-stoker/internal/reactor"
)

// Feed publishes one shift's progress to the board. It implements
// reactor.Observer and never blocks the engine.
type Feed struct {
	board *Board
	shift Shift

	mu     sync.Mutex
	latest reactor.Snapshot
	ended  bool
}

var _ reactor.Observer = (*Feed)(nil)

// ID returns the shift ID.
func (f *Feed) ID() string {
	return f.shift.ID
}

// OnTick records the snapshot and broadcasts it.
func (f *Feed) OnTick(s reactor.Snapshot) {
	f.mu.Lock()
	if f.ended {
		f.mu.Unlock()
		return
	}
	f.latest = s
	f.mu.Unlock()

	f.board.publish(ShiftUpdated{ShiftID: f.shift.ID, Player: f.shift.Player, Snapshot: s})
}

// OnTerminal takes the shift off the board and announces the outcome.
func (f *Feed) OnTerminal(r reactor.TerminalResult) {
	f.end(false, r)
}

// Close takes an unfinished shift off the board. It does nothing once the
// shift has ended.
func (f *Feed) Close() {
	f.end(true, reactor.TerminalResult{})
}

func (f *Feed) end(aborted bool, r reactor.TerminalResult) {
	f.mu.Lock()
	if f.ended {
		f.mu.Unlock()
		return
	}
	f.ended = true
	if !aborted {
		f.latest = r.Snapshot
	}
	f.mu.Unlock()

	f.board.remove(f)
	f.board.logger.Debug("shift off board", "shift", f.shift.ID, "aborted", aborted, "cause", r.Cause)
	f.board.publish(ShiftEnded{
		ShiftID: f.shift.ID,
		Player:  f.shift.Player,
		Aborted: aborted,
		Result:  r,
		EndedAt: f.board.now(),
	})
}

// markEnded silences a feed replaced by a newer one with the same ID.
func (f *Feed) markEnded() {
	f.mu.Lock()
	f.ended = true
	f.mu.Unlock()
}

func (f *Feed) status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Status{Shift: f.shift, Snapshot: f.latest}
}
