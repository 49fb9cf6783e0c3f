// Package tui provides the Bubble Tea integration for the reactor console.
// It handles the terminal UI loop, input mapping, and career screens.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/deep-stoker/internal/reactor"
)

// SnapshotMsg carries the latest engine state into the Bubble Tea loop.
type SnapshotMsg struct {
	Snapshot reactor.Snapshot
	from     *Bridge
}

// TerminalMsg is delivered once when a shift ends.
type TerminalMsg struct {
	Result reactor.TerminalResult
	from   *Bridge
}

// CueMsg is a sound/visual cue raised by the engine.
type CueMsg struct {
	Cue  reactor.Cue
	from *Bridge
}

const cueBuffer = 8

// Bridge moves engine callbacks into the Bubble Tea loop. It implements
// reactor.Observer and reactor.Notifier and never blocks the engine:
// snapshots coalesce to the latest one, cues are dropped when the UI lags.
type Bridge struct {
	updates  chan reactor.Snapshot
	terminal chan reactor.TerminalResult
	cues     chan reactor.Cue
	done     chan struct{}
	doneOnce sync.Once
}

var (
	_ reactor.Observer = (*Bridge)(nil)
	_ reactor.Notifier = (*Bridge)(nil)
)

// NewBridge creates an open bridge.
func NewBridge() *Bridge {
	return &Bridge{
		updates:  make(chan reactor.Snapshot, 1),
		terminal: make(chan reactor.TerminalResult, 1),
		cues:     make(chan reactor.Cue, cueBuffer),
		done:     make(chan struct{}),
	}
}

// OnTick replaces any undelivered snapshot with s.
func (b *Bridge) OnTick(s reactor.Snapshot) {
	for {
		select {
		case b.updates <- s:
			return
		default:
		}
		select {
		case <-b.updates:
		default:
		}
	}
}

// OnTerminal queues the result. Only the first result per shift is kept.
func (b *Bridge) OnTerminal(r reactor.TerminalResult) {
	select {
	case b.terminal <- r:
	default:
	}
}

// Notify queues a cue, dropping it if the buffer is full.
func (b *Bridge) Notify(c reactor.Cue) {
	select {
	case b.cues <- c:
	default:
	}
}

// Wait returns a command that delivers the next engine message.
// Terminal results take priority over snapshots.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-b.terminal:
			return TerminalMsg{Result: r, from: b}
		default:
		}

		select {
		case r := <-b.terminal:
			return TerminalMsg{Result: r, from: b}
		case s := <-b.updates:
			return SnapshotMsg{Snapshot: s, from: b}
		case c := <-b.cues:
			return CueMsg{Cue: c, from: b}
		case <-b.done:
			return nil
		}
	}
}

// Close releases any pending Wait. Safe to call multiple times.
func (b *Bridge) Close() {
	b.doneOnce.Do(func() {
		close(b.done)
	})
}
