// Package clock abstracts wall time and timer scheduling so the reactor
// engine can run against real time in play and a manual clock in tests.
package clock

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the callback. Returns false if it already fired
	// (one-shot) or was already stopped.
	Stop() bool
}

// Clock tells time and schedules callbacks.
type Clock interface {
	Now() time.Time

	// AfterFunc calls f once, on its own goroutine, after d.
	AfterFunc(d time.Duration, f func()) Timer

	// Every calls f every d until the returned Timer is stopped.
	Every(d time.Duration, f func()) Timer
}

// Real is the wall-clock implementation.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (Real) Every(d time.Duration, f func()) Timer {
	t := &realTicker{
		ticker: time.NewTicker(d),
		stop:   make(chan struct{}),
	}
	go t.loop(f)
	return t
}

// realTicker drives a periodic callback from a time.Ticker until stopped.
type realTicker struct {
	ticker   *time.Ticker
	stop     chan struct{}
	stopOnce sync.Once
}

func (t *realTicker) loop(f func()) {
	defer t.ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.C:
			f()
		}
	}
}

func (t *realTicker) Stop() bool {
	stopped := false
	t.stopOnce.Do(func() {
		close(t.stop)
		stopped = true
	})
	return stopped
}
