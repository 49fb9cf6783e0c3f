// Package autopilot plays a shift without a player. It drives the engine
// on a fake clock, so a full shift completes in milliseconds and the same
// seed always produces the same run.
package autopilot

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/deep-stoker/internal/clock"
	"github.com/vovakirdan/deep-stoker/internal/reactor"
)

// DefaultThreshold is the metric level above which the pilot works a control.
const DefaultThreshold = 55.0

// ErrUnfinished is returned when a shift does not end within the step budget.
var ErrUnfinished = errors.New("autopilot: shift did not end")

// Options configures a run. Zero values select defaults.
type Options struct {
	Seed         int64
	TickInterval time.Duration
	Threshold    float64
	Start        time.Time
	Logger       *log.Logger
}

// Career is the part of a profile the engine needs.
type Career struct {
	Rank     string
	Upgrades []string
	Hull     float64
}

// Report describes a finished run.
type Report struct {
	Result  reactor.TerminalResult `json:"result"`
	Reward  reactor.Reward         `json:"reward"`
	Ticks   int                    `json:"ticks"`
	Actions int                    `json:"actions"`
	Purges  int                    `json:"purges"`
}

// Run plays one shift to its terminal state.
func Run(opts Options, c Career, cfg reactor.Config) (Report, error) {
	if opts.TickInterval <= 0 {
		opts.TickInterval = reactor.DefaultTickInterval
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	fake := clock.NewFake(opts.Start)
	eng := reactor.New(reactor.Options{
		Clock:        fake,
		Seed:         opts.Seed,
		Logger:       opts.Logger,
		TickInterval: opts.TickInterval,
	})

	if _, err := eng.Initialize(c.Rank, c.Upgrades, c.Hull, cfg); err != nil {
		return Report{}, err
	}

	// Callbacks fire inside fake.Advance on this goroutine.
	var result *reactor.TerminalResult
	eng.Start(reactor.ObserverFuncs{
		Terminal: func(r reactor.TerminalResult) { result = &r },
	})
	defer eng.Stop()

	var rep Report
	budget := int(time.Duration(cfg.Duration*float64(time.Second))/opts.TickInterval)*2 + 10

	for result == nil && rep.Ticks < budget {
		fake.Advance(opts.TickInterval)
		rep.Ticks++
		if result != nil {
			break
		}
		pilot(eng, eng.State(), opts.Threshold, &rep)
	}

	if result == nil {
		return rep, fmt.Errorf("%w after %d ticks", ErrUnfinished, rep.Ticks)
	}

	rep.Result = *result
	rep.Reward = reactor.ComputeReward(result.Snapshot)
	opts.Logger.Debug("autopilot finished",
		"cause", result.Cause,
		"ticks", rep.Ticks,
		"actions", rep.Actions,
		"purges", rep.Purges,
	)
	return rep, nil
}

// pilot reacts to one snapshot: purge when offered, otherwise pull every
// control whose metric is above the threshold, keeping sliders in band.
func pilot(eng *reactor.Engine, s reactor.Snapshot, threshold float64, rep *Report) {
	if !s.IsActive {
		return
	}
	if s.ShowPurge {
		if eng.TriggerEmergencyPurge() {
			rep.Purges++
		}
		return
	}
	for _, c := range reactor.Controls {
		if s.Metric(c.Metric()) <= threshold {
			continue
		}
		if eng.ApplyControl(c, true) > 0 {
			rep.Actions++
		}
	}
}
