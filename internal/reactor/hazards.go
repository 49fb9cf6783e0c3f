package reactor

import (
	"time"

	"github.com/vovakirdan/deep-stoker/internal/clock"
)

// Hazard is a transient environmental event.
type Hazard int

const (
	HazardTrenchLightning Hazard = iota
	HazardHeavyCurrent
	HazardDeepSeaEntity
	HazardSliderJam
	hazardCount
)

// String returns the hazard's log name.
func (h Hazard) String() string {
	switch h {
	case HazardTrenchLightning:
		return msgTrenchLightning
	case HazardHeavyCurrent:
		return msgHeavyCurrent
	case HazardDeepSeaEntity:
		return msgDeepSeaEntity
	case HazardSliderJam:
		return msgSliderJammed
	default:
		return "UNKNOWN HAZARD"
	}
}

// Scheduling constants, in elapsed shift time.
const (
	earlyPhaseEnd      = 120.0
	hazardPollInterval = 500 * time.Millisecond
	trenchLightningFor = 2 * time.Second
	sliderJamFor       = 5 * time.Second
)

// hazardScheduler owns the single pending "next hazard" task and one
// auto-clear task per hazard kind.
type hazardScheduler struct {
	next   clock.Timer
	clears [hazardCount]clock.Timer
}

func (h *hazardScheduler) replaceNext(t clock.Timer) {
	if h.next != nil {
		h.next.Stop()
	}
	h.next = t
}

func (h *hazardScheduler) replaceClear(kind Hazard, t clock.Timer) {
	if old := h.clears[kind]; old != nil {
		old.Stop()
	}
	h.clears[kind] = t
}

func (h *hazardScheduler) stop() {
	if h.next != nil {
		h.next.Stop()
		h.next = nil
	}
	for i, t := range h.clears {
		if t != nil {
			t.Stop()
			h.clears[i] = nil
		}
	}
}

// randMillis returns a uniform whole-millisecond delay in [lo, lo+span).
func (e *Engine) randMillis(lo, span time.Duration) time.Duration {
	return lo + time.Duration(e.rng.Int63n(int64(span/time.Millisecond)))*time.Millisecond
}

// scheduleNextHazardLocked arms the next hazard. While paused it polls
// instead, re-rolling once the session resumes.
func (e *Engine) scheduleNextHazardLocked() {
	s := e.s
	if s == nil || !s.active {
		return
	}
	gen := e.gen

	if s.paused {
		e.hazards.replaceNext(e.clock.AfterFunc(hazardPollInterval, func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if e.current(gen) {
				e.scheduleNextHazardLocked()
			}
		}))
		return
	}

	var (
		kind   Hazard
		random bool
		delay  time.Duration
	)
	if s.elapsed < earlyPhaseEnd {
		if e.rng.Float64() < 0.5 {
			kind, delay = HazardHeavyCurrent, e.randMillis(15*time.Second, 5*time.Second)
		} else {
			kind, delay = HazardTrenchLightning, e.randMillis(20*time.Second, 5*time.Second)
		}
	} else {
		random, delay = true, e.randMillis(40*time.Second, 10*time.Second)
	}

	e.hazards.replaceNext(e.clock.AfterFunc(delay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.current(gen) {
			return
		}
		if e.s.paused {
			e.scheduleNextHazardLocked()
			return
		}
		if random {
			kind = Hazard(e.rng.Intn(int(hazardCount)))
		}
		e.triggerHazardLocked(kind)
		e.scheduleNextHazardLocked()
	}))
}

// TriggerHazard fires a hazard immediately. A slider jam picks a random
// control and is dropped if one is already jammed. Returns whether the
// hazard took effect.
func (e *Engine) TriggerHazard(h Hazard) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s == nil || !e.s.active || e.s.paused {
		return false
	}
	return e.triggerHazardLocked(h)
}

func (e *Engine) triggerHazardLocked(h Hazard) bool {
	switch h {
	case HazardTrenchLightning:
		e.s.hazards.TrenchLightning = true
		e.armClear(h, trenchLightningFor)
	case HazardHeavyCurrent:
		e.s.hazards.HeavyCurrent = true
		e.armClear(h, e.randMillis(8*time.Second, 4*time.Second))
	case HazardDeepSeaEntity:
		e.s.hazards.DeepSeaEntity = true
		e.armClear(h, e.randMillis(4*time.Second, 2*time.Second))
	case HazardSliderJam:
		return e.jamLocked(Controls[e.rng.Intn(len(Controls))])
	default:
		return false
	}

	e.logEvent(h.String())
	e.notifier.Notify(CueHazard)
	e.emitTick()
	return true
}

// jamLocked blocks input on c for five seconds.
func (e *Engine) jamLocked(c Control) bool {
	s := e.s
	if s.hazards.JammedSlider != NoJam {
		return false
	}
	s.hazards.JammedSlider = int(c)
	e.armClear(HazardSliderJam, sliderJamFor)

	e.logEvent(msgSliderJammed)
	e.notifier.Notify(CueMetalCreak)
	e.emitTick()
	return true
}

// armClear schedules the automatic end of a hazard.
func (e *Engine) armClear(h Hazard, after time.Duration) {
	gen := e.gen
	e.hazards.replaceClear(h, e.clock.AfterFunc(after, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.current(gen) {
			return
		}
		e.clearHazardLocked(h)
	}))
}

func (e *Engine) clearHazardLocked(h Hazard) {
	s := e.s
	switch h {
	case HazardTrenchLightning:
		s.hazards.TrenchLightning = false
	case HazardHeavyCurrent:
		s.hazards.HeavyCurrent = false
	case HazardDeepSeaEntity:
		s.hazards.DeepSeaEntity = false
	case HazardSliderJam:
		s.hazards.JammedSlider = NoJam
		e.logEvent(msgSliderUnjammed)
	}
	e.hazards.clears[h] = nil
	e.emitTick()
}
