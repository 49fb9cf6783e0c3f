package reactor

const (
	// spikeMultiplier is forced onto a metric whose control leaves its band.
	spikeMultiplier = 1.1

	// driftDecayPerSecond is how fast an aligned multiplier relaxes toward 1.0.
	driftDecayPerSecond = 0.05

	// mitigationFactor scales drift for metrics with a mitigation upgrade.
	mitigationFactor = 0.8
)

// SetControlAlignment records whether the control for m is held in its
// optimal band. Leaving the band while unpaused spikes the metric's drift.
func (e *Engine) SetControlAlignment(m Metric, inBand bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s == nil || !e.s.active {
		return
	}
	if e.setAlignmentLocked(m, inBand) {
		e.emitTick()
	}
}

// setAlignmentLocked updates alignment and reports whether it changed.
func (e *Engine) setAlignmentLocked(m Metric, inBand bool) bool {
	s := e.s
	was := s.alignment.Get(m)
	s.alignment.Set(m, inBand)

	switch {
	case was && !inBand && !s.paused:
		s.drift.Set(m, spikeMultiplier)
		e.logEvent(msgDriftSpike)
	case !was && inBand:
		e.notifier.Notify(CueSuccessChime)
	}

	return was != inBand
}

// decayDrift relaxes the multipliers of aligned metrics toward 1.0.
func (s *session) decayDrift(delta float64) {
	for _, m := range Metrics {
		cur := s.drift.Get(m)
		if !s.alignment.Get(m) || cur <= 1.0 {
			continue
		}
		next := cur - driftDecayPerSecond*delta
		if next < 1.0 {
			next = 1.0
		}
		s.drift.Set(m, next)
	}
}
