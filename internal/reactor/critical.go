package reactor

const (
	criticalThreshold = 85.0
	purgeAfter        = 5.0 // seconds over threshold before purge is offered
	purgeLevel        = 20.0
	purgeHullCost     = 15.0
)

// updateCriticalTimers advances each over-threshold timer and drives the
// purge affordance. Once shown, the affordance stays until every timer is 0.
func (s *session) updateCriticalTimers(delta float64) {
	anyCritical := false
	for _, m := range Metrics {
		if s.metrics.Get(m) > criticalThreshold {
			s.critical.Set(m, s.critical.Get(m)+delta)
			anyCritical = true
		} else {
			s.critical.Set(m, 0)
		}
	}

	switch {
	case s.critical.Temperature > purgeAfter || s.critical.Pressure > purgeAfter || s.critical.Containment > purgeAfter:
		s.showPurge = true
	case !anyCritical:
		s.showPurge = false
	}
}

func (s *session) resetCriticalTimers() {
	s.critical = CriticalTimers{}
}
