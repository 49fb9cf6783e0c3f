package reactor

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/deep-stoker/internal/clock"
	"github.com/vovakirdan/deep-stoker/internal/registry"
)

// Simulation constants.
const (
	// DefaultTickInterval is the driver cadence.
	DefaultTickInterval = 500 * time.Millisecond

	initialMetric     = 30.0
	metricCeiling     = 100.0
	timeScaleSeconds  = 300.0 // drift grows by 1x every 300s survived
	nominalLow        = 40.0
	nominalHigh       = 60.0
	nominalLogEvery   = 30 * time.Second
	lowPowerThreshold = 75.0
	lowPowerChance    = 0.05
	hullAlarmBelow    = 25.0
	hullAlarmChance   = 0.02
)

// baseDriftRate is percent per second at multiplier 1.
var baseDriftRate = PerMetric[float64]{Temperature: 0.8, Pressure: 0.7, Containment: 0.6}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	// Clock schedules the driver and hazards. Defaults to clock.Real{}.
	Clock clock.Clock

	// Seed for the engine's RNG. 0 means seed from the current time.
	Seed int64

	// Logger receives structured engine logs. Defaults to a discard logger.
	Logger *log.Logger

	// Notifier receives sound/visual cues.
	Notifier Notifier

	// TickInterval is the driver cadence. Defaults to DefaultTickInterval.
	TickInterval time.Duration
}

// Engine runs one shift at a time. All methods are safe for concurrent use;
// a single mutex linearizes ticks, player actions, and hazard timers.
type Engine struct {
	mu sync.Mutex

	clock        clock.Clock
	rng          *rand.Rand
	logger       *log.Logger
	notifier     Notifier
	tickInterval time.Duration

	// gen identifies the current session; timer callbacks carrying an
	// older value are ignored.
	gen uint64

	s        *session
	observer Observer
	driver   clock.Timer
	hazards  hazardScheduler
}

// session is the mutable state of one shift.
type session struct {
	id string

	metrics  PerMetric[float64]
	hull     float64
	survival float64
	elapsed  float64
	duration float64

	difficulty  float64
	reactorType string
	rank        string
	upgrades    []string

	active    bool
	paused    bool
	finalized bool

	drift     DriftMultipliers
	alignment ControlAlignment
	hazards   HazardState
	critical  CriticalTimers
	showPurge bool

	log         eventLog
	lastNominal time.Time
}

// New creates an idle engine. Call Initialize then Start to run a shift.
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}

	return &Engine{
		clock:        opts.Clock,
		rng:          rand.New(rand.NewSource(opts.Seed)),
		logger:       opts.Logger,
		notifier:     opts.Notifier,
		tickInterval: opts.TickInterval,
	}
}

// Initialize discards any running session and prepares a new one.
// rank and upgrades come from the career system and are copied.
// The hull is clamped to [0,100].
func (e *Engine) Initialize(rank string, upgrades []string, hull float64, cfg Config) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	e.s = nil

	if math.IsNaN(cfg.Duration) || cfg.Duration <= 0 {
		return Snapshot{}, fmt.Errorf("reactor: %w: duration must be positive, got %v", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.DifficultyMult == 0 {
		cfg.DifficultyMult = 1.0
	}
	if math.IsNaN(cfg.DifficultyMult) || cfg.DifficultyMult < 1.0 {
		return Snapshot{}, fmt.Errorf("reactor: %w: difficulty multiplier must be >= 1, got %v", ErrInvalidConfig, cfg.DifficultyMult)
	}
	if cfg.ReactorType == "" {
		cfg.ReactorType = registry.DefaultCore
	}
	core, err := registry.Lookup(cfg.ReactorType)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reactor: %w: %w", ErrInvalidConfig, err)
	}
	if math.IsNaN(hull) {
		hull = 0
	}

	s := &session{
		id:          uuid.NewString(),
		metrics:     Uniform(initialMetric),
		hull:        clamp(hull, 0, metricCeiling),
		duration:    cfg.Duration,
		difficulty:  cfg.DifficultyMult,
		reactorType: core.ID,
		rank:        rank,
		upgrades:    append([]string(nil), upgrades...),
		active:      true,
		drift:       Uniform(core.InitialDrift),
		hazards:     HazardState{JammedSlider: NoJam},
		lastNominal: e.clock.Now(),
	}
	e.s = s

	e.logEvent(fmt.Sprintf("SHIFT STARTED: %ss GOAL", formatSeconds(cfg.Duration)))
	e.logger.Info("shift initialized",
		"session", s.id,
		"rank", rank,
		"core", core.ID,
		"duration", cfg.Duration,
		"difficulty", cfg.DifficultyMult,
		"hull", s.hull,
	)

	e.scheduleNextHazardLocked()

	return e.snapshotLocked(), nil
}

// Start registers the observer and begins ticking at the configured cadence.
// It does nothing if there is no active session.
func (e *Engine) Start(obs Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s == nil || !e.s.active {
		e.logger.Warn("start ignored: no active session")
		return
	}

	if e.driver != nil {
		e.driver.Stop()
	}
	e.observer = obs

	gen := e.gen
	delta := e.tickInterval.Seconds()
	e.driver = e.clock.Every(e.tickInterval, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.current(gen) {
			return
		}
		e.tickLocked(delta)
	})
}

// Stop ends the session without a terminal callback. Safe to call repeatedly.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// stopLocked cancels all timers, deactivates the session and detaches the observer.
func (e *Engine) stopLocked() {
	if e.driver != nil {
		e.driver.Stop()
		e.driver = nil
	}
	e.hazards.stop()
	if e.s != nil {
		e.s.active = false
	}
	e.observer = nil
	e.gen++
}

// current reports whether a timer scheduled under gen still belongs to a live session.
func (e *Engine) current(gen uint64) bool {
	return gen == e.gen && e.s != nil && e.s.active
}

// SetPaused freezes or resumes the session. Ticks become no-ops and hazards
// wait while paused; elapsed time is preserved.
func (e *Engine) SetPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.s
	if s == nil || !s.active || s.paused == paused {
		return
	}
	s.paused = paused
	if paused {
		e.notifier.Notify(CueStaticNoise)
	}
	e.emitTick()
}

// Tick advances the session by delta seconds. It is a no-op unless the
// session is active and unpaused.
func (e *Engine) Tick(delta float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickLocked(delta)
}

func (e *Engine) tickLocked(delta float64) {
	s := e.s
	if s == nil || !s.active || s.paused || !(delta > 0) {
		return
	}

	s.survival += delta
	s.elapsed += delta

	// Duration is checked before drift, so reaching the goal wins ties.
	if s.elapsed >= s.duration {
		e.finalizeLocked(true, CauseShiftComplete)
		return
	}

	s.decayDrift(delta)
	s.applyDrift()
	s.updateCriticalTimers(delta)
	e.checkNominal()

	if s.anyAbove(lowPowerThreshold) && e.rng.Float64() < lowPowerChance {
		e.notifier.Notify(CueLowPowerHum)
	}
	if s.hull < hullAlarmBelow && e.rng.Float64() < hullAlarmChance {
		e.notifier.Notify(CueLowFrequencyAlarm)
	}

	if s.anyAtLeast(metricCeiling) {
		e.finalizeLocked(false, CauseMeltdown)
		return
	}
	if s.hull <= 0 {
		e.notifier.Notify(CueImplosion)
		e.finalizeLocked(false, CauseImplosion)
		return
	}

	e.emitTick()
}

// applyDrift raises every metric by its drift for one second-scaled step.
func (s *session) applyDrift() {
	timeMult := 1 + s.survival/timeScaleSeconds
	rankMult := RankMultiplier(s.rank)

	for _, m := range Metrics {
		base := baseDriftRate.Get(m) * timeMult * rankMult
		if s.hasUpgrade(MitigationUpgrade(m)) {
			base *= mitigationFactor
		}
		next := s.metrics.Get(m) + base*s.drift.Get(m)
		s.metrics.Set(m, math.Min(metricCeiling, next))
	}
}

func (e *Engine) checkNominal() {
	s := e.s
	for _, m := range Metrics {
		v := s.metrics.Get(m)
		if v < nominalLow || v > nominalHigh {
			return
		}
	}
	now := e.clock.Now()
	if now.Sub(s.lastNominal) > nominalLogEvery {
		e.logEvent(msgNominal)
		s.lastNominal = now
	}
}

// ApplyControl moves a control and reduces its metric by a random 5 to 15 points.
// Returns the reduction, or 0 if the session is inactive, paused, or the
// control is jammed.
func (e *Engine) ApplyControl(c Control, inBand bool) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.s
	if !c.Valid() || s == nil || !s.active || s.paused {
		return 0
	}
	if jammed, ok := s.hazards.Jammed(); ok && jammed == c {
		return 0
	}

	reduction := float64(e.rng.Intn(11) + 5)
	e.setAlignmentLocked(c.Metric(), inBand)

	m := c.Metric()
	s.metrics.Set(m, math.Max(0, s.metrics.Get(m)-reduction))

	e.emitTick()
	return reduction
}

// TriggerEmergencyPurge resets every metric to 20 at the cost of 15 hull.
// Returns false if the session is inactive or paused.
func (e *Engine) TriggerEmergencyPurge() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.s
	if s == nil || !s.active || s.paused {
		return false
	}

	s.metrics = Uniform(purgeLevel)
	s.hull = math.Max(0, s.hull-purgeHullCost)
	s.resetCriticalTimers()
	s.showPurge = false

	e.logEvent(msgPurge)
	e.notifier.Notify(CueMetalCreak)
	e.logger.Info("emergency purge", "session", s.id, "hull", s.hull)

	e.emitTick()
	return true
}

// finalizeLocked ends the shift and reports it once. Later calls do nothing.
func (e *Engine) finalizeLocked(success bool, cause Cause) {
	s := e.s
	if s == nil || s.finalized {
		return
	}
	s.finalized = true

	obs := e.observer
	e.stopLocked()

	switch cause {
	case CauseShiftComplete:
		e.logEvent(msgShiftComplete)
	case CauseMeltdown:
		e.logEvent(msgMeltdown)
	case CauseImplosion:
		e.logEvent(msgImplosion)
	}

	e.logger.Info("shift ended",
		"session", s.id,
		"success", success,
		"cause", cause,
		"elapsed", s.elapsed,
		"hull", s.hull,
	)

	if obs == nil {
		return
	}
	snap := e.snapshotLocked()
	obs.OnTick(snap)
	obs.OnTerminal(TerminalResult{Success: success, Cause: cause, Snapshot: snap})
}

// State returns a copy of the current session.
func (e *Engine) State() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// RecentLogs returns up to six of the newest log entries, oldest first.
func (e *Engine) RecentLogs() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.s == nil {
		return nil
	}
	return e.s.log.entries()
}

// ShouldShowPurge reports whether the emergency purge should be offered.
func (e *Engine) ShouldShowPurge() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s != nil && e.s.showPurge
}

// ComputeReward scores the current session. See ComputeReward.
func (e *Engine) ComputeReward() Reward {
	return ComputeReward(e.State())
}

func (e *Engine) emitTick() {
	if e.observer != nil {
		e.observer.OnTick(e.snapshotLocked())
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	s := e.s
	if s == nil {
		return Snapshot{Hazards: HazardState{JammedSlider: NoJam}}
	}
	return Snapshot{
		SessionID:      s.id,
		Temperature:    s.metrics.Temperature,
		Pressure:       s.metrics.Pressure,
		Containment:    s.metrics.Containment,
		HullIntegrity:  s.hull,
		SurvivalTime:   s.survival,
		ElapsedTime:    s.elapsed,
		ShiftDuration:  s.duration,
		DifficultyMult: s.difficulty,
		ReactorType:    s.reactorType,
		IsActive:       s.active,
		IsPaused:       s.paused,
		Rank:           s.rank,
		Upgrades:       append([]string(nil), s.upgrades...),
		Drift:          s.drift,
		Alignment:      s.alignment,
		Hazards:        s.hazards,
		CriticalTimers: s.critical,
		ShowPurge:      s.showPurge,
		Logs:           s.log.entries(),
	}
}

// logEvent records an allow-listed message in the session log.
func (e *Engine) logEvent(message string) {
	s := e.s
	if s == nil {
		return
	}
	if !Allowed(message) {
		e.logger.Debug("event not logged", "session", s.id, "message", message)
		return
	}
	s.log.append(LogEntry{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: e.clock.Now().Format("15:04:05"),
		Elapsed:   s.elapsed,
	})
	e.logger.Debug("event", "session", s.id, "message", message, "elapsed", s.elapsed)
}

func (s *session) hasUpgrade(name string) bool {
	for _, u := range s.upgrades {
		if u == name {
			return true
		}
	}
	return false
}

func (s *session) anyAbove(limit float64) bool {
	for _, m := range Metrics {
		if s.metrics.Get(m) > limit {
			return true
		}
	}
	return false
}

func (s *session) anyAtLeast(limit float64) bool {
	for _, m := range Metrics {
		if s.metrics.Get(m) >= limit {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// formatSeconds prints 300 as "300" and 90.5 as "90.5".
func formatSeconds(v float64) string {
	return fmt.Sprintf("%g", v)
}
