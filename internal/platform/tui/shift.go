package tui

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/deep-stoker/internal/career"
	"github.com/vovakirdan/deep-stoker/internal/clock"
	"github.com/vovakirdan/deep-stoker/internal/config"
	"github.com/vovakirdan/deep-stoker/internal/core"
	"github.com/vovakirdan/deep-stoker/internal/live"
	"github.com/vovakirdan/deep-stoker/internal/reactor"
	"github.com/vovakirdan/deep-stoker/internal/registry"
)

// sliderStart is where every slider rests when a shift begins.
const sliderStart = 50.0

const flashDuration = 1500 * time.Millisecond

// ShiftOptions configures a shift console.
type ShiftOptions struct {
	Player   string
	Preset   config.ShiftPreset
	Core     registry.Core
	Controls config.ControlsConfig
	Service  *career.Service
	Runtime  core.RuntimeConfig

	// Board publishes the shift to spectators when set.
	Board *live.Board

	// Clock drives the engine. Defaults to the real clock.
	Clock clock.Clock

	Logger *log.Logger

	// Bell receives a BEL byte on alarm cues when set.
	Bell io.Writer

	// OnStart, when set, receives a function that stops the shift just
	// started. Owners use it to clean up after a dropped connection.
	OnStart func(stop func())
}

// flashExpiredMsg clears the cue line unless a newer cue replaced it.
type flashExpiredMsg struct{ seq int }

// ShiftModel is the Bubble Tea model for one shift console. It starts a new
// engine per shift and settles the career when the shift ends.
type ShiftModel struct {
	opts ShiftOptions

	engine *reactor.Engine
	bridge *Bridge
	feed   *live.Feed
	shifts int

	keyMapper *KeyMapper
	keys      ShiftKeyMap
	help      help.Model

	sliders    [3]float64
	snap       reactor.Snapshot
	profile    career.Profile
	result     *reactor.TerminalResult
	settlement career.Settlement
	err        error

	flash    string
	flashSeq int

	width      int
	height     int
	quitting   bool
	backToMenu bool
}

// NewShiftModel loads the player's career and starts the first shift.
func NewShiftModel(opts ShiftOptions) (ShiftModel, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Controls.Step <= 0 {
		opts.Controls = config.Default().Controls
	}

	h := help.New()
	h.ShowAll = false

	m := ShiftModel{
		opts:      opts,
		keyMapper: NewKeyMapper(),
		keys:      DefaultShiftKeyMap(),
		help:      h,
		width:     opts.Runtime.ScreenW,
		height:    opts.Runtime.ScreenH,
	}
	if err := m.start(); err != nil {
		return m, err
	}
	return m, nil
}

// start builds a fresh engine and begins a shift.
func (m *ShiftModel) start() error {
	profile, err := m.opts.Service.Profile(m.opts.Player)
	if err != nil {
		return err
	}
	if err := career.Ready(profile, m.opts.Core.ID); err != nil {
		return err
	}

	seed := m.opts.Runtime.Seed
	if seed != 0 {
		seed += int64(m.shifts)
	}

	bridge := NewBridge()
	eng := reactor.New(reactor.Options{
		Clock:        m.opts.Clock,
		Seed:         seed,
		Logger:       m.opts.Logger,
		Notifier:     bridge,
		TickInterval: m.opts.Runtime.TickInterval,
	})

	snap, err := eng.Initialize(profile.Rank, profile.Upgrades, profile.Hull, reactor.Config{
		Duration:       m.opts.Preset.Duration,
		ReactorType:    m.opts.Core.ID,
		DifficultyMult: m.opts.Preset.Difficulty,
	})
	if err != nil {
		bridge.Close()
		return err
	}

	var obs reactor.Observer = bridge
	var feed *live.Feed
	if m.opts.Board != nil {
		feed = m.opts.Board.Begin(profile.Player, m.opts.Preset.ID, snap)
		obs = reactor.Observers{bridge, feed}
	}
	eng.Start(obs)

	if m.bridge != nil {
		m.bridge.Close()
	}
	m.engine, m.bridge, m.feed = eng, bridge, feed
	m.shifts++
	m.sliders = [3]float64{sliderStart, sliderStart, sliderStart}
	m.snap = snap
	m.profile = profile
	m.result = nil
	m.settlement = career.Settlement{}
	m.err = nil
	m.flash = ""

	if m.opts.OnStart != nil {
		m.opts.OnStart(func() {
			eng.Stop()
			if feed != nil {
				feed.Close()
			}
			bridge.Close()
		})
	}

	m.opts.Logger.Debug("shift started", "player", profile.Player, "shift", m.opts.Preset.ID, "core", m.opts.Core.ID, "session", snap.SessionID)
	return nil
}

// shutdown stops the engine and withdraws the shift from the board.
func (m *ShiftModel) shutdown() {
	if m.engine != nil {
		m.engine.Stop()
	}
	if m.feed != nil {
		m.feed.Close()
	}
	if m.bridge != nil {
		m.bridge.Close()
	}
}

// Init starts listening for engine updates.
func (m ShiftModel) Init() tea.Cmd {
	return m.bridge.Wait()
}

// Update handles messages and updates the model state.
func (m ShiftModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case SnapshotMsg:
		if msg.from != m.bridge {
			return m, nil
		}
		m.snap = msg.Snapshot
		return m, m.bridge.Wait()

	case TerminalMsg:
		if msg.from != m.bridge {
			return m, nil
		}
		return m.handleTerminal(msg.Result)

	case CueMsg:
		if msg.from != m.bridge {
			return m, nil
		}
		return m.handleCue(msg.Cue)

	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m ShiftModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKey(msg)

	switch action {
	case core.ActionQuit:
		m.shutdown()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		if m.result != nil || m.snap.IsPaused || m.err != nil {
			m.shutdown()
			m.backToMenu = true
		}
		return m, nil

	case core.ActionRestart:
		if m.result == nil && m.err == nil {
			return m, nil
		}
		if err := m.start(); err != nil {
			m.err = err
			return m, nil
		}
		return m, m.bridge.Wait()

	case core.ActionPause:
		if m.result == nil {
			m.engine.SetPaused(!m.snap.IsPaused)
			m.snap = m.engine.State()
		}
		return m, nil

	case core.ActionPurge:
		if m.result == nil && m.engine.TriggerEmergencyPurge() {
			m.snap = m.engine.State()
		}
		return m, nil
	}

	if mv, ok := action.Slider(); ok {
		return m.moveSlider(mv)
	}
	return m, nil
}

// moveSlider shifts one slider by the configured step and applies the
// matching control with its band alignment.
func (m ShiftModel) moveSlider(mv core.SliderMove) (tea.Model, tea.Cmd) {
	if m.result != nil || !m.snap.IsActive || m.snap.IsPaused {
		return m, nil
	}

	c := reactor.Controls[mv.Slider]
	if jammed, ok := m.snap.Hazards.Jammed(); ok && jammed == c {
		return m, m.setFlash(sliderLabels[mv.Slider] + " SLIDER JAMMED")
	}

	band := m.band(mv.Slider)
	wasIn := band.Contains(m.sliders[mv.Slider])
	v := core.ClampF(m.sliders[mv.Slider]+float64(mv.Dir)*m.opts.Controls.Step, 0, 100)
	m.sliders[mv.Slider] = v
	inBand := band.Contains(v)

	m.engine.ApplyControl(c, inBand)
	m.snap = m.engine.State()

	if inBand && !wasIn {
		return m, m.setFlash(sliderLabels[mv.Slider] + " IN OPTIMAL BAND")
	}
	return m, nil
}

// band returns the optimal band of a slider.
func (m ShiftModel) band(slider int) core.Band {
	switch slider {
	case 0:
		return m.opts.Controls.Vent
	case 1:
		return m.opts.Controls.Coolant
	default:
		return m.opts.Controls.Magnetics
	}
}

// handleTerminal settles the career once the shift has ended.
func (m ShiftModel) handleTerminal(r reactor.TerminalResult) (tea.Model, tea.Cmd) {
	m.result = &r
	m.snap = r.Snapshot
	m.bridge.Close()

	profile, st, err := m.opts.Service.CompleteShift(m.opts.Player, m.opts.Preset.ID, r)
	m.settlement = st
	if err != nil {
		m.opts.Logger.Error("settling shift failed", "player", m.opts.Player, "error", err)
		m.err = err
		return m, nil
	}
	m.profile = profile
	return m, nil
}

// handleCue flashes a message and rings the bell for alarms.
func (m ShiftModel) handleCue(c reactor.Cue) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.bridge.Wait()}
	if text := cueText(c); text != "" {
		cmds = append(cmds, m.setFlash(text))
	}
	if m.opts.Bell != nil && cueRings(c) {
		w := m.opts.Bell
		cmds = append(cmds, func() tea.Msg {
			//nolint:errcheck // A missed bell is harmless
			w.Write([]byte{'\a'})
			return nil
		})
	}
	return m, tea.Batch(cmds...)
}

// setFlash shows text on the cue line for a short while.
func (m *ShiftModel) setFlash(text string) tea.Cmd {
	m.flashSeq++
	m.flash = text
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}

// cueText is the visual rendition of a cue.
func cueText(c reactor.Cue) string {
	switch c {
	case reactor.CueHazard:
		return "!! HAZARD DETECTED !!"
	case reactor.CueMetalCreak:
		return "the hull groans"
	case reactor.CueLowPowerHum:
		return "a low hum runs through the deck"
	case reactor.CueSuccessChime:
		return "control in optimal band"
	case reactor.CueImplosion:
		return "!!! IMPLOSION !!!"
	case reactor.CueLowFrequencyAlarm:
		return "ALARM: HULL INTEGRITY LOW"
	case reactor.CueStaticNoise:
		return "static on the line"
	}
	return ""
}

// cueRings reports whether a cue sounds the terminal bell.
func cueRings(c reactor.Cue) bool {
	switch c {
	case reactor.CueHazard, reactor.CueImplosion, reactor.CueLowFrequencyAlarm:
		return true
	}
	return false
}

// Snapshot returns the last engine state the console has seen.
func (m ShiftModel) Snapshot() reactor.Snapshot {
	return m.snap
}

// Result returns the terminal result, or nil while the shift runs.
func (m ShiftModel) Result() *reactor.TerminalResult {
	return m.result
}

// Settlement returns the career outcome of the last finished shift.
func (m ShiftModel) Settlement() career.Settlement {
	return m.settlement
}

// Err returns the last start or settlement error.
func (m ShiftModel) Err() error {
	return m.err
}

// IsQuitting returns true if user requested to quit entirely.
func (m ShiftModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m ShiftModel) BackToMenu() bool {
	return m.backToMenu
}

// RunShift runs a single shift console until the player quits or backs out.
func RunShift(opts ShiftOptions) error {
	model, err := NewShiftModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		&shiftProgram{model},
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if sp, ok := final.(*shiftProgram); ok {
		sp.shutdown()
	}
	return err
}

// shiftProgram ends the program when the standalone console backs out.
type shiftProgram struct{ ShiftModel }

func (p *shiftProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := p.ShiftModel.Update(msg)
	if sm, ok := next.(ShiftModel); ok {
		p.ShiftModel = sm
	}
	if p.BackToMenu() {
		return p, tea.Quit
	}
	return p, cmd
}
