package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/deep-stoker/internal/career"
	"github.com/vovakirdan/deep-stoker/internal/clock"
	"github.com/vovakirdan/deep-stoker/internal/config"
	"github.com/vovakirdan/deep-stoker/internal/core"
	"github.com/vovakirdan/deep-stoker/internal/live"
)

// Env holds the services a console session runs against.
type Env struct {
	Config  config.Config
	Service *career.Service
	Records RecordSource // nil hides stored records
	Board   *live.Board  // nil disables spectating
	Clock   clock.Clock
	Logger  *log.Logger
}

type screen int

const (
	screenMenu screen = iota
	screenShift
	screenShop
	screenRecords
)

// SessionModel manages the full console flow: menu -> shift/career/records -> menu.
// This is the top-level model used by `stoker menu` and SSH sessions.
type SessionModel struct {
	env     Env
	runtime core.RuntimeConfig
	player  string
	bell    io.Writer

	screen  screen
	menu    MenuModel
	shift   ShiftModel
	shop    ShopModel
	records RecordsModel

	notice   string
	quitting bool

	running *shiftTracker
}

// shiftTracker remembers how to stop the current shift. It is shared by
// every copy of a SessionModel.
type shiftTracker struct {
	mu   sync.Mutex
	stop func()
}

func (t *shiftTracker) set(stop func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stop = stop
}

// Stop stops the tracked shift, if any.
func (t *shiftTracker) Stop() {
	t.mu.Lock()
	stop := t.stop
	t.stop = nil
	t.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// NewSessionModel creates a new session model for player.
func NewSessionModel(env Env, rt core.RuntimeConfig, player string, bell io.Writer) SessionModel {
	if env.Logger == nil {
		env.Logger = log.New(io.Discard)
	}
	m := SessionModel{
		env:     env,
		runtime: rt,
		player:  player,
		bell:    bell,
		running: &shiftTracker{},
	}
	m.openMenu()
	return m
}

func (m *SessionModel) openMenu() {
	p, err := m.env.Service.Profile(m.player)
	if err != nil {
		m.env.Logger.Error("loading career failed", "player", m.player, "error", err)
		m.notice = err.Error()
		p = career.NewProfile(m.player)
	}
	m.menu = NewMenuModel(m.env.Config, p, m.runtime)
	m.screen = screenMenu
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.runtime.ScreenW = wsm.Width
		m.runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenShift:
		return m.updateShift(msg)
	case screenShop:
		return m.updateShop(msg)
	case screenRecords:
		return m.updateRecords(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menuModel, ok := next.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}
	m.notice = ""

	switch selected.Kind {
	case MenuShop:
		shop, err := NewShopModel(m.env.Service, m.player, m.runtime.ScreenW)
		if err != nil {
			m.notice = err.Error()
			m.openMenu()
			return m, nil
		}
		m.shop = shop
		m.screen = screenShop
		return m, nil

	case MenuRecords:
		m.records = NewRecordsModel(m.env.Records, m.player, m.runtime.ScreenW, m.runtime.ScreenH)
		m.screen = screenRecords
		return m, nil
	}

	coreSel, _ := m.menu.Core()
	shift, err := NewShiftModel(ShiftOptions{
		Player:   m.player,
		Preset:   selected.Preset,
		Core:     coreSel,
		Controls: m.env.Config.Controls,
		Service:  m.env.Service,
		Runtime:  m.runtime,
		Board:    m.env.Board,
		Clock:    m.env.Clock,
		Logger:   m.env.Logger,
		Bell:     m.bell,
		OnStart:  m.running.set,
	})
	if err != nil {
		m.openMenu()
		m.notice = err.Error()
		return m, nil
	}
	m.shift = shift
	m.screen = screenShift
	return m, m.shift.Init()
}

// updateShift handles updates while a shift console is open.
func (m SessionModel) updateShift(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.shift.Update(msg)
	if shiftModel, ok := next.(ShiftModel); ok {
		m.shift = shiftModel
	}

	if m.shift.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.shift.BackToMenu() {
		m.openMenu()
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) updateShop(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.shop.Update(msg)
	if shopModel, ok := next.(ShopModel); ok {
		m.shop = shopModel
	}

	if m.shop.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.shop.IsGoingBack() {
		m.openMenu()
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) updateRecords(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.records.Update(msg)
	if recordsModel, ok := next.(RecordsModel); ok {
		m.records = recordsModel
	}

	if m.records.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.records.IsGoingBack() {
		m.openMenu()
		return m, nil
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenShift:
		return m.shift.View()
	case screenShop:
		return m.shop.View()
	case screenRecords:
		return m.records.View()
	}

	view := m.menu.View()
	if m.notice != "" {
		view += "\n" + centerText(levelStyles[LevelCritical].Render(m.notice), m.runtime.ScreenW) + "\n"
	}
	return view
}

// Shutdown stops a running shift, if any. Safe to call from any goroutine.
func (m SessionModel) Shutdown() {
	m.running.Stop()
}

// RunSession runs the interactive console in the local terminal.
// bell, when set, receives the alarm bell.
func RunSession(env Env, rt core.RuntimeConfig, player string, bell io.Writer) error {
	model := NewSessionModel(env, rt, player, bell)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if sm, ok := final.(SessionModel); ok {
		sm.Shutdown()
	}
	return err
}
