package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/deep-stoker/internal/career"
	"github.com/vovakirdan/deep-stoker/internal/clock"
	"github.com/vovakirdan/deep-stoker/internal/config"
	"github.com/vovakirdan/deep-stoker/internal/core"
	"github.com/vovakirdan/deep-stoker/internal/live"
	"github.com/vovakirdan/deep-stoker/internal/reactor"
	"github.com/vovakirdan/deep-stoker/internal/registry"
	"github.com/vovakirdan/deep-stoker/internal/storage"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg      tea.KeyMsg
		expected core.Action
	}{
		{runeKey('q'), core.ActionVentUp},
		{runeKey('a'), core.ActionVentDown},
		{runeKey('w'), core.ActionCoolantUp},
		{runeKey('s'), core.ActionCoolantDown},
		{runeKey('e'), core.ActionMagneticsUp},
		{runeKey('d'), core.ActionMagneticsDown},
		{runeKey('x'), core.ActionPurge},
		{runeKey('p'), core.ActionPause},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionPause},
		{runeKey('r'), core.ActionRestart},
		{runeKey('b'), core.ActionBack},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{runeKey('z'), core.ActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKey(tt.msg); got != tt.expected {
			t.Errorf("MapKey(%q) = %v, expected %v", tt.msg.String(), got, tt.expected)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg      tea.KeyMsg
		expected MenuAction
	}{
		{runeKey('q'), MenuActionQuit},
		{runeKey('k'), MenuActionUp},
		{runeKey('j'), MenuActionDown},
		{runeKey('h'), MenuActionLeft},
		{runeKey('l'), MenuActionRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey('z'), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.expected {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.msg.String(), got, tt.expected)
		}
	}
}

func TestBridgeCoalescesSnapshots(t *testing.T) {
	b := NewBridge()
	for i := 1; i <= 3; i++ {
		b.OnTick(reactor.Snapshot{ElapsedTime: float64(i)})
	}

	msg, ok := b.Wait()().(SnapshotMsg)
	if !ok {
		t.Fatal("Wait() did not return a SnapshotMsg")
	}
	if msg.Snapshot.ElapsedTime != 3 {
		t.Errorf("ElapsedTime = %v, expected 3", msg.Snapshot.ElapsedTime)
	}
}

func TestBridgeTerminalFirst(t *testing.T) {
	b := NewBridge()
	b.OnTick(reactor.Snapshot{})
	b.OnTerminal(reactor.TerminalResult{Success: true})
	b.OnTerminal(reactor.TerminalResult{Success: false})

	msg, ok := b.Wait()().(TerminalMsg)
	if !ok {
		t.Fatal("Wait() did not prioritize the terminal result")
	}
	if !msg.Result.Success {
		t.Error("expected the first terminal result to be kept")
	}
}

func TestBridgeCuesAndClose(t *testing.T) {
	b := NewBridge()
	for i := 0; i < cueBuffer+5; i++ {
		b.Notify(reactor.CueHazard)
	}
	if msg, ok := b.Wait()().(CueMsg); !ok || msg.Cue != reactor.CueHazard {
		t.Errorf("Wait() = %v, expected a hazard cue", msg)
	}

	b2 := NewBridge()
	b2.Close()
	b2.Close()
	if msg := b2.Wait()(); msg != nil {
		t.Errorf("Wait() after Close = %v, expected nil", msg)
	}
}

func TestLevelOf(t *testing.T) {
	tests := []struct {
		v        float64
		expected Level
	}{
		{0, LevelNominal},
		{60, LevelNominal},
		{60.1, LevelElevated},
		{85, LevelElevated},
		{85.1, LevelCritical},
		{100, LevelCritical},
	}
	for _, tt := range tests {
		if got := LevelOf(tt.v); got != tt.expected {
			t.Errorf("LevelOf(%v) = %v, expected %v", tt.v, got, tt.expected)
		}
	}
}

func TestDriftStatus(t *testing.T) {
	tests := []struct {
		mult     float64
		expected string
	}{
		{1.0, "NOMINAL"},
		{1.03, "STABILIZING"},
		{1.1, "ACCELERATING"},
		{1.4, "ACCELERATING"},
	}
	for _, tt := range tests {
		if got := DriftStatus(tt.mult); got != tt.expected {
			t.Errorf("DriftStatus(%v) = %q, expected %q", tt.mult, got, tt.expected)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0:00"},
		{-3, "0:00"},
		{59.2, "1:00"},
		{180, "3:00"},
		{301, "5:01"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.seconds); got != tt.expected {
			t.Errorf("formatClock(%v) = %q, expected %q", tt.seconds, got, tt.expected)
		}
	}
}

func TestDistortion(t *testing.T) {
	tests := []struct {
		glass    int
		expected float64
	}{
		{0, 1.0},
		{1, 0.7},
		{2, 0.4},
		{3, 0.2},
	}
	for _, tt := range tests {
		if got := Distortion(tt.glass); got < tt.expected-1e-9 || got > tt.expected+1e-9 {
			t.Errorf("Distortion(%d) = %v, expected %v", tt.glass, got, tt.expected)
		}
	}
}

func TestHazardBanner(t *testing.T) {
	if got := HazardBanner(reactor.HazardState{JammedSlider: reactor.NoJam}); got != "" {
		t.Errorf("HazardBanner(none) = %q, expected empty", got)
	}

	got := HazardBanner(reactor.HazardState{HeavyCurrent: true, JammedSlider: int(reactor.InjectCoolant)})
	for _, want := range []string{"HEAVY CURRENT", "COOLANT SLIDER JAMMED"} {
		if !strings.Contains(got, want) {
			t.Errorf("HazardBanner() = %q, missing %q", got, want)
		}
	}
}

type shiftFixture struct {
	clock *clock.Fake
	repo  *career.MemoryRepository
	svc   *career.Service
	board *live.Board
	model ShiftModel
}

func newShiftFixture(t *testing.T, duration float64) *shiftFixture {
	t.Helper()

	fc := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	repo := career.NewMemoryRepository()
	svc := career.NewService(repo, repo, nil)
	board := live.NewBoard(nil)
	circle, err := registry.Lookup(registry.CoreCircle)
	if err != nil {
		t.Fatalf("Lookup(circle) error = %v", err)
	}

	m, err := NewShiftModel(ShiftOptions{
		Player:   "ada",
		Preset:   config.ShiftPreset{ID: "test", Title: "Test", Duration: duration, Difficulty: 1},
		Core:     circle,
		Controls: config.Default().Controls,
		Service:  svc,
		Runtime:  core.RuntimeConfig{ScreenW: 100, ScreenH: 40, TickInterval: 500 * time.Millisecond, Seed: 42},
		Board:    board,
		Clock:    fc,
	})
	if err != nil {
		t.Fatalf("NewShiftModel() error = %v", err)
	}
	return &shiftFixture{clock: fc, repo: repo, svc: svc, board: board, model: m}
}

func (f *shiftFixture) send(msg tea.Msg) tea.Cmd {
	next, cmd := f.model.Update(msg)
	f.model = next.(ShiftModel)
	return cmd
}

func TestShiftSliderAppliesControl(t *testing.T) {
	f := newShiftFixture(t, 60)
	defer f.model.shutdown()

	before := f.model.Snapshot().Temperature
	f.send(runeKey('w')) // coolant 50 -> 55, inside [40,60]

	snap := f.model.Snapshot()
	if snap.Temperature >= before {
		t.Errorf("Temperature = %v, expected below %v", snap.Temperature, before)
	}
	if !snap.Alignment.Get(reactor.Temperature) {
		t.Error("coolant should be aligned inside its band")
	}
	if f.model.sliders[1] != 55 {
		t.Errorf("coolant slider = %v, expected 55", f.model.sliders[1])
	}

	// 55 -> 60 -> 65: leaving the band clears alignment.
	f.send(runeKey('w'))
	f.send(runeKey('w'))
	if f.model.Snapshot().Alignment.Get(reactor.Temperature) {
		t.Error("coolant should be misaligned outside its band")
	}
}

func TestShiftPauseAndBack(t *testing.T) {
	f := newShiftFixture(t, 60)

	f.send(runeKey('b'))
	if f.model.BackToMenu() {
		t.Fatal("back must be ignored while the shift runs")
	}

	f.send(runeKey('p'))
	if !f.model.Snapshot().IsPaused {
		t.Fatal("expected the shift to be paused")
	}

	before := f.model.sliders[0]
	f.send(runeKey('q'))
	if f.model.sliders[0] != before {
		t.Error("sliders must not move while paused")
	}

	f.send(runeKey('b'))
	if !f.model.BackToMenu() {
		t.Fatal("back should leave a paused shift")
	}
	if n := len(f.board.Live()); n != 0 {
		t.Errorf("board has %d shifts, expected 0", n)
	}
	if n := f.clock.Pending(); n != 0 {
		t.Errorf("Pending() = %d, expected 0 after leaving", n)
	}
}

func TestShiftPublishedToBoard(t *testing.T) {
	f := newShiftFixture(t, 60)
	defer f.model.shutdown()

	running := f.board.Live()
	if len(running) != 1 {
		t.Fatalf("board has %d shifts, expected 1", len(running))
	}
	if running[0].Player != "ada" || running[0].ShiftType != "test" {
		t.Errorf("live shift = %+v", running[0].Shift)
	}
}

func TestShiftTerminalSettlesCareer(t *testing.T) {
	f := newShiftFixture(t, 2)

	f.clock.Advance(3 * time.Second)

	// Drain the bridge the way the Bubble Tea loop would.
	for i := 0; i < 10 && f.model.Result() == nil; i++ {
		msg := f.model.bridge.Wait()()
		if msg == nil {
			break
		}
		f.send(msg)
	}

	res := f.model.Result()
	if res == nil {
		t.Fatal("expected a terminal result")
	}
	if !res.Success || res.Cause != reactor.CauseShiftComplete {
		t.Errorf("result = %+v, expected a completed shift", *res)
	}
	if err := f.model.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	p, err := f.svc.Profile("ada")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if p.TotalShifts != 1 || p.SuccessfulShifts != 1 {
		t.Errorf("shifts = %d/%d, expected 1/1", p.SuccessfulShifts, p.TotalShifts)
	}
	if p.DepthCredits != f.model.Settlement().Credited || p.DepthCredits == 0 {
		t.Errorf("DepthCredits = %d, settlement credited %d", p.DepthCredits, f.model.Settlement().Credited)
	}
	if n := len(f.repo.Shifts()); n != 1 {
		t.Errorf("recorded %d shifts, expected 1", n)
	}

	view := f.model.View()
	if !strings.Contains(view, "SHIFT COMPLETE") {
		t.Errorf("summary view missing headline:\n%s", view)
	}

	// Restart begins a fresh session.
	oldID := res.Snapshot.SessionID
	f.send(runeKey('r'))
	if f.model.Result() != nil {
		t.Fatal("restart should clear the result")
	}
	if f.model.Snapshot().SessionID == oldID {
		t.Error("restart should start a new session")
	}
	f.model.shutdown()
}

func TestShiftRefusesBreachedHull(t *testing.T) {
	repo := career.NewMemoryRepository()
	p := career.NewProfile("ada")
	p.Hull = 0
	if err := repo.SaveProfile(p); err != nil {
		t.Fatal(err)
	}
	svc := career.NewService(repo, nil, nil)

	_, err := NewShiftModel(ShiftOptions{
		Player:  "ada",
		Preset:  config.ShiftPreset{ID: "quick", Duration: 180, Difficulty: 1},
		Service: svc,
		Clock:   clock.NewFake(time.Now()),
	})
	if !errors.Is(err, career.ErrHullBreached) {
		t.Errorf("NewShiftModel() error = %v, expected ErrHullBreached", err)
	}
}

func TestMenuSelection(t *testing.T) {
	cfg := config.Default()
	m := NewMenuModel(cfg, career.NewProfile("ada"), core.DefaultConfig())

	c, ok := m.Core()
	if !ok || c.ID != registry.CoreCircle {
		t.Fatalf("Core() = %v, %v; expected circle", c.ID, ok)
	}

	next, _ := m.Update(runeKey('j'))
	m = next.(MenuModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	sel := m.Selected()
	if sel == nil || sel.Kind != MenuShift || sel.Preset.ID != cfg.Shifts[1].ID {
		t.Errorf("Selected() = %+v, expected the second preset", sel)
	}
}

func TestMenuCyclesUnlockedCores(t *testing.T) {
	p := career.NewProfile("ada")
	p.Upgrades = []string{career.ClearanceLevel2}
	m := NewMenuModel(config.Default(), p, core.DefaultConfig())

	next, _ := m.Update(runeKey('l'))
	m = next.(MenuModel)
	if c, _ := m.Core(); c.ID != registry.CoreStar {
		t.Errorf("Core() = %s, expected star", c.ID)
	}

	next, _ = m.Update(runeKey('l'))
	m = next.(MenuModel)
	if c, _ := m.Core(); c.ID != registry.CoreCircle {
		t.Errorf("Core() = %s, expected to wrap to circle", c.ID)
	}
}

func TestShopBuyAndRepair(t *testing.T) {
	repo := career.NewMemoryRepository()
	p := career.NewProfile("ada")
	p.DepthCredits = 60
	p.Hull = 90
	if err := repo.SaveProfile(p); err != nil {
		t.Fatal(err)
	}
	svc := career.NewService(repo, nil, nil)

	m, err := NewShopModel(svc, "ada", 100)
	if err != nil {
		t.Fatalf("NewShopModel() error = %v", err)
	}

	// First entry is Reinforced Glass at 150: too expensive.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(ShopModel)
	if !m.failed || m.message != "Not enough depth credits" {
		t.Errorf("message = %q, expected an insufficient credits notice", m.message)
	}

	next, _ = m.Update(runeKey('r'))
	m = next.(ShopModel)
	if m.failed {
		t.Fatalf("repair failed: %s", m.message)
	}
	if got := m.Profile(); got.Hull != 100 || got.DepthCredits != 40 {
		t.Errorf("after repair hull=%v credits=%d, expected 100/40", got.Hull, got.DepthCredits)
	}

	// Hardened Seals at 50 is still too expensive with 40 left.
	next, _ = m.Update(runeKey('j'))
	m = next.(ShopModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(ShopModel)
	if !m.failed {
		t.Error("expected the purchase to fail")
	}
}

type fakeRecords struct {
	top     []career.ShiftRecord
	recent  map[string][]career.ShiftRecord
	careers []storage.CareerSummary
}

func (f fakeRecords) TopShifts(int) ([]career.ShiftRecord, error) { return f.top, nil }

func (f fakeRecords) RecentShifts(player string, _ int) ([]career.ShiftRecord, error) {
	return f.recent[player], nil
}

func (f fakeRecords) TopCareers(int) ([]storage.CareerSummary, error) { return f.careers, nil }

func TestRecordsViews(t *testing.T) {
	src := fakeRecords{
		top:     []career.ShiftRecord{{Player: "ada", ShiftType: "quick", Cause: reactor.CauseShiftComplete}},
		recent:  map[string][]career.ShiftRecord{},
		careers: []storage.CareerSummary{{Player: "ada", Rank: "Novice", TotalCredits: 120}},
	}
	m := NewRecordsModel(src, "bob", 100, 30)

	if m.CurrentView() != ViewTopShifts || m.empty {
		t.Fatalf("initial view = %v (empty=%v), expected populated top shifts", m.CurrentView(), m.empty)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(RecordsModel)
	if m.CurrentView() != ViewMyShifts || !m.empty {
		t.Errorf("view = %v (empty=%v), expected empty personal shifts", m.CurrentView(), m.empty)
	}
	if !strings.Contains(m.View(), "No shifts recorded yet") {
		t.Error("expected the empty notice")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(RecordsModel)
	if m.CurrentView() != ViewCareers || m.empty {
		t.Errorf("view = %v (empty=%v), expected populated careers", m.CurrentView(), m.empty)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(RecordsModel)
	if m.CurrentView() != ViewMyShifts {
		t.Errorf("view = %v, expected to step back", m.CurrentView())
	}

	next, _ = m.Update(runeKey('b'))
	m = next.(RecordsModel)
	if !m.IsGoingBack() {
		t.Error("expected back")
	}
}

func TestSessionFlow(t *testing.T) {
	repo := career.NewMemoryRepository()
	env := Env{
		Config:  config.Default(),
		Service: career.NewService(repo, repo, nil),
		Board:   live.NewBoard(nil),
		Clock:   clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	}
	m := NewSessionModel(env, core.DefaultConfig(), "ada", nil)

	send := func(msg tea.Msg) {
		next, _ := m.Update(msg)
		m = next.(SessionModel)
	}

	send(tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenShift {
		t.Fatalf("screen = %v, expected shift", m.screen)
	}
	if n := len(env.Board.Live()); n != 1 {
		t.Errorf("board has %d shifts, expected 1", n)
	}

	m.Shutdown()
	if n := len(env.Board.Live()); n != 0 {
		t.Errorf("board has %d shifts after Shutdown, expected 0", n)
	}

	send(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.quitting {
		t.Error("ctrl+c should quit the session")
	}
}

func TestPlayerName(t *testing.T) {
	tests := []struct {
		user     string
		expected string
	}{
		{"ada", "ada"},
		{"  bob ", "bob"},
		{"", "guest"},
		{"   ", "guest"},
	}
	for _, tt := range tests {
		if got := PlayerName(tt.user); got != tt.expected {
			t.Errorf("PlayerName(%q) = %q, expected %q", tt.user, got, tt.expected)
		}
	}
}
