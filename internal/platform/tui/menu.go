package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/deep-stoker/internal/career"
	"github.com/vovakirdan/deep-stoker/internal/config"
	"github.com/vovakirdan/deep-stoker/internal/core"
	"github.com/vovakirdan/deep-stoker/internal/registry"
)

// MenuItemKind says what selecting a menu entry does.
type MenuItemKind int

const (
	MenuShift MenuItemKind = iota
	MenuShop
	MenuRecords
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	Kind   MenuItemKind
	Preset config.ShiftPreset
	Title  string
}

// MenuModel is the Bubble Tea model for the shift picker menu.
type MenuModel struct {
	items      []MenuItem
	cursor     int
	cores      []registry.Core
	coreCursor int
	profile    career.Profile
	width      int
	height     int
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	quitting   bool
	selected   *MenuItem // Set when user selects an entry
}

// NewMenuModel creates a new menu model for the player's profile.
func NewMenuModel(cfg config.Config, profile career.Profile, rt core.RuntimeConfig) MenuModel {
	items := make([]MenuItem, 0, len(cfg.Shifts)+2)
	for _, p := range cfg.Shifts {
		items = append(items, MenuItem{
			Kind:   MenuShift,
			Preset: p,
			Title:  fmt.Sprintf("%s shift (%s, x%.1f)", p.Title, formatClock(p.Duration), p.Difficulty),
		})
	}
	items = append(items,
		MenuItem{Kind: MenuShop, Title: "Career & upgrades"},
		MenuItem{Kind: MenuRecords, Title: "Shift records"},
	)

	return MenuModel{
		items:     items,
		cores:     career.UnlockedReactors(profile),
		profile:   profile,
		width:     rt.ScreenW,
		height:    rt.ScreenH,
		config:    rt,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		if len(m.cores) > 0 {
			m.coreCursor = (m.coreCursor - 1 + len(m.cores)) % len(m.cores)
		}

	case MenuActionRight:
		if len(m.cores) > 0 {
			m.coreCursor = (m.coreCursor + 1) % len(m.cores)
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  D E E P   S T O K E R  "), m.width))
	b.WriteString("\n\n")

	status := fmt.Sprintf("%s · %s · %d credits · hull %.0f%%",
		m.profile.Player, m.profile.Rank, m.profile.DepthCredits, m.profile.Hull)
	b.WriteString(centerText(dimStyle.Render(status), m.width))
	b.WriteString("\n\n")

	if c, ok := m.Core(); ok {
		line := fmt.Sprintf("<  %s  >", c.Title)
		b.WriteString(centerText(bandStyle.Render(line), m.width))
		b.WriteString("\n\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Title, m.width))
		b.WriteString("\n")
	}

	if err := career.Ready(m.profile, ""); err != nil {
		b.WriteString("\n")
		b.WriteString(centerText(levelStyles[LevelCritical].Render("Hull breached: repair it in the career screen"), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Reactor  |  Enter: Select  |  Q: Quit"
	b.WriteString(centerText(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Core returns the reactor core currently selected.
func (m MenuModel) Core() (registry.Core, bool) {
	if len(m.cores) == 0 {
		return registry.Core{}, false
	}
	return m.cores[m.coreCursor], true
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
