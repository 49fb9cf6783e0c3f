package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/deep-stoker/internal/career"
)

// ShopKeyMap defines the key bindings for the career screen.
type ShopKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Buy    key.Binding
	Repair key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ShopKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Buy, k.Repair, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ShopKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Buy}, {k.Repair, k.Back, k.Quit}}
}

// DefaultShopKeyMap returns default key bindings.
func DefaultShopKeyMap() ShopKeyMap {
	return ShopKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k", "w"), key.WithHelp("up/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "s"), key.WithHelp("down/j", "down")),
		Buy:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "buy")),
		Repair: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repair hull")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShopModel is the career screen: profile, rank progress, upgrades and repairs.
type ShopModel struct {
	service   *career.Service
	player    string
	profile   career.Profile
	items     []career.UpgradeStatus
	cursor    int
	message   string
	failed    bool
	keys      ShopKeyMap
	help      help.Model
	width     int
	quitting  bool
	goingBack bool
}

// NewShopModel loads the player's profile for the career screen.
func NewShopModel(svc *career.Service, player string, width int) (ShopModel, error) {
	p, err := svc.Profile(player)
	if err != nil {
		return ShopModel{}, err
	}
	m := ShopModel{
		service: svc,
		player:  player,
		keys:    DefaultShopKeyMap(),
		help:    help.New(),
		width:   width,
	}
	m.setProfile(p)
	return m, nil
}

func (m *ShopModel) setProfile(p career.Profile) {
	m.profile = p
	m.items = career.Shop(p)
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
}

// Init initializes the shop model.
func (m ShopModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the shop.
func (m ShopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Buy):
			m.buy()
		case key.Matches(msg, m.keys.Repair):
			m.repair()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}

	return m, nil
}

func (m *ShopModel) buy() {
	if len(m.items) == 0 {
		return
	}
	name := m.items[m.cursor].Name
	p, u, err := m.service.Buy(m.player, name)
	if err != nil {
		m.failed = true
		m.message = shopError(err)
		return
	}
	m.setProfile(p)
	m.failed = false
	m.message = fmt.Sprintf("Installed %s for %d credits", u.Name, u.Cost)
}

func (m *ShopModel) repair() {
	p, cost, err := m.service.Repair(m.player)
	if err != nil {
		m.failed = true
		m.message = shopError(err)
		return
	}
	m.setProfile(p)
	m.failed = false
	if cost == 0 {
		m.message = "Hull is already at full integrity"
		return
	}
	m.message = fmt.Sprintf("Hull restored for %d credits", cost)
}

// shopError turns a purchase error into a short console message.
func shopError(err error) string {
	switch {
	case errors.Is(err, career.ErrInsufficientCredits):
		return "Not enough depth credits"
	case errors.Is(err, career.ErrAlreadyOwned), errors.Is(err, career.ErrMaxStack):
		return "Already installed"
	case errors.Is(err, career.ErrPrerequisite):
		return "Requires a lower clearance first"
	default:
		return "Error: " + err.Error()
	}
}

// View renders the career screen.
func (m ShopModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	p := m.profile
	var b strings.Builder

	b.WriteString(titleStyle.Render("CAREER · " + p.Player))
	b.WriteString("\n\n")

	prog := career.Progress(p.TotalCredits)
	b.WriteString(fmt.Sprintf("Rank        %s (tier %d)\n", p.Rank, p.Tier))
	if prog.Next != "" {
		b.WriteString(fmt.Sprintf("Next rank   %s  %s %.0f%%  (%d credits to go)\n",
			prog.Next, ProgressBar(prog.Percent, 20), prog.Percent, prog.CreditsToNext))
	}
	b.WriteString(fmt.Sprintf("Credits     %d spendable · %d lifetime\n", p.DepthCredits, p.TotalCredits))
	b.WriteString(fmt.Sprintf("Shifts      %d (%d successful) · %s survived\n",
		p.TotalShifts, p.SuccessfulShifts, formatClock(p.TotalSurvival)))
	b.WriteString(fmt.Sprintf("Hull        %s %.0f%%", ProgressBar(p.Hull, 20), p.Hull))
	if cost := career.RepairCost(p); cost > 0 {
		b.WriteString(fmt.Sprintf("  (repair: %d credits)", cost))
	}
	b.WriteString("\n\n")

	var list strings.Builder
	for i, it := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		state := fmt.Sprintf("%5d cr", it.Cost)
		switch {
		case it.Owned:
			state = "installed"
		case it.Locked:
			state = "locked"
		}
		name := it.Name
		if it.Stackable() {
			name = fmt.Sprintf("%s (%d/%d)", it.Name, it.Count, it.MaxStack)
		}
		line := fmt.Sprintf("%s%-28s %10s  %s", cursor, name, state, dimStyle.Render(it.Description))
		if !it.Owned && !it.Locked && !it.CanAfford {
			line = dimStyle.Render(line)
		}
		list.WriteString(line)
		list.WriteString("\n")
	}
	b.WriteString(panelStyle.Render(strings.TrimRight(list.String(), "\n")))
	b.WriteString("\n")

	if m.message != "" {
		style := bandStyle
		if m.failed {
			style = levelStyles[LevelCritical]
		}
		b.WriteString(style.Render(m.message))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Profile returns the profile as last loaded or updated.
func (m ShopModel) Profile() career.Profile {
	return m.profile
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ShopModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ShopModel) IsQuitting() bool {
	return m.quitting
}
