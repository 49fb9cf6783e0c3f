package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/deep-stoker/internal/career"
	"github.com/vovakirdan/deep-stoker/internal/storage"
)

// Records layout constants
const (
	maxRecords   = 100 // Max rows to load
	tableMargins = 8   // Header, tabs, help and borders
)

// RecordSource supplies the records screen. *storage.Store implements it.
type RecordSource interface {
	TopShifts(limit int) ([]career.ShiftRecord, error)
	RecentShifts(player string, limit int) ([]career.ShiftRecord, error)
	TopCareers(limit int) ([]storage.CareerSummary, error)
}

// RecordsView selects which table the records screen shows.
type RecordsView int

const (
	ViewTopShifts RecordsView = iota
	ViewMyShifts
	ViewCareers
	viewCount
)

// String returns the tab title of the view.
func (v RecordsView) String() string {
	switch v {
	case ViewTopShifts:
		return "Best shifts"
	case ViewMyShifts:
		return "My shifts"
	case ViewCareers:
		return "Careers"
	default:
		return "Unknown"
	}
}

// RecordsKeyMap defines the key bindings for the records screen.
type RecordsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextView key.Binding
	PrevView key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RecordsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.PrevView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k RecordsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Back, k.Quit},
	}
}

// DefaultRecordsKeyMap returns default key bindings.
func DefaultRecordsKeyMap() RecordsKeyMap {
	return RecordsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next table"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev table"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RecordsModel is the Bubble Tea model for the records screen.
type RecordsModel struct {
	source    RecordSource
	player    string
	view      RecordsView
	table     table.Model
	help      help.Model
	keys      RecordsKeyMap
	loadErr   error
	empty     bool
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewRecordsModel creates a records screen. source may be nil when no
// database is available.
func NewRecordsModel(source RecordSource, player string, width, height int) RecordsModel {
	h := help.New()
	h.ShowAll = false

	m := RecordsModel{
		source: source,
		player: player,
		keys:   DefaultRecordsKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.load()
	return m
}

// load rebuilds the table for the current view.
func (m *RecordsModel) load() {
	var (
		columns []table.Column
		rows    []table.Row
	)
	m.loadErr = nil

	switch m.view {
	case ViewCareers:
		columns = []table.Column{
			{Title: "#", Width: 4},
			{Title: "Player", Width: 18},
			{Title: "Rank", Width: 18},
			{Title: "Credits", Width: 9},
			{Title: "Shifts", Width: 7},
			{Title: "Won", Width: 5},
		}
		if m.source != nil {
			careers, err := m.source.TopCareers(maxRecords)
			m.loadErr = err
			for i, c := range careers {
				rows = append(rows, table.Row{
					fmt.Sprintf("%d", i+1),
					c.Player,
					c.Rank,
					fmt.Sprintf("%d", c.TotalCredits),
					fmt.Sprintf("%d", c.TotalShifts),
					fmt.Sprintf("%d", c.SuccessfulShifts),
				})
			}
		}

	default:
		columns = []table.Column{
			{Title: "#", Width: 4},
			{Title: "Player", Width: 14},
			{Title: "Shift", Width: 9},
			{Title: "Core", Width: 11},
			{Title: "Outcome", Width: 14},
			{Title: "Survived", Width: 8},
			{Title: "Reward", Width: 7},
			{Title: "Date", Width: 12},
		}
		if m.source != nil {
			var (
				shifts []career.ShiftRecord
				err    error
			)
			if m.view == ViewMyShifts {
				shifts, err = m.source.RecentShifts(m.player, maxRecords)
			} else {
				shifts, err = m.source.TopShifts(maxRecords)
			}
			m.loadErr = err
			for i, s := range shifts {
				rows = append(rows, table.Row{
					fmt.Sprintf("%d", i+1),
					s.Player,
					s.ShiftType,
					s.ReactorType,
					string(s.Cause),
					formatClock(s.Survival),
					fmt.Sprintf("%d", s.Credited),
					s.CreatedAt.Format("Jan 02 15:04"),
				})
			}
		}
	}

	m.empty = len(rows) == 0

	height := m.height - tableMargins
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m.table = t
}

// Init initializes the records model.
func (m RecordsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the records screen.
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextView):
			m.view = (m.view + 1) % viewCount
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevView):
			m.view = (m.view + viewCount - 1) % viewCount
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.load()
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the records screen.
func (m RecordsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(centerText("SHIFT RECORDS", m.width)))
	b.WriteString("\n\n")

	activeTab := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)
	tabs := make([]string, viewCount)
	for v := RecordsView(0); v < viewCount; v++ {
		if v == m.view {
			tabs[v] = activeTab.Render(v.String())
		} else {
			tabs[v] = dimStyle.Render(" " + v.String() + " ")
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	var content string
	switch {
	case m.loadErr != nil:
		content = levelStyles[LevelCritical].Render("Could not load records: " + m.loadErr.Error())
	case m.source == nil:
		content = dimStyle.Italic(true).Padding(2, 4).Render("No records database available.")
	case m.empty:
		content = dimStyle.Italic(true).Padding(2, 4).Render("No shifts recorded yet.\nComplete a shift to set a record!")
	default:
		content = m.table.View()
	}
	b.WriteString(panelStyle.Render(content))

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// CurrentView returns the table on display.
func (m RecordsModel) CurrentView() RecordsView {
	return m.view
}

// IsGoingBack returns true if user wants to go back to menu.
func (m RecordsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m RecordsModel) IsQuitting() bool {
	return m.quitting
}
