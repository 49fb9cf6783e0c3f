package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/deep-stoker/internal/core"
	"github.com/vovakirdan/deep-stoker/internal/reactor"
)

// Level classifies a metric reading for colouring.
type Level int

const (
	LevelNominal Level = iota
	LevelElevated
	LevelCritical
)

// Thresholds match the engine: purge is offered above 85, damage starts above 90.
const (
	elevatedAbove = 60.0
	criticalAbove = 85.0
)

// LevelOf returns the display level of a metric value.
func LevelOf(v float64) Level {
	switch {
	case v > criticalAbove:
		return LevelCritical
	case v > elevatedAbove:
		return LevelElevated
	default:
		return LevelNominal
	}
}

// levelStyles maps a Level to its lipgloss style.
var levelStyles = map[Level]lipgloss.Style{
	LevelNominal:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	LevelElevated: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	LevelCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	bandStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	jammedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("124")).
			Padding(0, 1)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	flashStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
)

// sliderLabels name the sliders in reactor.Controls order.
var sliderLabels = [...]string{"VENT", "COOLANT", "MAGNETICS"}

// metricLabels name the gauges in reactor.Metrics order.
var metricLabels = [...]string{"TEMPERATURE", "PRESSURE", "CONTAINMENT"}

// Gauge renders a horizontal bar for a value in [0,100].
func Gauge(v float64, width int) string {
	if width < 1 {
		width = 1
	}
	v = core.ClampF(v, 0, 100)
	filled := int(math.Round(v / 100 * float64(width)))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return levelStyles[LevelOf(v)].Render(bar)
}

// ProgressBar renders a neutral bar for a percentage.
func ProgressBar(pct float64, width int) string {
	if width < 1 {
		width = 1
	}
	filled := int(math.Round(core.ClampF(pct, 0, 100) / 100 * float64(width)))
	return bandStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

// SliderTrack renders a slider position over its track with the optimal
// band highlighted.
func SliderTrack(v float64, band core.Band, width int) string {
	if width < 2 {
		width = 2
	}
	pos := int(math.Round(core.ClampF(v, 0, 100) / 100 * float64(width-1)))

	var b strings.Builder
	for i := 0; i < width; i++ {
		cell := float64(i) / float64(width-1) * 100
		switch {
		case i == pos:
			b.WriteString(titleStyle.Render("◆"))
		case band.Contains(cell):
			b.WriteString(bandStyle.Render("═"))
		default:
			b.WriteString(dimStyle.Render("─"))
		}
	}
	return b.String()
}

// DriftStatus describes a drift multiplier the way the console labels it.
func DriftStatus(mult float64) string {
	switch {
	case mult > 1.05:
		return "ACCELERATING"
	case mult > 1.0:
		return "STABILIZING"
	default:
		return "NOMINAL"
	}
}

// HazardBanner returns the warning line for active hazards, or "".
func HazardBanner(h reactor.HazardState) string {
	var parts []string
	if h.TrenchLightning {
		parts = append(parts, "TRENCH LIGHTNING")
	}
	if h.HeavyCurrent {
		parts = append(parts, "HEAVY CURRENT")
	}
	if h.DeepSeaEntity {
		parts = append(parts, "DEEP-SEA ENTITY")
	}
	if c, ok := h.Jammed(); ok {
		parts = append(parts, sliderLabels[c]+" SLIDER JAMMED")
	}
	if len(parts) == 0 {
		return ""
	}
	return bannerStyle.Render("⚠ " + strings.Join(parts, " · "))
}

// Distortion is the share of the viewport lost to visual hazards.
// Each Reinforced Glass layer removes 30%, up to 80%.
func Distortion(glass int) float64 {
	return 1 - math.Min(0.8, float64(glass)*0.3)
}

// formatClock renders seconds as m:ss.
func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(math.Ceil(seconds))
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
