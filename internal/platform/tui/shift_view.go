package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/deep-stoker/internal/career"
	"github.com/vovakirdan/deep-stoker/internal/reactor"
)

const (
	gaugeWidth  = 30
	sliderWidth = 30
)

// View renders the console, or the summary once the shift has ended.
func (m ShiftModel) View() string {
	if m.quitting {
		return ""
	}
	if m.result != nil {
		return m.viewSummary()
	}

	var b strings.Builder
	s := m.snap

	header := fmt.Sprintf("%s · %s · %s", m.opts.Core.Title, m.opts.Preset.Title, s.Rank)
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("T-%s  survived %s  hull %3.0f%%",
		formatClock(s.Remaining()), formatClock(s.SurvivalTime), s.HullIntegrity))
	if s.IsPaused {
		b.WriteString("  " + flashStyle.Render("[PAUSED]"))
	}
	b.WriteString("\n\n")

	if banner := HazardBanner(s.Hazards); banner != "" {
		b.WriteString(banner)
		if s.Hazards.TrenchLightning || s.Hazards.DeepSeaEntity {
			glass := m.profile.Count(career.UpgradeReinforcedGlass)
			b.WriteString(dimStyle.Render(fmt.Sprintf("  viewport distortion %.0f%%", Distortion(glass)*100)))
		}
		b.WriteString("\n\n")
	}

	for i, metric := range reactor.Metrics {
		v := s.Metric(metric)
		drift := s.Drift.Get(metric)
		line := fmt.Sprintf("%-12s %s %5.1f  drift %3.0f%% %-12s",
			metricLabels[i], Gauge(v, gaugeWidth), v, drift*100, DriftStatus(drift))
		if t := s.CriticalTimers.Get(metric); t > 0 {
			line += levelStyles[LevelCritical].Render(fmt.Sprintf(" CRITICAL %.0fs", t))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	jammed, isJammed := s.Hazards.Jammed()
	for i, c := range reactor.Controls {
		label := fmt.Sprintf("%-12s", sliderLabels[i])
		track := SliderTrack(m.sliders[i], m.band(i), sliderWidth)
		status := ""
		switch {
		case isJammed && jammed == c:
			status = jammedStyle.Render("JAMMED")
		case s.Alignment.Get(c.Metric()):
			status = bandStyle.Render("ALIGNED")
		}
		b.WriteString(fmt.Sprintf("%s %s %3.0f  %s\n", label, track, m.sliders[i], status))
	}
	b.WriteString("\n")

	if s.ShowPurge {
		b.WriteString(levelStyles[LevelCritical].Render("EMERGENCY PURGE AVAILABLE: press x (costs 15% hull)"))
		b.WriteString("\n")
	}
	if m.flash != "" {
		b.WriteString(flashStyle.Render(m.flash))
	}
	b.WriteString("\n")

	b.WriteString(panelStyle.Render(m.viewLog()))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// viewLog renders the event log, newest last.
func (m ShiftModel) viewLog() string {
	if len(m.snap.Logs) == 0 {
		return dimStyle.Render("no events")
	}
	lines := make([]string, len(m.snap.Logs))
	for i, e := range m.snap.Logs {
		lines[i] = fmt.Sprintf("%s  %s", dimStyle.Render(e.Timestamp), e.Message)
	}
	return strings.Join(lines, "\n")
}

// viewSummary renders the end-of-shift report.
func (m ShiftModel) viewSummary() string {
	r := m.result
	st := m.settlement
	s := r.Snapshot

	var b strings.Builder
	if r.Success {
		b.WriteString(levelStyles[LevelNominal].Bold(true).Render("SHIFT COMPLETE"))
	} else {
		b.WriteString(levelStyles[LevelCritical].Render("SHIFT FAILED: " + string(r.Cause)))
	}
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Survival", formatClock(s.SurvivalTime)},
		{"Final temperature", fmt.Sprintf("%.1f", s.Temperature)},
		{"Final pressure", fmt.Sprintf("%.1f", s.Pressure)},
		{"Final containment", fmt.Sprintf("%.1f", s.Containment)},
		{"Hull integrity", fmt.Sprintf("%.0f%%", s.HullIntegrity)},
		{"", ""},
		{"Base credits", fmt.Sprintf("%d", st.Reward.BaseCredits)},
		{"Danger multiplier", fmt.Sprintf("x%.1f", st.Reward.DangerMultiplier)},
		{"Rank bonus", fmt.Sprintf("x%.2f", st.Reward.RankBonus)},
		{"Difficulty", fmt.Sprintf("x%.1f", st.Reward.DifficultyMult)},
		{"Survival bonus", fmt.Sprintf("+%d", st.Reward.SurvivalBonus)},
		{"Reward", fmt.Sprintf("%d", st.Reward.Total)},
	}
	if st.Penalized {
		rows = append(rows, [2]string{"Failure penalty", "x0.5"})
	}
	rows = append(rows, [2]string{"Credited", fmt.Sprintf("%d", st.Credited)})

	var table strings.Builder
	for _, row := range rows {
		if row[0] == "" {
			table.WriteString("\n")
			continue
		}
		table.WriteString(fmt.Sprintf("%-18s %10s\n", row[0], row[1]))
	}
	b.WriteString(panelStyle.Render(strings.TrimRight(table.String(), "\n")))
	b.WriteString("\n\n")

	if st.Promoted {
		b.WriteString(titleStyle.Render(fmt.Sprintf("PROMOTED: %s → %s", st.OldRank, st.NewRank)))
		b.WriteString("\n")
	}

	progress := career.Progress(m.profile.TotalCredits)
	b.WriteString(fmt.Sprintf("Rank %s · %d depth credits", m.profile.Rank, m.profile.DepthCredits))
	if progress.Next != "" {
		b.WriteString(fmt.Sprintf(" · %d to %s", progress.CreditsToNext, progress.Next))
	}
	b.WriteString("\n")
	if m.profile.Hull < career.FullHull {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Hull repair costs %d credits", career.RepairCost(m.profile))))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(levelStyles[LevelCritical].Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("r: new shift  |  b: back  |  ctrl+c: quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
