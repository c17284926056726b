package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/routewatch/internal/poll"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	parts := []string{styles.Logo.Render("routewatch")}

	switch {
	case m.paused:
		parts = append(parts, styles.WarningText.Bold(true).Render("❚❚ PAUSED"))
	case m.listSnap.IsOffline():
		parts = append(parts, styles.DangerText.Render("● "+classifyConnectionError(m.listSnap.LastError)))
	case m.listSnap.HasValue:
		parts = append(parts, styles.SuccessText.Render("● LIVE"))
	default:
		parts = append(parts, styles.WarningText.Bold(true).Render("Connecting..."))
	}

	if m.listSnap.HasValue {
		parts = append(parts,
			styles.MutedText.Render("Routes:")+" "+
				styles.Text.Render(fmt.Sprintf("%d/%d", len(m.visible), len(m.listSnap.Value))))
	}
	if n := m.filters.EnabledCount(); n > 0 {
		parts = append(parts, styles.AccentText.Render(fmt.Sprintf("Filters: %d", n)))
	}
	if n := len(m.flags.Flagged()); n > 0 {
		parts = append(parts, styles.WarningText.Render(fmt.Sprintf("★ %d", n)))
	}
	if !m.listSnap.LastUpdated.IsZero() {
		parts = append(parts, styles.MutedText.Render(m.listSnap.LastUpdated.Format("15:04:05")))
	}
	if !m.focused && m.list != nil && m.list.State() == poll.StatePolling {
		parts = append(parts, styles.FaintText.Render("background"))
	}
	if m.apiURL != "" && m.width >= 100 {
		parts = append(parts, styles.FaintText.Render(truncateMiddle(m.apiURL, 40)))
	}
	if m.notice != "" {
		parts = append(parts, styles.WarningText.Render(truncate(m.notice, 40)))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the short key hints.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	type cmd struct{ key, desc string }
	var commands []cmd
	switch {
	case m.facets.open:
		commands = []cmd{{"j/k", "Navigate"}, {"space", "Toggle"}, {"x", "Clear"}, {"esc", "Close"}}
	case m.logs.open:
		commands = []cmd{{"r", "Reload"}, {"esc", "Close"}}
	case m.current == viewDetail:
		commands = []cmd{{"j/k", "Stops"}, {"f", "Flag"}, {"r", "Refresh"}, {"p", m.pauseLabel()}, {"esc", "Back"}, {"?", "More"}}
	default:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Details"},
			{"f", "Flag"},
			{"e", "Stops"},
			{"/", "Search"},
			{"F", "Filters"},
			{"p", m.pauseLabel()},
			{"?", "More"},
		}
	}

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, styles.AccentText.Render(c.key)+":"+styles.MutedText.Render(c.desc))
	}
	segments = append(segments, styles.AccentText.Render("T")+":"+styles.FaintText.Render(m.theme.Name))
	return styles.Header.Width(m.width).Render(strings.Join(segments, "  "))
}

func (m Model) pauseLabel() string {
	if m.paused {
		return "Resume"
	}
	return "Pause"
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	title := m.theme.Styles().Logo.Render("routewatch keys")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", h.View(m.keys), "", "press any key to close")
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// truncateMiddle keeps the start and end of s.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 5 {
		return s[:max]
	}
	endLen := (max - 3) * 2 / 3
	startLen := max - 3 - endLen
	return s[:startLen] + "..." + s[len(s)-endLen:]
}
