package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/routewatch/internal/poll"
	"github.com/five82/routewatch/internal/route"
)

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeDetails()
		return m, nil
	case key.Matches(msg, m.keys.Flag):
		m.flags.Toggle(m.detail.id)
		m.recompute()
		return m, nil
	}

	r, ok := m.detailRoute()
	if !ok || len(r.Stops) == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveStop(r, 1)
	case key.Matches(msg, m.keys.Up):
		m.moveStop(r, -1)
	case key.Matches(msg, m.keys.Top):
		m.sel.SelectStop(r.Stops[0].ID)
	case key.Matches(msg, m.keys.Bottom):
		m.sel.SelectStop(r.Stops[len(r.Stops)-1].ID)
	}
	return m, nil
}

// closeDetails stops the details scheduler; a fetch still in flight is
// discarded when it lands.
func (m *Model) closeDetails() {
	if m.detail != nil {
		m.detail.cancelPending()
		m.detail.poller.Stop(true)
		m.detail = nil
	}
	m.current = viewList
	m.readSnapshots()
}

// cancelPending aborts a delayed start that has not fired yet.
func (d *detailSession) cancelPending() {
	if d.task != nil {
		d.task.Cancel()
		d.task = nil
	}
}

// detailRoute prefers the details snapshot and falls back to the list entry
// while details are loading.
func (m Model) detailRoute() (route.Route, bool) {
	if m.detail == nil {
		return route.Route{}, false
	}
	if m.detail.snap.HasValue {
		return m.detail.snap.Value, true
	}
	for _, r := range m.listSnap.Value {
		if r.ID == m.detail.id {
			return r, true
		}
	}
	return route.Route{}, false
}

func (m *Model) moveStop(r route.Route, delta int) {
	idx := -1
	current := m.sel.StopID()
	for i, s := range r.Stops {
		if s.ID == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = 0
	} else {
		idx = max(0, min(idx+delta, len(r.Stops)-1))
	}
	m.sel.SelectStop(r.Stops[idx].ID)
}

func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	d := m.detail
	if d == nil {
		return ""
	}

	r, ok := m.detailRoute()
	switch {
	case d.err != nil && !d.snap.HasValue:
		return styles.DangerText.Render(errorText(d.err, "route "+d.slug)) + "\n" +
			styles.MutedText.Render("press r to retry, esc to go back")
	case !ok:
		return m.spinner.View() + " " + styles.MutedText.Render("Loading route "+d.slug+"...")
	}

	var b strings.Builder
	title := r.Reference
	if m.flags.IsFlagged(r.ID) {
		title = "★ " + title
	}
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("  ")
	b.WriteString(styles.StatusStyle(r.Status).Render(string(r.Status)))
	if d.loading {
		b.WriteString("  " + m.spinner.View())
	}
	if d.poller.State() == poll.StateHalted {
		b.WriteString("  " + styles.MutedText.Render("final"))
	}
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-14s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	field("Slug", r.Slug)
	field("Criticality", string(r.Criticality))
	field("Vehicle", r.VehicleType)
	field("Product", r.Product)
	if r.Driver != nil {
		field("Driver", strings.TrimSpace(r.Driver.Name+" "+r.Driver.Phone))
	} else {
		field("Driver", "")
	}
	field("Planned start", formatTime(r.PlannedStart))
	field("Completed", formatTime(r.CompletedAt))
	field("Updated", formatTime(r.UpdatedAt))
	field("Stops", fmt.Sprintf("%d/%d done", r.CompletedStops(), len(r.Stops)))
	if d.snap.IsOffline() {
		b.WriteString(styles.WarningText.Render("details offline, showing last data"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	selectedStop := m.sel.StopID()
	for _, s := range r.Stops {
		line := fmt.Sprintf("  %-10s %-8s %s", s.Status, formatClock(s.ArrivedAt), truncate(s.Address, 60))
		if s.ID == selectedStop {
			line = styles.Selected.Width(m.width).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatClock(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.Local().Format("15:04")
}
