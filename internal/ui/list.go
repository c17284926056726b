package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/routewatch/internal/route"
	"github.com/five82/routewatch/internal/state"
)

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Facets):
		m.facets.open = true
		return m, nil
	case key.Matches(msg, m.keys.ResetFilters):
		if err := m.filters.Reset(m.ctx); err != nil {
			m.notice = err.Error()
		}
		m.search.SetValue("")
		m.recompute()
		return m, nil
	}

	if len(m.visible) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Top):
		m.sel.SelectRoute(m.visible[0].ID)
	case key.Matches(msg, m.keys.Bottom):
		m.sel.SelectRoute(m.visible[len(m.visible)-1].ID)
	case key.Matches(msg, m.keys.Flag):
		if r, ok := m.selectedRoute(); ok {
			m.flags.Toggle(r.ID)
			m.recompute()
		}
	case key.Matches(msg, m.keys.Expand):
		if r, ok := m.selectedRoute(); ok {
			state.EditClientState(m.routes, r.ID, func(c *route.ClientState) { c.Expanded = !c.Expanded })
			m.readSnapshots()
		}
	case key.Matches(msg, m.keys.Open):
		cmd := m.openDetails()
		return m, cmd
	}
	return m, nil
}

// cursor is the index of the selected route in the visible list, or -1
// when the selection is hidden or unset.
func (m Model) cursor() int {
	id := m.sel.RouteID()
	if id == "" {
		return -1
	}
	for i, r := range m.visible {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) moveCursor(delta int) {
	idx := m.cursor()
	if idx < 0 {
		idx = 0
	} else {
		idx = max(0, min(idx+delta, len(m.visible)-1))
	}
	m.sel.SelectRoute(m.visible[idx].ID)
}

func (m Model) selectedRoute() (route.Route, bool) {
	return m.sel.Route(m.visible)
}

func (m *Model) openDetails() tea.Cmd {
	r, ok := m.selectedRoute()
	if !ok || m.details == nil {
		return nil
	}
	poller, store := m.details(r.Slug)
	poller.SetFocused(m.focused)
	state.EditClientState(m.routes, r.ID, func(c *route.ClientState) { c.Pending = "loading details" })
	m.detail = &detailSession{
		id:      r.ID,
		slug:    r.Slug,
		poller:  poller,
		store:   store,
		loading: true,
	}
	m.current = viewDetail
	m.readSnapshots()
	task := poller.StartAfter(m.ctx, m.delay)
	m.detail.task = task
	return awaitDetailCmd(poller, task)
}

func (m Model) renderList() string {
	styles := m.theme.Styles()

	var b strings.Builder
	if m.search.Focused() || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	switch {
	case !m.listSnap.HasValue && m.listErr != nil:
		b.WriteString(styles.DangerText.Render(errorText(m.listErr, "route list")))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("press r to retry"))
		return b.String()
	case !m.listSnap.HasValue:
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Loading routes..."))
		return b.String()
	case len(m.visible) == 0:
		b.WriteString(styles.MutedText.Render("No routes match the current filters"))
		return b.String()
	}

	rows := m.listRows(styles)
	cursorLine := 0
	for i, row := range rows {
		if row.selected {
			cursorLine = i
			break
		}
	}
	start, end := window(len(rows), cursorLine, m.contentHeight())
	for _, row := range rows[start:end] {
		b.WriteString(row.text)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type listRow struct {
	text     string
	selected bool
}

func (m Model) listRows(styles Styles) []listRow {
	selectedID := m.sel.RouteID()
	rows := make([]listRow, 0, len(m.visible))
	for _, r := range m.visible {
		selected := r.ID == selectedID
		line := m.formatRoute(r, styles)
		if selected {
			line = styles.Selected.Width(m.width).Render(line)
		}
		rows = append(rows, listRow{text: line, selected: selected})
		if r.Client.Expanded {
			for _, s := range r.Stops {
				rows = append(rows, listRow{text: styles.FaintText.Render(
					fmt.Sprintf("      %-10s %s", s.Status, truncate(s.Address, 60)))})
			}
		}
	}
	return rows
}

func (m Model) formatRoute(r route.Route, styles Styles) string {
	flag := "  "
	if m.flags.IsFlagged(r.ID) {
		flag = styles.WarningText.Render("★ ")
	}
	driver := "-"
	if r.Driver != nil && r.Driver.Name != "" {
		driver = r.Driver.Name
	}
	crit := string(r.Criticality)
	if crit == "" {
		crit = "-"
	}
	parts := []string{
		flag + fmt.Sprintf("%-16s", truncate(r.Reference, 16)),
		styles.StatusStyle(r.Status).Render(fmt.Sprintf("%-12s", r.Status)),
		styles.CriticalityStyle(r.Criticality).Render(fmt.Sprintf("%-6s", crit)),
		fmt.Sprintf("%-6s", r.VehicleType),
		fmt.Sprintf("%-9s", r.Product),
		fmt.Sprintf("%-18s", truncate(driver, 18)),
		fmt.Sprintf("%d/%d", r.CompletedStops(), len(r.Stops)),
	}
	if r.Client.Pending != "" {
		parts = append(parts, styles.AccentText.Render(r.Client.Pending))
	}
	return strings.Join(parts, " ")
}

func (m Model) contentHeight() int {
	h := m.height - 3
	if m.search.Focused() || m.search.Value() != "" {
		h--
	}
	if h < 1 {
		return 1
	}
	return h
}

// window returns the slice bounds of a height-line window over n lines
// that keeps line cursor visible.
func window(n, cursor, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
