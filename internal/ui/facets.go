package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/routewatch/internal/filter"
)

// facetPanel is the overlay listing every facet value with a checkbox.
type facetPanel struct {
	open   bool
	cursor int
}

type facetEntry struct {
	name  filter.FacetName
	value string
}

func (m Model) facetEntries() []facetEntry {
	var entries []facetEntry
	for _, name := range filter.Names {
		for _, v := range m.filters.Domain(name) {
			entries = append(entries, facetEntry{name: name, value: v})
		}
	}
	return entries
}

func (m Model) handleFacetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.facetEntries()
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Facets):
		m.facets.open = false
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		if m.facets.cursor < len(entries)-1 {
			m.facets.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.facets.cursor > 0 {
			m.facets.cursor--
		}
	case key.Matches(msg, m.keys.ToggleFacet):
		if m.facets.cursor < len(entries) {
			e := entries[m.facets.cursor]
			if err := m.filters.Toggle(m.ctx, e.name, e.value); err != nil {
				m.logger.Warn("toggle filter", zap.String("facet", string(e.name)), zap.Error(err))
				m.notice = err.Error()
			}
			m.recompute()
		}
	case key.Matches(msg, m.keys.ResetFilters):
		if err := m.filters.Reset(m.ctx); err != nil {
			m.notice = err.Error()
		}
		m.search.SetValue("")
		m.recompute()
	}
	return m, nil
}

func (m Model) renderFacets() string {
	styles := m.theme.Styles()
	entries := m.facetEntries()

	lines := make([]string, 0, len(entries)+len(filter.Names))
	cursorLine := 0
	var last filter.FacetName
	for i, e := range entries {
		if e.name != last {
			lines = append(lines, styles.AccentText.Bold(true).Render(strings.ToUpper(string(e.name))))
			last = e.name
		}
		box := "[ ]"
		if m.filters.Enabled(e.name, e.value) {
			box = "[x]"
		}
		line := fmt.Sprintf("  %s %s", box, e.value)
		if i == m.facets.cursor {
			line = styles.Selected.Width(m.width).Render(line)
			cursorLine = len(lines)
		}
		lines = append(lines, line)
	}
	start, end := window(len(lines), cursorLine, m.contentHeight())
	return strings.Join(lines[start:end], "\n")
}
