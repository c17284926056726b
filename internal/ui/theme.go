package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/routewatch/internal/route"
)

// Theme defines colors for the console.
type Theme struct {
	Name string

	Background string
	Surface    string
	SurfaceAlt string

	SelectionBg   string
	SelectionText string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	StatusColors      map[route.Status]string
	CriticalityColors map[route.Criticality]string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	theme Theme
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		theme: t,
	}
}

// StatusStyle returns a badge style for the given route status.
func (s Styles) StatusStyle(status route.Status) lipgloss.Style {
	color := s.theme.StatusColors[status]
	if color == "" {
		color = s.theme.Muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.theme.Background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// CriticalityStyle returns a text style for the given criticality.
func (s Styles) CriticalityStyle(c route.Criticality) lipgloss.Style {
	color := s.theme.CriticalityColors[c]
	if color == "" {
		color = s.theme.Faint
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

var themes = map[string]Theme{
	"Dracula":  draculaTheme(),
	"Daylight": daylightTheme(),
}

var themeOrder = []string{"Dracula", "Daylight"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return draculaTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

func draculaTheme() Theme {
	// https://draculatheme.com/spec
	return Theme{
		Name: "Dracula",

		Background: "#191A21",
		Surface:    "#282A36",
		SurfaceAlt: "#21222C",

		SelectionBg:   "#44475A",
		SelectionText: "#F8F8F2",

		Text:    "#F8F8F2",
		Muted:   "#6272A4",
		Faint:   "#44475A",
		Accent:  "#BD93F9",
		Success: "#50FA7B",
		Warning: "#FFB86C",
		Danger:  "#FF5555",
		Info:    "#8BE9FD",

		StatusColors: map[route.Status]string{
			route.StatusInProgress:  "#8BE9FD", // Cyan (active)
			route.StatusNotStarted:  "#BD93F9", // Purple
			route.StatusNotApproved: "#FFB86C", // Orange (attention)
			route.StatusRequested:   "#F1FA8C", // Yellow
			route.StatusCompleted:   "#50FA7B", // Green (success)
			route.StatusCancelled:   "#6272A4", // Comment (muted)
		},
		CriticalityColors: map[route.Criticality]string{
			route.CriticalityHigh:   "#FF5555",
			route.CriticalityMedium: "#FFB86C",
			route.CriticalityLow:    "#6272A4",
		},
	}
}

func daylightTheme() Theme {
	// Solarized Light, for bright terminals and shared screens in the depot.
	return Theme{
		Name: "Daylight",

		Background: "#FDF6E3",
		Surface:    "#EEE8D5",
		SurfaceAlt: "#E4DDC8",

		SelectionBg:   "#268BD2",
		SelectionText: "#FDF6E3",

		Text:    "#073642",
		Muted:   "#657B83",
		Faint:   "#93A1A1",
		Accent:  "#6C71C4",
		Success: "#859900",
		Warning: "#B58900",
		Danger:  "#DC322F",
		Info:    "#2AA198",

		StatusColors: map[route.Status]string{
			route.StatusInProgress:  "#268BD2",
			route.StatusNotStarted:  "#6C71C4",
			route.StatusNotApproved: "#CB4B16",
			route.StatusRequested:   "#B58900",
			route.StatusCompleted:   "#859900",
			route.StatusCancelled:   "#93A1A1",
		},
		CriticalityColors: map[route.Criticality]string{
			route.CriticalityHigh:   "#DC322F",
			route.CriticalityMedium: "#CB4B16",
			route.CriticalityLow:    "#93A1A1",
		},
	}
}
