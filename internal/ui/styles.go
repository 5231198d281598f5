package ui

import "github.com/charmbracelet/lipgloss"

// Color palette: a single lime accent.
const (
	ColorLime     = "154" // #AFFF00
	ColorLimeDim  = "106"
	ColorWhite    = "255"
	ColorGray     = "245"
	ColorDarkGray = "238"
	ColorRed      = "196"
	ColorYellow   = "220"
	ColorBlue     = "75"
	ColorCyan     = "80"
)

// Styles holds the lipgloss styles used by every ui component.
type Styles struct {
	Header   lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Dim      lipgloss.Style
	Active   lipgloss.Style
	Label    lipgloss.Style
	Panel    lipgloss.Style
	Border   lipgloss.Style
	Selected lipgloss.Style

	// Result tree
	Container lipgloss.Style
	Leaf      lipgloss.Style
	Icon      lipgloss.Style
	ID        lipgloss.Style

	// badges maps a label color to its style.
	badges map[string]lipgloss.Style
}

// DefaultStyles returns styled components for color terminals.
func DefaultStyles() Styles {
	badge := func(fg string) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(fg))
	}

	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Active:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Border:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)).Reverse(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorDarkGray)).
			Padding(0, 1),

		Container: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Leaf:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWhite)),
		Icon:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLimeDim)),
		ID:        lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),

		badges: map[string]lipgloss.Style{
			"default": badge(ColorGray),
			"primary": badge(ColorBlue),
			"success": badge(ColorLime),
			"info":    badge(ColorCyan),
			"warning": badge(ColorYellow),
			"danger":  badge(ColorRed),
		},
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:    plain,
		Success:   plain,
		Warning:   plain,
		Error:     plain,
		Dim:       plain,
		Active:    plain,
		Label:     plain,
		Border:    plain,
		Selected:  plain.Reverse(true),
		Panel:     plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
		Container: plain,
		Leaf:      plain,
		Icon:      plain,
		ID:        plain,
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}

// Badge renders a result label as "[text]" in the style for color.
// Unknown colors use the default badge.
func (s Styles) Badge(color, text string) string {
	st, ok := s.badges[color]
	if !ok {
		st, ok = s.badges["default"]
	}
	if !ok {
		return "[" + text + "]"
	}
	return st.Render("[" + text + "]")
}
