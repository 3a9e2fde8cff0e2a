package tui

import (
	"charm.land/lipgloss/v2"
)

// Color palette (Catppuccin Mocha)
var (
	colorPrimary   = lipgloss.Color("#cba6f7") // Mauve
	colorSecondary = lipgloss.Color("#b4befe") // Lavender
	colorText      = lipgloss.Color("#cdd6f4") // Text
	colorBase      = lipgloss.Color("#1e1e2e") // Base
	colorSubtext0  = lipgloss.Color("#a6adc8") // Subtext0
	colorSubtext1  = lipgloss.Color("#bac2de") // Subtext1
	colorSurface0  = lipgloss.Color("#313244") // Surface0
	colorSurface2  = lipgloss.Color("#585b70") // Surface2
	colorSuccess   = lipgloss.Color("#a6e3a1") // Green
	colorWarning   = lipgloss.Color("#f9e2af") // Yellow
	colorError     = lipgloss.Color("#f38ba8") // Red
	colorAccent    = lipgloss.Color("#89b4fa") // Blue
)

var (
	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleSubtitle = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	styleStatLabel = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Bold(true)

	styleStatValue = lipgloss.NewStyle().
			Foreground(colorText)

	styleDim = lipgloss.NewStyle().
			Foreground(colorSurface2)

	styleError = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface2).
			Padding(1, 2)

	stylePanelFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorSecondary).
				Padding(1, 2)

	styleSelectedRow = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Background(colorSurface0).
				Bold(true)

	styleUserMsg = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	styleAssistantMsg = lipgloss.NewStyle().
				Foreground(colorText)

	styleSystemMsg = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Italic(true)

	styleVoiceTag = lipgloss.NewStyle().
			Foreground(colorWarning)
)

// Hint bar styles
var (
	styleHintKey = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Bold(true)

	styleHintDesc = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	styleHintSeparator = lipgloss.NewStyle().
				Foreground(colorSurface2)
)

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("↑↓", "navigate", "enter", "select", "q", "quit")
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	var result string
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			result += " " + styleHintSeparator.Render("•") + " "
		}
		result += styleHintKey.Render(pairs[i]) + " " + styleHintDesc.Render(pairs[i+1])
	}
	return result
}
