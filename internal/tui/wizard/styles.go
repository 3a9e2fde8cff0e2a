package wizard

import (
	"charm.land/lipgloss/v2"
)

// Color palette (Catppuccin Mocha)
var (
	colorPrimary       = lipgloss.Color("#cba6f7") // Mauve
	colorText          = lipgloss.Color("#cdd6f4") // Text
	colorBase          = lipgloss.Color("#1e1e2e") // Base
	colorSubtext0      = lipgloss.Color("#a6adc8") // Subtext0
	colorSubtext1      = lipgloss.Color("#bac2de") // Subtext1
	colorSurface0      = lipgloss.Color("#313244") // Surface0
	colorSurface2      = lipgloss.Color("#585b70") // Surface2
	colorSuccess       = lipgloss.Color("#a6e3a1") // Green
	colorError         = lipgloss.Color("#f38ba8") // Red
	colorBorderFocused = lipgloss.Color("#b4befe") // Lavender
)

var (
	styleFieldLabel = lipgloss.NewStyle().
			Foreground(colorSubtext1)

	styleFieldLabelFocused = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleFieldValue = lipgloss.NewStyle().
			Foreground(colorText)

	styleFieldError = lipgloss.NewStyle().
			Foreground(colorError)

	styleSelectedOption = lipgloss.NewStyle().
				Foreground(colorBase).
				Background(colorBorderFocused).
				Bold(true).
				Padding(0, 1)

	styleOption = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Padding(0, 1)

	styleCheckedOption = lipgloss.NewStyle().
				Foreground(colorSuccess)

	styleStepProgress = lipgloss.NewStyle().
				Foreground(colorSubtext0)
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
