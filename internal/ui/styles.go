// Package ui decides how console output is styled.
package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
const (
	ColorLime   = "154" // Primary accent (#AFFF00)
	ColorGray   = "245" // Secondary text, labels
	ColorRed    = "196" // Failures
	ColorYellow = "220" // Informational verdicts
)

// Styles holds the styles used by report rendering.
type Styles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Label   lipgloss.Style
}

// DefaultStyles returns coloured styles for terminals.
func DefaultStyles() Styles {
	return Styles{
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorRed)),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Label:   lipgloss.NewStyle(),
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
