// Package tui provides the terminal user interface for chime watch.
// It includes the Bubble Tea application that re-renders a score on every
// save, the dashboard view, the render log, the help overlay, and styling.
package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/minicodemonkey/chime/internal/synth"
)

// Color palette - consistent colors used throughout the TUI
var (
	PrimaryColor = lipgloss.Color("#00D7FF") // Cyan - brand, rendering
	SuccessColor = lipgloss.Color("#5AF78E") // Green - rendered
	WarningColor = lipgloss.Color("#F3F99D") // Yellow - clipping
	ErrorColor   = lipgloss.Color("#FF5C57") // Red - errors
	MutedColor   = lipgloss.Color("#6C7086") // Gray - muted text
	BorderColor  = lipgloss.Color("#45475A") // Dark gray - borders, dividers

	TextColor       = lipgloss.Color("#CDD6F4")
	TextBrightColor = lipgloss.Color("#FFFFFF")
)

// Header and footer styles
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)
)

// Panel styles
var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor)

	mutedStyle = lipgloss.NewStyle().Foreground(MutedColor)

	DividerStyle = lipgloss.NewStyle().
			Foreground(BorderColor)
)

// State badge styles
var (
	StateReadyStyle     = lipgloss.NewStyle().Bold(true).Foreground(MutedColor)
	StateRenderingStyle = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	StateRenderedStyle  = lipgloss.NewStyle().Bold(true).Foreground(SuccessColor)
	StateErrorStyle     = lipgloss.NewStyle().Bold(true).Foreground(ErrorColor)
)

// Log line styles
var (
	logInfoStyle    = lipgloss.NewStyle().Foreground(TextColor)
	logSuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	logWarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	logErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
)

// Shape icons
const (
	IconSquare   = "⊓"
	IconSawtooth = "⩘"
	IconTriangle = "∧"
)

// GetShapeIcon returns the icon drawn next to events of the given shape.
func GetShapeIcon(shape synth.WaveShape) string {
	switch shape {
	case synth.Square:
		return IconSquare
	case synth.Sawtooth:
		return IconSawtooth
	case synth.Triangle:
		return IconTriangle
	default:
		return "?"
	}
}

// GetStateStyle returns the appropriate style for an app state.
func GetStateStyle(state AppState) lipgloss.Style {
	switch state {
	case StateRendering:
		return StateRenderingStyle
	case StateRendered:
		return StateRenderedStyle
	case StateError:
		return StateErrorStyle
	default:
		return StateReadyStyle
	}
}
