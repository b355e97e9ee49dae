package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ShortcutCategory represents a category of keyboard shortcuts.
type ShortcutCategory struct {
	Name      string
	Shortcuts []Shortcut
}

// Shortcut represents a single keyboard shortcut.
type Shortcut struct {
	Key         string
	Description string
}

// HelpOverlay manages the help overlay state.
type HelpOverlay struct {
	width  int
	height int
}

// NewHelpOverlay creates a new help overlay.
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{}
}

// SetSize sets the overlay dimensions.
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// GetCategories returns the shortcut categories shown in the overlay.
func (h *HelpOverlay) GetCategories() []ShortcutCategory {
	return []ShortcutCategory{
		{
			Name: "Render",
			Shortcuts: []Shortcut{
				{Key: "r", Description: "Render now"},
			},
		},
		{
			Name: "Log",
			Shortcuts: []Shortcut{
				{Key: "j / ↓", Description: "Scroll down"},
				{Key: "k / ↑", Description: "Scroll up"},
				{Key: "g", Description: "Go to top"},
				{Key: "G", Description: "Follow new entries"},
			},
		},
		{
			Name: "General",
			Shortcuts: []Shortcut{
				{Key: "?", Description: "Help overlay"},
				{Key: "Esc", Description: "Close overlay"},
				{Key: "q", Description: "Quit"},
				{Key: "Ctrl+C", Description: "Quit"},
			},
		},
	}
}

// Render renders the help overlay.
func (h *HelpOverlay) Render() string {
	modalWidth := max(40, min(60, h.width-10))

	var content strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		Padding(0, 1)
	content.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	content.WriteString("\n")
	content.WriteString(DividerStyle.Render(strings.Repeat("─", modalWidth-4)))
	content.WriteString("\n\n")

	for _, cat := range h.GetCategories() {
		h.renderCategory(&content, cat)
	}

	content.WriteString(DividerStyle.Render(strings.Repeat("─", modalWidth-4)))
	content.WriteString("\n")
	content.WriteString(footerStyle.Render("Press ? or Esc to close"))

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 2).
		Width(modalWidth)

	return h.centerModal(modalStyle.Render(content.String()))
}

// renderCategory renders a single category of shortcuts.
func (h *HelpOverlay) renderCategory(w *strings.Builder, cat ShortcutCategory) {
	w.WriteString(labelStyle.Render(cat.Name))
	w.WriteString("\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(TextBrightColor).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(TextColor)

	for _, shortcut := range cat.Shortcuts {
		key := keyStyle.Render(shortcut.Key)
		padding := max(1, 10-lipgloss.Width(key))

		w.WriteString("  ")
		w.WriteString(key)
		w.WriteString(strings.Repeat(" ", padding))
		w.WriteString(descStyle.Render(shortcut.Description))
		w.WriteString("\n")
	}
	w.WriteString("\n")
}

// centerModal centers the modal on the screen.
func (h *HelpOverlay) centerModal(modal string) string {
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, modal)
}
