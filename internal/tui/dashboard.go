package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/minicodemonkey/chime/internal/score"
	"github.com/minicodemonkey/chime/internal/synth"
)

const (
	// Layout constants
	minWidth       = 60
	scorePanelPct  = 50 // Score panel takes half the width
	topPanelsPct   = 60 // Score and render panels take 60% of the content height
	headerHeight   = 2
	footerHeight   = 2
	panelChrome    = 2 // border rows or columns around each panel
	minPanelHeight = 3
)

// renderDashboard renders the full dashboard view.
func (a *App) renderDashboard() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	topHeight := a.topHeight()
	scoreWidth := max(minWidth, a.width)*scorePanelPct/100 - panelChrome
	renderWidth := max(minWidth/2, a.width-scoreWidth-2*panelChrome)

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		a.renderScorePanel(scoreWidth, topHeight),
		a.renderResultPanel(renderWidth, topHeight),
	)
	logPanel := a.renderLogPanel(a.width-panelChrome, a.logHeight())

	return lipgloss.JoinVertical(lipgloss.Left, header, top, logPanel, footer)
}

// contentHeight is the height left between header and footer.
func (a *App) contentHeight() int {
	return a.height - headerHeight - footerHeight
}

// topHeight is the inner height of the score and render panels.
func (a *App) topHeight() int {
	return max(minPanelHeight, a.contentHeight()*topPanelsPct/100-panelChrome)
}

// logHeight is the inner height of the log panel, excluding its title.
func (a *App) logHeight() int {
	rest := a.contentHeight() - (a.topHeight() + panelChrome) - panelChrome - 1
	return max(1, rest)
}

// renderHeader renders the header with branding, state and render count.
func (a *App) renderHeader() string {
	brand := headerStyle.Render("chime")
	state := GetStateStyle(a.state).Render(fmt.Sprintf("[%s]", a.state.String()))

	renders := mutedStyle.Render(fmt.Sprintf("Renders: %d", a.renders))

	leftPart := lipgloss.JoinHorizontal(lipgloss.Center, brand, "  ", state)
	spacing := strings.Repeat(" ", max(0, a.width-lipgloss.Width(leftPart)-lipgloss.Width(renders)-2))
	headerLine := lipgloss.JoinHorizontal(lipgloss.Center, leftPart, spacing, renders)

	border := DividerStyle.Render(strings.Repeat("─", a.width))
	return lipgloss.JoinVertical(lipgloss.Left, headerLine, border)
}

// renderFooter renders the footer with keyboard shortcuts and the score name.
func (a *App) renderFooter() string {
	shortcuts := []string{
		"r: render",
		"↑/k ↓/j: scroll log",
		"?: help",
		"q: quit",
	}
	shortcutsStr := footerStyle.Render(strings.Join(shortcuts, "  │  "))
	scoreInfo := footerStyle.Render("Score: " + a.scoreName)

	spacing := strings.Repeat(" ", max(0, a.width-lipgloss.Width(shortcutsStr)-lipgloss.Width(scoreInfo)-2))
	footerLine := lipgloss.JoinHorizontal(lipgloss.Center, shortcutsStr, spacing, scoreInfo)

	border := DividerStyle.Render(strings.Repeat("─", a.width))
	return lipgloss.JoinVertical(lipgloss.Left, border, footerLine)
}

// renderScorePanel lists the events of the current score.
func (a *App) renderScorePanel(width, height int) string {
	var content strings.Builder

	title := a.scoreName
	if a.score != nil && a.score.Title != "" {
		title = a.score.Title
	}
	content.WriteString(labelStyle.Render("Score"))
	content.WriteString("  ")
	content.WriteString(titleStyle.Render(truncateWithEllipsis(title, width-9)))
	content.WriteString("\n")
	content.WriteString(DividerStyle.Render(strings.Repeat("─", max(0, width-2))))
	content.WriteString("\n")

	var events []score.Event
	if a.score != nil {
		events = a.score.Events
	}
	if len(events) == 0 {
		content.WriteString(mutedStyle.Render("No events"))
	}

	listHeight := height - 2
	for i, e := range events {
		if i >= listHeight-1 && len(events) > listHeight {
			content.WriteString(mutedStyle.Render(fmt.Sprintf("... and %d more", len(events)-i)))
			break
		}
		content.WriteString(truncateWithEllipsis(formatEvent(e), width-2))
		content.WriteString("\n")
	}

	return panelStyle.Width(width).Height(height).Render(strings.TrimRight(content.String(), "\n"))
}

// formatEvent renders one score event as a list line.
func formatEvent(e score.Event) string {
	icon := "?"
	if shape, err := synth.ParseWaveShape(e.Shape); err == nil {
		icon = GetShapeIcon(shape)
	}

	pitch := "A4"
	switch {
	case e.Note != "":
		pitch = e.Note
	case e.Pitch != nil:
		pitch = fmt.Sprintf("%+g", *e.Pitch)
	}

	return fmt.Sprintf("%s %-8s %6.2fs  %5.2fs  %s", icon, e.Shape, e.Start, e.Duration, pitch)
}

// renderResultPanel shows the last successful render, or the latest error.
func (a *App) renderResultPanel(width, height int) string {
	var content strings.Builder

	content.WriteString(labelStyle.Render("Last render"))
	content.WriteString("\n")
	content.WriteString(DividerStyle.Render(strings.Repeat("─", max(0, width-2))))
	content.WriteString("\n")

	if a.err != nil {
		content.WriteString(logErrorStyle.Render(wrapText(a.err.Error(), width-2)))
		content.WriteString("\n\n")
	}

	r := a.last
	if r == nil {
		if a.err == nil {
			content.WriteString(mutedStyle.Render("Rendering..."))
		}
		return panelStyle.Width(width).Height(height).Render(strings.TrimRight(content.String(), "\n"))
	}

	rows := [][2]string{
		{"Output", r.OutputPath},
		{"Length", formatDuration(r.Duration)},
		{"Sample rate", fmt.Sprintf("%d Hz", r.SampleRate)},
		{"Samples", humanize.Comma(int64(r.Samples))},
		{"Size", humanize.Bytes(uint64(r.Bytes))},
		{"Peak", fmt.Sprintf("%.3f", r.Peak)},
	}
	for _, row := range rows {
		label := mutedStyle.Render(fmt.Sprintf("%-12s", row[0]))
		content.WriteString(label + truncateWithEllipsis(row[1], width-14))
		content.WriteString("\n")
	}
	if r.Clipped > 0 {
		content.WriteString(logWarningStyle.Render(fmt.Sprintf("%s samples outside [-1, 1]", humanize.Comma(int64(r.Clipped)))))
	}

	return panelStyle.Width(width).Height(height).Render(strings.TrimRight(content.String(), "\n"))
}

// renderLogPanel renders the render log.
func (a *App) renderLogPanel(width, height int) string {
	title := labelStyle.Render("Log")
	if !a.log.IsAutoScrolling() {
		title += mutedStyle.Render("  (scrolled, G to follow)")
	}
	return panelStyle.Width(width).Height(height + 1).Render(title + "\n" + a.log.Render())
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0 seconds"
	}
	return durafmt.Parse(d).LimitFirstN(2).String()
}

// wrapText wraps text to fit within a given width.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(text) {
		wordLen := len([]rune(word))
		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}
		if lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}
		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
