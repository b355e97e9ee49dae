package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// LogLevel classifies a render log entry.
type LogLevel int

const (
	LogInfo LogLevel = iota
	LogSuccess
	LogWarning
	LogError
)

// LogEntry represents a single line in the render log.
type LogEntry struct {
	Time  time.Time
	Level LogLevel
	Text  string
}

// LogViewer manages the render log viewport state.
type LogViewer struct {
	entries    []LogEntry
	scrollPos  int  // Current scroll position (top line index)
	height     int  // Viewport height (lines)
	width      int  // Viewport width
	autoScroll bool // Auto-scroll to bottom when new content arrives
	maxEntries int
}

// defaultMaxEntries bounds the log so a long watch session doesn't grow forever.
const defaultMaxEntries = 500

// NewLogViewer creates a new log viewer.
func NewLogViewer() *LogViewer {
	return &LogViewer{
		autoScroll: true,
		maxEntries: defaultMaxEntries,
	}
}

// Add appends an entry, dropping the oldest once the log is full.
func (l *LogViewer) Add(level LogLevel, text string) {
	l.add(LogEntry{Time: time.Now(), Level: level, Text: text})
}

func (l *LogViewer) add(entry LogEntry) {
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}

	if l.autoScroll {
		l.scrollToBottom()
	} else if l.scrollPos > l.maxScrollPos() {
		l.scrollPos = l.maxScrollPos()
	}
}

// Entries returns the log entries, oldest first.
func (l *LogViewer) Entries() []LogEntry {
	return l.entries
}

// SetSize sets the viewport dimensions.
func (l *LogViewer) SetSize(width, height int) {
	l.width = width
	l.height = height
	if l.autoScroll || l.scrollPos > l.maxScrollPos() {
		l.scrollToBottom()
	}
}

// ScrollUp scrolls up by one line.
func (l *LogViewer) ScrollUp() {
	if l.scrollPos > 0 {
		l.scrollPos--
		l.autoScroll = false
	}
}

// ScrollDown scrolls down by one line.
func (l *LogViewer) ScrollDown() {
	maxScroll := l.maxScrollPos()
	if l.scrollPos < maxScroll {
		l.scrollPos++
	}
	// Re-enable auto-scroll if at bottom
	if l.scrollPos >= maxScroll {
		l.autoScroll = true
	}
}

// ScrollToTop scrolls to the top.
func (l *LogViewer) ScrollToTop() {
	l.scrollPos = 0
	l.autoScroll = l.maxScrollPos() == 0
}

// ScrollToBottom scrolls to the bottom and resumes following new entries.
func (l *LogViewer) ScrollToBottom() {
	l.scrollToBottom()
}

func (l *LogViewer) scrollToBottom() {
	l.scrollPos = l.maxScrollPos()
	l.autoScroll = true
}

// maxScrollPos returns the maximum scroll position.
func (l *LogViewer) maxScrollPos() int {
	return max(0, len(l.entries)-l.height)
}

// IsAutoScrolling reports whether the viewer follows new entries.
func (l *LogViewer) IsAutoScrolling() bool {
	return l.autoScroll
}

// Render renders the visible part of the log, one line per entry.
func (l *LogViewer) Render() string {
	if len(l.entries) == 0 {
		return mutedStyle.Render("Waiting for the first render...")
	}

	start, end := l.scrollPos, min(len(l.entries), l.scrollPos+l.height)
	if l.height <= 0 {
		start, end = 0, len(l.entries)
	}

	var b strings.Builder
	for i, e := range l.entries[start:end] {
		if i > 0 {
			b.WriteString("\n")
		}
		stamp := mutedStyle.Render(e.Time.Format("15:04:05"))
		text := e.Text
		if l.width > 0 {
			text = truncateWithEllipsis(text, l.width-9)
		}
		b.WriteString(stamp + " " + logStyle(e.Level).Render(text))
	}
	return b.String()
}

func logStyle(level LogLevel) lipgloss.Style {
	switch level {
	case LogSuccess:
		return logSuccessStyle
	case LogWarning:
		return logWarningStyle
	case LogError:
		return logErrorStyle
	default:
		return logInfoStyle
	}
}

// truncateWithEllipsis shortens text to maxLen runes, ending in "..." when
// there is room for it.
func truncateWithEllipsis(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
