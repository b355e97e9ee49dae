package tui

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/minicodemonkey/chime/internal/cmd"
	"github.com/minicodemonkey/chime/internal/score"
)

// ScoreUpdateMsg is sent when the score file changes.
type ScoreUpdateMsg struct {
	Score *score.Score
	Error error
}

// RenderFinishedMsg is sent when a render completes, successfully or not.
type RenderFinishedMsg struct {
	Result *cmd.RenderResult
	Err    error
}

// AppState represents the current state of the application.
type AppState int

const (
	StateReady AppState = iota
	StateRendering
	StateRendered
	StateError
)

func (s AppState) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateRendering:
		return "Rendering"
	case StateRendered:
		return "Rendered"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Notifier is told about every successful render.
type Notifier interface {
	PlayCompletion()
}

// App is the Bubble Tea model for chime watch.
type App struct {
	opts      cmd.RenderOptions
	scoreName string
	score     *score.Score
	state     AppState
	renders   int
	last      *cmd.RenderResult
	err       error
	width     int
	height    int

	// A save arrived while a render was running; render again when it ends.
	pending bool

	log      *LogViewer
	help     *HelpOverlay
	showHelp bool

	// File watching
	watcher *score.Watcher

	notifier Notifier
}

// NewApp creates a new App that renders opts.ScorePath whenever it changes.
// The score must exist; it may be invalid, in which case the first render
// reports the problem.
func NewApp(opts cmd.RenderOptions) (*App, error) {
	s, err := score.Load(opts.ScorePath)
	if err != nil {
		return nil, err
	}

	watcher, err := score.NewWatcher(opts.ScorePath)
	if err != nil {
		return nil, err
	}

	return &App{
		opts:      opts,
		scoreName: filepath.Base(opts.ScorePath),
		score:     s,
		state:     StateRendering,
		log:       NewLogViewer(),
		help:      NewHelpOverlay(),
		watcher:   watcher,
	}, nil
}

// SetNotifier sets what is notified after each successful render.
func (a *App) SetNotifier(n Notifier) {
	a.notifier = n
}

// Init starts the watcher and the first render.
func (a App) Init() tea.Cmd {
	if a.watcher != nil {
		if err := a.watcher.Start(); err != nil {
			a.log.Add(LogWarning, "Warning: file watcher failed to start: "+err.Error())
		}
	}
	a.log.Add(LogInfo, "Watching "+a.opts.ScorePath)

	return tea.Batch(
		a.renderScore(),
		a.listenForScoreChanges(),
	)
}

// Update handles messages and updates the model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.SetSize(msg.Width, msg.Height)
		a.log.SetSize(a.width-4, a.logHeight())
		return a, nil

	case ScoreUpdateMsg:
		return a.handleScoreUpdate(msg)

	case RenderFinishedMsg:
		return a.handleRenderFinished(msg)

	case tea.KeyMsg:
		if a.showHelp {
			switch msg.String() {
			case "?", "esc":
				a.showHelp = false
			case "q", "ctrl+c":
				a.stopWatcher()
				return a, tea.Quit
			}
			return a, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			a.stopWatcher()
			return a, tea.Quit
		case "r":
			a.log.Add(LogInfo, "Render requested")
			return a.startRender()
		case "?":
			a.showHelp = true

		// Log scrolling
		case "up", "k":
			a.log.ScrollUp()
		case "down", "j":
			a.log.ScrollDown()
		case "g":
			a.log.ScrollToTop()
		case "G":
			a.log.ScrollToBottom()
		}
	}

	return a, nil
}

// View renders the TUI.
func (a App) View() string {
	if a.showHelp {
		return a.help.Render()
	}
	return a.renderDashboard()
}

// startRender begins a render, or queues one if a render is running.
func (a App) startRender() (tea.Model, tea.Cmd) {
	if a.state == StateRendering {
		a.pending = true
		return a, nil
	}
	a.state = StateRendering
	return a, a.renderScore()
}

// renderScore renders the score in a goroutine and reports the result.
func (a *App) renderScore() tea.Cmd {
	opts := a.opts
	return func() tea.Msg {
		result, err := cmd.RenderScore(opts)
		return RenderFinishedMsg{Result: result, Err: err}
	}
}

// handleRenderFinished records the outcome of a render.
func (a App) handleRenderFinished(msg RenderFinishedMsg) (tea.Model, tea.Cmd) {
	a.renders++

	if msg.Err != nil {
		a.state = StateError
		a.err = msg.Err
		a.log.Add(LogError, "Error: "+msg.Err.Error())
	} else {
		a.state = StateRendered
		a.err = nil
		a.last = msg.Result
		a.log.Add(LogSuccess, msg.Result.Summary())
		if a.notifier != nil {
			a.notifier.PlayCompletion()
		}
		if msg.Result.Clipped > 0 {
			a.log.Add(LogWarning, fmt.Sprintf("Warning: %d samples exceed [-1, 1] (peak %.3f)", msg.Result.Clipped, msg.Result.Peak))
		}
	}

	if a.pending {
		a.pending = false
		a.state = StateRendering
		return a, a.renderScore()
	}
	return a, nil
}

// listenForScoreChanges listens for score file changes and returns them as messages.
func (a *App) listenForScoreChanges() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-a.watcher.Events()
		if !ok {
			return nil
		}
		return ScoreUpdateMsg{Score: event.Score, Error: event.Error}
	}
}

// handleScoreUpdate handles score file change events.
func (a App) handleScoreUpdate(msg ScoreUpdateMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		// Could be a half-written save; keep watching
		a.log.Add(LogError, "Score file error: "+msg.Error.Error())
		return a, a.listenForScoreChanges()
	}
	if msg.Score == nil {
		return a, a.listenForScoreChanges()
	}

	a.score = msg.Score
	a.log.Add(LogInfo, "Score changed")

	model, render := a.startRender()
	return model, tea.Batch(render, a.listenForScoreChanges())
}

// stopWatcher stops the file watcher.
func (a *App) stopWatcher() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
}

// GetState returns the current app state.
func (a *App) GetState() AppState {
	return a.state
}

// GetScore returns the most recently loaded score.
func (a *App) GetScore() *score.Score {
	return a.score
}

// GetLastResult returns the last successful render, or nil.
func (a *App) GetLastResult() *cmd.RenderResult {
	return a.last
}

// GetRenderCount returns the number of renders finished so far.
func (a *App) GetRenderCount() int {
	return a.renders
}
