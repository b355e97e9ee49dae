// Package cmd provides CLI command implementations for chime.
// This includes render, demo, init, info and show commands that can be
// run from the command line without launching the watch TUI.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/minicodemonkey/chime/internal/config"
	"github.com/minicodemonkey/chime/internal/paths"
	"github.com/minicodemonkey/chime/internal/score"
	"github.com/minicodemonkey/chime/internal/synth"
	"github.com/minicodemonkey/chime/internal/wavfile"
)

// RenderOptions contains configuration for the render command.
type RenderOptions struct {
	ScorePath  string    // Score YAML file to render
	Output     string    // Output WAV path (default: from score, then config)
	SampleRate int       // Sample rate override (0: from score, then config)
	Silence    *float64  // Trailing silence override in seconds
	Out        io.Writer // Where the summary is printed (default: stdout)
}

// RenderResult describes a completed render.
type RenderResult struct {
	ScorePath  string
	OutputPath string
	Title      string
	SampleRate int
	Silence    float64
	Events     int
	Samples    int
	Duration   time.Duration
	Peak       float64
	Clipped    int
	Bytes      int64
}

// Summary returns a one-line description of the render.
func (r *RenderResult) Summary() string {
	return fmt.Sprintf("Rendered %s → %s (%d events, %s, %d Hz, %s)",
		filepath.Base(r.ScorePath),
		r.OutputPath,
		r.Events,
		formatDuration(r.Duration),
		r.SampleRate,
		humanize.Bytes(uint64(r.Bytes)),
	)
}

// formatDuration formats d for display, e.g. "6 seconds" or "1 second 500 milliseconds".
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0 seconds"
	}
	return durafmt.Parse(d).LimitFirstN(2).String()
}

// renderSettings are the values a render resolves from flags, score and config.
type renderSettings struct {
	sampleRate int
	silence    float64
	output     string
}

// resolveSettings applies the precedence flags > score > config.
func resolveSettings(opts RenderOptions, s *score.Score, cfg *config.Config) renderSettings {
	rs := renderSettings{
		sampleRate: cfg.Render.SampleRate,
		silence:    cfg.Render.Silence,
	}

	if s.SampleRate > 0 {
		rs.sampleRate = s.SampleRate
	}
	if opts.SampleRate > 0 {
		rs.sampleRate = opts.SampleRate
	}

	if s.Silence != nil {
		rs.silence = *s.Silence
	}
	if opts.Silence != nil {
		rs.silence = *opts.Silence
	}

	if opts.Output != "" {
		rs.output = opts.Output
	} else {
		rs.output = paths.OutputPath(opts.ScorePath, s.Output, cfg.Render.OutputDir)
	}
	return rs
}

// RenderScore loads, renders and writes a score without printing anything.
func RenderScore(opts RenderOptions) (*RenderResult, error) {
	if opts.ScorePath == "" {
		return nil, fmt.Errorf("no score file given")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	s, err := score.Load(opts.ScorePath)
	if err != nil {
		return nil, err
	}

	tl, err := s.Timeline()
	if err != nil {
		return nil, err
	}

	rs := resolveSettings(opts, s, cfg)

	buf, err := tl.Render(rs.sampleRate, rs.silence)
	if err != nil {
		return nil, err
	}
	if err := wavfile.WriteFile(rs.output, buf.Float32()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", rs.output, err)
	}

	result := &RenderResult{
		ScorePath:  opts.ScorePath,
		OutputPath: rs.output,
		Title:      s.Title,
		SampleRate: rs.sampleRate,
		Silence:    rs.silence,
		Events:     tl.Len(),
		Samples:    buf.Len(),
		Duration:   buf.Duration(),
		Peak:       buf.Peak(),
		Clipped:    buf.Clipped(),
	}
	if fi, err := os.Stat(rs.output); err == nil {
		result.Bytes = fi.Size()
	}

	return result, nil
}

// RunRender renders a score to a WAV file and prints a summary.
func RunRender(opts RenderOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	result, err := RenderScore(opts)
	if err != nil {
		return err
	}

	if result.Clipped > 0 {
		log.Printf("Warning: %d samples exceed [-1, 1] (peak %.3f); players may clip them", result.Clipped, result.Peak)
	}
	fmt.Fprintln(opts.Out, result.Summary())
	return nil
}

// DemoOptions contains configuration for the demo command.
type DemoOptions struct {
	Output string    // Output WAV path (default: music.wav)
	Out    io.Writer // Where the summary is printed (default: stdout)
}

// DemoTimeline returns the four-note square wave demo: A4 and a tritone
// below, alternating with a one second gap between repeats.
func DemoTimeline() *synth.Timeline {
	tl := synth.NewTimeline()
	for _, e := range []synth.Event{
		{Shape: synth.Square, Start: 0, Duration: 1, Pitch: 0},
		{Shape: synth.Square, Start: 1, Duration: 1, Pitch: -6},
		{Shape: synth.Square, Start: 3, Duration: 1, Pitch: 0},
		{Shape: synth.Square, Start: 5, Duration: 1, Pitch: -6},
	} {
		tl.MustAppend(e.Shape, e.Start, e.Duration, e.Pitch)
	}
	return tl
}

// RunDemo renders the built-in demo at 48 kHz with no trailing silence.
func RunDemo(opts DemoOptions) error {
	if opts.Output == "" {
		opts.Output = "music.wav"
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	tl := DemoTimeline()
	if err := tl.RenderFile(opts.Output, config.DefaultSampleRate, 0); err != nil {
		return err
	}

	fmt.Fprintf(opts.Out, "Rendered demo → %s (%d events, %s)\n",
		opts.Output, tl.Len(), formatDuration(time.Duration(tl.Extent(0)*float64(time.Second))))
	return nil
}
