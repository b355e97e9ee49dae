// Package score provides the YAML score format used by chime. It includes
// loading, saving and validating scores, converting them into synth
// timelines, and watching a score file for changes.
package score

import (
	"errors"
	"fmt"

	"github.com/minicodemonkey/chime/internal/synth"
)

// ErrInvalidScore wraps every validation problem found in a score.
var ErrInvalidScore = errors.New("invalid score")

// Event is a single tone in a score. Exactly one of Pitch or Note may be set;
// with neither the event plays the reference pitch (A4).
type Event struct {
	Shape    string   `yaml:"shape"`
	Start    float64  `yaml:"start"`
	Duration float64  `yaml:"duration"`
	Pitch    *float64 `yaml:"pitch,omitempty"`
	Note     string   `yaml:"note,omitempty"`
}

// Score is a titled list of events plus optional render settings.
type Score struct {
	Title      string   `yaml:"title,omitempty"`
	SampleRate int      `yaml:"sampleRate,omitempty"`
	Silence    *float64 `yaml:"silence,omitempty"`
	Output     string   `yaml:"output,omitempty"`
	Events     []Event  `yaml:"events"`
}

// SemitonePitch returns the event's pitch as a semitone offset from A4.
func (e Event) SemitonePitch() (float64, error) {
	if e.Pitch != nil && e.Note != "" {
		return 0, errors.New("set either pitch or note, not both")
	}
	if e.Note != "" {
		return synth.ParseNote(e.Note)
	}
	if e.Pitch != nil {
		return *e.Pitch, nil
	}
	return 0, nil
}

// Synth converts the event into a synth.Event. It does not check the
// start time or duration; Timeline.Append does.
func (e Event) Synth() (synth.Event, error) {
	if e.Shape == "" {
		return synth.Event{}, errors.New("missing shape")
	}
	shape, err := synth.ParseWaveShape(e.Shape)
	if err != nil {
		return synth.Event{}, err
	}
	pitch, err := e.SemitonePitch()
	if err != nil {
		return synth.Event{}, err
	}
	return synth.Event{
		Shape:    shape,
		Start:    e.Start,
		Duration: e.Duration,
		Pitch:    pitch,
	}, nil
}

// Validate reports every problem in the score, or nil if it can be rendered.
func (s *Score) Validate() error {
	_, err := s.build()
	return err
}

// Timeline builds a synth.Timeline holding the score's events in order.
func (s *Score) Timeline() (*synth.Timeline, error) {
	return s.build()
}

func (s *Score) build() (*synth.Timeline, error) {
	var errs []error

	if s.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("sampleRate %d must be positive", s.SampleRate))
	}
	if s.Silence != nil && *s.Silence < 0 {
		errs = append(errs, fmt.Errorf("silence %v must not be negative", *s.Silence))
	}

	tl := synth.NewTimeline()
	for i, e := range s.Events {
		ev, err := e.Synth()
		if err == nil {
			err = tl.Append(ev.Shape, ev.Start, ev.Duration, ev.Pitch)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("event %d: %w", i+1, err))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScore, errors.Join(errs...))
	}
	return tl, nil
}

// FromTimeline builds a score from the events of tl, using numeric pitches.
func FromTimeline(title string, tl *synth.Timeline) *Score {
	s := &Score{Title: title}
	for _, e := range tl.Events() {
		pitch := e.Pitch
		s.Events = append(s.Events, Event{
			Shape:    e.Shape.String(),
			Start:    e.Start,
			Duration: e.Duration,
			Pitch:    &pitch,
		})
	}
	return s
}
