package synth

import (
	"errors"
	"fmt"
	"math"

	"github.com/minicodemonkey/chime/internal/wavfile"
)

var (
	// ErrInvalidEvent is returned by Append for events that cannot be scheduled.
	ErrInvalidEvent = errors.New("invalid event")
	// ErrInvalidSampleRate is returned by Render for non-positive sample rates.
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	// ErrInvalidSilence is returned by Render for negative or non-finite trailing silence.
	ErrInvalidSilence = errors.New("trailing silence must be a finite, non-negative duration")
	// ErrTooLong is returned by Render when the buffer would exceed MaxSamples.
	ErrTooLong = errors.New("render too long")
)

// MaxSamples is the largest buffer Render will allocate.
const MaxSamples = math.MaxInt32

// Event is a single scheduled tone. Start and Duration are in seconds, Pitch
// is a semitone offset from A4.
type Event struct {
	Shape    WaveShape
	Start    float64
	Duration float64
	Pitch    float64
}

// End returns the time at which the event stops sounding.
func (e Event) End() float64 {
	return e.Start + e.Duration
}

// Frequency returns the event's frequency in Hz.
func (e Event) Frequency() float64 {
	return Frequency(e.Pitch)
}

func (e Event) validate() error {
	if !e.Shape.Valid() {
		return fmt.Errorf("%w: %w: %d", ErrInvalidEvent, ErrUnknownShape, int(e.Shape))
	}
	if math.IsNaN(e.Start) || math.IsInf(e.Start, 0) || e.Start < 0 {
		return fmt.Errorf("%w: start time %v must be a finite, non-negative number of seconds", ErrInvalidEvent, e.Start)
	}
	if math.IsNaN(e.Duration) || math.IsInf(e.Duration, 0) || e.Duration < 0 {
		return fmt.Errorf("%w: duration %v must be a finite, non-negative number of seconds", ErrInvalidEvent, e.Duration)
	}
	if math.IsNaN(e.Pitch) || math.IsInf(e.Pitch, 0) {
		return fmt.Errorf("%w: pitch %v must be finite", ErrInvalidEvent, e.Pitch)
	}
	return nil
}

// Timeline is an ordered list of events rendered additively into one buffer.
// Events may overlap; their samples are summed without normalisation.
type Timeline struct {
	events []Event
}

// NewTimeline creates an empty Timeline.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Append schedules a new event. Negative start times or durations are
// rejected; a zero duration is accepted and renders nothing.
func (tl *Timeline) Append(shape WaveShape, start, duration, pitch float64) error {
	e := Event{Shape: shape, Start: start, Duration: duration, Pitch: pitch}
	if err := e.validate(); err != nil {
		return err
	}
	tl.events = append(tl.events, e)
	return nil
}

// MustAppend is like Append but panics if the event is invalid.
func (tl *Timeline) MustAppend(shape WaveShape, start, duration, pitch float64) {
	if err := tl.Append(shape, start, duration, pitch); err != nil {
		panic(err)
	}
}

// Len returns the number of scheduled events.
func (tl *Timeline) Len() int {
	return len(tl.events)
}

// Events returns a copy of the scheduled events in insertion order.
func (tl *Timeline) Events() []Event {
	out := make([]Event, len(tl.events))
	copy(out, tl.events)
	return out
}

// Extent returns the latest event end time plus the trailing silence.
func (tl *Timeline) Extent(silence float64) float64 {
	var end float64
	for _, e := range tl.events {
		end = max(end, e.End())
	}
	return end + silence
}

// Render accumulates every event into a new buffer at the given sample rate,
// followed by silence seconds of trailing silence.
//
// The buffer holds floor(extent*sampleRate) samples. Each event covers
// samples [floor(rate*start), floor(rate*start)+floor(rate*duration)) with its
// local time restarting at zero; indices outside the buffer are skipped.
// Amplitudes are summed as-is and may exceed [-1, 1] where events overlap.
func (tl *Timeline) Render(sampleRate int, silence float64) (Buffer, error) {
	if sampleRate <= 0 {
		return Buffer{}, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if math.IsNaN(silence) || math.IsInf(silence, 0) || silence < 0 {
		return Buffer{}, fmt.Errorf("%w: %v", ErrInvalidSilence, silence)
	}

	rate := float64(sampleRate)
	n, err := sampleCount(tl.Extent(silence) * rate)
	if err != nil {
		return Buffer{}, err
	}
	buf := Buffer{
		SampleRate: sampleRate,
		Samples:    make([]float64, n),
	}

	for _, e := range tl.events {
		first, err := sampleCount(rate * e.Start)
		if err != nil {
			return Buffer{}, err
		}
		length, err := sampleCount(rate * e.Duration)
		if err != nil {
			return Buffer{}, err
		}
		last := first + length
		freq := e.Frequency()

		for s := max(first, 0); s < min(last, n); s++ {
			t := float64(s-first) / rate
			buf.Samples[s] += e.Shape.Oscillate(t, freq)
		}
	}

	return buf, nil
}

// sampleCount truncates x to a sample index, rejecting values an int
// conversion would not survive.
func sampleCount(x float64) (int, error) {
	if math.IsNaN(x) || x > MaxSamples {
		return 0, fmt.Errorf("%w: %v samples, at most %d allowed", ErrTooLong, x, MaxSamples)
	}
	return int(x), nil
}

// RenderFile renders the timeline and writes it to path as a mono 32-bit
// float WAV file. Nothing is written if rendering fails, and an existing file
// at path is only replaced once the new one has been fully encoded.
func (tl *Timeline) RenderFile(path string, sampleRate int, silence float64) error {
	buf, err := tl.Render(sampleRate, silence)
	if err != nil {
		return err
	}
	if err := wavfile.WriteFile(path, buf.Float32()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
