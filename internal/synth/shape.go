// Package synth renders scheduled tones into sample buffers. It provides the
// square, sawtooth and triangle oscillators, the equal-tempered pitch
// mapping, and the Timeline that accumulates events into a mono buffer.
package synth

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownShape is returned when a wave shape name or value is not recognised.
var ErrUnknownShape = errors.New("unknown wave shape")

// WaveShape selects the oscillator used for an event.
type WaveShape int

const (
	Square WaveShape = iota
	Sawtooth
	Triangle
)

func (s WaveShape) String() string {
	switch s {
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	case Triangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the known shapes.
func (s WaveShape) Valid() bool {
	return s >= Square && s <= Triangle
}

// ParseWaveShape converts a shape name into a WaveShape. Matching is
// case-insensitive and "saw" is accepted for Sawtooth.
func ParseWaveShape(name string) (WaveShape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "square":
		return Square, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	case "triangle":
		return Triangle, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s WaveShape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *WaveShape) UnmarshalText(text []byte) error {
	shape, err := ParseWaveShape(string(text))
	if err != nil {
		return err
	}
	*s = shape
	return nil
}

// Oscillate returns the amplitude of shape s at time t (seconds) for a tone
// of frequency f (Hz). Unknown shapes are silent.
func (s WaveShape) Oscillate(t, f float64) float64 {
	switch s {
	case Square:
		return SquareWave(t, f)
	case Sawtooth:
		return SawtoothWave(t, f)
	case Triangle:
		return TriangleWave(t, f)
	default:
		return 0
	}
}

// SquareWave is +1 for the first half of each period and -1 for the second.
func SquareWave(t, f float64) float64 {
	tf := t * f
	return 2*(2*math.Floor(tf)-math.Floor(2*tf)) + 1
}

// SawtoothWave ramps linearly from -1 to +1, crossing zero at the start of
// each period.
func SawtoothWave(t, f float64) float64 {
	return 2 * phase(t, f)
}

// TriangleWave rises from -1 at the start of each period to +1 at its middle
// and falls back.
func TriangleWave(t, f float64) float64 {
	return 2*math.Abs(2*phase(t, f)) - 1
}

// phase is the period fraction of t*f centred on zero, in [-0.5, 0.5).
func phase(t, f float64) float64 {
	tf := t * f
	return tf - math.Floor(tf+0.5)
}
