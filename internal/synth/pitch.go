package synth

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// ReferencePitch is the frequency of pitch 0 (A4).
	ReferencePitch = 440.0
	// SemitonesPerOctave is the equal-tempered octave division.
	SemitonesPerOctave = 12.0
)

// ErrInvalidNote is returned by ParseNote for malformed note names.
var ErrInvalidNote = errors.New("invalid note name")

// Frequency maps a semitone offset from A4 to a frequency in Hz.
func Frequency(pitch float64) float64 {
	return ReferencePitch * math.Pow(2, pitch/SemitonesPerOctave)
}

// semitone position of each natural note within an octave starting at C
var noteSteps = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// ParseNote converts a scientific pitch name such as "A4", "C#5", "Bb3" or
// "E-1" into a semitone offset from A4.
func ParseNote(name string) (float64, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidNote)
	}

	step, ok := noteSteps[strings.ToUpper(s[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}

	i := 1
	for ; i < len(s); i++ {
		switch s[i] {
		case '#':
			step++
			continue
		case 'b':
			step--
			continue
		}
		break
	}

	octave, err := strconv.Atoi(s[i:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}

	// A4 is MIDI note 69
	midi := (octave+1)*12 + step
	return float64(midi - 69), nil
}
