package synth

import (
	"math"
	"time"

	"github.com/go-audio/audio"
)

// Buffer is a rendered mono signal. Samples[i] is the amplitude at
// i/SampleRate seconds.
type Buffer struct {
	SampleRate int
	Samples    []float64
}

// Len returns the number of samples.
func (b Buffer) Len() int {
	return len(b.Samples)
}

// Duration returns the playing time of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// Peak returns the largest absolute sample value.
func (b Buffer) Peak() float64 {
	var peak float64
	for _, s := range b.Samples {
		peak = max(peak, math.Abs(s))
	}
	return peak
}

// Clipped counts the samples outside [-1, 1]. They are left untouched; a
// player may clip them.
func (b Buffer) Clipped() int {
	var n int
	for _, s := range b.Samples {
		if s > 1 || s < -1 {
			n++
		}
	}
	return n
}

// Float32 converts the buffer to a go-audio mono float buffer for encoding.
// Samples are narrowed to float32 without scaling or clipping.
func (b Buffer) Float32() *audio.Float32Buffer {
	data := make([]float32, len(b.Samples))
	for i, s := range b.Samples {
		data[i] = float32(s)
	}
	return &audio.Float32Buffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  b.SampleRate,
		},
		Data:           data,
		SourceBitDepth: 32,
	}
}
