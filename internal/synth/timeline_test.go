package synth

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustAppend(t *testing.T, tl *Timeline, shape WaveShape, start, duration, pitch float64) {
	t.Helper()
	if err := tl.Append(shape, start, duration, pitch); err != nil {
		t.Fatalf("Append(%v, %v, %v, %v) failed: %v", shape, start, duration, pitch, err)
	}
}

func mustRender(t *testing.T, tl *Timeline, rate int, silence float64) Buffer {
	t.Helper()
	buf, err := tl.Render(rate, silence)
	if err != nil {
		t.Fatalf("Render(%d, %v) failed: %v", rate, silence, err)
	}
	return buf
}

func TestAppendRejectsInvalidEvents(t *testing.T) {
	tests := []struct {
		desc     string
		shape    WaveShape
		start    float64
		duration float64
		pitch    float64
	}{
		{"negative start", Square, -0.5, 1, 0},
		{"negative duration", Square, 0, -1, 0},
		{"NaN start", Square, math.NaN(), 1, 0},
		{"infinite duration", Square, 0, math.Inf(1), 0},
		{"NaN pitch", Square, 0, 1, math.NaN()},
		{"unknown shape", WaveShape(9), 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			tl := NewTimeline()
			err := tl.Append(tt.shape, tt.start, tt.duration, tt.pitch)
			if !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("expected ErrInvalidEvent, got %v", err)
			}
			if tl.Len() != 0 {
				t.Errorf("expected rejected event not to be stored, have %d events", tl.Len())
			}
		})
	}
}

func TestAppendKeepsInsertionOrder(t *testing.T) {
	tl := NewTimeline()
	mustAppend(t, tl, Triangle, 2, 1, 3)
	mustAppend(t, tl, Square, 0, 0, 0)
	mustAppend(t, tl, Sawtooth, 1, 0.5, -2.5)

	want := []Event{
		{Shape: Triangle, Start: 2, Duration: 1, Pitch: 3},
		{Shape: Square, Start: 0, Duration: 0, Pitch: 0},
		{Shape: Sawtooth, Start: 1, Duration: 0.5, Pitch: -2.5},
	}
	if diff := cmp.Diff(tl.Events(), want); diff != "" {
		t.Errorf("events mismatch (-got +want):\n%s", diff)
	}

	// Events returns a copy
	tl.Events()[0].Pitch = 100
	if tl.Events()[0].Pitch != 3 {
		t.Error("expected Events to return a copy")
	}
}

func TestExtent(t *testing.T) {
	tl := NewTimeline()
	if got := tl.Extent(0); got != 0 {
		t.Errorf("empty Extent(0) = %v, want 0", got)
	}
	if got := tl.Extent(1.5); got != 1.5 {
		t.Errorf("empty Extent(1.5) = %v, want 1.5", got)
	}

	mustAppend(t, tl, Square, 3, 1, 0)
	mustAppend(t, tl, Square, 0, 2, 0)
	if got := tl.Extent(0); got != 4 {
		t.Errorf("Extent(0) = %v, want 4", got)
	}
	if got := tl.Extent(0.5); got != 4.5 {
		t.Errorf("Extent(0.5) = %v, want 4.5", got)
	}
}

func TestRenderEmptyTimeline(t *testing.T) {
	tl := NewTimeline()

	buf := mustRender(t, tl, 48000, 0)
	if buf.Len() != 0 {
		t.Errorf("expected zero-length buffer, got %d samples", buf.Len())
	}

	buf = mustRender(t, tl, 48000, 0.25)
	if buf.Len() != 12000 {
		t.Fatalf("expected 12000 samples, got %d", buf.Len())
	}
	for i, s := range buf.Samples {
		if s != 0 {
			t.Fatalf("sample %d = %v, want 0", i, s)
		}
	}
	if buf.SampleRate != 48000 {
		t.Errorf("expected sample rate 48000, got %d", buf.SampleRate)
	}
}

func TestRenderTruncatesSampleCount(t *testing.T) {
	tl := NewTimeline()
	buf := mustRender(t, tl, 7, 1)
	if buf.Len() != 7 {
		t.Errorf("expected 7 samples, got %d", buf.Len())
	}
	buf = mustRender(t, tl, 4, 0.9)
	if buf.Len() != 3 {
		t.Errorf("expected floor(3.6) = 3 samples, got %d", buf.Len())
	}
}

func TestRenderRejectsBadArguments(t *testing.T) {
	tl := NewTimeline()
	if _, err := tl.Render(0, 1); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("expected ErrInvalidSampleRate, got %v", err)
	}
	if _, err := tl.Render(-44100, 1); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("expected ErrInvalidSampleRate, got %v", err)
	}
	if _, err := tl.Render(48000, -1); !errors.Is(err, ErrInvalidSilence) {
		t.Errorf("expected ErrInvalidSilence, got %v", err)
	}
	if _, err := tl.Render(48000, math.NaN()); !errors.Is(err, ErrInvalidSilence) {
		t.Errorf("expected ErrInvalidSilence, got %v", err)
	}
}

func TestRenderSingleSquareEvent(t *testing.T) {
	tl := NewTimeline()
	mustAppend(t, tl, Square, 0, 1, 0)

	const rate = 48000
	buf := mustRender(t, tl, rate, 0)
	if buf.Len() != rate {
		t.Fatalf("expected %d samples, got %d", rate, buf.Len())
	}

	transitions := 0
	for i, s := range buf.Samples {
		if s != 1 && s != -1 {
			t.Fatalf("sample %d = %v, want exactly +1 or -1", i, s)
		}
		if i == 0 {
			if s != 1 {
				t.Fatalf("expected first sample to be +1, got %v", s)
			}
			continue
		}
		if s == buf.Samples[i-1] {
			continue
		}
		transitions++
		// The k-th sign change lands on the first sample at or after k/880 s.
		boundary := float64(transitions) / 880
		at := float64(i) / rate
		if at < boundary-1e-9 || at-boundary > 1.0/rate+1e-9 {
			t.Fatalf("transition %d at sample %d (%.6fs), expected near %.6fs", transitions, i, at, boundary)
		}
	}
	if transitions != 879 {
		t.Errorf("expected 879 sign changes in one second of 440 Hz, got %d", transitions)
	}
}

func TestRenderEventWindow(t *testing.T) {
	tl := NewTimeline()
	mustAppend(t, tl, Sawtooth, 0.5, 0.25, 0)

	const rate = 8000
	buf := mustRender(t, tl, rate, 0.25)
	if buf.Len() != 8000 {
		t.Fatalf("expected 8000 samples, got %d", buf.Len())
	}

	first, last := 4000, 6000
	for i, s := range buf.Samples {
		if i < first || i >= last {
			if s != 0 {
				t.Fatalf("sample %d outside the event = %v, want 0", i, s)
			}
			continue
		}
		want := SawtoothWave(float64(i-first)/rate, 440)
		if s != want {
			t.Fatalf("sample %d = %v, want %v", i, s, want)
		}
	}
	// local time restarts at the event onset
	if buf.Samples[first] != 0 {
		t.Errorf("expected sawtooth to start at 0, got %v", buf.Samples[first])
	}
}

func TestRenderZeroDurationEvent(t *testing.T) {
	tl := NewTimeline()
	mustAppend(t, tl, Square, 0.5, 0, 0)
	buf := mustRender(t, tl, 100, 0)
	if buf.Len() != 50 {
		t.Fatalf("expected 50 samples, got %d", buf.Len())
	}
	if buf.Peak() != 0 {
		t.Errorf("expected silent buffer, peak %v", buf.Peak())
	}
}

func TestRenderSkipsSamplesPastBuffer(t *testing.T) {
	// 0.1+0.7 rounds below 0.8, so the buffer ends one sample before the
	// event's truncated window does.
	const rate = 1000
	tl := NewTimeline()
	mustAppend(t, tl, Square, 0.1, 0.7, 0)

	n := int(tl.Extent(0) * rate)
	first := int(rate * 0.1)
	last := first + int(rate*0.7)
	if n != 799 || first != 100 || last != 800 {
		t.Fatalf("expected window [100, 800) over 799 samples, got [%d, %d) over %d", first, last, n)
	}

	buf := mustRender(t, tl, rate, 0)
	if buf.Len() != n {
		t.Fatalf("expected %d samples, got %d", n, buf.Len())
	}
	if buf.Samples[first-1] != 0 {
		t.Errorf("expected silence before the event, got %v", buf.Samples[first-1])
	}
	if buf.Samples[first] != 1 {
		t.Errorf("expected the event to start at +1, got %v", buf.Samples[first])
	}
	want := SquareWave(float64(n-1-first)/rate, 440)
	if got := buf.Samples[n-1]; got != want || got != 1 {
		t.Errorf("expected last in-bounds sample %v, got %v", want, got)
	}

	// The same holds across common rates.
	for _, r := range []int{10, 30, 44100, 48000, 96000} {
		buf, err := tl.Render(r, 0)
		if err != nil {
			t.Fatalf("Render(%d) failed: %v", r, err)
		}
		if buf.Len() != int(tl.Extent(0)*float64(r)) {
			t.Errorf("rate %d: unexpected length %d", r, buf.Len())
		}
	}
}

func TestRenderRejectsOversizedBuffers(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		duration float64
		rate     int
		silence  float64
	}{
		{"huge start", 1e300, 1, 48000, 0},
		{"huge duration", 0, 1e300, 48000, 0},
		{"end overflows to infinity", math.MaxFloat64, math.MaxFloat64, 48000, 0},
		{"huge rate", 0, 1, math.MaxInt, 0},
		{"huge silence", 0, 1, 48000, 1e300},
		{"just over the limit", 0, float64(MaxSamples)/1000 + 1, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := NewTimeline()
			mustAppend(t, tl, Square, tt.start, tt.duration, 0)

			buf, err := tl.Render(tt.rate, tt.silence)
			if !errors.Is(err, ErrTooLong) {
				t.Errorf("expected ErrTooLong, got %v", err)
			}
			if buf.Samples != nil {
				t.Errorf("expected no buffer, got %d samples", buf.Len())
			}
		})
	}
}

func TestRenderFileTooLongWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.wav")
	tl := NewTimeline()
	mustAppend(t, tl, Square, 1e300, 1, 0)

	if err := tl.RenderFile(path, 48000, 0); !errors.Is(err, ErrTooLong) {
		t.Errorf("expected ErrTooLong, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file, got %v", err)
	}
}

func TestMustAppend(t *testing.T) {
	tl := NewTimeline()
	tl.MustAppend(Triangle, 0, 1, 3)
	if tl.Len() != 1 {
		t.Fatalf("expected 1 event, got %d", tl.Len())
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected MustAppend to panic on a negative duration")
		}
	}()
	tl.MustAppend(Triangle, 0, -1, 3)
}

func TestRenderNonOverlappingEvents(t *testing.T) {
	const rate = 8000

	a := NewTimeline()
	mustAppend(t, a, Triangle, 0, 0.5, 0)
	b := NewTimeline()
	mustAppend(t, b, Sawtooth, 0.75, 0.25, 7)

	both := NewTimeline()
	mustAppend(t, both, Triangle, 0, 0.5, 0)
	mustAppend(t, both, Sawtooth, 0.75, 0.25, 7)

	bufA := mustRender(t, a, rate, 0.5)
	bufB := mustRender(t, b, rate, 0)
	bufBoth := mustRender(t, both, rate, 0)

	if diff := cmp.Diff(bufBoth.Samples[:4000], bufA.Samples[:4000]); diff != "" {
		t.Errorf("first event region mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(bufBoth.Samples[6000:], bufB.Samples[6000:]); diff != "" {
		t.Errorf("second event region mismatch (-got +want):\n%s", diff)
	}
}

func TestRenderOverlappingEventsSum(t *testing.T) {
	const rate = 22050

	a := NewTimeline()
	mustAppend(t, a, Square, 0, 1, 0)
	b := NewTimeline()
	mustAppend(t, b, Triangle, 0, 1, -5.5)

	both := NewTimeline()
	mustAppend(t, both, Square, 0, 1, 0)
	mustAppend(t, both, Triangle, 0, 1, -5.5)

	bufA := mustRender(t, a, rate, 0)
	bufB := mustRender(t, b, rate, 0)
	bufBoth := mustRender(t, both, rate, 0)

	want := make([]float64, bufA.Len())
	for i := range want {
		want[i] = bufA.Samples[i] + bufB.Samples[i]
	}
	if diff := cmp.Diff(bufBoth.Samples, want); diff != "" {
		t.Errorf("mixed buffer mismatch (-got +want):\n%s", diff)
	}
	if bufBoth.Peak() <= 1 {
		t.Errorf("expected overlapping events to exceed unit amplitude, peak %v", bufBoth.Peak())
	}
	if bufBoth.Clipped() == 0 {
		t.Error("expected some samples outside [-1, 1]")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	tl := NewTimeline()
	mustAppend(t, tl, Square, 0, 1, 0)
	mustAppend(t, tl, Sawtooth, 0.3, 0.9, -6)
	mustAppend(t, tl, Triangle, 0.1, 0.4, 12.25)

	first := mustRender(t, tl, 44100, 0.2)
	second := mustRender(t, tl, 44100, 0.2)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("renders differ (-first +second):\n%s", diff)
	}
	if tl.Len() != 3 {
		t.Errorf("expected render to leave the timeline untouched, have %d events", tl.Len())
	}
}

func TestBufferDuration(t *testing.T) {
	buf := Buffer{SampleRate: 48000, Samples: make([]float64, 24000)}
	if buf.Duration().Seconds() != 0.5 {
		t.Errorf("expected 0.5s, got %v", buf.Duration())
	}
	if (Buffer{}).Duration() != 0 {
		t.Error("expected zero duration for an empty buffer")
	}
}

func TestBufferFloat32(t *testing.T) {
	buf := Buffer{SampleRate: 48000, Samples: []float64{0, 1.5, -2, 0.25}}
	f := buf.Float32()

	if f.Format.NumChannels != 1 {
		t.Errorf("expected 1 channel, got %d", f.Format.NumChannels)
	}
	if f.Format.SampleRate != 48000 {
		t.Errorf("expected sample rate 48000, got %d", f.Format.SampleRate)
	}
	if diff := cmp.Diff(f.Data, []float32{0, 1.5, -2, 0.25}); diff != "" {
		t.Errorf("samples mismatch (-got +want):\n%s", diff)
	}
}

func TestRenderFile(t *testing.T) {
	tl := NewTimeline()
	mustAppend(t, tl, Square, 0, 0.5, 0)

	path := filepath.Join(t.TempDir(), "music.wav")
	if err := tl.RenderFile(path, 8000, 0); err != nil {
		t.Fatalf("RenderFile failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	// 44 byte header + 4000 float32 samples
	if info.Size() != 44+4000*4 {
		t.Errorf("expected %d bytes, got %d", 44+4000*4, info.Size())
	}
}

func TestRenderFileUnwritablePath(t *testing.T) {
	tl := NewTimeline()
	mustAppend(t, tl, Square, 0, 0.1, 0)

	path := filepath.Join(t.TempDir(), "missing", "music.wav")
	if err := tl.RenderFile(path, 8000, 0); err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no output file, stat returned %v", err)
	}
}

func TestRenderFileInvalidArgumentsWritesNothing(t *testing.T) {
	tl := NewTimeline()
	path := filepath.Join(t.TempDir(), "music.wav")
	if err := tl.RenderFile(path, 0, 0); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no output file, stat returned %v", err)
	}
}
