// Package notify plays a short chime when a watched score finishes rendering.
package notify

import (
	"bytes"
	"encoding/binary"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/minicodemonkey/chime/internal/synth"
)

// ChimeSampleRate is the playback rate of the completion chime.
const ChimeSampleRate = 22050

// chimeVolume keeps the chime well below full scale.
const chimeVolume = 0.25

// Notifier handles audio notifications.
type Notifier struct {
	context *oto.Context
	mu      sync.Mutex
	enabled bool
}

var (
	globalNotifier *Notifier
	initOnce       sync.Once
	initErr        error
)

// GetNotifier returns the global notifier instance.
// This is a singleton since an oto.Context can only be created once.
func GetNotifier() (*Notifier, error) {
	initOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   ChimeSampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
		})
		if err != nil {
			initErr = err
			return
		}
		<-ready

		globalNotifier = &Notifier{
			context: ctx,
			enabled: true,
		}
	})
	return globalNotifier, initErr
}

// SetEnabled enables or disables sound notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// IsEnabled returns whether sound is enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled
}

// PlayCompletion plays the completion chime without blocking.
func (n *Notifier) PlayCompletion() {
	n.mu.Lock()
	if !n.enabled || n.context == nil {
		n.mu.Unlock()
		return
	}
	n.mu.Unlock()

	go func() {
		pcm, err := ChimePCM()
		if err != nil {
			log.Printf("Warning: failed to build completion sound: %v", err)
			return
		}
		n.play(pcm)
	}()
}

// play plays raw float32 little-endian mono PCM and waits for it to finish.
func (n *Notifier) play(pcm []byte) {
	player := n.context.NewPlayer(bytes.NewReader(pcm))
	defer player.Close()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
}

// ChimeTimeline returns the completion chime: a rising C major arpeggio of
// triangle tones.
func ChimeTimeline() *synth.Timeline {
	tl := synth.NewTimeline()
	// C6, E6, G6 as semitones above A4
	for i, pitch := range []float64{3 + 12, 7 + 12, 10 + 12} {
		start := float64(i) * 0.08
		tl.MustAppend(synth.Triangle, start, 0.3-start, pitch)
	}
	return tl
}

// ChimePCM renders the chime with a decaying envelope as float32
// little-endian samples, ready for the oto player.
func ChimePCM() ([]byte, error) {
	buf, err := ChimeTimeline().Render(ChimeSampleRate, 0.05)
	if err != nil {
		return nil, err
	}

	pcm := make([]byte, 4*buf.Len())
	for i, s := range buf.Samples {
		t := float64(i) / ChimeSampleRate
		envelope := math.Exp(-t * 8)
		if t < 0.01 {
			// Quick attack
			envelope = t / 0.01
		}
		// Three overlapping tones peak at 3
		v := float32(s / 3 * envelope * chimeVolume)
		binary.LittleEndian.PutUint32(pcm[4*i:], math.Float32bits(v))
	}
	return pcm, nil
}
