// Package wavfile writes rendered signals as mono 32-bit IEEE float WAV
// files and reads back their format information.
package wavfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// FormatIEEEFloat is the WAVE format tag for IEEE floating-point samples.
	FormatIEEEFloat = 3
	// BitDepth is the size of every encoded sample.
	BitDepth = 32
	// Channels is the only supported channel count.
	Channels = 1
)

var (
	// ErrUnsupportedFormat is returned for buffers that are not mono or lack a format.
	ErrUnsupportedFormat = errors.New("unsupported buffer format")
	// ErrInvalidFile is returned by ReadInfo for data that is not a WAV file.
	ErrInvalidFile = errors.New("not a valid WAV file")
)

func checkBuffer(buf *audio.Float32Buffer) error {
	if buf == nil || buf.Format == nil {
		return fmt.Errorf("%w: missing format", ErrUnsupportedFormat)
	}
	if buf.Format.NumChannels != Channels {
		return fmt.Errorf("%w: %d channels, want %d", ErrUnsupportedFormat, buf.Format.NumChannels, Channels)
	}
	if buf.Format.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, buf.Format.SampleRate)
	}
	return nil
}

// Encode writes buf to w as a complete WAV stream. Samples are written in
// order exactly as given.
func Encode(w io.WriteSeeker, buf *audio.Float32Buffer) error {
	if err := checkBuffer(buf); err != nil {
		return err
	}

	enc := wav.NewEncoder(w, buf.Format.SampleRate, BitDepth, Channels, FormatIEEEFloat)

	if len(buf.Data) == 0 {
		// An empty write still emits the fmt and data chunk headers.
		empty := &audio.IntBuffer{Format: buf.Format, SourceBitDepth: BitDepth}
		if err := enc.Write(empty); err != nil {
			return fmt.Errorf("failed to write WAV header: %w", err)
		}
	}
	for _, s := range buf.Data {
		if err := enc.WriteFrame(s); err != nil {
			return fmt.Errorf("failed to write sample: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}

// WriteFile encodes buf into a temporary file next to path and renames it
// into place. On failure path is left untouched and the temporary file is
// removed.
func WriteFile(path string, buf *audio.Float32Buffer) (err error) {
	if err := checkBuffer(buf); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = Encode(f, buf); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Info describes the format of a WAV file.
type Info struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
	Format        int // WAVE format tag, FormatIEEEFloat for chime output
	Frames        int
}

// Duration returns the playing time described by the info.
func (i Info) Duration() time.Duration {
	if i.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(i.Frames) / float64(i.SampleRate) * float64(time.Second))
}

// ReadInfo reads the format and length of the WAV file at path.
func ReadInfo(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	// Not IsValidFile: it rejects files with an empty data chunk.
	d := wav.NewDecoder(f)
	if err := d.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
	}
	if d.NumChans < 1 || d.BitDepth < 8 {
		return Info{}, fmt.Errorf("%w: %s: bad fmt chunk", ErrInvalidFile, path)
	}

	info := Info{
		Channels:      int(d.NumChans),
		SampleRate:    int(d.SampleRate),
		BitsPerSample: int(d.BitDepth),
		Format:        int(d.WavAudioFormat),
	}
	if frameSize := info.Channels * info.BitsPerSample / 8; frameSize > 0 {
		info.Frames = d.PCMSize / frameSize
	}
	return info, nil
}
