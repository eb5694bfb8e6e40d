// Package sound is the ebiten audio backend of the music player: decoded
// sound assets, playback channels over *audio.Player, duration probing and a
// sample clock.
package sound

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// DefaultSampleRate is used when no sample rate is configured.
const DefaultSampleRate = 44100

// bytesPerFrame is the size of one frame of ebiten's native format:
// 16-bit little-endian signed stereo.
const bytesPerFrame = 4

var ErrUnsupportedFormat = errors.New("sound: unsupported format")

// Sound is a fully decoded asset in ebiten's native PCM format.
type Sound struct {
	Ref        string
	PCM        []byte
	SampleRate int
}

// Frames returns the number of stereo frames in the sound.
func (s *Sound) Frames() int64 {
	if s == nil {
		return 0
	}
	return int64(len(s.PCM) / bytesPerFrame)
}

// Duration returns the playback length of the sound.
func (s *Sound) Duration() time.Duration {
	if s == nil || s.SampleRate <= 0 {
		return 0
	}
	return framesToDuration(s.Frames(), s.SampleRate)
}

func framesToDuration(frames int64, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}

// Format returns the lowercase extension of ref without the dot.
func Format(ref string) string {
	if IsTone(ref) {
		return "tone"
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(ref)), ".")
}

// Decode decodes a wav, mp3 or ogg file into PCM resampled to sampleRate.
func Decode(ref string, data []byte, sampleRate int) (*Sound, error) {
	var (
		stream io.Reader
		err    error
	)
	r := bytes.NewReader(data)

	switch Format(ref) {
	case "wav":
		stream, err = wav.DecodeWithSampleRate(sampleRate, r)
	case "mp3":
		stream, err = mp3.DecodeWithSampleRate(sampleRate, r)
	case "ogg":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, r)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", ref)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s %q", Format(ref), ref)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, errors.Wrapf(err, "read %q", ref)
	}
	// Drop a trailing partial frame.
	pcm = pcm[:len(pcm)-len(pcm)%bytesPerFrame]

	return &Sound{Ref: ref, PCM: pcm, SampleRate: sampleRate}, nil
}
