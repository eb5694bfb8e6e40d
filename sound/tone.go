package sound

import (
	"encoding/binary"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const toneScheme = "tone://"

var ErrInvalidTone = errors.New("sound: invalid tone reference")

// Tone describes a synthesized placeholder sound, written as
// "tone://<hz>?dur=<duration>&vol=<0..1>", e.g. "tone://220?dur=6s".
type Tone struct {
	Frequency float64
	Duration  time.Duration
	Volume    float64
}

// IsTone reports whether ref names a synthesized tone.
func IsTone(ref string) bool {
	return strings.HasPrefix(ref, toneScheme)
}

// ParseTone parses a tone reference. dur defaults to 4s and vol to 0.3.
func ParseTone(ref string) (Tone, error) {
	if !IsTone(ref) {
		return Tone{}, errors.Wrapf(ErrInvalidTone, "%q", ref)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return Tone{}, errors.Wrapf(ErrInvalidTone, "%q: %v", ref, err)
	}

	t := Tone{Duration: 4 * time.Second, Volume: 0.3}
	t.Frequency, err = strconv.ParseFloat(u.Host, 64)
	if err != nil || t.Frequency <= 0 {
		return Tone{}, errors.Wrapf(ErrInvalidTone, "%q: bad frequency", ref)
	}

	q := u.Query()
	if v := q.Get("dur"); v != "" {
		t.Duration, err = time.ParseDuration(v)
		if err != nil || t.Duration <= 0 {
			return Tone{}, errors.Wrapf(ErrInvalidTone, "%q: bad duration", ref)
		}
	}
	if v := q.Get("vol"); v != "" {
		t.Volume, err = strconv.ParseFloat(v, 64)
		if err != nil || t.Volume < 0 || t.Volume > 1 {
			return Tone{}, errors.Wrapf(ErrInvalidTone, "%q: bad volume", ref)
		}
	}
	return t, nil
}

// Synth renders a tone reference into a Sound. Short linear ramps at both
// ends keep the loop points click-free.
func Synth(ref string, sampleRate int) (*Sound, error) {
	t, err := ParseTone(ref)
	if err != nil {
		return nil, err
	}

	frames := int(t.Duration * time.Duration(sampleRate) / time.Second)
	ramp := min(sampleRate/100, frames/2)
	pcm := make([]byte, frames*bytesPerFrame)

	for i := 0; i < frames; i++ {
		env := 1.0
		if ramp > 0 {
			if i < ramp {
				env = float64(i) / float64(ramp)
			} else if frames-1-i < ramp {
				env = float64(frames-1-i) / float64(ramp)
			}
		}
		v := math.Sin(2*math.Pi*t.Frequency*float64(i)/float64(sampleRate)) * t.Volume * env
		s := uint16(int16(v * math.MaxInt16))
		binary.LittleEndian.PutUint16(pcm[i*bytesPerFrame:], s)
		binary.LittleEndian.PutUint16(pcm[i*bytesPerFrame+2:], s)
	}

	return &Sound{Ref: ref, PCM: pcm, SampleRate: sampleRate}, nil
}
