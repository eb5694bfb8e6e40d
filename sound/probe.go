package sound

import (
	"bytes"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	goaudiowav "github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// Info is what Probe learns about a sound without an audio device.
type Info struct {
	Ref        string
	Format     string
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// Probe reads the header of the sound at ref and reports its duration.
// Tone references are resolved without touching the filesystem.
func Probe(ref string) (Info, error) {
	if IsTone(ref) {
		t, err := ParseTone(ref)
		if err != nil {
			return Info{}, err
		}
		return Info{Ref: ref, Format: "tone", SampleRate: DefaultSampleRate, Channels: 2, Duration: t.Duration}, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return Info{}, errors.Wrapf(err, "read %q", ref)
	}
	return ProbeBytes(ref, data)
}

// ProbeBytes is Probe over data already in memory. ref selects the format.
func ProbeBytes(ref string, data []byte) (Info, error) {
	info := Info{Ref: ref, Format: Format(ref)}
	r := bytes.NewReader(data)

	switch info.Format {
	case "wav":
		dec := goaudiowav.NewDecoder(r)
		if !dec.IsValidFile() {
			return Info{}, errors.Newf("probe %q: not a valid wav file", ref)
		}
		d, err := dec.Duration()
		if err != nil {
			return Info{}, errors.Wrapf(err, "probe %q", ref)
		}
		info.SampleRate = int(dec.SampleRate)
		info.Channels = int(dec.NumChans)
		info.Duration = d

	case "mp3":
		dec, err := gomp3.NewDecoder(r)
		if err != nil {
			return Info{}, errors.Wrapf(err, "probe %q", ref)
		}
		// go-mp3 always decodes to 16-bit stereo.
		info.SampleRate = dec.SampleRate()
		info.Channels = 2
		info.Duration = framesToDuration(dec.Length()/bytesPerFrame, dec.SampleRate())

	case "ogg":
		length, format, err := oggvorbis.GetLength(r)
		if err != nil {
			return Info{}, errors.Wrapf(err, "probe %q", ref)
		}
		info.SampleRate = format.SampleRate
		info.Channels = format.Channels
		info.Duration = framesToDuration(length, format.SampleRate)

	default:
		return Info{}, errors.Wrapf(ErrUnsupportedFormat, "%q", ref)
	}

	return info, nil
}
