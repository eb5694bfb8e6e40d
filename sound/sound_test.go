package sound

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	goaudio "github.com/go-audio/audio"
	goaudiowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWav writes a silent 16-bit mono wav file of the given length.
func writeWav(t *testing.T, dir string, sampleRate, frames int) string {
	t.Helper()
	path := filepath.Join(dir, "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := goaudiowav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, frames),
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	return path
}

func TestFormat(t *testing.T) {
	tests := map[string]string{
		"music/intro.WAV":   "wav",
		"a/b/loop.mp3":      "mp3",
		"outro.ogg":         "ogg",
		"tone://220?dur=1s": "tone",
		"noext":             "",
	}
	for ref, want := range tests {
		assert.Equal(t, want, Format(ref), ref)
	}
}

func TestDecode_Wav(t *testing.T) {
	path := writeWav(t, t.TempDir(), DefaultSampleRate, 4410)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	s, err := Decode(path, data, DefaultSampleRate)
	require.NoError(t, err)
	assert.Equal(t, int64(4410), s.Frames())
	assert.Equal(t, 100*time.Millisecond, s.Duration())
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode("clip.flac", []byte("fLaC"), DefaultSampleRate)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Decode("clip.wav", []byte("not a wav file"), DefaultSampleRate)
	assert.Error(t, err)
}

func TestSound_NilDuration(t *testing.T) {
	var s *Sound
	assert.Zero(t, s.Duration())
	assert.Zero(t, s.Frames())
	assert.Zero(t, (&Sound{PCM: make([]byte, 8)}).Duration())
}

func TestParseTone(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    Tone
		wantErr bool
	}{
		{name: "defaults", ref: "tone://440", want: Tone{Frequency: 440, Duration: 4 * time.Second, Volume: 0.3}},
		{name: "full", ref: "tone://110.5?dur=6s&vol=0.8", want: Tone{Frequency: 110.5, Duration: 6 * time.Second, Volume: 0.8}},
		{name: "not_tone", ref: "intro.wav", wantErr: true},
		{name: "bad_frequency", ref: "tone://abc", wantErr: true},
		{name: "zero_frequency", ref: "tone://0", wantErr: true},
		{name: "bad_duration", ref: "tone://220?dur=soon", wantErr: true},
		{name: "negative_duration", ref: "tone://220?dur=-1s", wantErr: true},
		{name: "loud", ref: "tone://220?vol=2", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTone(tc.ref)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTone))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSynth(t *testing.T) {
	s, err := Synth("tone://220?dur=1500ms", 8000)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), s.Frames())
	assert.Equal(t, 1500*time.Millisecond, s.Duration())

	// Ramped ends start and finish silent.
	assert.Equal(t, []byte{0, 0, 0, 0}, s.PCM[:4])
	assert.Equal(t, []byte{0, 0, 0, 0}, s.PCM[len(s.PCM)-4:])

	_, err = Synth("tone://x", 8000)
	assert.Error(t, err)
}

func TestProbe(t *testing.T) {
	path := writeWav(t, t.TempDir(), 22050, 22050*2)

	info, err := Probe(path)
	require.NoError(t, err)
	assert.Equal(t, "wav", info.Format)
	assert.Equal(t, 22050, info.SampleRate)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 2*time.Second, info.Duration)

	info, err = Probe("tone://330?dur=3s")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, info.Duration)

	_, err = Probe(filepath.Join(t.TempDir(), "missing.ogg"))
	assert.Error(t, err)

	_, err = ProbeBytes("x.mid", nil)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = ProbeBytes("x.mp3", []byte("garbage"))
	assert.Error(t, err)
}
