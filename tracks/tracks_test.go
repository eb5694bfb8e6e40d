package tracks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/dynmusic/music"
)

const minimalTrack = `
name: test
start_part: a
parts:
  - id: a
    sound: tone://220
    next_intense: [b]
  - id: b
    sound: tone://330
`

func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
}

func TestParse_Defaults(t *testing.T) {
	spec, err := Parse([]byte(minimalTrack))
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, spec.FadeIn)
	assert.Equal(t, 2*time.Second, spec.FadeOut)
	assert.Equal(t, 500*time.Millisecond, spec.IntensityChange)
	assert.Equal(t, 1.0, *spec.IntenseVolume)
	assert.Equal(t, 0.4, *spec.CalmVolume)
	for _, p := range spec.Parts {
		assert.Equal(t, 1.0, *p.Volume, p.ID)
	}
}

func TestParse_ExplicitZeroVolumeIsKept(t *testing.T) {
	spec, err := Parse([]byte(minimalTrack + "calm_volume: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, *spec.CalmVolume)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
		wantIs error
	}{
		{name: "bad_yaml", yaml: "name: [", errMsg: "unmarshal"},
		{name: "volume_too_high", yaml: minimalTrack + "intense_volume: 1.5\n", errMsg: "IntenseVolume"},
		{name: "fade_too_short", yaml: minimalTrack + "fade_in: 50ms\n", errMsg: "FadeIn"},
		{name: "no_parts", yaml: "name: x\nstart_part: a\n", errMsg: "Parts"},
		{
			name:   "duplicate_ids",
			yaml:   "name: x\nstart_part: a\nparts:\n  - {id: a, sound: s}\n  - {id: a, sound: t}\n",
			errMsg: "Parts",
		},
		{
			name:   "part_without_sound",
			yaml:   "name: x\nstart_part: a\nparts:\n  - {id: a}\n",
			errMsg: "Sound",
		},
		{
			name:   "start_part_missing",
			yaml:   "name: x\nstart_part: z\nparts:\n  - {id: a, sound: s}\n",
			wantIs: music.ErrStartPartNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			if tc.errMsg != "" {
				assert.Contains(t, err.Error(), tc.errMsg)
			}
			if tc.wantIs != nil {
				assert.True(t, errors.Is(err, tc.wantIs), "got %v", err)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	spec, err := Parse([]byte(minimalTrack + "calm_volume: 0.25\n"))
	require.NoError(t, err)

	track := spec.Build()
	require.NoError(t, track.Validate())
	assert.Equal(t, "test", track.Name)
	assert.Equal(t, music.PartID("a"), track.StartPart)
	assert.Equal(t, 0.25, track.CalmVolume)

	a, ok := track.FindPart("a")
	require.True(t, ok)
	assert.Equal(t, []music.PartID{"b"}, a.NextIntense)
	assert.Nil(t, a.NextCalm)
	assert.Equal(t, []music.PartID{"b"}, track.DeadEnds())

	assert.Equal(t, []music.SoundRef{"tone://220", "tone://330"}, Sounds(track))
}

func TestEmbeddedTracks(t *testing.T) {
	useDir(t, t.TempDir())

	lib, err := LoadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"arena", "boss"}, lib.Names())

	arena, ok := lib.Get("arena")
	require.True(t, ok)
	assert.Empty(t, arena.BrokenLinks())
	assert.Empty(t, arena.Unreachable())
	assert.Equal(t, []music.PartID{"outro"}, arena.DeadEnds())

	boss, ok := lib.Get("boss")
	require.True(t, ok)
	assert.Empty(t, boss.DeadEnds(), "boss loops forever")

	_, ok = lib.Get("missing")
	assert.False(t, ok)
}

func TestLibrary_ReloadFromDisk(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalTrack), 0o644))

	lib := NewLibrary()
	name, err := lib.LoadFile("test.yaml")
	require.NoError(t, err)
	require.Equal(t, "test", name)
	before, _ := lib.Get("test")

	_, ok := ModTime("test")
	assert.True(t, ok)

	require.NoError(t, os.WriteFile(path, []byte(minimalTrack+"calm_volume: 0.1\n"), 0o644))
	require.NoError(t, lib.Reload("test"))

	after, _ := lib.Get("test")
	assert.NotSame(t, before, after)
	assert.Equal(t, 0.4, before.CalmVolume, "the old track is left untouched")
	assert.Equal(t, 0.1, after.CalmVolume)

	got, ok := lib.TrackForFile(path)
	assert.True(t, ok)
	assert.Equal(t, "test", got)

	err = lib.Reload("nope")
	assert.True(t, errors.Is(err, ErrUnknownTrack))
}

func TestLibrary_ReloadFiles(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalTrack), 0o644))

	lib := NewLibrary()
	_, err := lib.LoadFile("test.yaml")
	require.NoError(t, err)
	before, _ := lib.Get("test")

	require.NoError(t, os.WriteFile(path, []byte(minimalTrack+"fade_in: 3s\n"), 0o644))
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("name: other\nstart_part: x\nparts:\n  - id: x\n    sound: tone://440\n"), 0o644))
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: [\n"), 0o644))

	changes := lib.ReloadFiles(path, path, other, bad)
	require.Len(t, changes, 2)

	assert.Equal(t, "test", changes[0].Name)
	assert.Same(t, before, changes[0].Old)
	assert.Equal(t, 3*time.Second, changes[0].New.FadeIn)

	assert.Equal(t, "other", changes[1].Name)
	assert.Nil(t, changes[1].Old)
	assert.Equal(t, []string{"other", "test"}, lib.Names())
}

func TestLibrary_RejectsRedefinition(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.yaml"), []byte(minimalTrack), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.yml"), []byte(minimalTrack), 0o644))

	lib := NewLibrary()
	_, err := lib.LoadFile("one.yaml")
	require.NoError(t, err)
	_, err = lib.LoadFile("two.yml")
	assert.Error(t, err)
}

func TestLibrary_Add(t *testing.T) {
	lib := NewLibrary()
	assert.Error(t, lib.Add(&music.Track{Name: "bad"}))

	spec, err := Parse([]byte(minimalTrack))
	require.NoError(t, err)
	require.NoError(t, lib.Add(spec.Build()))
	assert.Equal(t, []string{"test"}, lib.Names())
}

func TestCleanTrackPath(t *testing.T) {
	tests := map[string]string{
		"":                   "",
		"arena":              "arena.yaml",
		"arena.yaml":         "arena.yaml",
		"tracks/arena.yml":   "arena.yml",
		"/abs/tracks/b.yaml": "b.yaml",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanTrackPath(in), in)
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	path := filepath.Join(dir, "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalTrack), 0o644))

	select {
	case got := <-w.Events:
		assert.Equal(t, path, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no event for the track file")
	}

	time.Sleep(50 * time.Millisecond)
	for _, name := range w.Drain() {
		assert.Equal(t, path, name, "only yaml files are reported")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
