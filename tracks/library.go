package tracks

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/dynmusic/music"
)

var ErrUnknownTrack = errors.New("tracks: unknown track")

// Library maps track names to built tracks. Reloading a track swaps the
// pointer; a player that already holds the old track keeps playing it until
// the next StartTrack.
type Library struct {
	mu     sync.RWMutex
	tracks map[string]*music.Track
	files  map[string]string // track name -> file
}

func NewLibrary() *Library {
	return &Library{
		tracks: make(map[string]*music.Track),
		files:  make(map[string]string),
	}
}

// LoadAll loads every track file. Files that fail are logged and skipped; the
// first error is returned after all files were tried.
func LoadAll() (*Library, error) {
	files, err := Files()
	if err != nil {
		return nil, errors.Wrap(err, "tracks: list files")
	}

	lib := NewLibrary()
	var first error
	for _, f := range files {
		if _, err := lib.LoadFile(f); err != nil {
			zlog.Error().Err(err).Str("file", f).Msg("failed to load track")
			if first == nil {
				first = err
			}
		}
	}
	return lib, first
}

// LoadFile loads (or reloads) one track file and returns the track name.
func (l *Library) LoadFile(filename string) (string, error) {
	spec, err := LoadTrack(filename)
	if err != nil {
		return "", err
	}
	track := spec.Build()
	warnGraph(track)

	l.mu.Lock()
	defer l.mu.Unlock()
	if prev, ok := l.files[track.Name]; ok && prev != cleanTrackPath(filename) {
		return "", errors.Newf("tracks: %s redefines track %q from %s", filename, track.Name, prev)
	}
	l.tracks[track.Name] = track
	l.files[track.Name] = cleanTrackPath(filename)

	zlog.Debug().Str("track", track.Name).Str("file", filename).Int("parts", len(track.Parts)).Msg("loaded track")
	return track.Name, nil
}

// Add registers an already built track.
func (l *Library) Add(t *music.Track) error {
	if err := t.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tracks[t.Name] = t
	return nil
}

// Get returns the track with the given name.
func (l *Library) Get(name string) (*music.Track, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.tracks[name]
	return t, ok
}

// Names returns the track names in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.tracks))
	for name := range l.tracks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Reload reloads the file a track was loaded from.
func (l *Library) Reload(name string) error {
	l.mu.RLock()
	file, ok := l.files[name]
	l.mu.RUnlock()
	if !ok {
		return errors.Wrapf(ErrUnknownTrack, "%q", name)
	}
	_, err := l.LoadFile(file)
	return err
}

// TrackForFile returns the name of the track loaded from file.
func (l *Library) TrackForFile(file string) (string, bool) {
	clean := cleanTrackPath(file)
	l.mu.RLock()
	defer l.mu.RUnlock()
	for name, f := range l.files {
		if f == clean {
			return name, true
		}
	}
	return "", false
}

// Change describes a track affected by a file change. Old is nil for a
// track seen for the first time.
type Change struct {
	Name string
	Old  *music.Track
	New  *music.Track
}

// ReloadFiles reloads the changed files reported by a Watcher. Files that
// fail to load are logged and skipped; the previous track stays in place.
func (l *Library) ReloadFiles(files ...string) []Change {
	var changes []Change
	seen := map[string]bool{}
	for _, f := range files {
		clean := cleanTrackPath(f)
		if seen[clean] {
			continue
		}
		seen[clean] = true

		var old *music.Track
		if name, ok := l.TrackForFile(clean); ok {
			old, _ = l.Get(name)
		}
		name, err := l.LoadFile(clean)
		if err != nil {
			zlog.Error().Err(err).Str("file", f).Msg("failed to reload track")
			continue
		}
		next, _ := l.Get(name)
		zlog.Info().Str("track", name).Str("file", f).Msg("reloaded track")
		changes = append(changes, Change{Name: name, Old: old, New: next})
	}
	return changes
}

func warnGraph(t *music.Track) {
	for _, link := range t.BrokenLinks() {
		zlog.Warn().Str("track", t.Name).Str("from", string(link.From)).Str("to", string(link.To)).Msg("successor does not resolve to a playable part")
	}
	for _, id := range t.Unreachable() {
		zlog.Warn().Str("track", t.Name).Str("part", string(id)).Msg("part is unreachable from the start part")
	}
}
