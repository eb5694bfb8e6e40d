package music

import (
	"time"

	"github.com/cockroachdb/errors"
)

var (
	ErrNilTrack          = errors.New("music: track is nil")
	ErrNoParts           = errors.New("music: track has no parts")
	ErrNoStartPart       = errors.New("music: track has no start part")
	ErrStartPartNotFound = errors.New("music: start part not found")
	ErrStartPartNoSound  = errors.New("music: start part has no sound")
	ErrPartNotFound      = errors.New("music: part not found")
)

// PartID identifies a part within its track. The zero value means "none".
type PartID string

// SoundRef is an opaque handle to a playable sound asset. Channels resolve it
// when the part is loaded.
type SoundRef string

// Part is one finite audio segment of a track.
type Part struct {
	ID     PartID
	Sound  SoundRef
	Volume float64

	// NextIntense lists the candidate successors while the player is in an
	// intense zone. One is picked at random.
	NextIntense []PartID
	// NextCalm lists the candidate successors while calm. When empty,
	// NextIntense is used instead.
	NextCalm []PartID
}

// Valid reports whether the part can be played.
func (p *Part) Valid() bool {
	return p != nil && p.ID != "" && p.Sound != ""
}

// Terminal reports whether the part has no successors at all.
func (p *Part) Terminal() bool {
	return p != nil && len(p.NextIntense) == 0 && len(p.NextCalm) == 0
}

// Track is an authored composition for one level section. Tracks are
// immutable once handed to a Player; the player keeps the pointer, not a copy.
type Track struct {
	Name      string
	Parts     []Part
	StartPart PartID

	FadeIn          time.Duration
	FadeOut         time.Duration
	IntensityChange time.Duration

	IntenseVolume float64
	CalmVolume    float64
}

// FindPart looks up a part by id.
func (t *Track) FindPart(id PartID) (*Part, bool) {
	if t == nil || id == "" {
		return nil, false
	}
	for i := range t.Parts {
		if t.Parts[i].ID == id {
			return &t.Parts[i], true
		}
	}
	return nil, false
}

// Start returns the default start part.
func (t *Track) Start() (*Part, bool) {
	if t == nil {
		return nil, false
	}
	return t.FindPart(t.StartPart)
}

// Validate checks that the track can be started.
func (t *Track) Validate() error {
	if t == nil {
		return ErrNilTrack
	}
	if len(t.Parts) == 0 {
		return errors.Wrapf(ErrNoParts, "track %q", t.Name)
	}
	if t.StartPart == "" {
		return errors.Wrapf(ErrNoStartPart, "track %q", t.Name)
	}
	start, ok := t.Start()
	if !ok {
		return errors.Wrapf(ErrStartPartNotFound, "track %q: part %q", t.Name, t.StartPart)
	}
	if start.Sound == "" {
		return errors.Wrapf(ErrStartPartNoSound, "track %q: part %q", t.Name, t.StartPart)
	}
	return nil
}

// ZoneVolume returns the track multiplier for the given intensity.
func (t *Track) ZoneVolume(intense bool) float64 {
	if t == nil {
		return 1
	}
	if intense {
		return t.IntenseVolume
	}
	return t.CalmVolume
}

// DeadEnds returns the parts that have no successors for either intensity.
// Reaching one stops the track.
func (t *Track) DeadEnds() []PartID {
	if t == nil {
		return nil
	}
	var out []PartID
	for i := range t.Parts {
		if t.Parts[i].Terminal() {
			out = append(out, t.Parts[i].ID)
		}
	}
	return out
}

// BrokenLink is a successor reference that does not resolve to a playable part.
type BrokenLink struct {
	From PartID
	To   PartID
}

// BrokenLinks returns every successor id that is missing from the track or
// points at a part without a sound.
func (t *Track) BrokenLinks() []BrokenLink {
	if t == nil {
		return nil
	}
	var out []BrokenLink
	for i := range t.Parts {
		from := &t.Parts[i]
		check := func(ids []PartID) {
			for _, id := range ids {
				if next, ok := t.FindPart(id); !ok || !next.Valid() {
					out = append(out, BrokenLink{From: from.ID, To: id})
				}
			}
		}
		check(from.NextIntense)
		check(from.NextCalm)
	}
	return out
}

// Unreachable returns the parts that can never be played starting from the
// default start part.
func (t *Track) Unreachable() []PartID {
	if t == nil {
		return nil
	}
	seen := map[PartID]bool{}
	queue := []PartID{t.StartPart}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		part, ok := t.FindPart(id)
		if !ok {
			continue
		}
		seen[id] = true
		queue = append(queue, part.NextIntense...)
		queue = append(queue, part.NextCalm...)
	}

	var out []PartID
	for i := range t.Parts {
		if !seen[t.Parts[i].ID] {
			out = append(out, t.Parts[i].ID)
		}
	}
	return out
}
