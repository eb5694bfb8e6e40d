package component

import "github.com/jakecoffman/cp"

// MusicIntensityZone starts its track when the player enters and keeps the
// music intense while the player is inside. It deactivates once every enemy
// inside has died.
type MusicIntensityZone struct {
	Track  string
	Bounds cp.BB

	Active     bool
	FirstEntry bool // the next start fades in
	// PlayerInside is set by an entry while the zone is active. Overlapping
	// follows the raw overlap, so an entry only happens when one begins.
	PlayerInside bool
	Overlapping  bool

	// Tracked holds the raw handles of the living enemies inside.
	Tracked map[uint64]struct{}
	// Rescan forces the enemy state to be re-evaluated on the next update.
	Rescan bool
}

// NewMusicIntensityZone returns an active zone that fades in on first entry.
func NewMusicIntensityZone(track string, bounds cp.BB) *MusicIntensityZone {
	return &MusicIntensityZone{
		Track:      track,
		Bounds:     bounds,
		Active:     true,
		FirstEntry: true,
		Tracked:    make(map[uint64]struct{}),
		Rescan:     true,
	}
}

var MusicIntensityZoneComponent = NewComponent[MusicIntensityZone]()

// MusicExitZone stops the music when the player enters.
type MusicExitZone struct {
	Bounds       cp.BB
	PlayerInside bool
}

var MusicExitZoneComponent = NewComponent[MusicExitZone]()
