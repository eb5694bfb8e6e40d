package system

import (
	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/dynmusic/ecs"
	"github.com/milk9111/dynmusic/ecs/component"
	"github.com/milk9111/dynmusic/music"
)

// MusicController is the music player API the trigger zones call into.
type MusicController interface {
	StartTrack(t *music.Track, fadeIn bool)
	StopTrack()
	SetIntenseZone(intense bool)
	OnEnemiesCleared()
	IsPlaying() bool
}

// TrackSource resolves track names. *tracks.Library implements it.
type TrackSource interface {
	Get(name string) (*music.Track, bool)
}

// MusicZoneSystem turns player and enemy overlaps with the music zones into
// music player calls.
type MusicZoneSystem struct {
	music  MusicController
	tracks TrackSource
	log    zerolog.Logger
}

func NewMusicZoneSystem(mc MusicController, tracks TrackSource) *MusicZoneSystem {
	return &MusicZoneSystem{
		music:  mc,
		tracks: tracks,
		log:    zlog.Logger.With().Str("component", "music_zone").Logger(),
	}
}

func (s *MusicZoneSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	playerBB, hasPlayer := playerBounds(w)
	if hasPlayer {
		if input, ok := playerInput(w); ok && input.Reactivate {
			ReactivateZones(w)
		}
	}

	ecs.ForEach(w, component.MusicIntensityZoneComponent.Kind(), func(e ecs.Entity, zone *component.MusicIntensityZone) {
		inside := hasPlayer && zone.Bounds.Intersects(playerBB)
		switch {
		case inside && !zone.Overlapping:
			s.playerEntered(w, e, zone)
		case !inside && zone.Overlapping && zone.PlayerInside:
			s.playerExited(w, e, zone)
		}
		zone.Overlapping = inside
		s.trackEnemies(w, e, zone)
	})

	ecs.ForEach(w, component.MusicExitZoneComponent.Kind(), func(e ecs.Entity, zone *component.MusicExitZone) {
		inside := hasPlayer && zone.Bounds.Intersects(playerBB)
		if inside && !zone.PlayerInside {
			s.log.Debug().Str("zone", e.String()).Msg("player entered exit zone, stopping music")
			s.music.StopTrack()
		}
		zone.PlayerInside = inside
	})
}

func (s *MusicZoneSystem) playerEntered(w *ecs.World, e ecs.Entity, zone *component.MusicIntensityZone) {
	if !zone.Active {
		// Ignored for good: re-arming the zone while the player stays in it
		// does not count as an entry.
		return
	}
	zone.PlayerInside = true
	w.Events().Push(ecs.Event{Type: ecs.EventZoneEnter, Data: zone.Track})

	s.log.Debug().
		Str("zone", e.String()).
		Bool("first_entry", zone.FirstEntry).
		Int("enemies", len(zone.Tracked)).
		Msg("player entered intensity zone")

	track, ok := s.tracks.Get(zone.Track)
	if !ok {
		s.log.Warn().Str("track", zone.Track).Msg("intensity zone has no track, cannot start music")
		return
	}

	if s.music.IsPlaying() {
		s.music.SetIntenseZone(true)
		return
	}
	s.music.StartTrack(track, zone.FirstEntry)
	zone.FirstEntry = false
}

func (s *MusicZoneSystem) playerExited(w *ecs.World, e ecs.Entity, zone *component.MusicIntensityZone) {
	zone.PlayerInside = false
	w.Events().Push(ecs.Event{Type: ecs.EventZoneExit, Data: zone.Track})
	s.log.Debug().Str("zone", e.String()).Msg("player exited intensity zone")

	if zone.Active {
		s.music.SetIntenseZone(false)
	}
}

// trackEnemies rebuilds the set of living enemies inside the zone and
// deactivates it when the set empties while the player is inside.
func (s *MusicZoneSystem) trackEnemies(w *ecs.World, e ecs.Entity, zone *component.MusicIntensityZone) {
	current := make(map[uint64]struct{})
	ecs.ForEach2(w, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(enemy ecs.Entity, en *component.Enemy, t *component.Transform) {
		if !en.Dead && zone.Bounds.Intersects(t.Bounds()) {
			current[uint64(enemy)] = struct{}{}
		}
	})

	if !zone.Rescan && sameSet(current, zone.Tracked) {
		return
	}
	zone.Rescan = false
	zone.Tracked = current

	if len(current) == 0 && zone.Active && zone.PlayerInside {
		s.log.Debug().Str("zone", e.String()).Msg("all enemies cleared, deactivating zone")
		zone.Active = false
		w.Events().Push(ecs.Event{Type: ecs.EventZoneClear, Data: zone.Track})
		s.music.OnEnemiesCleared()
	}
}

// ReactivateZones re-arms every intensity zone: active again, fading in on
// the next entry and with its enemies rescanned.
func ReactivateZones(w *ecs.World) {
	ecs.ForEach(w, component.MusicIntensityZoneComponent.Kind(), func(_ ecs.Entity, zone *component.MusicIntensityZone) {
		zone.Active = true
		zone.FirstEntry = true
		zone.Rescan = true
	})
}

func playerBounds(w *ecs.World) (cp.BB, bool) {
	e, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return cp.BB{}, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return cp.BB{}, false
	}
	return t.Bounds(), true
}

func playerInput(w *ecs.World) (*component.Input, bool) {
	e, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, e, component.InputComponent.Kind())
}

func sameSet(a, b map[uint64]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
