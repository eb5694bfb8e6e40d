package entity

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/dynmusic/ecs"
	"github.com/milk9111/dynmusic/ecs/component"
	"github.com/milk9111/dynmusic/levels"
)

var ErrUnknownEntityType = errors.New("entity: unknown entity type")

const defaultSize = 24

// LoadLevelToWorld creates the entities of lvl in world.
func LoadLevelToWorld(world *ecs.World, lvl *levels.Level) error {
	if lvl == nil {
		return errors.New("entity: nil level")
	}

	players := 0
	for i, ent := range lvl.Entities {
		t := transformOf(ent)

		var err error
		switch ent.Type {
		case "player":
			players++
			_, err = NewPlayer(world, t)
		case "enemy":
			var e ecs.Entity
			e, err = NewEnemy(world, ent.String("name", "enemy"), t)
			if err == nil && ent.String("script", "") != "" {
				err = AddPatrol(world, e, ent.String("script", ""), ent.Float("speed", 1), ent.Float("range", 32))
			}
		case "music_intensity_zone":
			_, err = NewMusicIntensityZone(world, ent.String("track", ""), t, ent.Bool("active", true))
		case "music_exit_zone":
			_, err = NewMusicExitZone(world, t)
		default:
			err = errors.Wrapf(ErrUnknownEntityType, "%q", ent.Type)
		}
		if err != nil {
			return errors.Wrapf(err, "level %q: entity %d", lvl.Name, i)
		}
	}
	if players != 1 {
		zlog.Warn().Str("level", lvl.Name).Int("players", players).Msg("level should have exactly one player")
	}
	return nil
}

func transformOf(ent levels.Entity) component.Transform {
	w, h := ent.W, ent.H
	if w <= 0 {
		w = defaultSize
	}
	if h <= 0 {
		h = defaultSize
	}
	return component.Transform{X: float64(ent.X), Y: float64(ent.Y), W: float64(w), H: float64(h)}
}
