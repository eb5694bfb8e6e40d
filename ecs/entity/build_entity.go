package entity

import (
	"github.com/milk9111/dynmusic/ecs"
	"github.com/milk9111/dynmusic/ecs/component"
)

// NewPlayer creates the controllable player.
func NewPlayer(w *ecs.World, t component.Transform) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &t); err != nil {
		return 0, err
	}
	return e, nil
}

func NewEnemy(w *ecs.World, name string, t component.Transform) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.EnemyComponent.Kind(), &component.Enemy{Name: name}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &t); err != nil {
		return 0, err
	}
	return e, nil
}

// NewMusicIntensityZone creates a zone covering t that plays track.
func NewMusicIntensityZone(w *ecs.World, track string, t component.Transform, active bool) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	zone := component.NewMusicIntensityZone(track, t.Bounds())
	zone.Active = active
	if err := ecs.Add(w, e, component.MusicIntensityZoneComponent.Kind(), zone); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &t); err != nil {
		return 0, err
	}
	return e, nil
}

func NewMusicExitZone(w *ecs.World, t component.Transform) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.MusicExitZoneComponent.Kind(), &component.MusicExitZone{Bounds: t.Bounds()}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &t); err != nil {
		return 0, err
	}
	return e, nil
}

// AddPatrol makes e follow script around its current position.
func AddPatrol(w *ecs.World, e ecs.Entity, script string, speed, rng float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return component.ErrEntityNotAlive
	}
	return ecs.Add(w, e, component.PatrolComponent.Kind(), &component.Patrol{
		Script:  script,
		OriginX: t.X,
		OriginY: t.Y,
		Speed:   speed,
		Range:   rng,
	})
}
