package system

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/dynmusic/ecs"
	"github.com/milk9111/dynmusic/ecs/component"
)

// CombatSystem kills every living enemy within Range of the player when the
// player attacks.
type CombatSystem struct {
	Range float64
}

func NewCombatSystem(attackRange float64) *CombatSystem {
	return &CombatSystem{Range: attackRange}
}

func (c *CombatSystem) Update(w *ecs.World) {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	in, ok := ecs.Get(w, player, component.InputComponent.Kind())
	if !ok || !in.Attack {
		return
	}
	pt, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	origin := pt.Center()

	ecs.ForEach2(w, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, enemy *component.Enemy, t *component.Transform) {
		if enemy.Dead || origin.Distance(t.Center()) > c.Range {
			return
		}
		enemy.Dead = true
		zlog.Debug().Str("enemy", enemy.Name).Str("entity", e.String()).Msg("enemy killed")
	})
}
