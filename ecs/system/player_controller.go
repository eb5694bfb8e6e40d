package system

import (
	"math"

	"github.com/milk9111/dynmusic/ecs"
	"github.com/milk9111/dynmusic/ecs/component"
)

// PlayerControllerSystem moves the player by its input, keeping it inside
// the level.
type PlayerControllerSystem struct {
	Speed  float64 // pixels per frame
	Width  float64
	Height float64
}

func NewPlayerControllerSystem(speed, width, height float64) *PlayerControllerSystem {
	return &PlayerControllerSystem{Speed: speed, Width: width, Height: height}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.InputComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, in *component.Input, t *component.Transform) {
		dx, dy := in.MoveX, in.MoveY
		if l := math.Hypot(dx, dy); l > 1 {
			dx /= l
			dy /= l
		}
		t.X += dx * p.Speed
		t.Y += dy * p.Speed

		if p.Width > 0 {
			t.X = clamp(t.X, 0, p.Width-t.W)
		}
		if p.Height > 0 {
			t.Y = clamp(t.Y, 0, p.Height-t.H)
		}
	})
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
