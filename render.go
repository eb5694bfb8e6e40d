package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/dynmusic/ecs"
	"github.com/milk9111/dynmusic/ecs/component"
)

var labelFace ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x18, G: 0x18, B: 0x20, A: 0xff})

	g.drawZones(screen)
	g.drawActors(screen)

	lines := []string{g.Status()}
	if g.debug {
		lines = append(lines,
			fmt.Sprintf("FPS: %.1f  frames: %d", ebiten.ActualFPS(), g.frames),
			"move: arrows/WASD  kill: K  reactivate: R  stop: X  overlay: F1",
		)
		lines = append(lines, g.log...)
	}
	ebitenutil.DebugPrint(screen, strings.Join(lines, "\n"))
}

func (g *Game) drawZones(screen *ebiten.Image) {
	ecs.ForEach(g.world, component.MusicIntensityZoneComponent.Kind(), func(_ ecs.Entity, z *component.MusicIntensityZone) {
		fill := color.RGBA{R: 0x80, G: 0x20, B: 0x20, A: 0x30}
		stroke := colornames.Indianred
		if !z.Active {
			fill = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0x30}
			stroke = colornames.Dimgray
		}
		x, y := float32(z.Bounds.L), float32(z.Bounds.B)
		w, h := float32(z.Bounds.R-z.Bounds.L), float32(z.Bounds.T-z.Bounds.B)
		vector.FillRect(screen, x, y, w, h, fill, false)
		vector.StrokeRect(screen, x, y, w, h, 1, stroke, false)

		label := fmt.Sprintf("%s (%d)", z.Track, len(z.Tracked))
		drawLabel(screen, label, float64(x)+4, float64(y)+4, stroke)
	})

	ecs.ForEach(g.world, component.MusicExitZoneComponent.Kind(), func(_ ecs.Entity, z *component.MusicExitZone) {
		x, y := float32(z.Bounds.L), float32(z.Bounds.B)
		w, h := float32(z.Bounds.R-z.Bounds.L), float32(z.Bounds.T-z.Bounds.B)
		vector.FillRect(screen, x, y, w, h, color.RGBA{R: 0x20, G: 0x40, B: 0x80, A: 0x30}, false)
		drawLabel(screen, "exit", float64(x)+4, float64(y)+4, colornames.Steelblue)
	})
}

func (g *Game) drawActors(screen *ebiten.Image) {
	ecs.ForEach2(g.world, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, e *component.Enemy, t *component.Transform) {
		clr := color.Color(colornames.Crimson)
		if e.Dead {
			clr = colornames.Darkslategray
		}
		vector.FillRect(screen, float32(t.X), float32(t.Y), float32(t.W), float32(t.H), clr, false)
	})

	ecs.ForEach2(g.world, component.PlayerTagComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.PlayerTag, t *component.Transform) {
		vector.FillRect(screen, float32(t.X), float32(t.Y), float32(t.W), float32(t.H), colornames.Lightgreen, false)
	})
}

func drawLabel(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	ebtext.Draw(screen, s, labelFace, op)
}
