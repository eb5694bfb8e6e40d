package component

import "github.com/jakecoffman/cp"

// Transform is an axis-aligned box: X, Y is the top-left corner.
type Transform struct {
	X float64
	Y float64
	W float64
	H float64
}

// Bounds returns the box as a cp.BB.
func (t Transform) Bounds() cp.BB {
	return cp.BB{L: t.X, B: t.Y, R: t.X + t.W, T: t.Y + t.H}
}

// Center returns the middle of the box.
func (t Transform) Center() cp.Vector {
	return cp.Vector{X: t.X + t.W/2, Y: t.Y + t.H/2}
}

var TransformComponent = NewComponent[Transform]()
