// Package lighting implements 2D dynamic lights with hard shadows.
//
// Lights compute a visibility polygon by casting rays against shared pools
// of occluding edges, then render the polygon as a colored triangle fan.
// A LightingArea composites many lights into an offscreen surface, either
// accumulating glow onto the scene or carving holes into a fog layer.
//
// The package draws through the render.Backend interface, so the same
// lighting code runs on the GPU in a game and on the software rasterizer in
// tests.
package lighting

import "math"

// Point represents a 2D point in scene coordinates.
type Point struct {
	X, Y float64
}

// Segment represents an occluding edge that blocks light.
type Segment struct {
	A, B Point
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// SegmentsFromRect returns the four edges of an axis-aligned rectangle with
// its top-left corner at (x, y).
func SegmentsFromRect(x, y, width, height float64) []Segment {
	tl := Point{X: x, Y: y}
	tr := Point{X: x + width, Y: y}
	br := Point{X: x + width, Y: y + height}
	bl := Point{X: x, Y: y + height}
	return []Segment{
		{A: tl, B: tr},
		{A: tr, B: br},
		{A: br, B: bl},
		{A: bl, B: tl},
	}
}
