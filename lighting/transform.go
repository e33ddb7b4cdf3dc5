package lighting

import "math"

// Transform is a 2D affine transform:
//
//	x' = A*x + B*y + TX
//	y' = C*x + D*y + TY
//
// Transforms are plain values and compare with ==, which is how lights
// detect that they moved since their last cast.
type Transform struct {
	A, B, C, D, TX, TY float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// Apply maps a point through the transform.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// Mul returns the composition that applies u first, then t.
func (t Transform) Mul(u Transform) Transform {
	return Transform{
		A:  t.A*u.A + t.B*u.C,
		B:  t.A*u.B + t.B*u.D,
		C:  t.C*u.A + t.D*u.C,
		D:  t.C*u.B + t.D*u.D,
		TX: t.A*u.TX + t.B*u.TY + t.TX,
		TY: t.C*u.TX + t.D*u.TY + t.TY,
	}
}

// Invert returns the inverse transform. It reports false when the transform
// is degenerate and cannot be inverted.
func (t Transform) Invert() (Transform, bool) {
	det := t.A*t.D - t.B*t.C
	if det == 0 {
		return Identity(), false
	}
	inv := Transform{
		A: t.D / det,
		B: -t.B / det,
		C: -t.C / det,
		D: t.A / det,
	}
	inv.TX = -(inv.A*t.TX + inv.B*t.TY)
	inv.TY = -(inv.C*t.TX + inv.D*t.TY)
	return inv, true
}

// transformable carries the position, rotation, and scale shared by lights
// and lighting areas.
type transformable struct {
	position Point
	rotation float64
	scaleX   float64
	scaleY   float64
}

func newTransformable(pos Point) transformable {
	return transformable{position: pos, scaleX: 1, scaleY: 1}
}

// Position returns the position in scene coordinates.
func (t *transformable) Position() Point {
	return t.position
}

// SetPosition moves the object to (x, y).
func (t *transformable) SetPosition(x, y float64) {
	t.position = Point{X: x, Y: y}
}

// Move shifts the object by (dx, dy).
func (t *transformable) Move(dx, dy float64) {
	t.position.X += dx
	t.position.Y += dy
}

// Rotation returns the rotation in radians.
func (t *transformable) Rotation() float64 {
	return t.rotation
}

// SetRotation sets the rotation in radians.
func (t *transformable) SetRotation(radians float64) {
	t.rotation = radians
}

// Rotate adds delta radians to the rotation.
func (t *transformable) Rotate(delta float64) {
	t.rotation += delta
}

// Scale returns the scale factors.
func (t *transformable) Scale() (sx, sy float64) {
	return t.scaleX, t.scaleY
}

// SetScale sets the scale factors.
func (t *transformable) SetScale(sx, sy float64) {
	t.scaleX = sx
	t.scaleY = sy
}

// Transform returns the local-to-scene transform, composed as
// translate, then rotate, then scale.
func (t *transformable) Transform() Transform {
	sin, cos := math.Sincos(t.rotation)
	return Transform{
		A: cos * t.scaleX, B: -sin * t.scaleY, TX: t.position.X,
		C: sin * t.scaleX, D: cos * t.scaleY, TY: t.position.Y,
	}
}
