package lighting

import (
	"math"
	"testing"
)

func pointsClose(a, b Point) bool {
	return Distance(a, b) < 1e-9
}

func TestIdentityApply(t *testing.T) {
	p := Point{X: 3, Y: -7}
	if got := Identity().Apply(p); got != p {
		t.Errorf("Expected identity to map %v to itself, got %v", p, got)
	}
}

func TestTransformMul(t *testing.T) {
	translate := Transform{A: 1, D: 1, TX: 10, TY: 20}
	scale := Transform{A: 2, D: 3}

	// Mul applies the right operand first: scale, then translate.
	combined := translate.Mul(scale)
	got := combined.Apply(Point{X: 1, Y: 1})
	want := Point{X: 12, Y: 23}
	if !pointsClose(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// The other order translates first.
	combined = scale.Mul(translate)
	got = combined.Apply(Point{X: 1, Y: 1})
	want = Point{X: 22, Y: 63}
	if !pointsClose(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestTransformInvertRoundTrip(t *testing.T) {
	tr := newTransformable(Point{X: 42, Y: -13})
	tr.SetRotation(0.7)
	tr.SetScale(2, 0.5)
	tf := tr.Transform()

	inv, ok := tf.Invert()
	if !ok {
		t.Fatal("Expected transform to be invertible")
	}

	for _, p := range []Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: -100, Y: 3}} {
		back := inv.Apply(tf.Apply(p))
		if !pointsClose(back, p) {
			t.Errorf("Round trip moved %v to %v", p, back)
		}
	}
}

func TestTransformInvertDegenerate(t *testing.T) {
	if _, ok := (Transform{}).Invert(); ok {
		t.Error("Expected zero transform to be non-invertible")
	}
	flat := Transform{A: 1, B: 2, C: 2, D: 4}
	if _, ok := flat.Invert(); ok {
		t.Error("Expected rank-deficient transform to be non-invertible")
	}
}

func TestTransformableTransform(t *testing.T) {
	tr := newTransformable(Point{X: 100, Y: 50})

	// With no rotation or scale the transform is a pure translation.
	got := tr.Transform().Apply(Point{X: 1, Y: 2})
	if want := (Point{X: 101, Y: 52}); !pointsClose(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// A quarter turn maps local +x onto +y.
	tr.SetRotation(math.Pi / 2)
	got = tr.Transform().Apply(Point{X: 1, Y: 0})
	if want := (Point{X: 100, Y: 51}); !pointsClose(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// Scale applies before the translation.
	tr.SetRotation(0)
	tr.SetScale(3, 2)
	got = tr.Transform().Apply(Point{X: 1, Y: 1})
	if want := (Point{X: 103, Y: 52}); !pointsClose(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestTransformableAccessors(t *testing.T) {
	tr := newTransformable(Point{X: 1, Y: 2})

	tr.Move(4, -2)
	if got := tr.Position(); got != (Point{X: 5, Y: 0}) {
		t.Errorf("Expected position (5, 0), got %v", got)
	}

	tr.SetPosition(7, 8)
	if got := tr.Position(); got != (Point{X: 7, Y: 8}) {
		t.Errorf("Expected position (7, 8), got %v", got)
	}

	tr.SetRotation(1)
	tr.Rotate(0.5)
	if got := tr.Rotation(); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("Expected rotation 1.5, got %g", got)
	}

	tr.SetScale(2, 4)
	if sx, sy := tr.Scale(); sx != 2 || sy != 4 {
		t.Errorf("Expected scale (2, 4), got (%g, %g)", sx, sy)
	}
}
