package lighting

import (
	"math"
	"testing"
)

func TestRaySegmentIntersection(t *testing.T) {
	tests := []struct {
		name     string
		origin   Point
		dx, dy   float64
		seg      Segment
		wantHit  bool
		wantDist float64
	}{
		{
			name:   "perpendicular wall ahead",
			origin: Point{X: 0, Y: 0}, dx: 1, dy: 0,
			seg:     Segment{A: Point{X: 5, Y: -5}, B: Point{X: 5, Y: 5}},
			wantHit: true, wantDist: 5,
		},
		{
			name:   "wall behind the origin",
			origin: Point{X: 0, Y: 0}, dx: 1, dy: 0,
			seg:     Segment{A: Point{X: -5, Y: -5}, B: Point{X: -5, Y: 5}},
			wantHit: false,
		},
		{
			name:   "ray parallel to segment",
			origin: Point{X: 0, Y: 0}, dx: 1, dy: 0,
			seg:     Segment{A: Point{X: 2, Y: 1}, B: Point{X: 8, Y: 1}},
			wantHit: false,
		},
		{
			name:   "ray misses past the segment end",
			origin: Point{X: 0, Y: 0}, dx: 1, dy: 0,
			seg:     Segment{A: Point{X: 5, Y: 1}, B: Point{X: 5, Y: 5}},
			wantHit: false,
		},
		{
			name:   "hit exactly on an endpoint",
			origin: Point{X: 0, Y: 0}, dx: 1, dy: 0,
			seg:     Segment{A: Point{X: 5, Y: 0}, B: Point{X: 5, Y: 5}},
			wantHit: true, wantDist: 5,
		},
		{
			name:   "diagonal ray through a diagonal wall",
			origin: Point{X: 0, Y: 0}, dx: math.Sqrt2 / 2, dy: math.Sqrt2 / 2,
			seg:     Segment{A: Point{X: 0, Y: 2}, B: Point{X: 2, Y: 0}},
			wantHit: true, wantDist: math.Sqrt2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, dist, point := raySegmentIntersection(tt.origin, tt.dx, tt.dy, tt.seg)
			if hit != tt.wantHit {
				t.Fatalf("Expected hit=%v, got %v", tt.wantHit, hit)
			}
			if !hit {
				return
			}
			if math.Abs(dist-tt.wantDist) > 1e-9 {
				t.Errorf("Expected distance %g, got %g", tt.wantDist, dist)
			}
			wantPoint := Point{
				X: tt.origin.X + tt.dx*tt.wantDist,
				Y: tt.origin.Y + tt.dy*tt.wantDist,
			}
			if Distance(point, wantPoint) > 1e-9 {
				t.Errorf("Expected hit point %v, got %v", wantPoint, point)
			}
		})
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
		{X: 0, Y: 10},
	}

	inside := []Point{{X: 5, Y: 5}, {X: 1, Y: 9}, {X: 9.9, Y: 0.1}}
	for _, p := range inside {
		if !PointInPolygon(p, square) {
			t.Errorf("Expected %v to be inside the square", p)
		}
	}

	outside := []Point{{X: -1, Y: 5}, {X: 11, Y: 5}, {X: 5, Y: -0.5}, {X: 5, Y: 10.5}}
	for _, p := range outside {
		if PointInPolygon(p, square) {
			t.Errorf("Expected %v to be outside the square", p)
		}
	}
}

func TestPointInPolygonDegenerate(t *testing.T) {
	if PointInPolygon(Point{X: 1, Y: 1}, nil) {
		t.Error("Expected no point inside an empty polygon")
	}
	line := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	if PointInPolygon(Point{X: 5, Y: 1}, line) {
		t.Error("Expected no point inside a two-vertex polygon")
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
		{-4 * math.Pi, 0},
	}
	for _, tt := range tests {
		if got := normalizeAngle(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("normalizeAngle(%g): expected %g, got %g", tt.in, tt.want, got)
		}
	}
}

func TestAngleDiff(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{0, math.Pi / 2, math.Pi / 2},
		{math.Pi / 2, 0, math.Pi / 2},
		{0.1, 2*math.Pi - 0.1, 0.2},
		{0, math.Pi, math.Pi},
	}
	for _, tt := range tests {
		if got := angleDiff(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("angleDiff(%g, %g): expected %g, got %g", tt.a, tt.b, tt.want, got)
		}
	}
}

func TestSegmentsFromRect(t *testing.T) {
	segments := SegmentsFromRect(10, 20, 30, 40)
	if len(segments) != 4 {
		t.Fatalf("Expected 4 segments, got %d", len(segments))
	}

	// Walk the edges end to end and verify the loop closes on itself.
	for i, seg := range segments {
		next := segments[(i+1)%len(segments)]
		if seg.B != next.A {
			t.Errorf("Segment %d ends at %v but segment %d starts at %v", i, seg.B, (i+1)%4, next.A)
		}
	}

	corners := map[Point]bool{}
	for _, seg := range segments {
		corners[seg.A] = true
	}
	for _, want := range []Point{{X: 10, Y: 20}, {X: 40, Y: 20}, {X: 40, Y: 60}, {X: 10, Y: 60}} {
		if !corners[want] {
			t.Errorf("Expected corner %v in rectangle outline", want)
		}
	}
}
