package lighting

import (
	"math"
	"testing"
)

// gridFromRows builds a blocked predicate from strings of '#' and '.'.
func gridFromRows(rows []string) (cols, rowCount int, blocked func(col, row int) bool) {
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return cols, len(rows), func(col, row int) bool {
		if row < 0 || row >= len(rows) {
			return false
		}
		return col >= 0 && col < len(rows[row]) && rows[row][col] == '#'
	}
}

func segmentLength(s Segment) float64 {
	return Distance(s.A, s.B)
}

func TestSegmentsFromGridSingleCell(t *testing.T) {
	cols, rows, blocked := gridFromRows([]string{
		"...",
		".#.",
		"...",
	})
	segments := SegmentsFromGrid(cols, rows, 10, blocked)

	if len(segments) != 4 {
		t.Fatalf("Expected 4 segments for one cell, got %d", len(segments))
	}
	for _, seg := range segments {
		if math.Abs(segmentLength(seg)-10) > 1e-9 {
			t.Errorf("Expected every edge to have length 10, got %g for %v", segmentLength(seg), seg)
		}
	}

	// The cell spans (10,10)-(20,20); every endpoint must be one of its corners.
	corners := map[Point]bool{
		{X: 10, Y: 10}: true, {X: 20, Y: 10}: true,
		{X: 20, Y: 20}: true, {X: 10, Y: 20}: true,
	}
	for _, seg := range segments {
		if !corners[seg.A] || !corners[seg.B] {
			t.Errorf("Segment %v does not lie on the cell outline", seg)
		}
	}
}

func TestSegmentsFromGridMergesRuns(t *testing.T) {
	// A 3x1 wall must produce 4 merged segments, not 8 per-cell edges.
	cols, rows, blocked := gridFromRows([]string{"###"})
	segments := SegmentsFromGrid(cols, rows, 5, blocked)

	if len(segments) != 4 {
		t.Fatalf("Expected 4 merged segments for a straight wall, got %d", len(segments))
	}

	long := 0
	for _, seg := range segments {
		if math.Abs(segmentLength(seg)-15) < 1e-9 {
			long++
		}
	}
	if long != 2 {
		t.Errorf("Expected 2 segments of length 15 (top and bottom), got %d", long)
	}
}

func TestSegmentsFromGridSquareBlock(t *testing.T) {
	cols, rows, blocked := gridFromRows([]string{
		"##",
		"##",
	})
	segments := SegmentsFromGrid(cols, rows, 8, blocked)

	if len(segments) != 4 {
		t.Fatalf("Expected 4 segments for a square block, got %d", len(segments))
	}
	for _, seg := range segments {
		if math.Abs(segmentLength(seg)-16) > 1e-9 {
			t.Errorf("Expected merged edges of length 16, got %g", segmentLength(seg))
		}
	}
}

func TestSegmentsFromGridSeparateRegions(t *testing.T) {
	// Two diagonal cells only touch at a corner, so they stay separate
	// regions with 4 edges each.
	cols, rows, blocked := gridFromRows([]string{
		"#.",
		".#",
	})
	segments := SegmentsFromGrid(cols, rows, 10, blocked)
	if len(segments) != 8 {
		t.Fatalf("Expected 8 segments for two corner-touching cells, got %d", len(segments))
	}
}

func TestSegmentsFromGridLShape(t *testing.T) {
	// An L made of three cells has six exposed runs after merging.
	cols, rows, blocked := gridFromRows([]string{
		"#.",
		"##",
	})
	segments := SegmentsFromGrid(cols, rows, 10, blocked)
	if len(segments) != 6 {
		t.Fatalf("Expected 6 segments for an L-shape, got %d", len(segments))
	}

	total := 0.0
	for _, seg := range segments {
		total += segmentLength(seg)
	}
	// The L-shape perimeter is 8 cell edges.
	if math.Abs(total-80) > 1e-9 {
		t.Errorf("Expected perimeter 80, got %g", total)
	}
}

func TestSegmentsFromGridEmptyAndInvalid(t *testing.T) {
	cols, rows, blocked := gridFromRows([]string{"...", "..."})
	if segments := SegmentsFromGrid(cols, rows, 10, blocked); len(segments) != 0 {
		t.Errorf("Expected no segments for an open grid, got %d", len(segments))
	}
	if segments := SegmentsFromGrid(0, 5, 10, blocked); segments != nil {
		t.Errorf("Expected nil for zero columns, got %v", segments)
	}
	if segments := SegmentsFromGrid(5, 5, 0, blocked); segments != nil {
		t.Errorf("Expected nil for zero cell size, got %v", segments)
	}
	if segments := SegmentsFromGrid(5, 5, 10, nil); segments != nil {
		t.Errorf("Expected nil for nil predicate, got %v", segments)
	}
}

func TestSegmentsFromGridBlocksLight(t *testing.T) {
	// End to end: a grid wall must shadow a light exactly like hand-placed
	// segments.
	cols, rows, blocked := gridFromRows([]string{
		".....",
		".###.",
		".....",
	})
	pool := NewEdgePool()
	pool.Add(SegmentsFromGrid(cols, rows, 10, blocked)...)

	light := newTestLight(t)
	light.AddPool(pool)
	light.SetPosition(25, 5) // above the middle of the wall
	light.SetRange(100)

	hit := light.CastRay(math.Pi/2, 100) // straight down
	if math.Abs(hit.Y-10) > 1e-6 {
		t.Errorf("Expected ray to stop at the wall top y=10, got y=%g", hit.Y)
	}

	hit = light.CastRay(-math.Pi/2, 100) // straight up, nothing there
	if math.Abs(hit.Y-(-95)) > 1e-6 {
		t.Errorf("Expected ray to reach full range upward, got y=%g", hit.Y)
	}
}
