package lighting

import (
	"testing"

	"github.com/lanterndev/lantern/render/soft"
)

func TestEdgePoolAddRemove(t *testing.T) {
	pool := NewEdgePool()
	if pool.Len() != 0 {
		t.Fatalf("Expected empty pool, got %d segments", pool.Len())
	}

	s1 := Segment{A: Point{X: 0, Y: 0}, B: Point{X: 1, Y: 0}}
	s2 := Segment{A: Point{X: 0, Y: 1}, B: Point{X: 1, Y: 1}}
	s3 := Segment{A: Point{X: 0, Y: 2}, B: Point{X: 1, Y: 2}}
	pool.Add(s1, s2, s3)
	if pool.Len() != 3 {
		t.Fatalf("Expected 3 segments, got %d", pool.Len())
	}

	pool.RemoveAt(1)
	if pool.Len() != 2 {
		t.Fatalf("Expected 2 segments after removal, got %d", pool.Len())
	}
	segments := pool.Segments()
	if segments[0] != s1 || segments[1] != s3 {
		t.Errorf("Expected remaining segments [%v %v], got %v", s1, s3, segments)
	}

	pool.Clear()
	if pool.Len() != 0 {
		t.Errorf("Expected empty pool after Clear, got %d segments", pool.Len())
	}
}

func TestEdgePoolAddRect(t *testing.T) {
	pool := NewEdgePool()
	pool.AddRect(0, 0, 10, 10)
	if pool.Len() != 4 {
		t.Fatalf("Expected 4 segments for a rectangle, got %d", pool.Len())
	}
}

func TestSharedPoolBetweenLights(t *testing.T) {
	backend := soft.New()
	pool := NewEdgePool()

	a := NewRadialLight(backend)
	a.AddPool(pool)
	a.SetPosition(0, 0)
	a.SetRange(100)

	b := NewRadialLight(backend)
	b.AddPool(pool)
	b.SetPosition(20, 0)
	b.SetRange(100)

	// Wall between the two lights.
	pool.Add(Segment{A: Point{X: 10, Y: -50}, B: Point{X: 10, Y: 50}})

	a.CastLight()
	b.CastLight()

	if hit := a.CastRay(0, 100); Distance(Point{}, hit) > 10+1e-6 {
		t.Errorf("Expected light a to be blocked at x=10, ray reached %v", hit)
	}
	if hit := b.CastRay(0, 100); Distance(Point{X: 20, Y: 0}, hit) < 100-1e-6 {
		t.Errorf("Expected light b to reach full range to the right, ray stopped at %v", hit)
	}

	// Editing the pool does not touch cached polygons until the next cast.
	before := a.Polygon()
	pool.Add(Segment{A: Point{X: 0, Y: 5}, B: Point{X: 5, Y: 5}})
	after := a.Polygon()
	if len(before) != len(after) {
		t.Fatalf("Expected cached polygon to be unchanged by pool edits, length went %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("Expected cached polygon to be unchanged by pool edits, vertex %d went %v -> %v", i, before[i], after[i])
		}
	}

	a.CastLight()
	recast := a.Polygon()
	if len(recast) == len(before) {
		same := true
		for i := range recast {
			if recast[i] != before[i] {
				same = false
				break
			}
		}
		if same {
			t.Error("Expected recast polygon to pick up the new segment")
		}
	}
}

func TestLightPoolMembership(t *testing.T) {
	backend := soft.New()
	light := NewRadialLight(backend)

	p1 := NewEdgePool()
	p2 := NewEdgePool()
	light.AddPool(p1)
	light.AddPool(p2)
	light.AddPool(p1) // duplicates collapse

	if got := len(light.Pools()); got != 2 {
		t.Fatalf("Expected 2 pools, got %d", got)
	}

	light.RemovePool(p1)
	pools := light.Pools()
	if len(pools) != 1 || pools[0] != p2 {
		t.Errorf("Expected only p2 to remain, got %v", pools)
	}
}
