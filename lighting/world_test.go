package lighting

import (
	"errors"
	"testing"

	"github.com/lanterndev/lantern/render/soft"
)

func TestWorldLightsCastAgainstDefaultPool(t *testing.T) {
	world := NewWorld(soft.New())
	world.DefaultPool().Add(Segment{A: Point{X: 5, Y: -5}, B: Point{X: 5, Y: 5}})

	light := world.NewRadialLight()
	light.SetRange(100)
	light.CastLight()

	if pools := light.Pools(); len(pools) != 1 || pools[0] != world.DefaultPool() {
		t.Errorf("Expected the light to reference the world's default pool, got %v", pools)
	}
	if light.Illuminates(Point{X: 50, Y: 0}) {
		t.Error("Expected the default pool's wall to shadow the point behind it")
	}
	if !light.Illuminates(Point{X: 3, Y: 0}) {
		t.Error("Expected the point in front of the wall to be lit")
	}
}

func TestWorldCastAllSkipsFreshLights(t *testing.T) {
	world := NewWorld(soft.New())
	a := world.NewRadialLight()
	b := world.NewRadialLight()
	a.SetRange(50)
	b.SetRange(50)

	if got := world.CastAll(); got != 2 {
		t.Errorf("Expected 2 stale lights on the first pass, got %d", got)
	}
	if got := world.CastAll(); got != 0 {
		t.Errorf("Expected no stale lights on the second pass, got %d", got)
	}

	a.SetPosition(10, 0)
	if got := world.CastAll(); got != 1 {
		t.Errorf("Expected 1 stale light after a move, got %d", got)
	}
}

func TestWorldCastAllForcedPicksUpPoolEdits(t *testing.T) {
	world := NewWorld(soft.New())
	light := world.NewRadialLight()
	light.SetRange(100)
	world.CastAll()

	// Pool edits are invisible to ShouldRecast.
	world.DefaultPool().Add(Segment{A: Point{X: 5, Y: -5}, B: Point{X: 5, Y: 5}})
	if got := world.CastAll(); got != 0 {
		t.Errorf("Expected CastAll to miss the pool edit, got %d recasts", got)
	}
	if !light.Illuminates(Point{X: 50, Y: 0}) {
		t.Error("Expected the cached polygon to ignore the new wall before a forced recast")
	}

	world.CastAllForced()
	if light.Illuminates(Point{X: 50, Y: 0}) {
		t.Error("Expected the forced recast to pick up the new wall")
	}
}

func TestWorldAddRemoveLight(t *testing.T) {
	world := NewWorld(soft.New())
	inside := world.NewRadialLight()
	outside := NewRadialLight(world.Backend())
	world.AddLight(outside)

	lights := world.Lights()
	if len(lights) != 2 || lights[0] != LightSource(inside) || lights[1] != LightSource(outside) {
		t.Fatalf("Expected both lights in registration order, got %v", lights)
	}

	if !world.RemoveLight(inside) {
		t.Error("Expected RemoveLight to find a registered light")
	}
	if world.RemoveLight(inside) {
		t.Error("Expected RemoveLight to report a missing light")
	}
	remaining := world.Lights()
	if len(remaining) != 1 || remaining[0] != LightSource(outside) {
		t.Errorf("Expected only the external light to remain, got %v", remaining)
	}

	// Externally built lights do not cast against the default pool.
	if pools := outside.Pools(); len(pools) != 0 {
		t.Errorf("Expected an external light to start with no pools, got %d", len(pools))
	}
}

func TestWorldNewLightingArea(t *testing.T) {
	world := NewWorld(soft.New())
	area, err := world.NewLightingArea(ModeFog, 0, 0, 8, 8)
	if err != nil {
		t.Fatalf("Failed to create a lighting area: %v", err)
	}
	if area.Mode() != ModeFog {
		t.Errorf("Expected fog mode, got %v", area.Mode())
	}

	if _, err := world.NewLightingArea(Mode(5), 0, 0, 8, 8); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Expected ErrUnknownMode, got %v", err)
	}
}
