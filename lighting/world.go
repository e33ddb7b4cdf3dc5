package lighting

import "github.com/lanterndev/lantern/render"

// World wires lights, edge pools, and areas to one render backend. It owns
// the default edge pool that lights created through it cast against, so two
// scenes never share occluders by accident.
type World struct {
	backend     render.Backend
	defaultPool *EdgePool
	lights      []LightSource
}

// NewWorld creates an empty world drawing through the given backend.
func NewWorld(backend render.Backend) *World {
	return &World{
		backend:     backend,
		defaultPool: NewEdgePool(),
	}
}

// Backend returns the render backend the world draws through.
func (w *World) Backend() render.Backend {
	return w.backend
}

// DefaultPool returns the pool of occluders every light created through the
// world casts against.
func (w *World) DefaultPool() *EdgePool {
	return w.defaultPool
}

// NewRadialLight creates a radial light registered with the world and
// casting against the world's default pool.
func (w *World) NewRadialLight() *RadialLight {
	light := NewRadialLight(w.backend)
	light.AddPool(w.defaultPool)
	w.lights = append(w.lights, light)
	return light
}

// NewLightingArea creates a lighting area drawing through the world's
// backend.
func (w *World) NewLightingArea(mode Mode, x, y, width, height float64) (*LightingArea, error) {
	return NewLightingArea(w.backend, mode, x, y, width, height)
}

// AddLight registers an externally constructed light with the world.
func (w *World) AddLight(light LightSource) {
	w.lights = append(w.lights, light)
}

// RemoveLight unregisters a light. It reports whether the light was
// present.
func (w *World) RemoveLight(light LightSource) bool {
	for i, l := range w.lights {
		if l == light {
			w.lights = append(w.lights[:i], w.lights[i+1:]...)
			return true
		}
	}
	return false
}

// Lights returns the registered lights in registration order.
func (w *World) Lights() []LightSource {
	lights := make([]LightSource, len(w.lights))
	copy(lights, w.lights)
	return lights
}

// CastAll recasts every registered light whose cached polygon is stale and
// returns how many were recast.
func (w *World) CastAll() int {
	recast := 0
	for _, light := range w.lights {
		if light.ShouldRecast() {
			light.CastLight()
			recast++
		}
	}
	return recast
}

// CastAllForced recasts every registered light regardless of staleness.
// Use it after editing pool contents, which lights cannot observe.
func (w *World) CastAllForced() {
	for _, light := range w.lights {
		light.CastLight()
	}
}
