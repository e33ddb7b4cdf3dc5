package lighting

import (
	"math"
	"sort"

	"github.com/lanterndev/lantern/render"
)

// cornerEpsilon offsets the extra rays cast on both sides of each occluder
// endpoint, so light slips past corners instead of stopping at them.
const cornerEpsilon = 0.0001

// boundaryStep is the target angular spacing of the rays that trace the
// range boundary where no occluder limits the light.
const boundaryStep = math.Pi / 16

// fullCircleSlack absorbs float error when deciding whether a beam covers
// the full circle, and whether a candidate ray sits inside the beam.
const fullCircleSlack = 1e-9

// RadialLight is a point light that spreads over a circular sector. With a
// full-circle beam it is omnidirectional; narrower beams form a cone aimed
// along the light's rotation.
type RadialLight struct {
	baseLight
	beamAngle float64
}

// NewRadialLight creates a white, omnidirectional, fading light of range 1
// that draws through the given backend. It casts against no edge pools
// until one is added.
func NewRadialLight(backend render.Backend) *RadialLight {
	return &RadialLight{
		baseLight: newBaseLight(backend),
		beamAngle: 2 * math.Pi,
	}
}

// BeamAngle returns the beam aperture in radians.
func (rl *RadialLight) BeamAngle() float64 {
	return rl.beamAngle
}

// SetBeamAngle sets the beam aperture in radians, clamped to [0, 2π]. The
// beam spreads symmetrically around the light's rotation.
func (rl *RadialLight) SetBeamAngle(angle float64) {
	rl.beamAngle = math.Min(math.Max(angle, 0), 2*math.Pi)
	rl.dirty = true
}

// CastLight implements LightSource. It casts rays toward every occluder
// endpoint in range (plus a pair of epsilon-offset rays per endpoint, so
// the polygon wraps around corners) and along the range boundary, keeps
// each ray's nearest hit, and rebuilds the cached fan from the hits sorted
// by angle.
func (rl *RadialLight) CastLight() {
	pos := rl.position
	maxRange := rl.lightRange
	halfBeam := rl.beamAngle / 2
	facing := rl.rotation
	fullCircle := rl.beamAngle >= 2*math.Pi-fullCircleSlack

	// Candidate angles are keyed by their normalized value so duplicates
	// collapse into a single ray.
	angleSet := make(map[float64]struct{})
	addAngle := func(angle float64) {
		normalized := normalizeAngle(angle)
		if !fullCircle && angleDiff(normalized, facing) > halfBeam+fullCircleSlack {
			return
		}
		angleSet[normalized] = struct{}{}
	}

	for pool := range rl.pools {
		for _, seg := range pool.Segments() {
			for _, end := range [2]Point{seg.A, seg.B} {
				dist := Distance(pos, end)
				if dist == 0 || dist > maxRange {
					continue
				}
				angle := math.Atan2(end.Y-pos.Y, end.X-pos.X)
				addAngle(angle - cornerEpsilon)
				addAngle(angle)
				addAngle(angle + cornerEpsilon)
			}
		}
	}

	// Boundary rays trace the arc where the light reaches full range. For
	// a partial beam they also pin both beam edges.
	if fullCircle {
		steps := int(math.Ceil(2 * math.Pi / boundaryStep))
		for i := 0; i < steps; i++ {
			addAngle(facing + float64(i)*2*math.Pi/float64(steps))
		}
	} else {
		steps := int(math.Ceil(rl.beamAngle / boundaryStep))
		if steps < 1 {
			steps = 1
		}
		start := facing - halfBeam
		for i := 0; i <= steps; i++ {
			addAngle(start + float64(i)*rl.beamAngle/float64(steps))
		}
	}

	// Cast each candidate ray and keep its nearest hit.
	hits := make([]rayHit, 0, len(angleSet))
	for angle := range angleSet {
		point := rl.CastRay(angle, maxRange)
		hits = append(hits, rayHit{
			angle: angle,
			dist:  Distance(pos, point),
			point: point,
		})
	}

	// Order the boundary by angle. A full circle sorts on the normalized
	// angle directly; a beam sorts on the signed offset from its facing
	// direction so the wedge runs edge to edge without wrapping. Equal
	// angles keep the nearer hit first.
	sortKey := func(h rayHit) float64 {
		if fullCircle {
			return h.angle
		}
		delta := normalizeAngle(h.angle - facing)
		if delta > math.Pi {
			delta -= 2 * math.Pi
		}
		return delta
	}
	sort.Slice(hits, func(i, j int) bool {
		ki, kj := sortKey(hits[i]), sortKey(hits[j])
		if ki == kj {
			return hits[i].dist < hits[j].dist
		}
		return ki < kj
	})

	rl.storeFan(hits, !fullCircle, fullCircle)
}

// Draw implements LightSource.
func (rl *RadialLight) Draw(dst render.Surface, state DrawState) {
	rl.drawFan(dst, state)
}

// Illuminates reports whether a scene point lies inside the light's
// visibility polygon from the last cast.
func (rl *RadialLight) Illuminates(p Point) bool {
	if len(rl.polygon) < 3 {
		return false
	}
	tf := rl.Transform()
	scenePolygon := make([]Point, len(rl.polygon))
	for i, lp := range rl.polygon {
		scenePolygon[i] = tf.Apply(lp)
	}
	return PointInPolygon(p, scenePolygon)
}
