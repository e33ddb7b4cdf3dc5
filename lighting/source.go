package lighting

import (
	"image/color"
	"math"

	"github.com/lanterndev/lantern/render"
)

// DrawState carries the blend mode and the parent transform a light is
// drawn under. The transform is composed to the left of the light's own, so
// it maps the light's scene coordinates into the target surface.
type DrawState struct {
	Blend     render.Blend
	Transform Transform
}

// DefaultDrawState returns alpha blending under the identity transform.
func DefaultDrawState() DrawState {
	return DrawState{Blend: render.BlendAlpha, Transform: Identity()}
}

// LightSource is the behavior shared by every light variant.
type LightSource interface {
	// CastLight recomputes the light's visibility polygon from the edge
	// pools it references.
	CastLight()

	// ResetColor reapplies color, intensity, and fade to the cached
	// polygon without recasting any rays.
	ResetColor()

	// Draw renders the cached polygon onto dst under the given state.
	Draw(dst render.Surface, state DrawState)

	// ShouldRecast reports whether the cached polygon is stale. True is
	// always safe to act on; false can be a false negative when edge
	// pools were edited behind the light's back.
	ShouldRecast() bool
}

// baseLight holds the state and behavior shared by light variants: color,
// intensity, range, fade, edge pool references, and the cached fan of the
// last cast.
type baseLight struct {
	transformable

	backend    render.Backend
	color      color.NRGBA
	intensity  float64
	lightRange float64
	fade       bool

	pools map[*EdgePool]struct{}

	polygon  []Point         // visibility boundary, local coordinates
	fan      []render.Vertex // cached triangle fan, local coordinates
	fanDist  []float64       // scene-space hit distance per fan vertex
	indices  []uint16
	lastCast Transform
	dirty    bool
}

func newBaseLight(backend render.Backend) baseLight {
	return baseLight{
		transformable: newTransformable(Point{}),
		backend:       backend,
		color:         color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		intensity:     1,
		lightRange:    1,
		fade:          true,
		pools:         make(map[*EdgePool]struct{}),
		dirty:         true,
	}
}

// Color returns the light's color. The alpha value is always 255.
func (l *baseLight) Color() color.NRGBA {
	return l.color
}

// SetColor sets the light's color. Only the RGB channels are used; the
// light's transparency comes from intensity and fade instead.
func (l *baseLight) SetColor(clr color.Color) {
	nrgba := color.NRGBAModel.Convert(clr).(color.NRGBA)
	nrgba.A = 255
	l.color = nrgba
	l.ResetColor()
}

// Intensity returns the light's intensity.
func (l *baseLight) Intensity() float64 {
	return l.intensity
}

// SetIntensity sets the light's strength, clamped to [0, 1]. At 0 the light
// is invisible.
func (l *baseLight) SetIntensity(intensity float64) {
	l.intensity = math.Min(math.Max(intensity, 0), 1)
	l.ResetColor()
}

// Range returns the maximum distance the light reaches.
func (l *baseLight) Range() float64 {
	return l.lightRange
}

// SetRange sets the maximum distance the light reaches. Negative values are
// treated as zero.
func (l *baseLight) SetRange(r float64) {
	l.lightRange = math.Max(r, 0)
	l.dirty = true
}

// Fade reports whether the light loses intensity towards its range limit.
func (l *baseLight) Fade() bool {
	return l.fade
}

// SetFade sets whether the light loses intensity towards its range limit.
func (l *baseLight) SetFade(fade bool) {
	l.fade = fade
	l.ResetColor()
}

// AddPool makes the light cast against the given pool's edges.
func (l *baseLight) AddPool(p *EdgePool) {
	l.pools[p] = struct{}{}
	l.dirty = true
}

// RemovePool stops the light from casting against the given pool.
func (l *baseLight) RemovePool(p *EdgePool) {
	delete(l.pools, p)
	l.dirty = true
}

// Pools returns the edge pools the light casts against, in no particular
// order.
func (l *baseLight) Pools() []*EdgePool {
	pools := make([]*EdgePool, 0, len(l.pools))
	for p := range l.pools {
		pools = append(pools, p)
	}
	return pools
}

// Polygon returns a copy of the visibility polygon from the last cast, in
// the light's local coordinates. For a full-circle beam the polygon is the
// boundary ring; for a partial beam its first vertex is the light position.
func (l *baseLight) Polygon() []Point {
	polygon := make([]Point, len(l.polygon))
	copy(polygon, l.polygon)
	return polygon
}

// ShouldRecast implements LightSource. It reports true when the light has
// never cast, when its transform changed since the last cast, or when its
// range or pool set changed.
func (l *baseLight) ShouldRecast() bool {
	return l.dirty || l.Transform() != l.lastCast
}

// CastRay casts a single ray from the light's position at the given angle
// and returns the nearest occluder hit within maxRange, or the point at
// maxRange when nothing blocks the ray. Edges crossing the ray origin
// itself do not block it.
func (l *baseLight) CastRay(angle, maxRange float64) Point {
	dx := math.Cos(angle)
	dy := math.Sin(angle)
	origin := l.position

	closestDist := maxRange
	closestPoint := Point{
		X: origin.X + dx*maxRange,
		Y: origin.Y + dy*maxRange,
	}

	for pool := range l.pools {
		for _, seg := range pool.Segments() {
			if hit, dist, point := raySegmentIntersection(origin, dx, dy, seg); hit {
				if dist > 0 && dist < closestDist {
					closestDist = dist
					closestPoint = point
				}
			}
		}
	}

	return closestPoint
}

// ResetColor implements LightSource. It rewrites the cached fan's vertex
// colors from the current color, intensity, and fade settings. The vertex
// alpha carries the light's weight; the blend mode turns it into glow or
// into fog erasure.
func (l *baseLight) ResetColor() {
	r := float32(l.color.R) / 255
	g := float32(l.color.G) / 255
	b := float32(l.color.B) / 255

	for i := range l.fan {
		weight := 1.0
		if l.fade {
			weight = attenuate(l.fanDist[i], l.lightRange)
		}
		l.fan[i].ColorR = r
		l.fan[i].ColorG = g
		l.fan[i].ColorB = b
		l.fan[i].ColorA = float32(weight * l.intensity)
	}
}

// attenuate returns the fade weight for a hit at the given scene distance.
func attenuate(dist, lightRange float64) float64 {
	if lightRange <= 0 {
		return 0
	}
	weight := 1 - dist/lightRange
	if weight < 0 {
		return 0
	}
	if weight > 1 {
		return 1
	}
	return weight
}

// drawFan renders the cached fan onto dst, mapping local coordinates
// through the light's transform and then the state's.
func (l *baseLight) drawFan(dst render.Surface, state DrawState) {
	if len(l.fan) < 3 || len(l.indices) < 3 {
		return
	}

	tf := state.Transform.Mul(l.Transform())
	vertices := make([]render.Vertex, len(l.fan))
	for i, v := range l.fan {
		p := tf.Apply(Point{X: float64(v.DstX), Y: float64(v.DstY)})
		v.DstX = float32(p.X)
		v.DstY = float32(p.Y)
		vertices[i] = v
	}

	dst.DrawTriangles(vertices, l.indices, l.backend.White(), &render.DrawTrianglesOptions{
		Blend: state.Blend,
	})
}

// storeFan replaces the cached fan. Hit points arrive in scene coordinates,
// sorted by angle; they are mapped into local coordinates so the fan can be
// redrawn under any future transform. includeCenter closes partial beams
// into a wedge through the light position.
func (l *baseLight) storeFan(hits []rayHit, includeCenter, closeRing bool) {
	inv, ok := l.Transform().Invert()
	if !ok {
		inv = Identity()
	}

	l.polygon = l.polygon[:0]
	l.fan = l.fan[:0]
	l.fanDist = l.fanDist[:0]
	l.indices = l.indices[:0]

	center := inv.Apply(l.position)
	l.fan = append(l.fan, fanVertex(center))
	l.fanDist = append(l.fanDist, 0)
	if includeCenter {
		l.polygon = append(l.polygon, center)
	}

	for _, h := range hits {
		local := inv.Apply(h.point)
		l.polygon = append(l.polygon, local)
		l.fan = append(l.fan, fanVertex(local))
		l.fanDist = append(l.fanDist, h.dist)
	}

	if closeRing && len(hits) > 0 {
		first := inv.Apply(hits[0].point)
		l.fan = append(l.fan, fanVertex(first))
		l.fanDist = append(l.fanDist, hits[0].dist)
	}

	for i := 1; i+1 < len(l.fan); i++ {
		l.indices = append(l.indices, 0, uint16(i), uint16(i+1))
	}

	l.lastCast = l.Transform()
	l.dirty = false
	l.ResetColor()
}

func fanVertex(p Point) render.Vertex {
	return render.Vertex{
		DstX: float32(p.X),
		DstY: float32(p.Y),
		SrcX: 0.5,
		SrcY: 0.5,
	}
}

// rayHit is one boundary sample of a visibility polygon.
type rayHit struct {
	angle float64
	dist  float64
	point Point
}
