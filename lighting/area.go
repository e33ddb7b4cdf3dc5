package lighting

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/lanterndev/lantern/render"
)

// Mode selects how a LightingArea composites its lights into the scene.
type Mode uint8

const (
	// ModeAmbient accumulates glow. Lights add their color into the area,
	// and the area adds itself onto the scene, so it only ever brightens.
	ModeAmbient Mode = iota

	// ModeFog darkens everything the lights do not reach. Lights erase
	// the fog's coverage, and the area alpha-blends over the scene, so
	// the scene shows through the holes the lights punched.
	ModeFog
)

func (m Mode) String() string {
	switch m {
	case ModeAmbient:
		return "ambient"
	case ModeFog:
		return "fog"
	}
	return "unknown"
}

// Area frame protocol errors.
var (
	// ErrUnknownMode is returned when a LightingArea is created with a
	// mode that has no compositing policy.
	ErrUnknownMode = errors.New("lighting: unknown lighting area mode")

	// ErrNotCleared is returned when Draw or Display runs before Clear
	// opened the frame.
	ErrNotCleared = errors.New("lighting: lighting area was not cleared this frame")

	// ErrNotDisplayed is returned when the area is drawn into a scene
	// while a frame is still accumulating.
	ErrNotDisplayed = errors.New("lighting: lighting area has pending draws, call Display first")
)

// Area frame states. Clear opens a frame, Draw accumulates into it, and
// Display closes it again.
const (
	areaIdle uint8 = iota
	areaCleared
	areaAccumulating
)

// modePolicy is one row of the compositing strategy: how lights land in the
// area's surface, and how the surface lands in the scene.
type modePolicy struct {
	light render.Blend
	scene render.Blend
}

var modePolicies = [...]modePolicy{
	ModeAmbient: {light: render.BlendAdd, scene: render.BlendAdd},
	ModeFog:     {light: render.BlendSubtractAlpha, scene: render.BlendAlpha},
}

var quadIndices = []uint16{0, 1, 2, 0, 2, 3}

// LightingArea composites light sources offscreen and draws the result into
// a scene. Each frame follows a fixed protocol: Clear, any number of Draw
// calls, then Display; DrawTo presents the displayed result. Calls outside
// that order return an error instead of corrupting the surface.
type LightingArea struct {
	transformable

	backend render.Backend
	mode    Mode
	policy  modePolicy

	color   color.NRGBA
	opacity float64

	baseTexture render.Texture
	baseRect    image.Rectangle

	surface render.Surface
	width   int
	height  int
	state   uint8
}

// NewLightingArea creates an area of the given size in scene units with its
// top-left corner at (x, y). The offscreen surface is allocated up front.
func NewLightingArea(backend render.Backend, mode Mode, x, y, width, height float64) (*LightingArea, error) {
	if int(mode) >= len(modePolicies) {
		return nil, ErrUnknownMode
	}
	a := &LightingArea{
		transformable: newTransformable(Point{X: x, Y: y}),
		backend:       backend,
		mode:          mode,
		policy:        modePolicies[mode],
		color:         color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		opacity:       1,
	}
	if err := a.allocate(int(math.Ceil(width)), int(math.Ceil(height))); err != nil {
		return nil, err
	}
	return a, nil
}

// allocate replaces the offscreen surface. Any frame in progress is
// abandoned.
func (a *LightingArea) allocate(width, height int) error {
	surface, err := a.backend.NewSurface(width, height)
	if err != nil {
		return err
	}
	if a.surface != nil {
		a.surface.Dispose()
	}
	a.surface = surface
	a.width = width
	a.height = height
	a.state = areaIdle
	return nil
}

// Mode returns the area's compositing mode.
func (a *LightingArea) Mode() Mode {
	return a.mode
}

// Size returns the surface dimensions in pixels.
func (a *LightingArea) Size() (width, height int) {
	return a.width, a.height
}

// SetSize reallocates the surface for a new size, dropping any base
// texture.
func (a *LightingArea) SetSize(width, height float64) error {
	a.baseTexture = nil
	a.baseRect = image.Rectangle{}
	return a.allocate(int(math.Ceil(width)), int(math.Ceil(height)))
}

// AreaColor returns the area's plain color.
func (a *LightingArea) AreaColor() color.NRGBA {
	return a.color
}

// SetAreaColor sets the color the area clears to when it has no base
// texture. In fog mode this is the fog color; its alpha, together with the
// area opacity, sets how much the fog hides.
func (a *LightingArea) SetAreaColor(clr color.Color) {
	a.color = color.NRGBAModel.Convert(clr).(color.NRGBA)
}

// AreaOpacity returns the area's opacity.
func (a *LightingArea) AreaOpacity() float64 {
	return a.opacity
}

// SetAreaOpacity sets a global opacity multiplier in [0, 1] applied on top
// of the area color's alpha.
func (a *LightingArea) SetAreaOpacity(opacity float64) {
	a.opacity = math.Min(math.Max(opacity, 0), 1)
}

// EffectiveColor returns the area color with its alpha scaled by the area
// opacity. This is the color a plain Clear fills with.
func (a *LightingArea) EffectiveColor() color.NRGBA {
	c := a.color
	c.A = uint8(float64(c.A) * a.opacity)
	return c
}

// SetAreaTexture gives the area a base texture that Clear restores instead
// of the flat color. The surface is reallocated to match rect, the region
// of the texture to show; a zero rect selects the whole texture. A nil
// texture reverts the area to flat-color clears without reallocating.
func (a *LightingArea) SetAreaTexture(texture render.Texture, rect image.Rectangle) error {
	if texture == nil {
		a.baseTexture = nil
		a.baseRect = image.Rectangle{}
		return nil
	}
	width, height := texture.Size()
	if rect.Empty() {
		rect = image.Rect(0, 0, width, height)
	}
	if err := a.allocate(rect.Dx(), rect.Dy()); err != nil {
		return err
	}
	a.baseTexture = texture
	a.baseRect = rect
	return nil
}

// TextureRect returns the base texture region shown by the area.
func (a *LightingArea) TextureRect() image.Rectangle {
	return a.baseRect
}

// Surface returns the area's offscreen surface, for sampling or debugging.
// Drawing into it directly bypasses the frame protocol.
func (a *LightingArea) Surface() render.Surface {
	return a.surface
}

// Clear opens a frame: it resets the surface to the area's base (the flat
// effective color, or the base texture over transparency) and arms the area
// for light draws. Clear is legal in any state and abandons any frame in
// progress.
func (a *LightingArea) Clear() {
	if a.baseTexture != nil {
		a.surface.Fill(color.NRGBA{})
		a.drawBaseTexture()
	} else {
		a.surface.Fill(a.EffectiveColor())
	}
	a.state = areaCleared
}

func (a *LightingArea) drawBaseTexture() {
	texWidth, texHeight := a.baseTexture.Size()
	u0 := float32(a.baseRect.Min.X) / float32(texWidth)
	v0 := float32(a.baseRect.Min.Y) / float32(texHeight)
	u1 := float32(a.baseRect.Max.X) / float32(texWidth)
	v1 := float32(a.baseRect.Max.Y) / float32(texHeight)
	w := float32(a.width)
	h := float32(a.height)

	vertices := []render.Vertex{
		{DstX: 0, DstY: 0, SrcX: u0, SrcY: v0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: w, DstY: 0, SrcX: u1, SrcY: v0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: w, DstY: h, SrcX: u1, SrcY: v1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: 0, DstY: h, SrcX: u0, SrcY: v1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	a.surface.DrawTriangles(vertices, quadIndices, a.baseTexture, &render.DrawTrianglesOptions{
		Blend: render.BlendAlpha,
	})
}

// Draw composites one light into the area under the mode's light blend.
// The light is drawn from its cached cast through the inverse of the area's
// transform, so lights land in the same scene position the area occupies.
// Draw returns ErrNotCleared when no frame is open.
func (a *LightingArea) Draw(light LightSource) error {
	if a.state == areaIdle {
		return ErrNotCleared
	}
	a.state = areaAccumulating

	if a.mode == ModeFog && a.EffectiveColor().A == 0 {
		// Fully transparent fog has nothing to erase.
		return nil
	}

	inverse, ok := a.Transform().Invert()
	if !ok {
		inverse = Identity()
	}
	light.Draw(a.surface, DrawState{Blend: a.policy.light, Transform: inverse})
	return nil
}

// Display closes the frame, finalizing the accumulated draws so DrawTo and
// samplers see them. It returns ErrNotCleared when no frame is open.
func (a *LightingArea) Display() error {
	if a.state == areaIdle {
		return ErrNotCleared
	}
	a.surface.Display()
	a.state = areaIdle
	return nil
}

// DrawTo draws the area's displayed surface onto dst under the mode's scene
// blend, through the area's transform. It returns ErrNotDisplayed while a
// frame is still accumulating.
func (a *LightingArea) DrawTo(dst render.Surface) error {
	if a.state != areaIdle {
		return ErrNotDisplayed
	}

	tf := a.Transform()
	w := float64(a.width)
	h := float64(a.height)
	corners := [4]Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	uv := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	vertices := make([]render.Vertex, 4)
	for i, corner := range corners {
		p := tf.Apply(corner)
		vertices[i] = render.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: uv[i][0], SrcY: uv[i][1],
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
	}
	dst.DrawTriangles(vertices, quadIndices, a.surface, &render.DrawTrianglesOptions{
		Blend: a.policy.scene,
	})
	return nil
}

// Dispose releases the area's surface. The area must not be used
// afterwards.
func (a *LightingArea) Dispose() {
	if a.surface != nil {
		a.surface.Dispose()
		a.surface = nil
	}
}
