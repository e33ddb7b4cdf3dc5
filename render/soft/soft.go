// Package soft implements a CPU-based render backend. It rasterizes
// triangles into float32 premultiplied-alpha buffers and evaluates the full
// blend equation per pixel, matching what the GPU backend produces closely
// enough for tests and terminal tooling to assert on real pixel values.
package soft

import (
	"image"
	"image/color"
	"math"

	"github.com/lanterndev/lantern/render"
)

func init() {
	render.Register(New())
}

// Backend is the software render backend.
type Backend struct {
	white *Texture
}

// New returns a software backend. The package registers one on init; New is
// for callers that want an instance without going through the registry.
func New() *Backend {
	return &Backend{
		white: &Texture{
			width:  1,
			height: 1,
			pix:    []float32{1, 1, 1, 1},
		},
	}
}

// Name implements render.Backend.
func (b *Backend) Name() string {
	return render.BackendSoft
}

// NewSurface implements render.Backend.
func (b *Backend) NewSurface(width, height int) (render.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, render.ErrInvalidDimensions
	}
	return &Surface{
		width:  width,
		height: height,
		back:   make([]float32, width*height*4),
		front:  make([]float32, width*height*4),
	}, nil
}

// White implements render.Backend.
func (b *Backend) White() render.Texture {
	return b.white
}

// Texture is a static premultiplied-alpha pixel grid.
type Texture struct {
	width, height int
	pix           []float32
}

// NewTexture builds a texture from a standard image.
func NewTexture(img image.Image) *Texture {
	bounds := img.Bounds()
	t := &Texture{
		width:  bounds.Dx(),
		height: bounds.Dy(),
		pix:    make([]float32, bounds.Dx()*bounds.Dy()*4),
	}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			t.pix[i+0] = float32(r) / 0xffff
			t.pix[i+1] = float32(g) / 0xffff
			t.pix[i+2] = float32(b) / 0xffff
			t.pix[i+3] = float32(a) / 0xffff
			i += 4
		}
	}
	return t
}

// Size implements render.Texture.
func (t *Texture) Size() (int, int) {
	return t.width, t.height
}

func (t *Texture) sample(u, v float32) (r, g, b, a float32) {
	return samplePix(t.pix, t.width, t.height, u, v)
}

// sampler is anything the rasterizer can fetch texels from.
type sampler interface {
	sample(u, v float32) (r, g, b, a float32)
}

func samplePix(pix []float32, w, h int, u, v float32) (float32, float32, float32, float32) {
	x := int(u * float32(w))
	y := int(v * float32(h))
	if x < 0 {
		x = 0
	} else if x >= w {
		x = w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= h {
		y = h - 1
	}
	i := (y*w + x) * 4
	return pix[i], pix[i+1], pix[i+2], pix[i+3]
}

// Surface is a double-buffered software render target. Draws land in the
// back buffer; Display copies it to the front buffer, which is what gets
// sampled when the surface is used as a draw source.
type Surface struct {
	width, height int
	back          []float32
	front         []float32
}

// Size implements render.Texture.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// Fill implements render.Surface.
func (s *Surface) Fill(clr color.Color) {
	r, g, b, a := clr.RGBA()
	fr := float32(r) / 0xffff
	fg := float32(g) / 0xffff
	fb := float32(b) / 0xffff
	fa := float32(a) / 0xffff
	for i := 0; i < len(s.back); i += 4 {
		s.back[i+0] = fr
		s.back[i+1] = fg
		s.back[i+2] = fb
		s.back[i+3] = fa
	}
}

// Display implements render.Surface.
func (s *Surface) Display() {
	copy(s.front, s.back)
}

// Dispose implements render.Surface.
func (s *Surface) Dispose() {
	s.back = nil
	s.front = nil
	s.width = 0
	s.height = 0
}

func (s *Surface) sample(u, v float32) (float32, float32, float32, float32) {
	return samplePix(s.front, s.width, s.height, u, v)
}

// DrawTriangles implements render.Surface. AntiAlias is ignored; the software
// rasterizer always draws hard edges.
func (s *Surface) DrawTriangles(vertices []render.Vertex, indices []uint16, src render.Texture, opts *render.DrawTrianglesOptions) {
	if s.back == nil {
		return
	}
	blend := render.BlendAlpha
	if opts != nil {
		blend = opts.Blend
	}
	tex := src.(sampler)
	for i := 0; i+2 < len(indices); i += 3 {
		s.rasterize(vertices[indices[i]], vertices[indices[i+1]], vertices[indices[i+2]], tex, blend)
	}
}

// At returns the displayed color at (x, y) as straight (non-premultiplied)
// 8-bit RGBA. Out-of-bounds coordinates return the zero color.
func (s *Surface) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return color.NRGBA{}
	}
	i := (y*s.width + x) * 4
	return unpremultiply(s.front[i], s.front[i+1], s.front[i+2], s.front[i+3])
}

// Snapshot copies the displayed front buffer into a standard image.
func (s *Surface) Snapshot() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			img.SetNRGBA(x, y, s.At(x, y))
		}
	}
	return img
}

func unpremultiply(r, g, b, a float32) color.NRGBA {
	if a <= 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{
		R: quantize(r / a),
		G: quantize(g / a),
		B: quantize(b / a),
		A: quantize(a),
	}
}

func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func (s *Surface) rasterize(v0, v1, v2 render.Vertex, tex sampler, blend render.Blend) {
	area := edgeFunc(v0.DstX, v0.DstY, v1.DstX, v1.DstY, v2.DstX, v2.DstY)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	minX := int(math.Floor(float64(min3(v0.DstX, v1.DstX, v2.DstX))))
	maxX := int(math.Ceil(float64(max3(v0.DstX, v1.DstX, v2.DstX))))
	minY := int(math.Floor(float64(min3(v0.DstY, v1.DstY, v2.DstY))))
	maxY := int(math.Ceil(float64(max3(v0.DstY, v1.DstY, v2.DstY))))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > s.width-1 {
		maxX = s.width - 1
	}
	if maxY > s.height-1 {
		maxY = s.height - 1
	}

	tl0 := topLeft(v1, v2)
	tl1 := topLeft(v2, v0)
	tl2 := topLeft(v0, v1)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5

			w0 := edgeFunc(v1.DstX, v1.DstY, v2.DstX, v2.DstY, px, py)
			w1 := edgeFunc(v2.DstX, v2.DstY, v0.DstX, v0.DstY, px, py)
			w2 := edgeFunc(v0.DstX, v0.DstY, v1.DstX, v1.DstY, px, py)
			if !covers(w0, tl0) || !covers(w1, tl1) || !covers(w2, tl2) {
				continue
			}

			b0 := w0 / area
			b1 := w1 / area
			b2 := w2 / area

			cr := b0*v0.ColorR + b1*v1.ColorR + b2*v2.ColorR
			cg := b0*v0.ColorG + b1*v1.ColorG + b2*v2.ColorG
			cb := b0*v0.ColorB + b1*v1.ColorB + b2*v2.ColorB
			ca := b0*v0.ColorA + b1*v1.ColorA + b2*v2.ColorA
			u := b0*v0.SrcX + b1*v1.SrcX + b2*v2.SrcX
			v := b0*v0.SrcY + b1*v1.SrcY + b2*v2.SrcY

			tr, tg, tb, ta := tex.sample(u, v)

			// Vertex colors are straight alpha; premultiply the scale
			// before modulating the premultiplied texel.
			srcR := tr * cr * ca
			srcG := tg * cg * ca
			srcB := tb * cb * ca
			srcA := ta * ca

			s.blendPixel(x, y, srcR, srcG, srcB, srcA, blend)
		}
	}
}

func (s *Surface) blendPixel(x, y int, srcR, srcG, srcB, srcA float32, blend render.Blend) {
	i := (y*s.width + x) * 4
	dstA := s.back[i+3]

	sc := factorValue(blend.SrcColorFactor, srcA, dstA)
	dc := factorValue(blend.DstColorFactor, srcA, dstA)
	sa := factorValue(blend.SrcAlphaFactor, srcA, dstA)
	da := factorValue(blend.DstAlphaFactor, srcA, dstA)

	s.back[i+0] = clamp01(combine(blend.ColorOperation, srcR*sc, s.back[i+0]*dc))
	s.back[i+1] = clamp01(combine(blend.ColorOperation, srcG*sc, s.back[i+1]*dc))
	s.back[i+2] = clamp01(combine(blend.ColorOperation, srcB*sc, s.back[i+2]*dc))
	s.back[i+3] = clamp01(combine(blend.AlphaOperation, srcA*sa, dstA*da))
}

func factorValue(f render.BlendFactor, srcA, dstA float32) float32 {
	switch f {
	case render.BlendFactorOne:
		return 1
	case render.BlendFactorSourceAlpha:
		return srcA
	case render.BlendFactorOneMinusSourceAlpha:
		return 1 - srcA
	case render.BlendFactorDestinationAlpha:
		return dstA
	case render.BlendFactorOneMinusDestinationAlpha:
		return 1 - dstA
	default:
		return 0
	}
}

func combine(op render.BlendOperation, src, dst float32) float32 {
	switch op {
	case render.BlendOperationSubtract:
		return src - dst
	case render.BlendOperationReverseSubtract:
		return dst - src
	default:
		return src + dst
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func edgeFunc(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// covers reports whether an edge function value admits the pixel. Pixels
// exactly on an edge belong to the triangle only when the edge is a top or
// left edge, so triangles sharing an edge never shade the same pixel twice.
func covers(w float32, topLeftEdge bool) bool {
	if w > 0 {
		return true
	}
	return w == 0 && topLeftEdge
}

// topLeft classifies the edge a->b of a positively wound triangle in a
// y-down coordinate system.
func topLeft(a, b render.Vertex) bool {
	if a.DstY == b.DstY {
		return b.DstX > a.DstX
	}
	return b.DstY < a.DstY
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
