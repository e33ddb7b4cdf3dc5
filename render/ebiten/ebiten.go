// Package ebiten implements the render backend on top of Ebitengine.
package ebiten

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lanterndev/lantern/render"
)

func init() {
	render.Register(New())
	whiteImage.Fill(color.White)
}

// whiteSubImage is the inner texel of a 3x3 white image. Sampling away from
// the image border keeps bilinear filtering from bleeding in neighbors.
var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

// Backend is the Ebitengine render backend.
type Backend struct {
	white *Image
}

// New creates an Ebitengine-based backend. The package registers one on
// init; New is for callers that want an instance without the registry.
func New() *Backend {
	return &Backend{white: &Image{img: whiteSubImage}}
}

// Name implements render.Backend.
func (b *Backend) Name() string {
	return render.BackendEbiten
}

// NewSurface implements render.Backend.
func (b *Backend) NewSurface(width, height int) (render.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, render.ErrInvalidDimensions
	}
	return &Image{img: ebiten.NewImage(width, height)}, nil
}

// White implements render.Backend.
func (b *Backend) White() render.Texture {
	return b.white
}

// Image wraps an ebiten.Image as both a render.Texture and a render.Surface.
type Image struct {
	img *ebiten.Image
}

// WrapImage wraps an existing ebiten.Image so it can be drawn to, or sampled
// by, the lighting pipeline.
func WrapImage(img *ebiten.Image) *Image {
	return &Image{img: img}
}

// EbitenImage returns the underlying ebiten.Image.
// This is useful for interop with ebiten-specific code.
func (i *Image) EbitenImage() *ebiten.Image {
	return i.img
}

// Size implements render.Texture.
func (i *Image) Size() (int, int) {
	bounds := i.img.Bounds()
	return bounds.Dx(), bounds.Dy()
}

// Fill implements render.Surface.
func (i *Image) Fill(clr color.Color) {
	i.img.Fill(clr)
}

// DrawTriangles implements render.Surface.
func (i *Image) DrawTriangles(vertices []render.Vertex, indices []uint16, src render.Texture, opts *render.DrawTrianglesOptions) {
	srcImg := src.(*Image).img
	bounds := srcImg.Bounds()
	minX := float32(bounds.Min.X)
	minY := float32(bounds.Min.Y)
	width := float32(bounds.Dx())
	height := float32(bounds.Dy())

	// Convert render.Vertex to ebiten.Vertex, mapping normalized texture
	// coordinates onto the source image's texel region.
	ebitenVertices := make([]ebiten.Vertex, len(vertices))
	for j, v := range vertices {
		ebitenVertices[j] = ebiten.Vertex{
			DstX:   v.DstX,
			DstY:   v.DstY,
			SrcX:   minX + v.SrcX*width,
			SrcY:   minY + v.SrcY*height,
			ColorR: v.ColorR,
			ColorG: v.ColorG,
			ColorB: v.ColorB,
			ColorA: v.ColorA,
		}
	}

	ebitenOpts := &ebiten.DrawTrianglesOptions{}
	if opts != nil {
		ebitenOpts.Blend = convertBlend(opts.Blend)
		ebitenOpts.AntiAlias = opts.AntiAlias
	} else {
		ebitenOpts.Blend = convertBlend(render.BlendAlpha)
	}

	i.img.DrawTriangles(ebitenVertices, indices, srcImg, ebitenOpts)
}

// Display implements render.Surface. Draws on an ebiten.Image are visible to
// samplers as soon as they are issued, so there is nothing to finalize.
func (i *Image) Display() {}

// Dispose implements render.Surface.
func (i *Image) Dispose() {
	i.img.Deallocate()
}

func convertBlend(b render.Blend) ebiten.Blend {
	return ebiten.Blend{
		BlendFactorSourceRGB:        convertFactor(b.SrcColorFactor),
		BlendFactorSourceAlpha:      convertFactor(b.SrcAlphaFactor),
		BlendFactorDestinationRGB:   convertFactor(b.DstColorFactor),
		BlendFactorDestinationAlpha: convertFactor(b.DstAlphaFactor),
		BlendOperationRGB:           convertOperation(b.ColorOperation),
		BlendOperationAlpha:         convertOperation(b.AlphaOperation),
	}
}

func convertFactor(f render.BlendFactor) ebiten.BlendFactor {
	switch f {
	case render.BlendFactorOne:
		return ebiten.BlendFactorOne
	case render.BlendFactorSourceAlpha:
		return ebiten.BlendFactorSourceAlpha
	case render.BlendFactorOneMinusSourceAlpha:
		return ebiten.BlendFactorOneMinusSourceAlpha
	case render.BlendFactorDestinationAlpha:
		return ebiten.BlendFactorDestinationAlpha
	case render.BlendFactorOneMinusDestinationAlpha:
		return ebiten.BlendFactorOneMinusDestinationAlpha
	default:
		return ebiten.BlendFactorZero
	}
}

func convertOperation(op render.BlendOperation) ebiten.BlendOperation {
	switch op {
	case render.BlendOperationSubtract:
		return ebiten.BlendOperationSubtract
	case render.BlendOperationReverseSubtract:
		return ebiten.BlendOperationReverseSubtract
	default:
		return ebiten.BlendOperationAdd
	}
}
