// Package render defines the drawing capabilities the lighting core consumes.
// It abstracts the underlying graphics engine so the same lighting code can
// composite through Ebitengine on the GPU or through the pure-Go software
// rasterizer used by tests and tooling.
package render

import (
	"errors"
	"image/color"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("render: backend not available")

	// ErrInvalidDimensions is returned when a surface width or height is not positive.
	ErrInvalidDimensions = errors.New("render: invalid surface dimensions")
)

// Backend name constants.
const (
	// BackendEbiten is the name of the Ebitengine-backed GPU backend.
	BackendEbiten = "ebiten"
	// BackendSoft is the name of the CPU-based software backend.
	BackendSoft = "soft"
)

// BlendFactor is a multiplier applied to one operand of a blend equation.
type BlendFactor uint8

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSourceAlpha
	BlendFactorOneMinusSourceAlpha
	BlendFactorDestinationAlpha
	BlendFactorOneMinusDestinationAlpha
)

// BlendOperation combines the scaled source and destination terms.
type BlendOperation uint8

const (
	// BlendOperationAdd is src*srcFactor + dst*dstFactor.
	BlendOperationAdd BlendOperation = iota
	// BlendOperationSubtract is src*srcFactor - dst*dstFactor.
	BlendOperationSubtract
	// BlendOperationReverseSubtract is dst*dstFactor - src*srcFactor.
	BlendOperationReverseSubtract
)

// Blend describes how a draw combines with the destination. Factors and
// equations are set independently for the color and alpha channels. Source
// colors are premultiplied by their alpha before the equation applies.
type Blend struct {
	SrcColorFactor BlendFactor
	DstColorFactor BlendFactor
	ColorOperation BlendOperation
	SrcAlphaFactor BlendFactor
	DstAlphaFactor BlendFactor
	AlphaOperation BlendOperation
}

// Predefined blend modes.
var (
	// BlendAlpha is standard source-over compositing.
	BlendAlpha = Blend{
		SrcColorFactor: BlendFactorOne,
		DstColorFactor: BlendFactorOneMinusSourceAlpha,
		ColorOperation: BlendOperationAdd,
		SrcAlphaFactor: BlendFactorOne,
		DstAlphaFactor: BlendFactorOneMinusSourceAlpha,
		AlphaOperation: BlendOperationAdd,
	}

	// BlendAdd accumulates the source onto the destination; the result only
	// ever gets brighter.
	BlendAdd = Blend{
		SrcColorFactor: BlendFactorOne,
		DstColorFactor: BlendFactorOne,
		ColorOperation: BlendOperationAdd,
		SrcAlphaFactor: BlendFactorOne,
		DstAlphaFactor: BlendFactorOne,
		AlphaOperation: BlendOperationAdd,
	}

	// BlendSubtractAlpha scales the destination alpha by one minus the source
	// alpha and leaves the destination colors untouched. Drawing an opaque
	// shape through it erases the destination's coverage where the shape is.
	BlendSubtractAlpha = Blend{
		SrcColorFactor: BlendFactorZero,
		DstColorFactor: BlendFactorOne,
		ColorOperation: BlendOperationAdd,
		SrcAlphaFactor: BlendFactorZero,
		DstAlphaFactor: BlendFactorOneMinusSourceAlpha,
		AlphaOperation: BlendOperationAdd,
	}
)

// Vertex is one corner of a drawn triangle. Destination coordinates are in
// the target surface's pixel space. SrcX and SrcY are normalized texture
// coordinates in [0, 1]. Colors are straight (non-premultiplied) values in
// [0, 1]; backends premultiply before blending.
type Vertex struct {
	DstX   float32
	DstY   float32
	SrcX   float32
	SrcY   float32
	ColorR float32
	ColorG float32
	ColorB float32
	ColorA float32
}

// DrawTrianglesOptions contains options for drawing triangles.
// A nil options value means BlendAlpha without anti-aliasing.
type DrawTrianglesOptions struct {
	Blend     Blend
	AntiAlias bool
}

// Texture is a sampleable image handle owned by a backend.
type Texture interface {
	// Size returns the texture dimensions in pixels.
	Size() (width, height int)
}

// Surface is an offscreen render target. Draws accumulate between Fill and
// Display; Display finalizes them into the texture the surface exposes when
// sampled as a draw source.
type Surface interface {
	Texture

	// Fill resets every pixel of the working buffer to the given color.
	Fill(clr color.Color)

	// DrawTriangles draws the indexed triangles textured by src onto the
	// working buffer under the options' blend mode.
	DrawTriangles(vertices []Vertex, indices []uint16, src Texture, opts *DrawTrianglesOptions)

	// Display finalizes the accumulated draws, making them visible to
	// subsequent sampling of this surface as a Texture.
	Display()

	// Dispose releases the surface's resources. The surface must not be
	// used afterwards.
	Dispose()
}

// Backend creates surfaces and owns backend-global resources.
type Backend interface {
	// Name returns the backend identifier (e.g. "ebiten", "soft").
	Name() string

	// NewSurface allocates a surface of the given pixel dimensions.
	NewSurface(width, height int) (Surface, error)

	// White returns an opaque white texture suitable for untextured
	// solid-color triangle fills.
	White() Texture
}
