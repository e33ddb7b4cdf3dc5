// Package texturegen builds small procedural textures for the demo tools:
// tiled floor backgrounds to light up, and translucent smoke layers for fog
// areas to clear through. Everything is deterministic, so tests can assert
// on exact pixels.
package texturegen

import (
	"image"
	"image/color"
	"image/draw"
)

// DefaultTileSize is the tile edge used by the convenience textures.
const DefaultTileSize = 32

// SolidTile creates a square tile filled with a single color.
func SolidTile(size int, fill color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{fill}, image.Point{}, draw.Src)
	return img
}

// BorderedTile creates a tile with a border of the given width.
func BorderedTile(size int, fill, border color.NRGBA, borderWidth int) *image.NRGBA {
	img := SolidTile(size, fill)

	for i := 0; i < borderWidth; i++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, i, border)
			img.SetNRGBA(x, size-1-i, border)
		}
		for y := 0; y < size; y++ {
			img.SetNRGBA(i, y, border)
			img.SetNRGBA(size-1-i, y, border)
		}
	}
	return img
}

// PatternedTile creates a tile with a simple accent pattern over a base
// color. Supported patterns are "grid", "dots", "cross", and "diagonal";
// anything else returns the plain base tile.
func PatternedTile(size int, base, accent color.NRGBA, pattern string) *image.NRGBA {
	img := SolidTile(size, base)

	switch pattern {
	case "grid":
		for i := 0; i < size; i += 4 {
			for x := 0; x < size; x++ {
				img.SetNRGBA(x, i, accent)
				img.SetNRGBA(i, x, accent)
			}
		}
	case "dots":
		quarter := size / 4
		threeQuarter := 3 * size / 4
		dots := []image.Point{
			{quarter, quarter}, {threeQuarter, quarter},
			{quarter, threeQuarter}, {threeQuarter, threeQuarter},
		}
		for _, p := range dots {
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					img.SetNRGBA(p.X+dx, p.Y+dy, accent)
				}
			}
		}
	case "cross":
		mid := size / 2
		for i := 2; i < size-2; i++ {
			img.SetNRGBA(mid, i, accent)
			img.SetNRGBA(i, mid, accent)
		}
	case "diagonal":
		for i := 0; i < size; i++ {
			img.SetNRGBA(i, i, accent)
			img.SetNRGBA(i, size-1-i, accent)
		}
	}
	return img
}

// Checkerboard tiles two images alternately over a width x height canvas.
// Both tiles must share the same square size.
func Checkerboard(width, height int, tileA, tileB *image.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	size := tileA.Bounds().Dx()
	if size <= 0 {
		return img
	}

	for row := 0; row*size < height; row++ {
		for col := 0; col*size < width; col++ {
			tile := tileA
			if (row+col)%2 == 1 {
				tile = tileB
			}
			dst := image.Rect(col*size, row*size, (col+1)*size, (row+1)*size)
			draw.Draw(img, dst, tile, image.Point{}, draw.Src)
		}
	}
	return img
}

// Floor creates the default floor background: a checkerboard of two
// grid-patterned metal tiles.
func Floor(width, height int) *image.NRGBA {
	base := color.NRGBA{R: 80, G: 85, B: 95, A: 255}
	alt := color.NRGBA{R: 70, G: 75, B: 85, A: 255}
	tileA := PatternedTile(DefaultTileSize, base, Darken(base, 0.85), "grid")
	tileB := PatternedTile(DefaultTileSize, alt, Darken(alt, 0.85), "grid")
	return Checkerboard(width, height, tileA, tileB)
}

// Smoke creates a translucent fog layer: the tint color woven with diagonal
// streaks of a slightly thinner alpha, so fog cleared by lights shows a
// little texture instead of a flat wash. The tint alpha sets how much the
// fog hides.
func Smoke(width, height int, tint color.NRGBA) *image.NRGBA {
	streak := tint
	streak.A = uint8(float64(tint.A) * 0.8)
	tileA := PatternedTile(DefaultTileSize, tint, streak, "diagonal")
	tileB := PatternedTile(DefaultTileSize, tint, streak, "cross")
	return Checkerboard(width, height, tileA, tileB)
}

// Darken scales a color's channels toward black. A factor of 1 leaves the
// color unchanged, 0 yields black. Alpha is preserved.
func Darken(c color.NRGBA, factor float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// Lighten moves a color's channels toward white. A factor of 0 leaves the
// color unchanged, 1 yields white. Alpha is preserved.
func Lighten(c color.NRGBA, factor float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(c.R) + (255-float64(c.R))*factor),
		G: uint8(float64(c.G) + (255-float64(c.G))*factor),
		B: uint8(float64(c.B) + (255-float64(c.B))*factor),
		A: c.A,
	}
}
