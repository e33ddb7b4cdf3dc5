// Command lantern-term previews a lighting scene in the terminal. The scene
// is composited through the software backend and shown with half-block
// characters, two scene pixel rows per terminal cell, so the fog and glow
// can be inspected without a window or a GPU.
//
// Controls:
//
//	h/j/k/l or arrows  move the torch
//	+ / -              change torch range
//	b                  cycle beam aperture
//	f                  toggle distance fade
//	q or Escape        quit
package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/colornames"

	"github.com/lanterndev/lantern/lighting"
	"github.com/lanterndev/lantern/render"
	"github.com/lanterndev/lantern/render/soft"
	"github.com/lanterndev/lantern/sceneloader"
	"github.com/lanterndev/lantern/texturegen"
)

const statusRows = 1

var beamApertures = []float64{2 * math.Pi, math.Pi / 2, math.Pi / 6}

// viewer holds the scene and the torch the keys drive.
type viewer struct {
	backend *soft.Backend
	scene   *sceneloader.Scene
	glow    *lighting.LightingArea
	torch   *lighting.RadialLight
	orbiter *lighting.RadialLight
	canvas  *soft.Surface
	floor   *soft.Texture

	gridRects  []sceneloader.BlockData
	beamIndex  int
	orbitAngle float64
}

func newViewer(scene *sceneloader.Scene, backend *soft.Backend) (*viewer, error) {
	world := scene.World
	width := int(math.Ceil(scene.Data.Width))
	height := int(math.Ceil(scene.Data.Height))

	glow, err := world.NewLightingArea(lighting.ModeAmbient, 0, 0, scene.Data.Width, scene.Data.Height)
	if err != nil {
		return nil, err
	}
	glow.SetAreaColor(color.NRGBA{A: 255})

	if scene.Fog != nil {
		tint, err := sceneloader.ParseHexColor(scene.Data.Fog.Color)
		if err != nil {
			return nil, err
		}
		tint.A = uint8(float64(tint.A) * scene.Data.Fog.Opacity)
		smoke := soft.NewTexture(texturegen.Smoke(width, height, tint))
		if err := scene.Fog.SetAreaTexture(smoke, image.Rectangle{}); err != nil {
			return nil, err
		}
	}

	torch := world.NewRadialLight()
	torch.SetPosition(scene.Data.Width/2, scene.Data.Height/2)
	torch.SetRange(220)
	torch.SetIntensity(0.8)

	orbiter := world.NewRadialLight()
	orbiter.SetRange(140)
	orbiter.SetColor(colornames.Mediumpurple)
	orbiter.SetIntensity(0.6)

	surface, err := backend.NewSurface(width, height)
	if err != nil {
		return nil, err
	}

	v := &viewer{
		backend: backend,
		scene:   scene,
		glow:    glow,
		torch:   torch,
		orbiter: orbiter,
		canvas:  surface.(*soft.Surface),
		floor:   soft.NewTexture(texturegen.Floor(width, height)),
	}
	if scene.Data.Grid != nil {
		v.gridRects = scene.Data.Grid.BlockedRects()
	}
	return v, nil
}

// tick advances the orbiting light and recasts whatever moved.
func (v *viewer) tick() {
	v.orbitAngle += 0.03
	cx := v.scene.Data.Width / 2
	cy := v.scene.Data.Height / 2
	radius := math.Min(cx, cy) * 0.7
	v.orbiter.SetPosition(cx+math.Cos(v.orbitAngle)*radius, cy+math.Sin(v.orbitAngle)*radius)
	v.scene.World.CastAll()
}

// render composites one frame into the canvas.
func (v *viewer) render() error {
	drawBackground(v.canvas, v.floor)

	for _, block := range v.scene.Data.Blocks {
		fillRect(v.canvas, v.backend, block.X, block.Y, block.Width, block.Height, colornames.Dimgray)
	}
	for _, cell := range v.gridRects {
		fillRect(v.canvas, v.backend, cell.X, cell.Y, cell.Width, cell.Height, colornames.Dimgray)
	}
	for _, wall := range v.scene.Data.Walls {
		strokeSegment(v.canvas, v.backend,
			lighting.Point{X: wall.X1, Y: wall.Y1},
			lighting.Point{X: wall.X2, Y: wall.Y2},
			3, colornames.Dimgray)
	}

	lights := v.scene.World.Lights()

	v.glow.Clear()
	for _, light := range lights {
		if err := v.glow.Draw(light); err != nil {
			return err
		}
	}
	if err := v.glow.Display(); err != nil {
		return err
	}
	if err := v.glow.DrawTo(v.canvas); err != nil {
		return err
	}

	if v.scene.Fog != nil {
		v.scene.Fog.Clear()
		for _, light := range lights {
			if err := v.scene.Fog.Draw(light); err != nil {
				return err
			}
		}
		if err := v.scene.Fog.Display(); err != nil {
			return err
		}
		if err := v.scene.Fog.DrawTo(v.canvas); err != nil {
			return err
		}
	}

	v.canvas.Display()
	return nil
}

func (v *viewer) status() string {
	return fmt.Sprintf("%s | range %3.0f  beam %3.0f°  fade %v | hjkl move  +/- range  b beam  f fade  q quit",
		v.scene.Data.Name,
		v.torch.Range(),
		v.torch.BeamAngle()*180/math.Pi,
		v.torch.Fade())
}

func (v *viewer) handleKey(ev *tcell.EventKey) (quit bool) {
	const step = 12

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.torch.Move(0, -step)
	case tcell.KeyDown:
		v.torch.Move(0, step)
	case tcell.KeyLeft:
		v.torch.Move(-step, 0)
	case tcell.KeyRight:
		v.torch.Move(step, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'h':
			v.torch.Move(-step, 0)
		case 'j':
			v.torch.Move(0, step)
		case 'k':
			v.torch.Move(0, -step)
		case 'l':
			v.torch.Move(step, 0)
		case '+', '=':
			v.torch.SetRange(v.torch.Range() + 20)
		case '-':
			v.torch.SetRange(math.Max(v.torch.Range()-20, 20))
		case 'b':
			v.beamIndex = (v.beamIndex + 1) % len(beamApertures)
			v.torch.SetBeamAngle(beamApertures[v.beamIndex])
		case 'f':
			v.torch.SetFade(!v.torch.Fade())
		}
	}
	return false
}

func main() {
	backend := soft.New()

	var (
		scene *sceneloader.Scene
		err   error
	)
	if len(os.Args) > 1 {
		scene, err = sceneloader.LoadScene(os.Args[1], backend)
	} else {
		scene, err = sceneloader.Build(sceneloader.DefaultScene(), backend)
	}
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	v, err := newViewer(scene, backend)
	if err != nil {
		log.Fatalf("Failed to set up viewer: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to init screen: %v", err)
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / 20)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if v.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			v.tick()
			if err := v.render(); err != nil {
				screen.Fini()
				log.Fatalf("compositing failed: %v", err)
			}
			blit(screen, v.canvas.Snapshot())
			drawText(screen, 0, screenHeight(screen)-1, tcell.StyleDefault, v.status())
			screen.Show()
		}
	}
}

func screenHeight(screen tcell.Screen) int {
	_, h := screen.Size()
	return h
}

// blit draws the image with half-block characters: each terminal cell shows
// two vertically stacked pixels, the top one as the foreground of '▀' and
// the bottom one as the background.
func blit(screen tcell.Screen, img *image.NRGBA) {
	termW, termH := screen.Size()
	rows := termH - statusRows
	if termW <= 0 || rows <= 0 {
		return
	}
	gridH := rows * 2
	srcW := img.Rect.Dx()
	srcH := img.Rect.Dy()

	for y := 0; y < rows; y++ {
		for x := 0; x < termW; x++ {
			top := samplePixel(img, x, y*2, termW, gridH, srcW, srcH)
			bottom := samplePixel(img, x, y*2+1, termW, gridH, srcW, srcH)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			screen.SetContent(x, y, '▀', nil, style)
		}
	}
}

// samplePixel maps a grid position to the center of the corresponding
// source region.
func samplePixel(img *image.NRGBA, gx, gy, gridW, gridH, srcW, srcH int) color.NRGBA {
	sx := (gx*srcW + srcW/2) / gridW
	sy := (gy*srcH + srcH/2) / gridH
	if sx >= srcW {
		sx = srcW - 1
	}
	if sy >= srcH {
		sy = srcH - 1
	}
	return img.NRGBAAt(sx, sy)
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// drawBackground stretches a texture over the whole surface.
func drawBackground(dst render.Surface, tex render.Texture) {
	w, h := dst.Size()
	x1, y1 := float32(w), float32(h)
	vertices := []render.Vertex{
		{DstX: 0, DstY: 0, SrcX: 0, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: x1, DstY: 0, SrcX: 1, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: x1, DstY: y1, SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: 0, DstY: y1, SrcX: 0, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	dst.DrawTriangles(vertices, []uint16{0, 1, 2, 0, 2, 3}, tex, nil)
}

// fillRect draws a solid axis-aligned rectangle.
func fillRect(dst render.Surface, backend render.Backend, x, y, width, height float64, clr color.Color) {
	nrgba := color.NRGBAModel.Convert(clr).(color.NRGBA)
	r := float32(nrgba.R) / 255
	g := float32(nrgba.G) / 255
	b := float32(nrgba.B) / 255
	a := float32(nrgba.A) / 255

	x0, y0 := float32(x), float32(y)
	x1, y1 := float32(x+width), float32(y+height)
	vertices := []render.Vertex{
		{DstX: x0, DstY: y0, SrcX: 0.5, SrcY: 0.5, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		{DstX: x1, DstY: y0, SrcX: 0.5, SrcY: 0.5, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		{DstX: x1, DstY: y1, SrcX: 0.5, SrcY: 0.5, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		{DstX: x0, DstY: y1, SrcX: 0.5, SrcY: 0.5, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
	}
	dst.DrawTriangles(vertices, []uint16{0, 1, 2, 0, 2, 3}, backend.White(), nil)
}

// strokeSegment draws a segment as a thin quad.
func strokeSegment(dst render.Surface, backend render.Backend, a, b lighting.Point, width float64, clr color.Color) {
	length := lighting.Distance(a, b)
	if length == 0 {
		return
	}
	// Unit normal to the segment.
	nx := -(b.Y - a.Y) / length * width / 2
	ny := (b.X - a.X) / length * width / 2

	nrgba := color.NRGBAModel.Convert(clr).(color.NRGBA)
	cr := float32(nrgba.R) / 255
	cg := float32(nrgba.G) / 255
	cb := float32(nrgba.B) / 255
	ca := float32(nrgba.A) / 255

	corners := [4][2]float64{
		{a.X + nx, a.Y + ny},
		{b.X + nx, b.Y + ny},
		{b.X - nx, b.Y - ny},
		{a.X - nx, a.Y - ny},
	}
	vertices := make([]render.Vertex, 4)
	for i, c := range corners {
		vertices[i] = render.Vertex{
			DstX: float32(c[0]), DstY: float32(c[1]),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		}
	}
	dst.DrawTriangles(vertices, []uint16{0, 1, 2, 0, 2, 3}, backend.White(), nil)
}
