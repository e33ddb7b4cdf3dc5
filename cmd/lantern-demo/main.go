// Command lantern-demo is an interactive showcase of the lighting pipeline.
// It loads a scene file when one is given on the command line, or builds a
// small default scene. A torch light follows the mouse through a foggy room
// with occluders.
//
// Controls:
//
//	mouse       move the torch
//	left click  drop a block occluder
//	wheel       change torch range
//	Q / E       rotate the torch beam
//	B           cycle beam aperture
//	C           cycle torch color
//	F           toggle distance fade
//	Escape      quit
package main

import (
	"image"
	"image/color"
	"log"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/lanterndev/lantern/lighting"
	"github.com/lanterndev/lantern/render"
	lanternebiten "github.com/lanterndev/lantern/render/ebiten"
	"github.com/lanterndev/lantern/sceneloader"
	"github.com/lanterndev/lantern/texturegen"
)

var torchColors = []color.Color{
	colornames.White,
	colornames.Orangered,
	colornames.Skyblue,
	colornames.Limegreen,
}

var beamApertures = []float64{2 * math.Pi, math.Pi / 2, math.Pi / 6}

// Game runs one scene with a mouse-driven torch.
type Game struct {
	scene *sceneloader.Scene
	glow  *lighting.LightingArea
	torch *lighting.RadialLight
	floor *ebiten.Image

	blocks     []sceneloader.BlockData
	gridRects  []sceneloader.BlockData
	colorIndex int
	beamIndex  int
}

func NewGame(scene *sceneloader.Scene) (*Game, error) {
	world := scene.World
	width := int(scene.Data.Width)
	height := int(scene.Data.Height)

	glow, err := world.NewLightingArea(lighting.ModeAmbient, 0, 0, scene.Data.Width, scene.Data.Height)
	if err != nil {
		return nil, err
	}
	glow.SetAreaColor(color.NRGBA{A: 255})

	// The fog clears back to a smoke texture each frame instead of a flat
	// color, so the darkness the torch carves through has some grain.
	if scene.Fog != nil {
		tint, err := sceneloader.ParseHexColor(scene.Data.Fog.Color)
		if err != nil {
			return nil, err
		}
		tint.A = uint8(float64(tint.A) * scene.Data.Fog.Opacity)
		smoke := ebiten.NewImageFromImage(texturegen.Smoke(width, height, tint))
		if err := scene.Fog.SetAreaTexture(lanternebiten.WrapImage(smoke), image.Rectangle{}); err != nil {
			return nil, err
		}
	}

	torch := world.NewRadialLight()
	torch.SetPosition(scene.Data.Width/2, scene.Data.Height/2)
	torch.SetRange(220)
	torch.SetIntensity(0.8)

	game := &Game{
		scene:  scene,
		glow:   glow,
		torch:  torch,
		floor:  ebiten.NewImageFromImage(texturegen.Floor(width, height)),
		blocks: scene.Data.Blocks,
	}
	if scene.Data.Grid != nil {
		game.gridRects = scene.Data.Grid.BlockedRects()
	}
	return game, nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	cx, cy := ebiten.CursorPosition()
	g.torch.SetPosition(float64(cx), float64(cy))

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		g.torch.SetRange(math.Max(g.torch.Range()+wheelY*20, 20))
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		g.torch.Rotate(-0.05)
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		g.torch.Rotate(0.05)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.beamIndex = (g.beamIndex + 1) % len(beamApertures)
		g.torch.SetBeamAngle(beamApertures[g.beamIndex])
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.colorIndex = (g.colorIndex + 1) % len(torchColors)
		g.torch.SetColor(torchColors[g.colorIndex])
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.torch.SetFade(!g.torch.Fade())
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		block := sceneloader.BlockData{
			X: float64(cx) - 20, Y: float64(cy) - 20,
			Width: 40, Height: 40,
		}
		g.blocks = append(g.blocks, block)
		g.scene.World.DefaultPool().AddRect(block.X, block.Y, block.Width, block.Height)
		// Pool edits are invisible to ShouldRecast, so recast everything.
		g.scene.World.CastAllForced()
	}

	g.scene.World.CastAll()
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.floor, nil)

	for _, block := range g.blocks {
		vector.DrawFilledRect(screen,
			float32(block.X), float32(block.Y),
			float32(block.Width), float32(block.Height),
			colornames.Dimgray, true)
	}
	for _, cell := range g.gridRects {
		vector.DrawFilledRect(screen,
			float32(cell.X), float32(cell.Y),
			float32(cell.Width), float32(cell.Height),
			colornames.Dimgray, true)
	}
	for _, wall := range g.scene.Data.Walls {
		vector.StrokeLine(screen,
			float32(wall.X1), float32(wall.Y1),
			float32(wall.X2), float32(wall.Y2),
			3, colornames.Dimgray, true)
	}

	if err := g.composite(lanternebiten.WrapImage(screen)); err != nil {
		log.Printf("compositing failed: %v", err)
	}

	ebitenutil.DebugPrintAt(screen, "wheel: range  B: beam  Q/E: aim  C: color  F: fade  click: block", 8, 8)
}

// composite runs the per-frame protocol for the glow and fog layers.
func (g *Game) composite(dst render.Surface) error {
	lights := g.scene.World.Lights()

	g.glow.Clear()
	for _, light := range lights {
		if err := g.glow.Draw(light); err != nil {
			return err
		}
	}
	if err := g.glow.Display(); err != nil {
		return err
	}
	if err := g.glow.DrawTo(dst); err != nil {
		return err
	}

	if g.scene.Fog == nil {
		return nil
	}
	g.scene.Fog.Clear()
	for _, light := range lights {
		if err := g.scene.Fog.Draw(light); err != nil {
			return err
		}
	}
	if err := g.scene.Fog.Display(); err != nil {
		return err
	}
	return g.scene.Fog.DrawTo(dst)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.scene.Data.Width), int(g.scene.Data.Height)
}

func main() {
	backend, err := render.Get(render.BackendEbiten)
	if err != nil {
		log.Fatalf("Failed to get render backend: %v", err)
	}

	var scene *sceneloader.Scene
	if len(os.Args) > 1 {
		log.Printf("Loading scene %s...", os.Args[1])
		scene, err = sceneloader.LoadScene(os.Args[1], backend)
	} else {
		scene, err = sceneloader.Build(sceneloader.DefaultScene(), backend)
	}
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	game, err := NewGame(scene)
	if err != nil {
		log.Fatalf("Failed to set up game: %v", err)
	}

	ebiten.SetWindowSize(int(scene.Data.Width), int(scene.Data.Height))
	ebiten.SetWindowTitle("Lantern - " + scene.Data.Name)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
