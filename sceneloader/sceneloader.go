// Package sceneloader loads lighting scenes from JSON files and builds them
// into ready-to-draw worlds.
package sceneloader

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/lanterndev/lantern/lighting"
	"github.com/lanterndev/lantern/render"
)

// WallData is one occluding segment.
type WallData struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// BlockData is an axis-aligned rectangular occluder contributing four edges.
type BlockData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GridData is a tile grid of occluders. Each row is a string of cells where
// '#' blocks light and any other character is open. The grid outline is
// extracted and merged into long segments, so thick walls stay cheap to
// cast against.
type GridData struct {
	CellSize float64  `json:"cell_size"`
	OffsetX  float64  `json:"offset_x"`
	OffsetY  float64  `json:"offset_y"`
	Rows     []string `json:"rows"`
}

// Columns returns the width of the widest row.
func (g *GridData) Columns() int {
	cols := 0
	for _, row := range g.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// Blocked reports whether the cell at (col, row) blocks light.
func (g *GridData) Blocked(col, row int) bool {
	if row < 0 || row >= len(g.Rows) {
		return false
	}
	line := g.Rows[row]
	return col >= 0 && col < len(line) && line[col] == '#'
}

// BlockedRects returns one rectangle per blocked cell, in scene
// coordinates, for tools that render the grid walls.
func (g *GridData) BlockedRects() []BlockData {
	var rects []BlockData
	for row := range g.Rows {
		for col := 0; col < len(g.Rows[row]); col++ {
			if !g.Blocked(col, row) {
				continue
			}
			rects = append(rects, BlockData{
				X:      g.OffsetX + float64(col)*g.CellSize,
				Y:      g.OffsetY + float64(row)*g.CellSize,
				Width:  g.CellSize,
				Height: g.CellSize,
			})
		}
	}
	return rects
}

// LightData configures one radial light. Angles are in degrees, matching
// how scenes are authored; they are converted to radians when built.
type LightData struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Range           float64 `json:"range"`
	Color           string  `json:"color"`     // "#rrggbb"
	Intensity       float64 `json:"intensity"` // 0 means 1
	Fade            *bool   `json:"fade"`      // nil means true
	BeamDegrees     float64 `json:"beam_degrees"`
	RotationDegrees float64 `json:"rotation_degrees"`
}

// FogData configures the fog layer covering the scene.
type FogData struct {
	Color   string  `json:"color"` // "#rrggbb" or "#rrggbbaa"
	Opacity float64 `json:"opacity"`
}

// SceneData represents the loaded scene configuration.
type SceneData struct {
	Name   string      `json:"name"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Walls  []WallData  `json:"walls"`
	Blocks []BlockData `json:"blocks"`
	Grid   *GridData   `json:"grid"`
	Fog    *FogData    `json:"fog"`
	Lights []LightData `json:"lights"`
}

// Scene is a built scene: a world populated with occluders and lights, plus
// an optional fog area covering it.
type Scene struct {
	Data   *SceneData
	World  *lighting.World
	Lights []*lighting.RadialLight
	Fog    *lighting.LightingArea
}

// Load reads a scene from a JSON file, fills in defaults, and validates it.
func Load(path string) (*SceneData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", path, err)
	}

	var data SceneData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}

	applyDefaults(&data)
	if err := validateSceneData(&data); err != nil {
		return nil, fmt.Errorf("invalid scene data in %s: %w", path, err)
	}

	return &data, nil
}

// applyDefaults fills the zero values that mean "unset" in scene files.
func applyDefaults(data *SceneData) {
	for i := range data.Lights {
		light := &data.Lights[i]
		if light.Color == "" {
			light.Color = "#ffffff"
		}
		if light.Intensity == 0 {
			light.Intensity = 1
		}
		if light.BeamDegrees == 0 {
			light.BeamDegrees = 360
		}
	}
	if data.Fog != nil && data.Fog.Color == "" {
		data.Fog.Color = "#000000"
	}
}

// validateSceneData checks if the scene data is valid.
func validateSceneData(data *SceneData) error {
	if data.Width <= 0 || data.Height <= 0 {
		return fmt.Errorf("invalid scene dimensions: %gx%g", data.Width, data.Height)
	}

	for i, light := range data.Lights {
		if light.Range <= 0 {
			return fmt.Errorf("light %d: invalid range: %g", i, light.Range)
		}
		if light.Intensity < 0 || light.Intensity > 1 {
			return fmt.Errorf("light %d: intensity out of range [0, 1]: %g", i, light.Intensity)
		}
		if light.BeamDegrees <= 0 || light.BeamDegrees > 360 {
			return fmt.Errorf("light %d: beam out of range (0, 360]: %g", i, light.BeamDegrees)
		}
		if _, err := ParseHexColor(light.Color); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}

	if data.Grid != nil && len(data.Grid.Rows) > 0 && data.Grid.CellSize <= 0 {
		return fmt.Errorf("grid cell size must be positive: %g", data.Grid.CellSize)
	}

	if data.Fog != nil {
		if data.Fog.Opacity < 0 || data.Fog.Opacity > 1 {
			return fmt.Errorf("fog opacity out of range [0, 1]: %g", data.Fog.Opacity)
		}
		if _, err := ParseHexColor(data.Fog.Color); err != nil {
			return fmt.Errorf("fog: %w", err)
		}
	}

	return nil
}

// Build populates a world from scene data. Zero values that mean "unset"
// are filled with their defaults first, so hand-built SceneData works the
// same as loaded files.
func Build(data *SceneData, backend render.Backend) (*Scene, error) {
	applyDefaults(data)

	world := lighting.NewWorld(backend)
	pool := world.DefaultPool()

	for _, wall := range data.Walls {
		pool.Add(lighting.Segment{
			A: lighting.Point{X: wall.X1, Y: wall.Y1},
			B: lighting.Point{X: wall.X2, Y: wall.Y2},
		})
	}
	for _, block := range data.Blocks {
		pool.AddRect(block.X, block.Y, block.Width, block.Height)
	}
	if grid := data.Grid; grid != nil && len(grid.Rows) > 0 {
		segments := lighting.SegmentsFromGrid(grid.Columns(), len(grid.Rows), grid.CellSize, grid.Blocked)
		for _, seg := range segments {
			seg.A.X += grid.OffsetX
			seg.A.Y += grid.OffsetY
			seg.B.X += grid.OffsetX
			seg.B.Y += grid.OffsetY
			pool.Add(seg)
		}
	}

	scene := &Scene{
		Data:  data,
		World: world,
	}

	for i, cfg := range data.Lights {
		clr, err := ParseHexColor(cfg.Color)
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		light := world.NewRadialLight()
		light.SetPosition(cfg.X, cfg.Y)
		light.SetRotation(cfg.RotationDegrees * math.Pi / 180)
		light.SetRange(cfg.Range)
		light.SetColor(clr)
		light.SetIntensity(cfg.Intensity)
		light.SetBeamAngle(cfg.BeamDegrees * math.Pi / 180)
		if cfg.Fade != nil {
			light.SetFade(*cfg.Fade)
		}
		scene.Lights = append(scene.Lights, light)
	}

	if data.Fog != nil {
		fog, err := world.NewLightingArea(lighting.ModeFog, 0, 0, data.Width, data.Height)
		if err != nil {
			return nil, fmt.Errorf("failed to create fog area: %w", err)
		}
		clr, err := ParseHexColor(data.Fog.Color)
		if err != nil {
			return nil, fmt.Errorf("fog: %w", err)
		}
		fog.SetAreaColor(clr)
		fog.SetAreaOpacity(data.Fog.Opacity)
		scene.Fog = fog
	}

	world.CastAll()
	return scene, nil
}

// LoadScene loads a scene file and builds it in one call.
func LoadScene(path string, backend render.Backend) (*Scene, error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Build(data, backend)
}

// DefaultScene returns the built-in scene the tools fall back to when no
// scene file is given: a foggy room with a few occluders and two static
// lights.
func DefaultScene() *SceneData {
	return &SceneData{
		Name:   "default",
		Width:  960,
		Height: 540,
		Walls: []WallData{
			{X1: 120, Y1: 120, X2: 360, Y2: 120},
			{X1: 600, Y1: 420, X2: 840, Y2: 420},
		},
		Blocks: []BlockData{
			{X: 440, Y: 220, Width: 80, Height: 80},
			{X: 160, Y: 340, Width: 60, Height: 120},
			{X: 700, Y: 120, Width: 120, Height: 60},
		},
		Grid: &GridData{
			CellSize: 40,
			OffsetX:  520,
			OffsetY:  300,
			Rows: []string{
				"###.#",
				"#...#",
				"#.###",
			},
		},
		Fog: &FogData{
			Color:   "#000000",
			Opacity: 0.85,
		},
		Lights: []LightData{
			{X: 240, Y: 240, Range: 200, Color: "#ffd9a0", Intensity: 0.9},
			{X: 760, Y: 300, Range: 180, Color: "#a0c8ff", Intensity: 0.7},
		},
	}
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" into a color.
func ParseHexColor(s string) (color.NRGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: must start with '#'", s)
	}
	hex := s[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: must be #rrggbb or #rrggbbaa", s)
	}

	digits := make([]uint8, len(hex)/2)
	for i := range digits {
		hi, ok1 := hexDigit(hex[2*i])
		lo, ok2 := hexDigit(hex[2*i+1])
		if !ok1 || !ok2 {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: bad hex digit", s)
		}
		digits[i] = hi<<4 | lo
	}

	clr := color.NRGBA{R: digits[0], G: digits[1], B: digits[2], A: 255}
	if len(digits) == 4 {
		clr.A = digits[3]
	}
	return clr, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
