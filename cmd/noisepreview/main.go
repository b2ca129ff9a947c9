// Noise preview tool - interactive view of the flow field noise with sliders.
//
// Usage: go run ./cmd/noisepreview
package main

import (
	"fmt"
	"image/color"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	gridSize     = 256
	panelWidth   = windowWidth - previewSize - 30
)

// NoiseParams holds the tunable noise and flow parameters.
type NoiseParams struct {
	Simplex     bool
	Octaves     int
	Persistence float32
	Increment   float32 // Noise step per grid cell
	Seed        int64
	Sentiment   float32
	Energy      float32
}

func defaultParams() NoiseParams {
	cfg := config.Default()
	return NoiseParams{
		Simplex:     cfg.Noise.Generator == "opensimplex",
		Octaves:     cfg.Noise.Octaves,
		Persistence: float32(cfg.Noise.Persistence),
		Increment:   float32(cfg.Flow.BaseIncrement),
		Seed:        1,
		Energy:      0.5,
	}
}

func (p NoiseParams) generator() string {
	if p.Simplex {
		return "opensimplex"
	}
	return "gradient"
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Aura Noise Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cfg := config.Default()
	params := defaultParams()

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	grid := make([]float32, gridSize*gridSize)
	var noise systems.NoiseSource
	var flow *systems.FlowField

	phase := 0.0
	animating := false
	showFlow := true
	rebuild := true
	needsRegen := true

	for !rl.WindowShouldClose() {
		if rebuild {
			noise = systems.NewNoiseSource(params.generator(), params.Seed)
			flowCfg := cfg.Flow
			flowCfg.BaseIncrement = float64(params.Increment)
			flow = systems.NewFlowField(previewSize, previewSize, flowCfg, params.Octaves, float64(params.Persistence), noise)
			rebuild = false
			needsRegen = true
		}
		if animating {
			flow.Update(params.Sentiment, params.Energy, 1)
			phase = flow.Phase()
			needsRegen = true
		}
		if needsRegen {
			generateNoise(grid, noise, params, phase)
			updateTexture(texture, grid)
			if !animating {
				flow.Update(params.Sentiment, params.Energy, 0)
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		if showFlow {
			drawFlow(flow, 10, 10)
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Stats
		minVal, maxVal, mean := gridStats(grid)
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Avg: %.3f", minVal, maxVal, mean), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Phase: %.3f  Grid: %dx%d", phase, flow.Cols, flow.Rows), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Noise Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label, lo, hi, format string, value, minV, maxV float32) float32 {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX + 30, Y: panelY, Width: float32(panelWidth - 110), Height: 20},
				lo, hi, value, minV, maxV,
			)
			rl.DrawText(fmt.Sprintf(format, value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			return v
		}

		if v := int(slider("Octaves", "1", "6", "%.0f", float32(params.Octaves), 1, 6)); v != params.Octaves {
			params.Octaves = v
			rebuild = true
		}
		if v := slider("Persistence (amplitude per octave)", "0.2", "0.9", "%.2f", params.Persistence, 0.2, 0.9); v != params.Persistence {
			params.Persistence = v
			rebuild = true
		}
		if v := slider("Increment (noise step per cell)", "0.01", "0.2", "%.3f", params.Increment, 0.01, 0.2); v != params.Increment {
			params.Increment = v
			rebuild = true
		}
		if v := int64(slider("Seed", "0", "9999", "%.0f", float32(params.Seed), 0, 9999)); v != params.Seed {
			params.Seed = v
			rebuild = true
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15
		rl.DrawText("Flow field state", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25

		if v := slider("Sentiment", "-1", "1", "%+.2f", params.Sentiment, -1, 1); v != params.Sentiment {
			params.Sentiment = v
			needsRegen = true
		}
		if v := slider("Energy", "0", "1", "%.2f", params.Energy, 0, 1); v != params.Energy {
			params.Energy = v
			needsRegen = true
		}

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(params.Simplex, "OpenSimplex", "Gradient")) {
			params.Simplex = !params.Simplex
			rebuild = true
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(showFlow, "Hide Flow", "Show Flow")) {
			showFlow = !showFlow
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			phase = 0
			rebuild = true
		}
		panelY += 50

		// Output YAML
		yaml := configYAML(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

func configYAML(p NoiseParams) string {
	return fmt.Sprintf("noise:\n  generator: %s\n  octaves: %d\n  persistence: %.2f\nflow:\n  base_increment: %.3f",
		p.generator(), p.Octaves, p.Persistence, p.Increment)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// generateNoise samples octave noise over the preview, mapped to [0, 1],
// in the same noise space the flow field uses at its default 20px cells.
func generateNoise(grid []float32, noise systems.NoiseSource, p NoiseParams, phase float64) {
	step := float64(p.Increment) * float64(previewSize) / float64(gridSize) / 20
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			n := systems.OctaveNoise(noise, float64(x)*step+phase, float64(y)*step+phase*0.5, p.Octaves, float64(p.Persistence))
			grid[y*gridSize+x] = float32((n + 1) / 2)
		}
	}
}

func gridStats(grid []float32) (minVal, maxVal, mean float32) {
	minVal, maxVal = 1, 0
	var total float32
	for _, v := range grid {
		total += v
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	return minVal, maxVal, total / float32(len(grid))
}

// drawFlow draws every other flow vector over the preview.
func drawFlow(f *systems.FlowField, ox, oy float32) {
	scale := f.Scale()
	for row := 0; row < f.Rows; row += 2 {
		for col := 0; col < f.Cols; col += 2 {
			v := f.Vectors[row*f.Cols+col]
			x := ox + float32(col)*scale
			y := oy + float32(row)*scale
			if x > ox+previewSize || y > oy+previewSize {
				continue
			}
			rl.DrawLineV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: x + v.X*40, Y: y + v.Y*40}, rl.Color{R: 255, G: 255, B: 255, A: 160})
		}
	}
}

// updateTexture maps noise values onto a dark-to-bright aura ramp.
func updateTexture(texture rl.Texture2D, grid []float32) {
	pixels := make([]color.RGBA, len(grid))
	for i, v := range grid {
		t := float64(v)
		r := uint8(20 + 200*math.Pow(t, 1.5))
		g := uint8(10 + 160*t)
		b := uint8(60 + 140*math.Sqrt(t))
		pixels[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
