package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aura/systems"
)

// DrawFlowField draws every stride-th flow vector as a short line with a dot
// at its base. Vectors are scaled for visibility.
func DrawFlowField(f *systems.FlowField, stride int) {
	if f == nil || len(f.Vectors) == 0 {
		return
	}
	if stride < 1 {
		stride = 1
	}
	scale := f.Scale()
	const gain = 40

	lineColor := rl.Color{R: 120, G: 200, B: 255, A: 140}
	dotColor := rl.Color{R: 120, G: 200, B: 255, A: 200}
	for row := 0; row < f.Rows; row += stride {
		for col := 0; col < f.Cols; col += stride {
			v := f.Vectors[row*f.Cols+col]
			x := float32(col) * scale
			y := float32(row) * scale
			rl.DrawLineV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: x + v.X*gain, Y: y + v.Y*gain}, lineColor)
			rl.DrawCircleV(rl.Vector2{X: x, Y: y}, 1.5, dotColor)
		}
	}
}
