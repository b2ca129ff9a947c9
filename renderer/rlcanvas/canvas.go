// Package rlcanvas implements renderer.Canvas on a raylib render texture.
package rlcanvas

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aura/renderer"
)

// Canvas draws into an off-screen render texture so content persists across
// frames. Must be created after the raylib window is initialized.
type Canvas struct {
	target        rl.RenderTexture2D
	width, height int
	blend         renderer.BlendMode
	loaded        bool
	active        bool
}

// New creates a canvas cleared to black.
func New(width, height int) *Canvas {
	c := &Canvas{}
	c.load(width, height)
	return c
}

func (c *Canvas) load(width, height int) {
	c.width, c.height = max(width, 0), max(height, 0)
	if c.width == 0 || c.height == 0 {
		c.loaded = false
		return
	}
	c.target = rl.LoadRenderTexture(int32(c.width), int32(c.height))
	rl.BeginTextureMode(c.target)
	rl.ClearBackground(rl.Black)
	rl.EndTextureMode()
	c.loaded = true
}

// Begin redirects drawing into the texture. Call once per frame before the
// engine draws.
func (c *Canvas) Begin() {
	if !c.loaded || c.active {
		return
	}
	rl.BeginTextureMode(c.target)
	c.active = true
	c.applyBlend()
}

// End restores drawing to the window.
func (c *Canvas) End() {
	if !c.active {
		return
	}
	rl.EndBlendMode()
	rl.EndTextureMode()
	c.active = false
}

// Present draws the texture to the window. Render textures are stored
// upside down, hence the negative source height.
func (c *Canvas) Present() {
	if !c.loaded {
		return
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(c.width), Height: -float32(c.height)}
	rl.DrawTextureRec(c.target.Texture, src, rl.Vector2{}, rl.White)
}

// Size returns the texture dimensions.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// Resize reallocates the texture and copies the old content across. Must not
// be called between Begin and End.
func (c *Canvas) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	old, hadOld := c.target, c.loaded
	oldW, oldH := c.width, c.height

	c.load(width, height)
	if hadOld {
		if c.loaded {
			rl.BeginTextureMode(c.target)
			src := rl.Rectangle{X: 0, Y: 0, Width: float32(oldW), Height: -float32(oldH)}
			rl.DrawTextureRec(old.Texture, src, rl.Vector2{}, rl.White)
			rl.EndTextureMode()
		}
		rl.UnloadRenderTexture(old)
	}
}

// SetBlend switches the raylib blend mode.
func (c *Canvas) SetBlend(mode renderer.BlendMode) {
	c.blend = mode
	if c.active {
		c.applyBlend()
	}
}

func (c *Canvas) applyBlend() {
	if c.blend == renderer.BlendAdditive {
		rl.BeginBlendMode(rl.BlendAdditive)
	} else {
		rl.BeginBlendMode(rl.BlendAlpha)
	}
}

// Fill covers the texture with col.
func (c *Canvas) Fill(col color.NRGBA) {
	if !c.active {
		return
	}
	rl.DrawRectangle(0, 0, int32(c.width), int32(c.height), toRL(col))
}

// Line draws a thick segment.
func (c *Canvas) Line(x0, y0, x1, y1, width float32, col color.NRGBA) {
	if !c.active || col.A == 0 {
		return
	}
	rl.DrawLineEx(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, width, toRL(col))
}

// RadialGradient draws a gradient disc.
func (c *Canvas) RadialGradient(cx, cy, radius float32, inner, outer color.NRGBA) {
	if !c.active || radius <= 0 {
		return
	}
	rl.DrawCircleGradient(int32(cx), int32(cy), radius, toRL(inner), toRL(outer))
}

// Ring strokes a circle outline.
func (c *Canvas) Ring(cx, cy, radius, thickness float32, col color.NRGBA) {
	if !c.active || col.A == 0 || radius <= 0 {
		return
	}
	in := radius - thickness/2
	if in < 0 {
		in = 0
	}
	segments := int32(radius / 2)
	if segments < 24 {
		segments = 24
	}
	rl.DrawRing(rl.Vector2{X: cx, Y: cy}, in, radius+thickness/2, 0, 360, segments, toRL(col))
}

// Release unloads the texture.
func (c *Canvas) Release() {
	c.End()
	if c.loaded {
		rl.UnloadRenderTexture(c.target)
		c.loaded = false
	}
	c.width, c.height = 0, 0
}

// raylib colors carry straight alpha, same as NRGBA.
func toRL(col color.NRGBA) rl.Color {
	return rl.Color{R: col.R, G: col.G, B: col.B, A: col.A}
}
