// Package renderer draws the aura: particle trails, the fade fill, the
// transition burst and keyword ripples, onto any Canvas implementation.
package renderer

import "image/color"

// BlendMode selects how strokes combine with what is already on the canvas.
type BlendMode uint8

const (
	BlendAlpha    BlendMode = iota // Source-over
	BlendAdditive                  // Source color added, scaled by its alpha
)

// Canvas is a persistent drawing surface. Content survives between frames so
// translucent fills leave fading trails. Colors use straight alpha.
type Canvas interface {
	Size() (width, height int)
	// Resize changes the surface size, keeping the overlapping content.
	// Resizing to the current size does nothing.
	Resize(width, height int)
	SetBlend(mode BlendMode)
	// Fill covers the whole surface with c.
	Fill(c color.NRGBA)
	Line(x0, y0, x1, y1, width float32, c color.NRGBA)
	// RadialGradient fills a disc blending from inner at the center to outer
	// at the rim.
	RadialGradient(cx, cy, radius float32, inner, outer color.NRGBA)
	Ring(cx, cy, radius, thickness float32, c color.NRGBA)
	// Release frees the backing buffers. The canvas draws nothing afterwards.
	Release()
}

// alpha8 converts a [0, 1] opacity into a color alpha byte.
func alpha8(a float32) uint8 {
	if a != a || a <= 0 {
		return 0
	}
	if a >= 1 {
		return 255
	}
	return uint8(a*255 + 0.5)
}
