package renderer

import (
	"image/color"
	"math"

	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/emotion"
	"github.com/pthm-cable/aura/systems"
)

// DrawFade paints a translucent black fill so earlier frames fade out.
// Higher energy fades faster, keeping only recent motion visible.
func DrawFade(c Canvas, energy float32, cfg config.RenderConfig) {
	c.SetBlend(BlendAlpha)
	a := cfg.FadeMin + (cfg.FadeMax-cfg.FadeMin)*clampUnit(energy)
	c.Fill(color.NRGBA{A: alpha8(a)})
}

// BurstRadius returns the burst radius for a canvas at the given intensity.
func BurstRadius(width, height int, intensity float32) float32 {
	side := float32(min(width, height))
	return side * (0.15 + 0.35*clampUnit(intensity))
}

// BurstAlpha returns the burst center opacity. It peaks mid-transition and
// vanishes at both ends so the burst never pops in or out.
func BurstAlpha(intensity, peak float32) float32 {
	return peak * float32(math.Sin(float64(clampUnit(intensity))*math.Pi))
}

// DrawBurst draws the radial transition gradient at the canvas center in the
// current palette color, grown and faded by intensity.
func DrawBurst(c Canvas, col emotion.RGB, intensity float32, cfg config.RenderConfig) {
	w, h := c.Size()
	if w <= 0 || h <= 0 {
		return
	}
	r, g, b := col.Bytes()
	inner := color.NRGBA{R: r, G: g, B: b, A: alpha8(BurstAlpha(intensity, cfg.BurstAlpha))}
	outer := color.NRGBA{R: r, G: g, B: b}

	c.SetBlend(BlendAdditive)
	c.RadialGradient(float32(w)/2, float32(h)/2, BurstRadius(w, h, intensity), inner, outer)
	c.SetBlend(BlendAlpha)
}

// RippleCenter returns the noise-seeded position of keyword i. Positions
// drift slowly with phase and are purely decorative.
func RippleCenter(noise systems.NoiseSource, i int, phase float64, width, height int) (x, y float32) {
	nx := (noise.Noise2D(float64(i)*100, phase*0.5) + 1) / 2
	ny := (noise.Noise2D(float64(i)*100+1000, phase*0.5) + 1) / 2
	return float32(nx) * float32(width), float32(ny) * float32(height)
}

// RippleRadius returns the pulsing outer radius of keyword i.
func RippleRadius(i int, phase float64) float32 {
	return float32(50 + math.Sin(phase*2+float64(i))*20)
}

// DrawRipples draws concentric rings for each keyword, fading toward the
// outer edge, in the current palette color.
func DrawRipples(c Canvas, keywords int, noise systems.NoiseSource, phase float64, col emotion.RGB, spacing float32) {
	w, h := c.Size()
	if w <= 0 || h <= 0 || keywords <= 0 || noise == nil {
		return
	}
	if spacing <= 0 {
		spacing = 10
	}
	r, g, b := col.Bytes()

	c.SetBlend(BlendAlpha)
	for i := 0; i < keywords; i++ {
		x, y := RippleCenter(noise, i, phase, w, h)
		radius := RippleRadius(i, phase)
		for rr := radius; rr > 0; rr -= spacing {
			a := (1 - rr/radius) * 0.1
			c.Ring(x, y, rr, 1, color.NRGBA{R: r, G: g, B: b, A: alpha8(a)})
		}
	}
}

func hypot32(x, y float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y)))
}
