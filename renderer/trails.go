package renderer

import (
	"image/color"

	"github.com/pthm-cable/aura/components"
	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/systems"
)

// TrailStyle holds the per-frame inputs that shape particle strokes.
type TrailStyle struct {
	Sentiment float32
	Energy    float32
	Cfg       config.RenderConfig
}

// DrawParticles strokes every particle's trail with additive blending. Older
// segments are thinner and more transparent; the newest segment is scaled
// by speed. Fast or energetic particles get a wide glow stroke, and very
// fast ones a near-white core.
func DrawParticles(c Canvas, ps *systems.ParticleSystem, st TrailStyle) {
	if ps == nil || ps.Count() == 0 {
		return
	}
	if w, h := c.Size(); w <= 0 || h <= 0 {
		return
	}

	c.SetBlend(BlendAdditive)
	defer c.SetBlend(BlendAlpha)

	cfg := st.Cfg
	baseAlpha := cfg.AlphaMin + (cfg.AlphaMax-cfg.AlphaMin)*clampUnit(st.Energy)
	sentMag := st.Sentiment
	if sentMag < 0 {
		sentMag = -sentMag
	}
	glowAll := st.Energy > cfg.GlowEnergy || sentMag > cfg.GlowSentiment

	ps.ForEach(func(m *components.Motion, v *components.Vitals, tr *components.Trail) {
		n := tr.Len()
		if n == 0 {
			return
		}
		alpha := baseAlpha * v.Life
		if alpha <= 0 {
			return
		}

		// History, oldest first
		for i := 0; i < n-1; i++ {
			a, b := tr.At(i), tr.At(i+1)
			fade := float32(i+1) / float32(n)
			fade *= fade
			c.Line(a.X, a.Y, b.X, b.Y, v.Size*(0.5+0.5*fade), rgba(b, alpha*fade))
		}

		// Newest segment, from the last recorded point to the live position
		head := tr.At(n - 1)
		speed := particleSpeed(m)
		ratio := float32(0)
		if v.MaxSpeed > 0 {
			ratio = clampUnit(speed / (v.MaxSpeed * 2))
		}
		width := v.Size * (1 + st.Energy*0.5) * (0.75 + ratio)
		c.Line(head.X, head.Y, m.X, m.Y, width, rgba(head, alpha))

		if glowAll || speed > cfg.GlowSpeed {
			c.Line(head.X, head.Y, m.X, m.Y, v.Size*3, rgba(head, alpha*0.3))
		}
		if speed > cfg.CoreSpeed {
			core := components.TrailPoint{
				R: 255 - (255-head.R)/5,
				G: 255 - (255-head.G)/5,
				B: 255 - (255-head.B)/5,
			}
			c.Line(head.X, head.Y, m.X, m.Y, v.Size*0.6, rgba(core, alpha*0.8))
		}
	})
}

func particleSpeed(m *components.Motion) float32 {
	return hypot32(m.VelX, m.VelY)
}

func rgba(p components.TrailPoint, a float32) color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: alpha8(a)}
}

func clampUnit(v float32) float32 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
