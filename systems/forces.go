package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/aura/components"
	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/emotion"
)

// ForceFrame holds the per-frame values shared by every force evaluation.
type ForceFrame struct {
	CenterX, CenterY float32
	Radius           float32 // Repel radius in pixels
	Intensity        float32 // Eased transition intensity in [0, 1]
	Time             float32 // Flow phase, drives periodic forces
	Cfg              config.ForcesConfig
	Rng              *rand.Rand
}

// ForceFunc computes the emotion-directed force on one particle.
type ForceFunc func(fr *ForceFrame, m *components.Motion, v *components.Vitals) Vec2

// ForceFor resolves the force function for a direction tag. Unknown tags
// behave as steady flow.
func ForceFor(d emotion.Direction) ForceFunc {
	switch d {
	case emotion.RadiantSpiral:
		return radiantSpiral
	case emotion.SlowFall:
		return slowFall
	case emotion.VolatileBurst:
		return volatileBurst
	case emotion.ImplodingVortex:
		return implodingVortex
	case emotion.Shockwave:
		return shockwave
	case emotion.RepelSwirls:
		return repelSwirls
	default:
		return steadyFlow
	}
}

func steadyFlow(*ForceFrame, *components.Motion, *components.Vitals) Vec2 {
	return Vec2{}
}

// radial returns the unit vector from the canvas center to the particle and
// the distance. ok is false at the center itself.
func radial(fr *ForceFrame, m *components.Motion) (ux, uy, d float32, ok bool) {
	dx := m.X - fr.CenterX
	dy := m.Y - fr.CenterY
	d = velocityMagnitude(dx, dy)
	if d < 1e-3 {
		return 0, 0, d, false
	}
	return dx / d, dy / d, d, true
}

// radiantSpiral circles the center while drifting outward. The particle phase
// modulates strength so neighbours do not pulse in lockstep.
func radiantSpiral(fr *ForceFrame, m *components.Motion, v *components.Vitals) Vec2 {
	ux, uy, _, ok := radial(fr, m)
	if !ok {
		return Vec2{}
	}
	pulse := 0.75 + 0.25*float32(math.Sin(float64(fr.Time*2+v.Phase)))
	k := fr.Cfg.Spiral * fr.Intensity * pulse * v.Response
	return Vec2{
		X: (-uy + ux*0.35) * k,
		Y: (ux + uy*0.35) * k,
	}
}

// slowFall pulls downward and bleeds off horizontal speed.
func slowFall(fr *ForceFrame, m *components.Motion, v *components.Vitals) Vec2 {
	return Vec2{
		X: -m.VelX * fr.Cfg.FallDamping * fr.Intensity,
		Y: fr.Cfg.Fall * fr.Intensity * v.Response,
	}
}

func volatileBurst(fr *ForceFrame, _ *components.Motion, v *components.Vitals) Vec2 {
	k := fr.Cfg.BurstJitter * fr.Intensity * v.Response
	return Vec2{
		X: (fr.Rng.Float32()*2 - 1) * k,
		Y: (fr.Rng.Float32()*2 - 1) * k,
	}
}

func implodingVortex(fr *ForceFrame, m *components.Motion, v *components.Vitals) Vec2 {
	j := fr.Cfg.VortexJitter * fr.Intensity
	out := Vec2{
		X: (fr.Rng.Float32()*2 - 1) * j,
		Y: (fr.Rng.Float32()*2 - 1) * j,
	}
	ux, uy, _, ok := radial(fr, m)
	if !ok {
		return out
	}
	k := fr.Cfg.VortexPull * fr.Intensity * v.Response
	out.X -= ux * k
	out.Y -= uy * k
	return out
}

func shockwave(fr *ForceFrame, m *components.Motion, v *components.Vitals) Vec2 {
	ux, uy, _, ok := radial(fr, m)
	if !ok {
		return Vec2{}
	}
	k := fr.Cfg.Shockwave * fr.Intensity * v.Response
	return Vec2{X: ux * k, Y: uy * k}
}

// repelSwirls pushes out of the central disc, strongest at the center, with a
// half-strength swirl. Particles beyond the radius feel nothing.
func repelSwirls(fr *ForceFrame, m *components.Motion, v *components.Vitals) Vec2 {
	ux, uy, d, ok := radial(fr, m)
	if !ok || fr.Radius <= 0 || d >= fr.Radius {
		return Vec2{}
	}
	k := fr.Cfg.Repel * fr.Intensity * v.Response * (1 - d/fr.Radius)
	return Vec2{
		X: (ux - uy*0.5) * k,
		Y: (uy + ux*0.5) * k,
	}
}
