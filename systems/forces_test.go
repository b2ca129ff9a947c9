package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/aura/components"
	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/emotion"
)

func testForceFrame(intensity float32) *ForceFrame {
	return &ForceFrame{
		CenterX:   100,
		CenterY:   100,
		Radius:    50,
		Intensity: intensity,
		Cfg:       config.Default().Forces,
		Rng:       rand.New(rand.NewSource(1)),
	}
}

var allDirections = []emotion.Direction{
	emotion.SteadyFlow,
	emotion.RadiantSpiral,
	emotion.SlowFall,
	emotion.VolatileBurst,
	emotion.ImplodingVortex,
	emotion.Shockwave,
	emotion.RepelSwirls,
}

func TestForcesVanishAtZeroIntensity(t *testing.T) {
	fr := testForceFrame(0)
	m := &components.Motion{X: 120, Y: 90, VelX: 1, VelY: -1}
	v := &components.Vitals{Phase: 1, Response: 1}

	for _, d := range allDirections {
		if got := ForceFor(d)(fr, m, v); got != (Vec2{}) {
			t.Errorf("%s at zero intensity = %v, want zero", d, got)
		}
	}
}

func TestSteadyFlowAddsNothing(t *testing.T) {
	fr := testForceFrame(1)
	m := &components.Motion{X: 10, Y: 10}
	v := &components.Vitals{Response: 1}
	if got := ForceFor(emotion.SteadyFlow)(fr, m, v); got != (Vec2{}) {
		t.Errorf("steady flow = %v, want zero", got)
	}
	if got := ForceFor(emotion.Direction(99))(fr, m, v); got != (Vec2{}) {
		t.Errorf("unknown direction = %v, want zero", got)
	}
}

func TestSlowFallPullsDown(t *testing.T) {
	fr := testForceFrame(1)
	m := &components.Motion{X: 10, Y: 10, VelX: 2}
	v := &components.Vitals{Response: 1}

	f := ForceFor(emotion.SlowFall)(fr, m, v)
	if f.Y <= 0 {
		t.Errorf("slow fall Y = %v, want downward", f.Y)
	}
	if f.X >= 0 {
		t.Errorf("slow fall X = %v, want opposing horizontal velocity", f.X)
	}
}

func TestRadialForces(t *testing.T) {
	fr := testForceFrame(1)
	fr.Cfg.VortexJitter = 0
	v := &components.Vitals{Response: 1}

	tests := []struct {
		dir     emotion.Direction
		x, y    float32
		outward bool
	}{
		{emotion.Shockwave, 180, 100, true},
		{emotion.Shockwave, 100, 20, true},
		{emotion.ImplodingVortex, 180, 100, false},
		{emotion.ImplodingVortex, 30, 160, false},
		{emotion.RepelSwirls, 120, 100, true},
	}

	for _, tt := range tests {
		m := &components.Motion{X: tt.x, Y: tt.y}
		f := ForceFor(tt.dir)(fr, m, v)
		dot := f.X*(tt.x-fr.CenterX) + f.Y*(tt.y-fr.CenterY)
		if tt.outward && dot <= 0 {
			t.Errorf("%s at (%v, %v) = %v, want outward", tt.dir, tt.x, tt.y, f)
		}
		if !tt.outward && dot >= 0 {
			t.Errorf("%s at (%v, %v) = %v, want inward", tt.dir, tt.x, tt.y, f)
		}
	}
}

func TestRepelSwirlsOnlyInsideRadius(t *testing.T) {
	fr := testForceFrame(1)
	v := &components.Vitals{Response: 1}

	outside := &components.Motion{X: 100 + fr.Radius + 1, Y: 100}
	if got := ForceFor(emotion.RepelSwirls)(fr, outside, v); got != (Vec2{}) {
		t.Errorf("repel outside radius = %v, want zero", got)
	}

	near := ForceFor(emotion.RepelSwirls)(fr, &components.Motion{X: 105, Y: 100}, v)
	far := ForceFor(emotion.RepelSwirls)(fr, &components.Motion{X: 140, Y: 100}, v)
	if velocityMagnitude(near.X, near.Y) <= velocityMagnitude(far.X, far.Y) {
		t.Error("repel should weaken toward the radius")
	}
}

func TestRadiantSpiralIsMostlyTangential(t *testing.T) {
	fr := testForceFrame(1)
	v := &components.Vitals{Response: 1}
	m := &components.Motion{X: 150, Y: 100}

	f := ForceFor(emotion.RadiantSpiral)(fr, m, v)
	// Radial direction is +X here, so the tangential part is Y
	if abs32(f.Y) <= abs32(f.X) {
		t.Errorf("spiral force %v should be mostly tangential", f)
	}

	// Different phases give different strengths
	other := ForceFor(emotion.RadiantSpiral)(fr, m, &components.Vitals{Response: 1, Phase: 1.5})
	if other == f {
		t.Error("particle phase should modulate spiral strength")
	}
}

func TestForcesAtCenterAreFinite(t *testing.T) {
	fr := testForceFrame(1)
	fr.Cfg.VortexJitter = 0
	m := &components.Motion{X: fr.CenterX, Y: fr.CenterY}
	v := &components.Vitals{Response: 1}

	for _, d := range []emotion.Direction{emotion.RadiantSpiral, emotion.ImplodingVortex, emotion.Shockwave, emotion.RepelSwirls} {
		if got := ForceFor(d)(fr, m, v); got != (Vec2{}) {
			t.Errorf("%s at center = %v, want zero", d, got)
		}
	}
}
