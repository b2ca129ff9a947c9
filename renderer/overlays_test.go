package renderer

import (
	"image/color"
	"math"
	"testing"

	"github.com/pthm-cable/aura/components"
	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/emotion"
	"github.com/pthm-cable/aura/systems"
)

// recorder is a Canvas that only counts calls.
type recorder struct {
	w, h      int
	blend     BlendMode
	fills     []color.NRGBA
	lines     int
	additive  int
	gradients int
	rings     int
}

func (r *recorder) Size() (int, int)                       { return r.w, r.h }
func (r *recorder) Resize(w, h int)                        { r.w, r.h = w, h }
func (r *recorder) SetBlend(m BlendMode)                   { r.blend = m }
func (r *recorder) Fill(c color.NRGBA)                     { r.fills = append(r.fills, c) }
func (r *recorder) Release()                               {}
func (r *recorder) Ring(_, _, _, _ float32, _ color.NRGBA) { r.rings++ }
func (r *recorder) RadialGradient(_, _, _ float32, _, _ color.NRGBA) {
	r.gradients++
}
func (r *recorder) Line(_, _, _, _, _ float32, _ color.NRGBA) {
	r.lines++
	if r.blend == BlendAdditive {
		r.additive++
	}
}

func TestDrawFadeScalesWithEnergy(t *testing.T) {
	cfg := config.Default().Render
	rec := &recorder{w: 10, h: 10}

	DrawFade(rec, 0, cfg)
	DrawFade(rec, 1, cfg)
	if len(rec.fills) != 2 {
		t.Fatalf("fills = %d, want 2", len(rec.fills))
	}
	if rec.fills[1].A <= rec.fills[0].A {
		t.Errorf("energy 1 fade alpha %d should exceed energy 0 alpha %d", rec.fills[1].A, rec.fills[0].A)
	}
	if rec.fills[0].R != 0 || rec.fills[0].G != 0 || rec.fills[0].B != 0 {
		t.Errorf("fade fill color = %v, want black", rec.fills[0])
	}
}

func TestBurstShape(t *testing.T) {
	if BurstRadius(800, 600, 1) <= BurstRadius(800, 600, 0) {
		t.Error("burst should grow with intensity")
	}
	if a := BurstAlpha(0, 0.35); a != 0 {
		t.Errorf("BurstAlpha(0) = %v, want 0", a)
	}
	if a := BurstAlpha(0.5, 0.35); math.Abs(float64(a)-0.35) > 1e-6 {
		t.Errorf("BurstAlpha(0.5) = %v, want peak 0.35", a)
	}
	if a := BurstAlpha(1, 0.35); a > 1e-6 {
		t.Errorf("BurstAlpha(1) = %v, want about 0", a)
	}
}

func TestDrawBurstZeroCanvas(t *testing.T) {
	rec := &recorder{}
	DrawBurst(rec, emotion.RGB{R: 255}, 0.5, config.Default().Render)
	if rec.gradients != 0 {
		t.Error("burst drawn on an empty canvas")
	}
}

func TestDrawRipples(t *testing.T) {
	noise := systems.NewGradientNoise(1)
	rec := &recorder{w: 400, h: 300}

	DrawRipples(rec, 2, noise, 0.7, emotion.RGB{R: 255, G: 200}, 10)
	// Each ripple draws ceil(radius / spacing) rings
	want := 0
	for i := 0; i < 2; i++ {
		want += int(math.Ceil(float64(RippleRadius(i, 0.7) / 10)))
	}
	if rec.rings != want {
		t.Errorf("rings = %d, want %d", rec.rings, want)
	}

	for i := 0; i < 10; i++ {
		x, y := RippleCenter(noise, i, 0.7, 400, 300)
		if x < 0 || x > 400 || y < 0 || y > 300 {
			t.Errorf("ripple %d at (%v, %v) outside canvas", i, x, y)
		}
		x2, y2 := RippleCenter(noise, i, 0.7, 400, 300)
		if x != x2 || y != y2 {
			t.Errorf("ripple %d position not deterministic", i)
		}
	}

	rec = &recorder{w: 400, h: 300}
	DrawRipples(rec, 0, noise, 0.7, emotion.RGB{}, 10)
	if rec.rings != 0 {
		t.Error("no keywords should draw no rings")
	}
}

func TestDrawParticlesAdditive(t *testing.T) {
	cfg := config.Default()
	ps := systems.NewParticleSystem(200, 200, cfg.Particles, cfg.Forces, 3)
	field := systems.NewFlowField(200, 200, cfg.Flow, 3, 0.5, systems.NewGradientNoise(3))

	frame := systems.ParticleFrame{Energy: 0.9, EmotionSpeed: 1, Color: emotion.RGB{R: 255, G: 223}, Steps: 1}
	for i := 0; i < 5; i++ {
		field.Update(0.8, 0.9, 1)
		ps.Follow(field, emotion.RadiantSpiral, 1, field.Phase())
		ps.Update(frame)
	}

	rec := &recorder{w: 200, h: 200}
	DrawParticles(rec, ps, TrailStyle{Sentiment: 0.8, Energy: 0.9, Cfg: cfg.Render})

	if rec.lines == 0 {
		t.Fatal("no strokes drawn")
	}
	if rec.additive != rec.lines {
		t.Errorf("%d of %d strokes were additive", rec.additive, rec.lines)
	}
	if rec.blend != BlendAlpha {
		t.Error("blend mode not restored after drawing particles")
	}
}

func TestDrawParticlesSkipsEmptyTrails(t *testing.T) {
	cfg := config.Default()
	ps := systems.NewParticleSystem(100, 100, cfg.Particles, cfg.Forces, 3)
	ps.ForEach(func(_ *components.Motion, _ *components.Vitals, tr *components.Trail) {
		tr.Clear()
	})

	rec := &recorder{w: 100, h: 100}
	DrawParticles(rec, ps, TrailStyle{Energy: 1, Cfg: cfg.Render})
	if rec.lines != 0 {
		t.Errorf("lines = %d for particles with no history, want 0", rec.lines)
	}

	DrawParticles(&recorder{}, nil, TrailStyle{})
}
