package engine

import (
	"image/color"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/emotion"
	"github.com/pthm-cable/aura/renderer"
	"github.com/pthm-cable/aura/telemetry"
)

// nopCanvas tracks size only. Used where drawing output is irrelevant.
type nopCanvas struct {
	w, h     int
	released bool
}

func (c *nopCanvas) Size() (int, int)                                 { return c.w, c.h }
func (c *nopCanvas) Resize(w, h int)                                  { c.w, c.h = w, h }
func (c *nopCanvas) SetBlend(renderer.BlendMode)                      {}
func (c *nopCanvas) Fill(color.NRGBA)                                 {}
func (c *nopCanvas) Line(_, _, _, _, _ float32, _ color.NRGBA)        {}
func (c *nopCanvas) RadialGradient(_, _, _ float32, _, _ color.NRGBA) {}
func (c *nopCanvas) Ring(_, _, _, _ float32, _ color.NRGBA)           {}
func (c *nopCanvas) Release()                                         { c.w, c.h, c.released = 0, 0, true }

func newTestEngine(t *testing.T, cfg *config.Config, canvas renderer.Canvas, src StateSource, opts Options) *Engine {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	e, err := New(cfg, canvas, src, opts)
	require.NoError(t, err)
	return e
}

func joyState() StaticState {
	return StaticState{Dominant: emotion.Joy, Sentiment: 0.8, Energy: 0.9}
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil, nil, joyState(), Options{})
	assert.Error(t, err)

	_, err = New(nil, renderer.NewRaster(10, 10), nil, Options{})
	assert.Error(t, err)

	cfg := config.Default()
	cfg.Palette = map[string]config.PaletteEntryConfig{"joy": {Primary: "not-a-color"}}
	_, err = New(cfg, renderer.NewRaster(10, 10), joyState(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "palette")
}

func TestPaletteOverrideApplied(t *testing.T) {
	cfg := config.Default()
	cfg.Palette = map[string]config.PaletteEntryConfig{"sadness": {Primary: "#000080", Direction: "shockwave"}}
	e := newTestEngine(t, cfg, &nopCanvas{w: 10, h: 10}, joyState(), Options{})

	entry := e.Palette().Lookup(emotion.Sadness)
	assert.Equal(t, emotion.RGB{R: 0, G: 0, B: 128}, entry.Primary)
	assert.Equal(t, emotion.Shockwave, entry.Direction)
}

func TestJoyScenario(t *testing.T) {
	cfg := config.Default()
	cfg.Derived.WindowFrames = 50

	var windows []telemetry.WindowStats
	canvas := renderer.NewRaster(200, 150)
	e := newTestEngine(t, cfg, canvas, joyState(), Options{
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	for tick := int64(1); tick <= 250; tick++ {
		e.AdvanceFrame(tick)

		// Burst only while the transition is running
		assert.Equal(t, tick <= int64(cfg.Transition.Frames), e.BurstDrawn(), "tick %d", tick)
		assert.Equal(t, e.Transition().Progress() < 1, e.BurstDrawn(), "tick %d", tick)
	}

	assert.Equal(t, emotion.Joy, e.Transition().Emotion())
	assert.Equal(t, int64(1), e.Transition().LastChange())

	require.Len(t, windows, 5)
	assert.Equal(t, 1, windows[0].EmotionChanges)
	assert.Equal(t, 50, windows[0].BurstFrames)
	for _, w := range windows[2:] {
		assert.Zero(t, w.BurstFrames)
		assert.Greater(t, w.Strokes, 0)
		assert.Greater(t, w.MeanR, w.MeanB, "window ending %d", w.WindowEndTick)
		assert.Greater(t, w.MeanG, w.MeanB, "window ending %d", w.WindowEndTick)
	}

	// The canvas itself is warm
	var sumR, sumG, sumB int
	img := canvas.Image()
	for i := 0; i < len(img.Pix); i += 4 {
		sumR += int(img.Pix[i])
		sumG += int(img.Pix[i+1])
		sumB += int(img.Pix[i+2])
	}
	assert.Greater(t, sumR, sumB)
	assert.Greater(t, sumG, sumB)
}

func meanVelYOverRun(t *testing.T, st StaticState) float64 {
	t.Helper()
	e := newTestEngine(t, nil, &nopCanvas{w: 640, h: 480}, st, Options{Seed: 99})
	var sum float64
	var n int
	for tick := int64(1); tick <= 250; tick++ {
		e.AdvanceFrame(tick)
		if tick > 150 {
			_, vy := e.MeanVelocity()
			sum += vy
			n++
		}
	}
	return sum / float64(n)
}

func TestSadnessFallsFasterThanNeutral(t *testing.T) {
	sad := meanVelYOverRun(t, StaticState{Dominant: emotion.Sadness, Sentiment: -0.6, Energy: 0.3})
	neutral := meanVelYOverRun(t, StaticState{Dominant: emotion.Neutral, Energy: 0.5})

	assert.Greater(t, sad, 0.3, "sad particles should drift down")
	assert.Greater(t, sad, neutral+0.3, "sad %.3f vs neutral %.3f", sad, neutral)
}

func TestResizeKeepsParticles(t *testing.T) {
	canvas := renderer.NewRaster(200, 100)
	e := newTestEngine(t, nil, canvas, joyState(), Options{})
	for tick := int64(1); tick <= 10; tick++ {
		e.AdvanceFrame(tick)
	}
	count := e.Particles().Count()
	require.Greater(t, count, 0)

	e.Resize(400, 300)
	w, h := canvas.Size()
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)
	assert.Equal(t, count, e.Particles().Count())
	cols, rows := e.Flow().Cols, e.Flow().Rows
	assert.Equal(t, 400/20+1, cols)
	assert.Equal(t, 300/20+1, rows)

	// Same size again does nothing
	e.Resize(400, 300)
	assert.Equal(t, count, e.Particles().Count())

	e.AdvanceFrame(11)
	assert.Equal(t, int64(11), e.Tick())
}

func TestStop(t *testing.T) {
	canvas := &nopCanvas{w: 100, h: 100}
	e := newTestEngine(t, nil, canvas, joyState(), Options{})
	e.AdvanceFrame(1)

	e.Stop()
	e.Stop()
	assert.True(t, e.Stopped())
	assert.True(t, canvas.released)
	assert.Zero(t, e.Particles().Count())

	assert.NotPanics(t, func() {
		e.AdvanceFrame(2)
		e.Resize(50, 50)
	})
	assert.Equal(t, int64(1), e.Tick())
}

func TestZeroCanvas(t *testing.T) {
	canvas := renderer.NewRaster(0, 0)
	e := newTestEngine(t, nil, canvas, joyState(), Options{})

	assert.NotPanics(t, func() {
		for tick := int64(1); tick <= 5; tick++ {
			e.AdvanceFrame(tick)
		}
	})
	assert.Zero(t, e.Particles().Count())

	e.Resize(100, 100)
	assert.Greater(t, e.Particles().Count(), 0)
	e.AdvanceFrame(6)
}

func TestInvalidStateSanitized(t *testing.T) {
	nan := float32(math.NaN())
	e := newTestEngine(t, nil, &nopCanvas{w: 80, h: 60}, StaticState{
		Dominant:  emotion.Emotion(42),
		Sentiment: nan,
		Energy:    nan,
	}, Options{})

	assert.NotPanics(t, func() { e.AdvanceFrame(1) })
	st := e.State()
	assert.Equal(t, emotion.Neutral, st.Dominant)
	assert.Zero(t, st.Sentiment)
	assert.Zero(t, st.Energy)
	assert.False(t, e.BurstDrawn())
}

func TestKeywordRipples(t *testing.T) {
	st := joyState()
	st.Keywords = []string{"sun", "warm", "light"}
	e := newTestEngine(t, nil, renderer.NewRaster(120, 90), st, Options{})

	e.AdvanceFrame(1)
	assert.Greater(t, e.Probe().Totals().Rings, 0)

	quiet := newTestEngine(t, nil, renderer.NewRaster(120, 90), joyState(), Options{})
	quiet.AdvanceFrame(1)
	assert.Zero(t, quiet.Probe().Totals().Rings)
}

func TestElapsedNormalization(t *testing.T) {
	run := func(normalize bool) float64 {
		cfg := config.Default()
		cfg.Timing.NormalizeElapsed = normalize
		e := newTestEngine(t, cfg, &nopCanvas{w: 60, h: 40}, StaticState{Dominant: emotion.Neutral, Energy: 0.5}, Options{})
		e.AdvanceFrame(1)
		e.AdvanceFrame(11)
		return e.Flow().Phase()
	}

	cfg := config.Default()
	rate := cfg.Flow.PhaseBase + 0.5*cfg.Flow.PhaseEnergy

	assert.InDelta(t, 2*rate, run(false), 1e-9)
	assert.InDelta(t, 11*rate, run(true), 1e-9)
}

func TestEngineMetrics(t *testing.T) {
	m := telemetry.NewMetrics()
	e := newTestEngine(t, nil, &nopCanvas{w: 100, h: 80}, joyState(), Options{Metrics: m})

	for tick := int64(1); tick <= 10; tick++ {
		e.AdvanceFrame(tick)
	}

	assert.Equal(t, 10.0, testutil.ToFloat64(m.FramesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmotionChanges.WithLabelValues("joy")))
	assert.Equal(t, float64(e.Particles().Count()), testutil.ToFloat64(m.Particles))
	assert.InDelta(t, 0.9, testutil.ToFloat64(m.Energy), 1e-6)
}
