// Package engine turns a stream of emotional state snapshots into frames of
// the particle aura.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/emotion"
	"github.com/pthm-cable/aura/renderer"
	"github.com/pthm-cable/aura/systems"
	"github.com/pthm-cable/aura/telemetry"
)

// StateSource supplies the emotional state read once per frame.
type StateSource interface {
	Snapshot() emotion.State
}

// StaticState is a StateSource that always returns the same state.
type StaticState emotion.State

// Snapshot implements StateSource.
func (s StaticState) Snapshot() emotion.State {
	return emotion.State(s)
}

// Options configures optional engine collaborators. The zero value is valid.
type Options struct {
	Seed  int64
	Clock clockwork.Clock // Used for frame timing; nil means the real clock

	Metrics  *telemetry.Metrics
	Output   *telemetry.OutputManager
	LogStats bool

	// StatsCallback, if set, receives every flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)
}

// Engine holds everything one aura session needs. It is driven by a single
// goroutine and holds no locks.
type Engine struct {
	id  uuid.UUID
	cfg *config.Config
	log *slog.Logger

	canvas renderer.Canvas // Probe wrapping the host canvas
	probe  *telemetry.Probe
	source StateSource

	noise      systems.NoiseSource
	flow       *systems.FlowField
	particles  *systems.ParticleSystem
	palette    emotion.Palette
	transition *emotion.Transition

	// State
	state    emotion.State
	tick     int64
	lastTick int64
	started  bool
	stopped  bool
	burst    bool

	// Telemetry
	clock         clockwork.Clock
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	metrics       *telemetry.Metrics
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// New creates an engine drawing into canvas and reading state from src.
// A nil cfg uses the embedded defaults.
func New(cfg *config.Config, canvas renderer.Canvas, src StateSource, opts Options) (*Engine, error) {
	if canvas == nil {
		return nil, errors.New("engine: nil canvas")
	}
	if src == nil {
		return nil, errors.New("engine: nil state source")
	}
	if cfg == nil {
		cfg = config.Default()
	}

	palette, err := emotion.DefaultPalette().WithOverrides(paletteOverrides(cfg.Palette))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	id := uuid.New()
	w, h := canvas.Size()
	noise := systems.NewNoiseSource(cfg.Noise.Generator, opts.Seed)
	neutral := palette.Lookup(emotion.Neutral)
	probe := telemetry.NewProbe(canvas)

	e := &Engine{
		id:     id,
		cfg:    cfg,
		log:    slog.Default().With("engine", id.String()),
		canvas: probe,
		probe:  probe,
		source: src,

		noise:      noise,
		flow:       systems.NewFlowField(w, h, cfg.Flow, cfg.Noise.Octaves, cfg.Noise.Persistence, noise),
		particles:  systems.NewParticleSystem(w, h, cfg.Particles, cfg.Forces, opts.Seed),
		palette:    palette,
		transition: emotion.NewTransition(emotion.Neutral, neutral, cfg.Transition.Frames, cfg.Transition.Smoothing),
		state:      emotion.NeutralState(),

		clock:         clock,
		perf:          telemetry.NewPerfCollectorWithClock(cfg.Telemetry.PerfCollectorWindow, clock),
		collector:     telemetry.NewCollector(cfg.Derived.WindowFrames, cfg.Derived.FrameDT),
		metrics:       opts.Metrics,
		output:        opts.Output,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	e.log.Info("engine created",
		"width", w,
		"height", h,
		"particles", e.particles.Count(),
		"noise", cfg.Noise.Generator,
		"seed", opts.Seed,
	)
	return e, nil
}

func paletteOverrides(in map[string]config.PaletteEntryConfig) map[string]emotion.Override {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]emotion.Override, len(in))
	for name, p := range in {
		out[name] = emotion.Override{
			Primary:   p.Primary,
			Secondary: p.Secondary,
			Glow:      p.Glow,
			Direction: p.Direction,
			Speed:     p.Speed,
		}
	}
	return out
}

// ID returns the engine instance identifier used in logs.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Tick returns the tick of the last advanced frame.
func (e *Engine) Tick() int64 {
	return e.tick
}

// State returns the sanitized snapshot read by the last frame.
func (e *Engine) State() emotion.State {
	return e.state
}

// Transition returns the color transition controller.
func (e *Engine) Transition() *emotion.Transition {
	return e.transition
}

// Palette returns the palette in use.
func (e *Engine) Palette() *emotion.Palette {
	return &e.palette
}

// Particles returns the particle system.
func (e *Engine) Particles() *systems.ParticleSystem {
	return e.particles
}

// Flow returns the flow field.
func (e *Engine) Flow() *systems.FlowField {
	return e.flow
}

// Probe returns the draw-call recorder wrapping the canvas.
func (e *Engine) Probe() *telemetry.Probe {
	return e.probe
}

// BurstDrawn reports whether the last frame drew the transition burst.
func (e *Engine) BurstDrawn() bool {
	return e.burst
}

// Perf returns the frame phase timing collector.
func (e *Engine) Perf() *telemetry.PerfCollector {
	return e.perf
}

// Stopped reports whether Stop has been called.
func (e *Engine) Stopped() bool {
	return e.stopped
}

// Resize resizes the canvas, the flow grid and the particle bounds.
// Particle state is kept. Repeated calls with the same size do nothing.
func (e *Engine) Resize(width, height int) {
	if e.stopped {
		return
	}
	width, height = max(width, 0), max(height, 0)
	if w, h := e.canvas.Size(); w == width && h == height {
		return
	}
	e.canvas.Resize(width, height)
	e.flow.Resize(width, height)
	e.particles.Resize(width, height)
	e.log.Debug("engine resized", "width", width, "height", height, "particles", e.particles.Count())
}

// Stop releases the particle world, the flow buffer and the canvas. Later
// AdvanceFrame and Resize calls are no-ops. Stop is idempotent.
func (e *Engine) Stop() {
	if e.stopped {
		return
	}
	e.stopped = true
	e.particles.Release()
	e.flow.Release()
	e.canvas.Release()
	e.log.Info("engine stopped", "tick", e.tick)
}
