package engine

import (
	"github.com/pthm-cable/aura/emotion"
	"github.com/pthm-cable/aura/renderer"
	"github.com/pthm-cable/aura/systems"
	"github.com/pthm-cable/aura/telemetry"
)

// AdvanceFrame renders one frame for tick. It reads the state source once,
// then fades the canvas, recomputes the flow field, updates the color
// transition, moves and draws the particles, and draws the burst and keyword
// ripples. It is a no-op after Stop.
func (e *Engine) AdvanceFrame(tick int64) {
	if e.stopped {
		return
	}
	start := e.clock.Now()
	e.perf.StartTick()

	steps := e.elapsedSteps(tick)
	e.tick = tick
	st := e.source.Snapshot().Sanitized()
	e.state = st
	entry := e.palette.Lookup(st.Dominant)

	e.perf.StartPhase(telemetry.PhaseFade)
	renderer.DrawFade(e.canvas, st.Energy, e.cfg.Render)

	e.perf.StartPhase(telemetry.PhaseFlow)
	e.flow.Update(st.Sentiment, st.Energy, steps)

	e.perf.StartPhase(telemetry.PhaseTransition)
	changed := e.transition.Update(st.Dominant, entry, tick)
	if changed {
		e.log.Debug("emotion changed",
			"emotion", st.Dominant.String(),
			"direction", entry.Direction.String(),
			"tick", tick,
		)
		e.metrics.ObserveEmotionChange(st.Dominant.String())
	}
	intensity := e.transition.Intensity()
	color := e.transition.Current()

	e.perf.StartPhase(telemetry.PhaseParticles)
	e.particles.Follow(e.flow, entry.Direction, intensity, e.flow.Phase())
	e.particles.Update(systems.ParticleFrame{
		Sentiment:    st.Sentiment,
		Energy:       st.Energy,
		EmotionSpeed: entry.Speed,
		Color:        color,
		Steps:        steps,
	})
	renderer.DrawParticles(e.canvas, e.particles, renderer.TrailStyle{
		Sentiment: st.Sentiment,
		Energy:    st.Energy,
		Cfg:       e.cfg.Render,
	})

	e.perf.StartPhase(telemetry.PhaseOverlays)
	e.burst = e.transition.InProgress()
	if e.burst {
		renderer.DrawBurst(e.canvas, color, intensity, e.cfg.Render)
	}
	keywords := min(len(st.Keywords), e.cfg.Render.MaxKeywords)
	renderer.DrawRipples(e.canvas, keywords, e.noise, e.flow.Phase(), color, e.cfg.Render.RippleSpacing)

	e.perf.EndTick()

	e.metrics.ObserveFrame(e.clock.Since(start), e.particles.Count(), e.transition.Progress(), st.Sentiment, st.Energy)
	e.recordTelemetry(st, changed)
}

// elapsedSteps returns the increment multiplier for this frame. With
// elapsed normalization off every frame counts as one step.
func (e *Engine) elapsedSteps(tick int64) float64 {
	steps := 1.0
	if e.cfg.Timing.NormalizeElapsed && e.started && tick > e.lastTick {
		steps = float64(tick - e.lastTick)
	}
	e.started = true
	e.lastTick = tick
	return steps
}

// recordTelemetry folds the frame into the stats window and flushes it
// when due.
func (e *Engine) recordTelemetry(st emotion.State, changed bool) {
	e.collector.Record(telemetry.FrameSample{
		Emotion:      st.Dominant.String(),
		Sentiment:    st.Sentiment,
		Energy:       st.Energy,
		Changed:      changed,
		InTransition: e.transition.InProgress(),
		Burst:        e.burst,
		Draw:         e.probe.EndFrame(),
	})
	if e.collector.ShouldFlush(e.tick) {
		e.flushTelemetry()
	}
}
