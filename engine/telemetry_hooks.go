package engine

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/aura/components"
)

// flushTelemetry emits the current stats window to the log, the callback and
// the output files.
func (e *Engine) flushTelemetry() {
	velX, velY := e.sampleVelocities()

	stats := e.collector.Flush(e.tick, velX, velY)
	perfStats := e.perf.Stats()

	// Call stats callback if provided
	if e.statsCallback != nil {
		e.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if e.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if err := e.output.WriteTelemetry(stats); err != nil {
		e.log.Error("failed to write telemetry", "error", err)
	}
	if err := e.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		e.log.Error("failed to write perf", "error", err)
	}
}

// sampleVelocities collects particle velocities for the window stats.
func (e *Engine) sampleVelocities() (velX, velY []float64) {
	n := e.particles.Count()
	velX = make([]float64, 0, n)
	velY = make([]float64, 0, n)
	e.particles.ForEach(func(m *components.Motion, _ *components.Vitals, _ *components.Trail) {
		velX = append(velX, float64(m.VelX))
		velY = append(velY, float64(m.VelY))
	})
	return velX, velY
}

// MeanVelocity returns the mean particle velocity.
func (e *Engine) MeanVelocity() (vx, vy float64) {
	velX, velY := e.sampleVelocities()
	if len(velX) == 0 {
		return 0, 0
	}
	return stat.Mean(velX, nil), stat.Mean(velY, nil)
}
