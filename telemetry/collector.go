package telemetry

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// FrameSample is what the engine reports about one rendered frame.
type FrameSample struct {
	Emotion      string
	Sentiment    float32
	Energy       float32
	Changed      bool // Dominant emotion changed this frame
	InTransition bool // Transition progress < 1 after the update
	Burst        bool // Burst gradient drawn
	Draw         ProbeFrame
}

// Collector accumulates frame samples within time windows and produces WindowStats.
type Collector struct {
	windowFrames int64
	dt           float64

	// Current window tracking
	windowStartTick int64
	last            FrameSample

	// Counters for current window
	frames           int
	emotionChanges   int
	transitionFrames int
	burstFrames      int
	strokes          int
	rings            int

	// Weighted color sums for current window
	sumR, sumG, sumB float64
	weight           float64
}

// NewCollector creates a new stats collector.
// windowFrames: how many frames each stats window lasts
// dt: seconds per frame (used for tick-to-time conversion)
func NewCollector(windowFrames int, dt float64) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: int64(windowFrames),
		dt:           dt,
	}
}

// Record folds one frame into the current window.
func (c *Collector) Record(s FrameSample) {
	c.frames++
	if s.Changed {
		c.emotionChanges++
	}
	if s.InTransition {
		c.transitionFrames++
	}
	if s.Burst {
		c.burstFrames++
	}
	c.strokes += s.Draw.Strokes
	c.rings += s.Draw.Rings
	if s.Draw.Weight > 0 {
		c.sumR += s.Draw.MeanR * s.Draw.Weight
		c.sumG += s.Draw.MeanG * s.Draw.Weight
		c.sumB += s.Draw.MeanB * s.Draw.Weight
		c.weight += s.Draw.Weight
	}
	c.last = s
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowFrames
}

// Flush produces a WindowStats and resets counters for the next window.
// velX and velY are the particle velocities sampled at flush time.
func (c *Collector) Flush(currentTick int64, velX, velY []float64) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Emotion:   c.last.Emotion,
		Sentiment: float64(c.last.Sentiment),
		Energy:    float64(c.last.Energy),

		Frames:           c.frames,
		EmotionChanges:   c.emotionChanges,
		TransitionFrames: c.transitionFrames,
		BurstFrames:      c.burstFrames,
		Strokes:          c.strokes,
		Rings:            c.rings,

		Particles: min(len(velX), len(velY)),
	}
	if c.weight > 0 {
		stats.MeanR = c.sumR / c.weight
		stats.MeanG = c.sumG / c.weight
		stats.MeanB = c.sumB / c.weight
	}

	if n := stats.Particles; n > 0 {
		vx, vy := velX[:n], velY[:n]
		stats.MeanVelX = stat.Mean(vx, nil)
		stats.MeanVelY = stat.Mean(vy, nil)
		speeds := make([]float64, n)
		for i := range speeds {
			speeds[i] = math.Hypot(vx[i], vy[i])
		}
		stats.SpeedMean, stats.SpeedStd, stats.SpeedP10, stats.SpeedP50, stats.SpeedP90 = ComputeDistStats(speeds)
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.frames = 0
	c.emotionChanges = 0
	c.transitionFrames = 0
	c.burstFrames = 0
	c.strokes = 0
	c.rings = 0
	c.sumR, c.sumG, c.sumB, c.weight = 0, 0, 0, 0

	return stats
}

// WindowFrames returns the number of ticks per window.
func (c *Collector) WindowFrames() int64 {
	return c.windowFrames
}
