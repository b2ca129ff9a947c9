package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Emotional state at window end
	Emotion   string  `csv:"emotion"`
	Sentiment float64 `csv:"sentiment"`
	Energy    float64 `csv:"energy"`

	// Events during window
	Frames           int `csv:"frames"`
	EmotionChanges   int `csv:"emotion_changes"`
	TransitionFrames int `csv:"transition_frames"` // Frames with progress < 1
	BurstFrames      int `csv:"burst_frames"`

	// Drawing
	Strokes int     `csv:"strokes"`
	Rings   int     `csv:"rings"`
	MeanR   float64 `csv:"mean_r"` // Alpha-weighted mean of additive stroke colors
	MeanG   float64 `csv:"mean_g"`
	MeanB   float64 `csv:"mean_b"`

	// Particle motion (sampled at window end)
	Particles int     `csv:"particles"`
	MeanVelX  float64 `csv:"mean_vel_x"`
	MeanVelY  float64 `csv:"mean_vel_y"`
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistStats calculates mean, sample standard deviation and percentiles.
func ComputeDistStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}
	if n == 1 {
		return values[0], 0, values[0], values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("emotion", s.Emotion),
		slog.Float64("sentiment", s.Sentiment),
		slog.Float64("energy", s.Energy),
		slog.Int("emotion_changes", s.EmotionChanges),
		slog.Int("transition_frames", s.TransitionFrames),
		slog.Int("burst_frames", s.BurstFrames),
		slog.Int("strokes", s.Strokes),
		slog.Float64("mean_r", s.MeanR),
		slog.Float64("mean_g", s.MeanG),
		slog.Float64("mean_b", s.MeanB),
		slog.Int("particles", s.Particles),
		slog.Float64("mean_vel_y", s.MeanVelY),
		slog.Float64("speed_p50", s.SpeedP50),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"emotion", s.Emotion,
		"sentiment", s.Sentiment,
		"energy", s.Energy,
		"emotion_changes", s.EmotionChanges,
		"transition_frames", s.TransitionFrames,
		"burst_frames", s.BurstFrames,
		"strokes", s.Strokes,
		"mean_rgb", []float64{s.MeanR, s.MeanG, s.MeanB},
		"particles", s.Particles,
		"mean_vel", []float64{s.MeanVelX, s.MeanVelY},
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
	)
}
