package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes engine gauges and counters on a private registry so that
// several engines can coexist in one process. A nil *Metrics is a no-op.
type Metrics struct {
	reg *prometheus.Registry

	// FrameDuration tracks AdvanceFrame wall time in seconds
	FrameDuration prometheus.Histogram

	// FramesTotal counts rendered frames
	FramesTotal prometheus.Counter

	// Particles tracks the live pool size
	Particles prometheus.Gauge

	// TransitionProgress tracks color transition progress (0..1)
	TransitionProgress prometheus.Gauge

	// EmotionChanges counts dominant emotion changes by new emotion
	EmotionChanges *prometheus.CounterVec

	// Sentiment and Energy track the last observed state
	Sentiment prometheus.Gauge
	Energy    prometheus.Gauge
}

// NewMetrics creates and registers the engine metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		FrameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "aura_frame_duration_seconds",
			Help:    "Frame advance duration in seconds",
			Buckets: []float64{.0005, .001, .002, .004, .008, .016, .033, .066},
		}),
		FramesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "aura_frames_total",
			Help: "Total frames advanced",
		}),
		Particles: f.NewGauge(prometheus.GaugeOpts{
			Name: "aura_particles",
			Help: "Number of particles in the pool",
		}),
		TransitionProgress: f.NewGauge(prometheus.GaugeOpts{
			Name: "aura_transition_progress",
			Help: "Color transition progress from 0 to 1",
		}),
		EmotionChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_emotion_changes_total",
			Help: "Dominant emotion changes by new emotion",
		}, []string{"emotion"}),
		Sentiment: f.NewGauge(prometheus.GaugeOpts{
			Name: "aura_sentiment",
			Help: "Last observed sentiment (-1..1)",
		}),
		Energy: f.NewGauge(prometheus.GaugeOpts{
			Name: "aura_energy",
			Help: "Last observed energy (0..1)",
		}),
	}
}

// ObserveFrame records one frame.
func (m *Metrics) ObserveFrame(d time.Duration, particles int, progress, sentiment, energy float32) {
	if m == nil {
		return
	}
	m.FrameDuration.Observe(d.Seconds())
	m.FramesTotal.Inc()
	m.Particles.Set(float64(particles))
	m.TransitionProgress.Set(float64(progress))
	m.Sentiment.Set(float64(sentiment))
	m.Energy.Set(float64(energy))
}

// ObserveEmotionChange counts a switch to emotion.
func (m *Metrics) ObserveEmotionChange(emotion string) {
	if m == nil {
		return
	}
	m.EmotionChanges.WithLabelValues(emotion).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
