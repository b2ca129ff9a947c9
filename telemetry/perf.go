package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for one engine frame.
const (
	PhaseFade       = "fade"
	PhaseFlow       = "flow"
	PhaseTransition = "transition"
	PhaseParticles  = "particles"
	PhaseOverlays   = "overlays"
)

var framePhases = []string{PhaseFade, PhaseFlow, PhaseTransition, PhaseParticles, PhaseOverlays}

var phaseIndex = func() map[string]int {
	m := make(map[string]int, len(framePhases))
	for i, p := range framePhases {
		m[p] = i
	}
	return m
}()

// FramePhases returns the frame phase names in execution order.
func FramePhases() []string {
	return append([]string(nil), framePhases...)
}

// PerfSample holds timing data for a single frame. Phases is indexed in
// FramePhases order.
type PerfSample struct {
	TickDuration time.Duration
	Phases       [5]time.Duration
}

// PerfCollector keeps a rolling window of frame timings.
type PerfCollector struct {
	clock   clockwork.Clock
	samples []PerfSample
	next    int
	filled  int

	current    PerfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      int // -1 when no phase is open

	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector on the real clock averaging over
// windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	return NewPerfCollectorWithClock(windowSize, clockwork.NewRealClock())
}

// NewPerfCollectorWithClock creates a collector that reads time from clock.
func NewPerfCollectorWithClock(windowSize int, clock clockwork.Clock) *PerfCollector {
	return &PerfCollector{
		clock:   clock,
		samples: make([]PerfSample, max(1, windowSize)),
		phase:   -1,
	}
}

// StartTick begins timing a new frame.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.clock.Now()
	p.current = PerfSample{}
	p.phase = -1
}

// StartPhase closes the open phase and starts timing the named one.
// Unknown names close the open phase without opening a new one.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.clock.Now()
	p.closePhase(now)
	if i, ok := phaseIndex[phase]; ok {
		p.phase = i
		p.phaseStart = now
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
		p.phase = -1
	}
}

// EndTick finishes the frame and pushes it into the window.
func (p *PerfCollector) EndTick() {
	now := p.clock.Now()
	p.closePhase(now)
	p.current.TickDuration = now.Sub(p.tickStart)

	p.samples[p.next] = p.current
	p.next = (p.next + 1) % len(p.samples)
	p.filled = min(p.filled+1, len(p.samples))
}

// RecordFrame records presentation timing in windowed mode.
func (p *PerfCollector) RecordFrame() {
	now := p.clock.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // Share of the average frame

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.filled == 0 {
		return s
	}

	ticks := make([]float64, p.filled)
	phases := make([][]float64, len(framePhases))
	for i := range phases {
		phases[i] = make([]float64, p.filled)
	}
	for i, sample := range p.samples[:p.filled] {
		ticks[i] = float64(sample.TickDuration)
		for j, d := range sample.Phases {
			phases[j][i] = float64(d)
		}
	}

	avg := stat.Mean(ticks, nil)
	s.AvgTickDuration = time.Duration(avg)
	s.MinTickDuration = time.Duration(floats.Min(ticks))
	s.MaxTickDuration = time.Duration(floats.Max(ticks))

	sorted := slices.Clone(ticks)
	slices.Sort(sorted)
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, sorted, nil))

	for j, name := range framePhases {
		if floats.Sum(phases[j]) == 0 {
			continue
		}
		mean := stat.Mean(phases[j], nil)
		s.PhaseAvg[name] = time.Duration(mean)
		if avg > 0 {
			s.PhasePct[name] = mean / avg * 100
		}
	}
	if avg > 0 {
		s.TicksPerSecond = float64(time.Second) / avg
	}
	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range framePhases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd     int64   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	P95TickUS     int64   `csv:"p95_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	FadePct       float64 `csv:"fade_pct"`
	FlowPct       float64 `csv:"flow_pct"`
	TransitionPct float64 `csv:"transition_pct"`
	ParticlesPct  float64 `csv:"particles_pct"`
	OverlaysPct   float64 `csv:"overlays_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		P95TickUS:     s.P95TickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		FadePct:       s.PhasePct[PhaseFade],
		FlowPct:       s.PhasePct[PhaseFlow],
		TransitionPct: s.PhasePct[PhaseTransition],
		ParticlesPct:  s.PhasePct[PhaseParticles],
		OverlaysPct:   s.PhasePct[PhaseOverlays],
	}
}
