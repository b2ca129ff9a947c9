package telemetry

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pc := NewPerfCollectorWithClock(10, clock)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseFlow)
		clock.Advance(100 * time.Microsecond)
		pc.StartPhase(PhaseParticles)
		clock.Advance(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration != 300*time.Microsecond {
		t.Errorf("avg tick = %v, want 300µs", stats.AvgTickDuration)
	}
	if got := stats.PhaseAvg[PhaseFlow]; got != 100*time.Microsecond {
		t.Errorf("flow phase avg = %v, want 100µs", got)
	}
	if got := stats.PhaseAvg[PhaseParticles]; got != 200*time.Microsecond {
		t.Errorf("particles phase avg = %v, want 200µs", got)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pc := NewPerfCollectorWithClock(5, clock)

	// Slow frames first, then fast frames that push them out of the window
	for i := 0; i < 5; i++ {
		pc.StartTick()
		clock.Advance(10 * time.Millisecond)
		pc.EndTick()
	}
	for i := 0; i < 5; i++ {
		pc.StartTick()
		clock.Advance(time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.MaxTickDuration != time.Millisecond {
		t.Errorf("max tick = %v, want 1ms once slow frames rolled out", stats.MaxTickDuration)
	}
	if stats.TicksPerSecond != 1000 {
		t.Errorf("ticks/sec = %v, want 1000", stats.TicksPerSecond)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pc := NewPerfCollectorWithClock(10, clock)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseFade)
		clock.Advance(25 * time.Microsecond)
		pc.StartPhase(PhaseParticles)
		clock.Advance(75 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if got := stats.PhasePct[PhaseFade]; got != 25 {
		t.Errorf("fade pct = %v, want 25", got)
	}
	if got := stats.PhasePct[PhaseParticles]; got != 75 {
		t.Errorf("particles pct = %v, want 75", got)
	}

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 || row.FadePct != 25 || row.ParticlesPct != 75 {
		t.Errorf("ToCSV = %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pc := NewPerfCollectorWithClock(10, clock)

	// First call establishes baseline
	pc.RecordFrame()
	clock.Advance(20 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration != 20*time.Millisecond {
		t.Errorf("frame duration = %v, want 20ms", stats.FrameDuration)
	}
	if stats.FPS != 50 {
		t.Errorf("FPS = %v, want 50", stats.FPS)
	}
}

func TestPerfCollector_TailLatency(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pc := NewPerfCollectorWithClock(20, clock)

	for i := 1; i <= 20; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseFlow)
		clock.Advance(time.Duration(i) * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.MinTickDuration != time.Millisecond {
		t.Errorf("min tick = %v, want 1ms", stats.MinTickDuration)
	}
	if stats.P95TickDuration != 19*time.Millisecond {
		t.Errorf("p95 tick = %v, want 19ms", stats.P95TickDuration)
	}
	if got := stats.PhasePct[PhaseFlow]; got != 100 {
		t.Errorf("flow pct = %v, want 100", got)
	}
}
