package engine

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pthm-cable/aura/emotion"
)

// Driver ticks an engine. Each step applies due script entries to the store,
// eases the store one frame, and advances the engine.
type Driver struct {
	Engine *Engine
	Store  *emotion.Store  // Optional; stepped once per frame
	Script *emotion.Script // Optional; requires Store

	Clock    clockwork.Clock // nil means the real clock
	Interval time.Duration   // Frame interval; zero means 60 fps
	MaxTicks int64           // Stop after this many ticks; zero runs until cancelled

	// OnFrame, if set, is called after every frame.
	OnFrame func(tick int64)

	tick int64
}

// Step advances exactly one frame and returns its tick.
func (d *Driver) Step() int64 {
	d.tick++
	if d.Store != nil {
		if d.Script != nil {
			for _, a := range d.Script.Due(d.tick) {
				d.Store.Apply(a)
			}
		}
		d.Store.Step()
	}
	d.Engine.AdvanceFrame(d.tick)
	if d.OnFrame != nil {
		d.OnFrame(d.tick)
	}
	return d.tick
}

// Done reports whether MaxTicks has been reached.
func (d *Driver) Done() bool {
	return d.MaxTicks > 0 && d.tick >= d.MaxTicks
}

// Run steps the engine on every tick of a clock ticker until ctx is
// cancelled or MaxTicks is reached. The ticker is stopped on return.
// Cancellation returns ctx.Err().
func (d *Driver) Run(ctx context.Context) error {
	clock := d.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	interval := d.Interval
	if interval <= 0 {
		interval = time.Second / 60
	}

	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for !d.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			if d.Engine.Stopped() {
				return nil
			}
			d.Step()
		}
	}
	return nil
}
