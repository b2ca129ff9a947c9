package emotion

import "github.com/tanema/gween/ease"

// Transition smooths color and intensity when the dominant emotion changes.
//
// On a change, progress restarts at 0 and advances one step per frame until
// it reaches 1. The current color is never set directly; it is lerped toward
// the target every frame so rapid changes do not pop.
type Transition struct {
	current RGB
	target  RGB

	last       Emotion
	frames     int // Frames since the last change
	total      int // Frames for a full transition
	smoothing  float32
	lastChange int64
}

// NewTransition creates a settled transition resting on the given emotion.
func NewTransition(initial Emotion, entry PaletteEntry, frames int, smoothing float32) *Transition {
	if frames < 1 {
		frames = 1
	}
	return &Transition{
		current:   entry.Primary,
		target:    entry.Primary,
		last:      initial,
		frames:    frames,
		total:     frames,
		smoothing: smoothing,
	}
}

// Update observes the incoming dominant emotion for this frame.
// It reports whether a new transition started.
func (t *Transition) Update(e Emotion, entry PaletteEntry, tick int64) bool {
	if !e.Valid() {
		e = Neutral
	}

	changed := e != t.last
	if changed {
		t.last = e
		t.frames = 0
		t.target = entry.Primary
		t.lastChange = tick
	} else if t.frames < t.total {
		t.frames++
	}

	t.current = t.current.Lerp(t.target, t.smoothing).Clamp()
	return changed
}

// Progress returns transition progress in [0, 1].
func (t *Transition) Progress() float32 {
	return float32(t.frames) / float32(t.total)
}

// InProgress reports whether the transition has not yet completed.
func (t *Transition) InProgress() bool {
	return t.frames < t.total
}

// Intensity returns the eased progress, sin(progress * pi/2).
func (t *Transition) Intensity() float32 {
	return ease.OutSine(t.Progress(), 0, 1, 1)
}

// Current returns the smoothed color.
func (t *Transition) Current() RGB {
	return t.current
}

// Target returns the color being approached.
func (t *Transition) Target() RGB {
	return t.target
}

// Emotion returns the last observed dominant emotion.
func (t *Transition) Emotion() Emotion {
	return t.last
}

// LastChange returns the tick of the most recent emotion change.
func (t *Transition) LastChange() int64 {
	return t.lastChange
}
