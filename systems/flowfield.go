package systems

import (
	"math"

	"github.com/pthm-cable/aura/config"
)

const defaultFlowScale = 20

// FlowField holds one force vector per grid cell, recomputed every frame from
// noise and the current emotional state.
type FlowField struct {
	Cols, Rows int
	Vectors    []Vec2

	scale       float32
	cfg         config.FlowConfig
	noise       NoiseSource
	octaves     int
	persistence float64
	phase       float64
}

// NewFlowField creates a flow field sized for a width x height canvas.
func NewFlowField(width, height int, cfg config.FlowConfig, octaves int, persistence float64, noise NoiseSource) *FlowField {
	scale := cfg.Scale
	if scale <= 0 {
		scale = defaultFlowScale
	}
	f := &FlowField{
		scale:       scale,
		cfg:         cfg,
		noise:       noise,
		octaves:     octaves,
		persistence: persistence,
	}
	f.Resize(width, height)
	return f
}

// GridSize returns the grid dimensions for a canvas: floor(size/scale)+1 per axis.
// Negative sizes are treated as zero.
func GridSize(width, height int, scale float32) (cols, rows int) {
	if scale <= 0 {
		scale = defaultFlowScale
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cols = int(math.Floor(float64(float32(width)/scale))) + 1
	rows = int(math.Floor(float64(float32(height)/scale))) + 1
	return cols, rows
}

// Resize recomputes the grid dimensions and reallocates the vector buffer.
// Calling it again with the same size leaves the buffer untouched.
func (f *FlowField) Resize(width, height int) {
	cols, rows := GridSize(width, height, f.scale)
	if cols == f.Cols && rows == f.Rows && len(f.Vectors) == cols*rows {
		return
	}
	f.Cols = cols
	f.Rows = rows
	f.Vectors = make([]Vec2, cols*rows)
}

// Scale returns the cell size in pixels.
func (f *FlowField) Scale() float32 {
	return f.scale
}

// Phase returns the accumulated time offset of the noise sample.
func (f *FlowField) Phase() float64 {
	return f.phase
}

// Update recomputes every cell. steps is the number of frames the phase
// should advance by (1 for fixed per-call increments).
func (f *FlowField) Update(sentiment, energy float32, steps float64) {
	absSent := float64(abs32(sentiment))
	e := float64(energy)

	inc := f.cfg.BaseIncrement + absSent*f.cfg.SentimentIncrement + e*f.cfg.EnergyIncrement
	f.phase += (f.cfg.PhaseBase + e*f.cfg.PhaseEnergy) * steps

	magnitude := f.cfg.BaseMagnitude + energy*f.cfg.EnergyMagnitude + float32(absSent)*f.cfg.SentimentMagnitude
	sentShift := float64(sentiment) * math.Pi * 0.5

	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Cols; col++ {
			n := OctaveNoise(f.noise, float64(col)*inc+f.phase, float64(row)*inc+f.phase*0.5, f.octaves, f.persistence)

			angle := n*4*math.Pi + sentShift
			angle += math.Sin(f.phase*2+float64(col)*0.1) * f.cfg.Oscillation * e
			angle += math.Cos(f.phase*1.5+float64(row)*0.1) * f.cfg.Oscillation * 0.5 * absSent

			f.Vectors[row*f.Cols+col] = Vec2{
				X: float32(math.Cos(angle)) * magnitude,
				Y: float32(math.Sin(angle)) * magnitude,
			}
		}
	}
}

// At returns the vector of the cell containing (x, y). Points outside the
// canvas use the nearest edge cell.
func (f *FlowField) At(x, y float32) Vec2 {
	if len(f.Vectors) == 0 {
		return Vec2{}
	}
	col := int(x / f.scale)
	row := int(y / f.scale)
	if col < 0 || x < 0 {
		col = 0
	} else if col >= f.Cols {
		col = f.Cols - 1
	}
	if row < 0 || y < 0 {
		row = 0
	} else if row >= f.Rows {
		row = f.Rows - 1
	}
	return f.Vectors[row*f.Cols+col]
}

// Release drops the vector buffer.
func (f *FlowField) Release() {
	f.Vectors = nil
	f.Cols = 0
	f.Rows = 0
}
