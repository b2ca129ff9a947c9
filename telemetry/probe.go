package telemetry

import (
	"image/color"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/aura/renderer"
)

// ProbeFrame summarizes the draw calls of one frame.
type ProbeFrame struct {
	Strokes int // Additive line draws
	Bursts  int // Radial gradient draws
	Rings   int
	Fills   int

	// Alpha-weighted mean color of additive strokes and burst centers
	MeanR, MeanG, MeanB float64
	Weight              float64 // Sum of alpha weights
}

// Probe wraps a Canvas and records what the engine draws into it.
// It forwards every call unchanged.
type Probe struct {
	renderer.Canvas

	blend   renderer.BlendMode
	frame   ProbeFrame
	r, g, b []float64
	w       []float64

	total ProbeFrame
}

// NewProbe wraps c.
func NewProbe(c renderer.Canvas) *Probe {
	return &Probe{Canvas: c}
}

func (p *Probe) SetBlend(mode renderer.BlendMode) {
	p.blend = mode
	p.Canvas.SetBlend(mode)
}

func (p *Probe) Fill(c color.NRGBA) {
	p.frame.Fills++
	p.Canvas.Fill(c)
}

func (p *Probe) Line(x0, y0, x1, y1, width float32, c color.NRGBA) {
	if p.blend == renderer.BlendAdditive {
		p.frame.Strokes++
		p.sample(c)
	}
	p.Canvas.Line(x0, y0, x1, y1, width, c)
}

func (p *Probe) RadialGradient(cx, cy, radius float32, inner, outer color.NRGBA) {
	p.frame.Bursts++
	p.sample(inner)
	p.Canvas.RadialGradient(cx, cy, radius, inner, outer)
}

func (p *Probe) Ring(cx, cy, radius, thickness float32, c color.NRGBA) {
	p.frame.Rings++
	p.Canvas.Ring(cx, cy, radius, thickness, c)
}

func (p *Probe) sample(c color.NRGBA) {
	if c.A == 0 {
		return
	}
	p.r = append(p.r, float64(c.R))
	p.g = append(p.g, float64(c.G))
	p.b = append(p.b, float64(c.B))
	p.w = append(p.w, float64(c.A)/255)
}

// EndFrame returns the current frame summary, adds it to the running
// totals, and starts a new frame.
func (p *Probe) EndFrame() ProbeFrame {
	f := p.frame
	if len(p.w) > 0 {
		f.MeanR = stat.Mean(p.r, p.w)
		f.MeanG = stat.Mean(p.g, p.w)
		f.MeanB = stat.Mean(p.b, p.w)
		for _, w := range p.w {
			f.Weight += w
		}
	}
	p.total = mergeFrames(p.total, f)

	p.frame = ProbeFrame{}
	p.r, p.g, p.b, p.w = p.r[:0], p.g[:0], p.b[:0], p.w[:0]
	return f
}

// Totals returns the summary of every frame ended so far.
func (p *Probe) Totals() ProbeFrame {
	return p.total
}

func mergeFrames(a, b ProbeFrame) ProbeFrame {
	out := ProbeFrame{
		Strokes: a.Strokes + b.Strokes,
		Bursts:  a.Bursts + b.Bursts,
		Rings:   a.Rings + b.Rings,
		Fills:   a.Fills + b.Fills,
		Weight:  a.Weight + b.Weight,
	}
	if out.Weight > 0 {
		out.MeanR = (a.MeanR*a.Weight + b.MeanR*b.Weight) / out.Weight
		out.MeanG = (a.MeanG*a.Weight + b.MeanG*b.Weight) / out.Weight
		out.MeanB = (a.MeanB*a.Weight + b.MeanB*b.Weight) / out.Weight
	}
	return out
}
