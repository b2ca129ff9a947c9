package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/aura/components"
	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/emotion"
)

// ParticleFrame carries the per-frame inputs to ParticleSystem.Update.
type ParticleFrame struct {
	Sentiment    float32 // [-1, 1]
	Energy       float32 // [0, 1]
	EmotionSpeed float32 // Palette speed multiplier
	Color        emotion.RGB
	Steps        float64 // Life decay multiplier, 1 for fixed per-call decay
}

// ParticleSystem owns the particle pool. Particles are ECS entities created
// once and never destroyed, only respawned in place.
type ParticleSystem struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Motion, components.Vitals, components.Trail]
	filter *ecs.Filter3[components.Motion, components.Vitals, components.Trail]

	cfg    config.ParticlesConfig
	forces config.ForcesConfig
	rng    *rand.Rand

	width, height float32
	count         int
}

// ParticleCount returns the pool size for a canvas: area / density, clamped
// to [Min, Max]. A zero-area canvas gets no particles.
func ParticleCount(width, height int, cfg config.ParticlesConfig) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	n := cfg.Min
	if cfg.Density > 0 {
		n = int(float32(width) * float32(height) / cfg.Density)
	}
	if n < cfg.Min {
		n = cfg.Min
	}
	if cfg.Max > 0 && n > cfg.Max {
		n = cfg.Max
	}
	return n
}

// NewParticleSystem creates the pool for a width x height canvas. When the
// canvas is empty the pool is created on the first Resize to a non-zero size.
func NewParticleSystem(width, height int, cfg config.ParticlesConfig, forces config.ForcesConfig, seed int64) *ParticleSystem {
	world := ecs.NewWorld()
	s := &ParticleSystem{
		world:  world,
		mapper: ecs.NewMap3[components.Motion, components.Vitals, components.Trail](world),
		filter: ecs.NewFilter3[components.Motion, components.Vitals, components.Trail](world),
		cfg:    cfg,
		forces: forces,
		rng:    rand.New(rand.NewSource(seed)),
	}
	s.Resize(width, height)
	return s
}

// Resize updates the wrap bounds. Existing particles keep their state;
// particles now outside the canvas wrap on their next update.
func (s *ParticleSystem) Resize(width, height int) {
	if s.world == nil {
		return
	}
	s.width = float32(max(width, 0))
	s.height = float32(max(height, 0))
	if s.count == 0 {
		s.spawnPool(ParticleCount(width, height, s.cfg))
	}
}

func (s *ParticleSystem) spawnPool(n int) {
	for i := 0; i < n; i++ {
		var (
			m  components.Motion
			v  components.Vitals
			tr components.Trail
		)
		s.respawn(&m, &v, &tr)
		v.Life = 0.5 + s.rng.Float32()*0.5 // Stagger the first wave of respawns
		s.mapper.NewEntity(&m, &v, &tr)
	}
	s.count += n
}

// respawn resets a particle at a random position with zero velocity and full
// life, rolling new per-particle constants.
func (s *ParticleSystem) respawn(m *components.Motion, v *components.Vitals, tr *components.Trail) {
	m.X = s.rng.Float32() * s.width
	m.Y = s.rng.Float32() * s.height
	m.PrevX, m.PrevY = m.X, m.Y
	m.VelX, m.VelY = 0, 0
	m.AccX, m.AccY = 0, 0

	v.Life = 1
	v.Decay = randRange(s.rng, s.cfg.MinDecay, s.cfg.MaxDecay)
	v.MaxSpeed = randRange(s.rng, s.cfg.MinSpeed, s.cfg.MaxSpeed)
	v.Size = randRange(s.rng, s.cfg.MinSize, s.cfg.MaxSize)
	v.Phase = s.rng.Float32() * 2 * math.Pi
	v.Response = randRange(s.rng, 0.6, 1.4)

	tr.Clear()
}

// Count returns the number of particles in the pool.
func (s *ParticleSystem) Count() int {
	return s.count
}

// Bounds returns the current wrap bounds.
func (s *ParticleSystem) Bounds() (width, height float32) {
	return s.width, s.height
}

// Follow accumulates the flow field force and the direction's force on every
// particle. The ambient flow fades out as intensity rises so the emotion
// pattern takes over during a transition. phase drives periodic forces.
func (s *ParticleSystem) Follow(field *FlowField, dir emotion.Direction, intensity float32, phase float64) {
	if s.world == nil || s.count == 0 {
		return
	}
	intensity = clamp01(intensity)
	force := ForceFor(dir)
	fr := ForceFrame{
		CenterX:   s.width / 2,
		CenterY:   s.height / 2,
		Radius:    s.forces.RepelRadius * min(s.width, s.height),
		Intensity: intensity,
		Time:      float32(phase),
		Cfg:       s.forces,
		Rng:       s.rng,
	}
	ambient := 1 - s.forces.AmbientFade*intensity

	query := s.filter.Query()
	for query.Next() {
		m, v, _ := query.Get()

		flow := field.At(m.X, m.Y)
		f := force(&fr, m, v)
		m.AccX += flow.X*ambient + f.X
		m.AccY += flow.Y*ambient + f.Y
	}
}

// Update integrates, records trails, moves, ages and wraps every particle.
// A particle whose life runs out is respawned within the same call.
func (s *ParticleSystem) Update(p ParticleFrame) {
	if s.world == nil || s.count == 0 {
		return
	}
	sentMag := abs32(p.Sentiment)
	speedScale := p.EmotionSpeed * (1 + sentMag)
	steps := float32(p.Steps)
	if steps <= 0 {
		steps = 1
	}
	friction := s.cfg.Friction

	query := s.filter.Query()
	for query.Next() {
		m, v, tr := query.Get()

		m.VelX += m.AccX
		m.VelY += m.AccY
		m.AccX, m.AccY = 0, 0

		limit := v.MaxSpeed * speedScale
		speed := velocityMagnitude(m.VelX, m.VelY)
		if limit <= 0 {
			m.VelX, m.VelY, speed = 0, 0, 0
		} else if speed > limit {
			k := limit / speed
			m.VelX *= k
			m.VelY *= k
			speed = limit
		}
		m.VelX *= friction
		m.VelY *= friction

		var ratio float32
		if v.MaxSpeed > 0 {
			ratio = speed / (v.MaxSpeed * 2)
		}
		c := ParticleColor(p.Color, p.Sentiment, p.Energy, ratio)
		r, g, b := c.Bytes()
		tr.Push(components.TrailPoint{X: m.X, Y: m.Y, R: r, G: g, B: b}, s.cfg.TrailLength)

		m.PrevX, m.PrevY = m.X, m.Y
		m.X += m.VelX
		m.Y += m.VelY

		v.Life -= v.Decay * steps

		if s.wrap(m) {
			tr.Clear()
			m.PrevX, m.PrevY = m.X, m.Y
		}

		if v.Life <= 0 {
			s.respawn(m, v, tr)
		}
	}
}

// wrap moves a particle that left the canvas to the opposite edge.
func (s *ParticleSystem) wrap(m *components.Motion) bool {
	wrapped := false
	if m.X > s.width {
		m.X = 0
		wrapped = true
	} else if m.X < 0 {
		m.X = s.width
		wrapped = true
	}
	if m.Y > s.height {
		m.Y = 0
		wrapped = true
	} else if m.Y < 0 {
		m.Y = s.height
		wrapped = true
	}
	return wrapped
}

// ForEach calls fn for every particle. fn must not retain the pointers.
func (s *ParticleSystem) ForEach(fn func(m *components.Motion, v *components.Vitals, tr *components.Trail)) {
	if s.world == nil || s.count == 0 {
		return
	}
	query := s.filter.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// Release drops the ECS world. The system is inert afterwards.
func (s *ParticleSystem) Release() {
	s.world = nil
	s.mapper = nil
	s.filter = nil
	s.count = 0
}

// ParticleColor modulates the palette color by sentiment, energy and the
// particle's speed ratio. Every channel is clamped to [0, 255].
func ParticleColor(base emotion.RGB, sentiment, energy, speedRatio float32) emotion.RGB {
	sentiment = clampFloat(finite(sentiment), -1, 1)
	energy = clamp01(finite(energy))
	speedRatio = clamp01(finite(speedRatio))
	return emotion.RGB{
		R: base.R + sentiment*50 + speedRatio*30,
		G: base.G + sentiment*30 - abs32(sentiment)*20,
		B: base.B - sentiment*30 + energy*50,
	}.Clamp()
}
