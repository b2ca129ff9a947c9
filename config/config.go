// Package config provides configuration loading and access for the aura engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen     ScreenConfig                  `yaml:"screen"`
	Noise      NoiseConfig                   `yaml:"noise"`
	Flow       FlowConfig                    `yaml:"flow"`
	Particles  ParticlesConfig               `yaml:"particles"`
	Forces     ForcesConfig                  `yaml:"forces"`
	Transition TransitionConfig              `yaml:"transition"`
	Render     RenderConfig                  `yaml:"render"`
	Timing     TimingConfig                  `yaml:"timing"`
	Palette    map[string]PaletteEntryConfig `yaml:"palette"`
	Telemetry  TelemetryConfig               `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// NoiseConfig selects and tunes the noise generator behind the flow field.
type NoiseConfig struct {
	Generator   string  `yaml:"generator"`   // "gradient" or "opensimplex"
	Octaves     int     `yaml:"octaves"`     // Octaves summed per sample
	Persistence float64 `yaml:"persistence"` // Amplitude multiplier per octave (0.5 = halving)
}

// FlowConfig holds flow field grid parameters.
type FlowConfig struct {
	Scale              float32 `yaml:"scale"`               // Cell size in pixels
	BaseIncrement      float64 `yaml:"base_increment"`      // Noise step per cell at rest
	SentimentIncrement float64 `yaml:"sentiment_increment"` // Extra step per unit |sentiment|
	EnergyIncrement    float64 `yaml:"energy_increment"`    // Extra step per unit energy
	PhaseBase          float64 `yaml:"phase_base"`          // Phase advance per frame at zero energy
	PhaseEnergy        float64 `yaml:"phase_energy"`        // Extra phase advance per unit energy
	Oscillation        float64 `yaml:"oscillation"`         // Amplitude of the sinusoidal angle correction
	BaseMagnitude      float32 `yaml:"base_magnitude"`
	EnergyMagnitude    float32 `yaml:"energy_magnitude"`
	SentimentMagnitude float32 `yaml:"sentiment_magnitude"`
}

// ParticlesConfig holds particle pool parameters.
type ParticlesConfig struct {
	Density     float32 `yaml:"density"` // Canvas pixels per particle
	Min         int     `yaml:"min"`
	Max         int     `yaml:"max"`
	TrailLength int     `yaml:"trail_length"`
	Friction    float32 `yaml:"friction"`
	MinSpeed    float32 `yaml:"min_speed"`
	MaxSpeed    float32 `yaml:"max_speed"`
	MinSize     float32 `yaml:"min_size"`
	MaxSize     float32 `yaml:"max_size"`
	MinDecay    float32 `yaml:"min_decay"` // Life lost per update
	MaxDecay    float32 `yaml:"max_decay"`
}

// ForcesConfig holds per-direction force strengths.
type ForcesConfig struct {
	AmbientFade  float32 `yaml:"ambient_fade"` // Fraction of ambient flow removed at full intensity
	Spiral       float32 `yaml:"spiral"`
	Fall         float32 `yaml:"fall"`
	FallDamping  float32 `yaml:"fall_damping"`
	BurstJitter  float32 `yaml:"burst_jitter"`
	VortexPull   float32 `yaml:"vortex_pull"`
	VortexJitter float32 `yaml:"vortex_jitter"`
	Shockwave    float32 `yaml:"shockwave"`
	RepelRadius  float32 `yaml:"repel_radius"` // Fraction of the shorter canvas side
	Repel        float32 `yaml:"repel"`
}

// TransitionConfig holds color transition parameters.
type TransitionConfig struct {
	Frames    int     `yaml:"frames"`    // Frames for progress to go from 0 to 1
	Smoothing float32 `yaml:"smoothing"` // Per-frame lerp factor toward the target color
}

// RenderConfig holds drawing parameters.
type RenderConfig struct {
	FadeMin       float32 `yaml:"fade_min"` // Fade alpha at zero energy
	FadeMax       float32 `yaml:"fade_max"` // Fade alpha at full energy
	AlphaMin      float32 `yaml:"alpha_min"`
	AlphaMax      float32 `yaml:"alpha_max"`
	GlowEnergy    float32 `yaml:"glow_energy"`
	GlowSpeed     float32 `yaml:"glow_speed"`
	GlowSentiment float32 `yaml:"glow_sentiment"`
	CoreSpeed     float32 `yaml:"core_speed"`
	BurstAlpha    float32 `yaml:"burst_alpha"`
	RippleSpacing float32 `yaml:"ripple_spacing"`
	MaxKeywords   int     `yaml:"max_keywords"`
}

// TimingConfig controls how per-frame increments relate to elapsed ticks.
type TimingConfig struct {
	// NormalizeElapsed scales life decay and flow phase advance by the number
	// of ticks since the previous frame. Off keeps fixed per-call increments.
	NormalizeElapsed bool `yaml:"normalize_elapsed"`
}

// PaletteEntryConfig overrides one emotion's palette entry. Empty fields keep
// the built-in value.
type PaletteEntryConfig struct {
	Primary   string  `yaml:"primary"`
	Secondary string  `yaml:"secondary"`
	Glow      string  `yaml:"glow"`
	Direction string  `yaml:"direction"`
	Speed     float32 `yaml:"speed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds per CSV window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FrameDT        float64 // Seconds per frame at the target FPS
	WindowFrames   int     // Frames per telemetry window
	TransitionStep float32 // Progress gained per frame
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.FrameDT = 1.0 / float64(fps)

	c.Derived.WindowFrames = int(c.Telemetry.StatsWindow * float64(fps))
	if c.Derived.WindowFrames < 1 {
		c.Derived.WindowFrames = 1
	}

	if c.Transition.Frames < 1 {
		c.Transition.Frames = 1
	}
	c.Derived.TransitionStep = 1 / float32(c.Transition.Frames)

	if c.Particles.Min < 0 {
		c.Particles.Min = 0
	}
	if c.Particles.Max < c.Particles.Min {
		c.Particles.Max = c.Particles.Min
	}
	if c.Render.MaxKeywords <= 0 || c.Render.MaxKeywords > 10 {
		c.Render.MaxKeywords = 10
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
