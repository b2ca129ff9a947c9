// Package components defines ECS components for aura particles.
package components

// Motion holds a particle's kinematic state.
type Motion struct {
	X, Y         float32
	PrevX, PrevY float32 // Position before the last move
	VelX, VelY   float32
	AccX, AccY   float32 // Force accumulated this frame, cleared on integrate
}

// Vitals holds a particle's life and the per-particle constants rolled at spawn.
type Vitals struct {
	Life     float32 // [0, 1], respawn at 0
	Decay    float32 // Life lost per update
	MaxSpeed float32
	Size     float32
	Phase    float32 // Random phase in [0, 2π), desynchronizes periodic forces
	Response float32 // How strongly the particle reacts to emotion forces
}
