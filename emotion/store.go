package emotion

import (
	"log/slog"
	"sync"
)

// DefaultEaseSteps is how many host frames an applied analysis takes to
// reach its sentiment and energy.
const DefaultEaseSteps = 30

// Store owns the live emotional state. Writers (a classifier client, a UI
// panel, a script) call Set or Apply from any goroutine; the frame loop calls
// Step and Snapshot once per frame.
type Store struct {
	mu    sync.Mutex
	state State

	// Pending eased update
	pending   *State
	fromSent  float32
	fromEnrg  float32
	step      int
	easeSteps int
}

// NewStore creates a store holding the neutral state.
func NewStore() *Store {
	return &Store{state: NeutralState(), easeSteps: DefaultEaseSteps}
}

// SetEaseSteps sets how many Step calls an Apply takes. Values below 1 make
// Apply immediate.
func (s *Store) SetEaseSteps(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.easeSteps = n
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	if len(s.state.Keywords) > 0 {
		out.Keywords = append([]string(nil), s.state.Keywords...)
	}
	return out
}

// Set replaces the state immediately and cancels any pending ease.
func (s *Store) Set(st State) {
	st = st.Sanitized()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	s.pending = nil
}

// Apply starts easing toward an analysis result. Keywords are replaced right
// away; sentiment and energy move linearly over the configured number of
// steps, and the dominant emotion and sentiment type switch when the ease
// completes.
func (s *Store) Apply(a Analysis) {
	target := a.State()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Keywords = target.Keywords
	if s.easeSteps < 1 {
		s.state = target
		s.pending = nil
		return
	}
	s.pending = &target
	s.fromSent = s.state.Sentiment
	s.fromEnrg = s.state.Energy
	s.step = 0

	slog.Debug("analysis applied",
		"dominant", target.Dominant.String(),
		"sentiment", target.Sentiment,
		"energy", target.Energy,
		"keywords", len(target.Keywords),
	)
}

// Step advances a pending ease by one frame. It is a no-op when nothing is
// pending.
func (s *Store) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return
	}
	s.step++
	if s.step >= s.easeSteps {
		kw := s.state.Keywords
		s.state = *s.pending
		s.state.Keywords = kw
		s.pending = nil
		return
	}
	t := float32(s.step) / float32(s.easeSteps)
	s.state.Sentiment = s.fromSent + (s.pending.Sentiment-s.fromSent)*t
	s.state.Energy = s.fromEnrg + (s.pending.Energy-s.fromEnrg)*t
}

// Easing reports whether an applied analysis is still being eased in.
func (s *Store) Easing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}
