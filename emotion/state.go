package emotion

import (
	"math"
	"strings"
)

// MaxKeywords is the most keywords a State carries.
const MaxKeywords = 10

// State is one snapshot of the emotional state read by the engine each frame.
type State struct {
	Dominant      Emotion
	Sentiment     float32 // [-1, 1]
	SentimentType SentimentType
	Energy        float32 // [0, 1]
	Keywords      []string
}

// NeutralState is the state used before any analysis arrives.
func NeutralState() State {
	return State{Dominant: Neutral, Energy: 0.5}
}

// Sanitized returns a copy with every field defaulted or clamped into range.
// NaN sentiment or energy become 0, unknown emotions become Neutral, and the
// keyword list is trimmed to MaxKeywords.
func (s State) Sanitized() State {
	out := State{
		Dominant:      s.Dominant,
		Sentiment:     clampRange(s.Sentiment, -1, 1),
		SentimentType: s.SentimentType,
		Energy:        clampRange(s.Energy, 0, 1),
	}
	if !out.Dominant.Valid() {
		out.Dominant = Neutral
	}
	if out.SentimentType > SentimentNegative {
		out.SentimentType = SentimentNeutral
	}
	out.Keywords = normalizeKeywords(s.Keywords, MaxKeywords)
	return out
}

// SentimentMagnitude returns |Sentiment|.
func (s State) SentimentMagnitude() float32 {
	if s.Sentiment < 0 {
		return -s.Sentiment
	}
	return s.Sentiment
}

// Analysis is the classifier output as it arrives on the wire.
type Analysis struct {
	Sentiment       float64       `json:"sentiment"`
	SentimentType   SentimentType `json:"sentiment_type"`
	Energy          *float64      `json:"energy,omitempty"`
	Keywords        []string      `json:"keywords"`
	DominantEmotion Emotion       `json:"dominant_emotion"`
}

// State converts the analysis into a sanitized State. A missing energy is
// derived as |sentiment|.
func (a Analysis) State() State {
	sentiment := float32(a.Sentiment)
	var energy float32
	if a.Energy != nil {
		energy = float32(*a.Energy)
	} else {
		energy = float32(math.Abs(a.Sentiment))
	}
	return State{
		Dominant:      a.DominantEmotion,
		Sentiment:     sentiment,
		SentimentType: a.SentimentType,
		Energy:        energy,
		Keywords:      a.Keywords,
	}.Sanitized()
}

func clampRange(v, lo, hi float32) float32 {
	if v != v { // NaN
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeKeywords trims blanks and duplicates, keeping the most recent
// limit entries in order.
func normalizeKeywords(in []string, limit int) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, kw := range in {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		key := strings.ToLower(kw)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, kw)
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
