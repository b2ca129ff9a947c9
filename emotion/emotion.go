// Package emotion models the emotional state consumed by the aura engine:
// the seven emotion categories, their palette, and the transition state
// machine that smooths color and intensity between them.
package emotion

import "strings"

// Emotion identifies a dominant emotion category.
type Emotion uint8

const (
	Neutral Emotion = iota
	Joy
	Sadness
	Anger
	Fear
	Surprise
	Disgust

	numEmotions
)

var emotionNames = [numEmotions]string{
	Neutral:  "neutral",
	Joy:      "joy",
	Sadness:  "sadness",
	Anger:    "anger",
	Fear:     "fear",
	Surprise: "surprise",
	Disgust:  "disgust",
}

// All returns every emotion in declaration order.
func All() []Emotion {
	out := make([]Emotion, 0, numEmotions)
	for e := Neutral; e < numEmotions; e++ {
		out = append(out, e)
	}
	return out
}

// ParseEmotion maps a category name to an Emotion. Unknown names are Neutral.
func ParseEmotion(s string) Emotion {
	s = strings.ToLower(strings.TrimSpace(s))
	for e, name := range emotionNames {
		if name == s {
			return Emotion(e)
		}
	}
	return Neutral
}

// Valid reports whether e is one of the seven categories.
func (e Emotion) Valid() bool {
	return e < numEmotions
}

func (e Emotion) String() string {
	if !e.Valid() {
		return emotionNames[Neutral]
	}
	return emotionNames[e]
}

// MarshalText implements encoding.TextMarshaler.
func (e Emotion) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It never fails; unknown
// categories decode as Neutral.
func (e *Emotion) UnmarshalText(b []byte) error {
	*e = ParseEmotion(string(b))
	return nil
}

// SentimentType is the display-only polarity label from the classifier.
type SentimentType uint8

const (
	SentimentNeutral SentimentType = iota
	SentimentPositive
	SentimentNegative
)

// ParseSentimentType maps a polarity label. Unknown labels are neutral.
func ParseSentimentType(s string) SentimentType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return SentimentPositive
	case "negative":
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func (t SentimentType) String() string {
	switch t {
	case SentimentPositive:
		return "positive"
	case SentimentNegative:
		return "negative"
	default:
		return "neutral"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t SentimentType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *SentimentType) UnmarshalText(b []byte) error {
	*t = ParseSentimentType(string(b))
	return nil
}
