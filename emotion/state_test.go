package emotion

import (
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmotion(t *testing.T) {
	tests := []struct {
		in   string
		want Emotion
	}{
		{"joy", Joy},
		{"  Sadness ", Sadness},
		{"ANGER", Anger},
		{"fear", Fear},
		{"surprise", Surprise},
		{"disgust", Disgust},
		{"neutral", Neutral},
		{"contempt", Neutral},
		{"", Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEmotion(tt.in))
		})
	}
}

func TestStateSanitized(t *testing.T) {
	nan := float32(math.NaN())
	s := State{
		Dominant:      Emotion(42),
		Sentiment:     nan,
		SentimentType: SentimentType(9),
		Energy:        3,
		Keywords:      []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"},
	}.Sanitized()

	assert.Equal(t, Neutral, s.Dominant)
	assert.Equal(t, float32(0), s.Sentiment)
	assert.Equal(t, SentimentNeutral, s.SentimentType)
	assert.Equal(t, float32(1), s.Energy)
	require.Len(t, s.Keywords, MaxKeywords)
	assert.Equal(t, "c", s.Keywords[0], "oldest keywords are dropped first")
	assert.Equal(t, "l", s.Keywords[9])
}

func TestStateSanitizedClampsSentiment(t *testing.T) {
	assert.Equal(t, float32(-1), State{Sentiment: -4}.Sanitized().Sentiment)
	assert.Equal(t, float32(1), State{Sentiment: 2}.Sanitized().Sentiment)
	assert.Equal(t, float32(0), State{Energy: -1}.Sanitized().Energy)
}

func TestAnalysisDecode(t *testing.T) {
	raw := `{"sentiment": -0.5, "sentiment_type": "negative", "energy": 0.7,
		"keywords": ["rain", "Rain", " ", "grey"], "dominant_emotion": "sadness"}`

	var a Analysis
	require.NoError(t, json.Unmarshal([]byte(raw), &a))

	s := a.State()
	assert.Equal(t, Sadness, s.Dominant)
	assert.Equal(t, SentimentNegative, s.SentimentType)
	assert.InDelta(t, -0.5, s.Sentiment, 1e-6)
	assert.InDelta(t, 0.7, s.Energy, 1e-6)
	assert.Equal(t, []string{"rain", "grey"}, s.Keywords)
}

func TestAnalysisMissingEnergyDerivedFromSentiment(t *testing.T) {
	var a Analysis
	require.NoError(t, json.Unmarshal([]byte(`{"sentiment": -0.6, "dominant_emotion": "mystery"}`), &a))

	s := a.State()
	assert.InDelta(t, 0.6, s.Energy, 1e-6)
	assert.Equal(t, Neutral, s.Dominant)
}

func TestStoreApplyEasesOverSteps(t *testing.T) {
	st := NewStore()
	st.Set(State{Dominant: Neutral, Sentiment: 0, Energy: 0})

	energy := 0.9
	st.Apply(Analysis{Sentiment: 0.6, Energy: &energy, DominantEmotion: Joy, Keywords: []string{"sun"}})

	// Keywords land immediately, emotion waits for the ease to finish
	snap := st.Snapshot()
	assert.Equal(t, []string{"sun"}, snap.Keywords)
	assert.Equal(t, Neutral, snap.Dominant)

	prev := snap.Sentiment
	for i := 1; i < DefaultEaseSteps; i++ {
		st.Step()
		s := st.Snapshot()
		assert.Greater(t, s.Sentiment, prev)
		assert.Equal(t, Neutral, s.Dominant)
		prev = s.Sentiment
	}
	require.True(t, st.Easing())

	st.Step()
	s := st.Snapshot()
	assert.False(t, st.Easing())
	assert.Equal(t, Joy, s.Dominant)
	assert.InDelta(t, 0.6, s.Sentiment, 1e-6)
	assert.InDelta(t, 0.9, s.Energy, 1e-6)
}

func TestStoreImmediateApply(t *testing.T) {
	st := NewStore()
	st.SetEaseSteps(0)
	st.Apply(Analysis{Sentiment: -0.8, DominantEmotion: Anger})

	s := st.Snapshot()
	assert.Equal(t, Anger, s.Dominant)
	assert.InDelta(t, 0.8, s.Energy, 1e-6)
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	st := NewStore()
	st.Set(State{Keywords: []string{"one", "two"}})

	snap := st.Snapshot()
	snap.Keywords[0] = "mutated"

	assert.Equal(t, "one", st.Snapshot().Keywords[0])
}

func TestStoreConcurrentWriters(t *testing.T) {
	st := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				st.Apply(Analysis{Sentiment: float64(i%3) - 1, DominantEmotion: Emotion(i % int(numEmotions))})
			}
		}(i)
	}
	for j := 0; j < 200; j++ {
		st.Step()
		s := st.Snapshot()
		assert.True(t, s.Sentiment >= -1 && s.Sentiment <= 1)
	}
	wg.Wait()
}

func TestLoadScript(t *testing.T) {
	src := strings.Join([]string{
		`# scenario`,
		`{"at": 120, "sentiment": -0.7, "dominant_emotion": "sadness"}`,
		``,
		`{"at": 0, "sentiment": 0.8, "energy": 0.9, "dominant_emotion": "joy", "keywords": ["love", "great"]}`,
	}, "\n")

	sc, err := LoadScript(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 2, sc.Len())

	first := sc.Due(0)
	require.Len(t, first, 1)
	assert.Equal(t, Joy, first[0].DominantEmotion)

	assert.Empty(t, sc.Due(119))
	later := sc.Due(500)
	require.Len(t, later, 1)
	assert.Equal(t, Sadness, later[0].DominantEmotion)
	assert.True(t, sc.Done())
}

func TestLoadScriptBadLine(t *testing.T) {
	_, err := LoadScript(strings.NewReader("{\"at\": 1}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
