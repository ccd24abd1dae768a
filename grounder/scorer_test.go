package grounder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaledsulayman/data-ingestion/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "empty", text: "", want: ""},
		{name: "lower-cased", text: "Hello World", want: "hello world"},
		{name: "collapsed whitespace", text: "a   b\n\nc", want: "a b c"},
		{name: "surrounding whitespace dropped", text: "  padded  ", want: "padded"},
		{name: "tabs and newlines", text: "one\ttwo\nthree", want: "one two three"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm, _ := normalize(tt.text)
			assert.Equal(t, tt.want, norm)
		})
	}
}

func TestScoreContainment(t *testing.T) {
	s := NewDefaultScorer()
	chunk := "The photosynthesis process converts light into chemical energy."

	score := s.Score("photosynthesis process converts", chunk)
	assert.Equal(t, 1.0, score.Value)
	assert.Equal(t, domain.GroundingContainment, score.Method)
	assert.Equal(t, "photosynthesis process converts", chunk[score.Span.Start:score.Span.End])
}

func TestScoreContainmentIgnoresCaseAndWhitespace(t *testing.T) {
	s := NewDefaultScorer()
	chunk := "The QUICK   brown\nfox jumps over the lazy dog."

	score := s.Score("quick brown fox", chunk)
	require.Equal(t, domain.GroundingContainment, score.Method)
	assert.Equal(t, 1.0, score.Value)

	// The span refers to the chunk as written, not its normalised shadow.
	matched, _ := normalize(chunk[score.Span.Start:score.Span.End])
	assert.Equal(t, "quick brown fox", matched)
}

func TestScoreOverlapFallback(t *testing.T) {
	s := NewDefaultScorer()

	score := s.Score(
		"cells use photosynthesis to produce energy",
		"plant cells produce energy through the photosynthesis pathway",
	)
	assert.Equal(t, domain.GroundingOverlap, score.Method)
	assert.Greater(t, score.Value, 0.0)
	assert.Less(t, score.Value, 1.0)
	assert.Equal(t, domain.Span{}, score.Span)
}

func TestScoreIdenticalTextScoresFullOverlap(t *testing.T) {
	s := NewDefaultScorer()
	score := s.Score("alpha beta gamma", "alpha beta gamma")
	assert.Equal(t, domain.GroundingContainment, score.Method)
	assert.Equal(t, 1.0, score.Value)
}

func TestScoreDisjointText(t *testing.T) {
	s := NewDefaultScorer()
	score := s.Score("alpha beta gamma", "delta epsilon zeta")
	assert.Equal(t, domain.GroundingNone, score.Method)
	assert.Equal(t, 0.0, score.Value)
}

func TestScoreEmptyInput(t *testing.T) {
	s := NewDefaultScorer()
	assert.Equal(t, domain.GroundingNone, s.Score("", "chunk text").Method)
	assert.Equal(t, domain.GroundingNone, s.Score("context", "").Method)
}

func TestCosineOverlap(t *testing.T) {
	a := termFrequencies("alpha beta gamma")
	b := termFrequencies("alpha beta gamma")
	assert.InDelta(t, 1.0, cosineOverlap(a, b), 1e-9)

	half := termFrequencies("alpha beta delta epsilon")
	sim := cosineOverlap(a, half)
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)

	assert.Equal(t, 0.0, cosineOverlap(a, termFrequencies("zeta eta")))
	assert.Equal(t, 0.0, cosineOverlap(nil, b))
}

func TestTermFrequenciesStripsPunctuation(t *testing.T) {
	freq := termFrequencies("energy. energy, (energy)")
	assert.Equal(t, 3, freq["energy"])
}
