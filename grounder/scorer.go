package grounder

import (
	"math"
	"strings"
	"unicode"

	"github.com/khaledsulayman/data-ingestion/domain"
)

// Score is a scorer's verdict for one (context, chunk) pair.
type Score struct {
	// Value is the similarity in [0, 1].
	Value float64

	// Method is the signal that produced the value.
	Method domain.GroundingMethod

	// Span is the matched byte range in the original chunk text, only
	// meaningful for containment matches.
	Span domain.Span
}

// Scorer computes the similarity between a seed context excerpt and a
// chunk's text. Implementations must be deterministic for fixed input.
type Scorer interface {
	Score(context, chunkText string) Score
}

// DefaultScorer scores by normalised containment first (score 1.0), falling
// back to token-frequency cosine overlap when the context does not appear
// verbatim — the typical symptom of OCR or extraction noise.
type DefaultScorer struct{}

// NewDefaultScorer creates the containment-then-overlap scorer.
func NewDefaultScorer() *DefaultScorer {
	return &DefaultScorer{}
}

// Score implements Scorer.
func (s *DefaultScorer) Score(context, chunkText string) Score {
	normCtx, _ := normalize(context)
	normChunk, chunkMap := normalize(chunkText)

	if normCtx == "" || normChunk == "" {
		return Score{Method: domain.GroundingNone}
	}

	if idx := strings.Index(normChunk, normCtx); idx >= 0 {
		return Score{
			Value:  1.0,
			Method: domain.GroundingContainment,
			Span:   mapSpan(chunkMap, idx, idx+len(normCtx), len(chunkText)),
		}
	}

	overlap := cosineOverlap(termFrequencies(normCtx), termFrequencies(normChunk))
	if overlap <= 0 {
		return Score{Method: domain.GroundingNone}
	}
	return Score{
		Value:  overlap,
		Method: domain.GroundingOverlap,
	}
}

// normalize lower-cases text and collapses whitespace runs to single
// spaces. The returned map translates normalized byte offsets back to
// offsets in the original text, so containment spans refer to the chunk as
// emitted, not to its normalized shadow.
func normalize(text string) (string, []int) {
	var sb strings.Builder
	offsets := make([]int, 0, len(text))
	pendingSpace := false
	started := false

	for i, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = started
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			offsets = append(offsets, i)
			pendingSpace = false
		}
		lower := unicode.ToLower(r)
		for range len(string(lower)) {
			offsets = append(offsets, i)
		}
		sb.WriteRune(lower)
		started = true
	}

	return sb.String(), offsets
}

// mapSpan translates a normalized [start, end) range to original offsets.
func mapSpan(offsets []int, start, end, originalLen int) domain.Span {
	if start >= len(offsets) {
		return domain.Span{}
	}
	span := domain.Span{Start: offsets[start]}
	if end-1 < len(offsets) {
		span.End = offsets[end-1] + 1
	} else {
		span.End = originalLen
	}
	return span
}

// termFrequencies tokenises normalized text into a frequency map.
func termFrequencies(norm string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range strings.Fields(norm) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if tok == "" {
			continue
		}
		freq[tok]++
	}
	return freq
}

// cosineOverlap computes cosine similarity between two term-frequency maps.
func cosineOverlap(a, b map[string]int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for tok, ca := range a {
		normA += float64(ca * ca)
		if cb, ok := b[tok]; ok {
			dot += float64(ca * cb)
		}
	}
	for _, cb := range b {
		normB += float64(cb * cb)
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
