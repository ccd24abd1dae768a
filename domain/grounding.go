package domain

// GroundingMethod records which signal produced a grounding score.
type GroundingMethod int

const (
	// GroundingNone means no chunk cleared the acceptance threshold.
	GroundingNone GroundingMethod = iota

	// GroundingContainment means the normalised context was found verbatim
	// inside a chunk (or an adjacent pair of chunks).
	GroundingContainment

	// GroundingOverlap means the score came from token-overlap similarity,
	// used when exact containment fails due to extraction noise.
	GroundingOverlap
)

// String returns a human-readable name for the grounding method.
func (m GroundingMethod) String() string {
	switch m {
	case GroundingContainment:
		return "containment"
	case GroundingOverlap:
		return "token_overlap"
	default:
		return "none"
	}
}

// Span is a half-open byte range [Start, End) within a chunk's text.
type Span struct {
	Start int
	End   int
}

// Grounding associates one SeedRecord with the chunk(s) most likely to
// contain its context excerpt.
//
// A Grounding below the acceptance threshold is still produced, with
// Ungrounded set, so callers can report reduced coverage instead of
// silently dropping seed records.
type Grounding struct {
	// SeedID is the SeedRecord this grounding belongs to.
	SeedID string

	// ChunkIDs are the matched chunk(s) in document order. A context that
	// straddles a chunk boundary grounds to both adjacent chunks.
	ChunkIDs []string

	// Confidence is the similarity score in [0, 1]. Exact containment
	// scores 1.0.
	Confidence float64

	// MatchedSpan is the byte range of the match within the first matched
	// chunk's text. Zero for non-containment matches.
	MatchedSpan Span

	// Method is the signal that produced the score.
	Method GroundingMethod

	// Ungrounded is true when no chunk cleared the acceptance threshold.
	// Confidence then holds the best score seen, for diagnostics.
	Ungrounded bool
}

// GroundConfig configures the grounder.
type GroundConfig struct {
	// Threshold is the acceptance threshold in (0, 1]. Scores below it
	// yield Ungrounded results.
	Threshold float64
}

// Validate checks the configuration for consistency.
func (c GroundConfig) Validate() error {
	if c.Threshold <= 0 || c.Threshold > 1 {
		return &ConfigError{Field: "grounding_threshold", Reason: "must be in (0, 1]"}
	}
	return nil
}
