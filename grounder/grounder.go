// Package grounder associates seed records with the chunks containing
// their context excerpts.
//
// Scoring is pluggable; the default scorer uses normalised containment as
// the primary signal and token-overlap cosine similarity as the secondary
// one. Grounding is deterministic for fixed input: candidate chunks are
// examined in document order, ties break toward the earliest position, and
// no randomness or map-iteration order leaks into the result.
package grounder

import (
	"context"
	"sort"

	"github.com/khaledsulayman/data-ingestion/domain"
	"github.com/khaledsulayman/data-ingestion/internal/logger"
)

// Grounder matches seed records against a complete chunk sequence.
// Grounding needs the full set for a knowledge source: the best match is a
// global decision, not one a prefix of the chunk stream can make.
type Grounder struct {
	cfg    domain.GroundConfig
	scorer Scorer
}

// Option configures a Grounder.
type Option func(*Grounder)

// WithScorer replaces the default containment-then-overlap scorer.
func WithScorer(s Scorer) Option {
	return func(g *Grounder) {
		if s != nil {
			g.scorer = s
		}
	}
}

// New creates a grounder for the given configuration.
func New(cfg domain.GroundConfig, opts ...Option) (*Grounder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Grounder{
		cfg:    cfg,
		scorer: NewDefaultScorer(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Ground produces one Grounding per seed record, in seed order.
//
// A seed whose best score falls below the threshold yields an explicit
// Ungrounded result instead of being omitted, so the caller decides whether
// to fail the run or proceed with reduced coverage.
func (g *Grounder) Ground(ctx context.Context, seeds []domain.SeedRecord, chunks []domain.Chunk) ([]domain.Grounding, error) {
	ordered := orderChunks(chunks)

	groundings := make([]domain.Grounding, 0, len(seeds))
	for _, seed := range seeds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		groundings = append(groundings, g.groundOne(seed, ordered))
	}
	return groundings, nil
}

// groundOne finds the best chunk(s) for a single seed record.
func (g *Grounder) groundOne(seed domain.SeedRecord, chunks []domain.Chunk) domain.Grounding {
	best := domain.Grounding{
		SeedID:     seed.ID,
		Method:     domain.GroundingNone,
		Ungrounded: true,
	}

	for i := range chunks {
		score := g.scorer.Score(seed.Context, chunks[i].Text)
		// Strictly-greater keeps the earliest chunk on ties.
		if score.Value > best.Confidence {
			best.Confidence = score.Value
			best.Method = score.Method
			best.MatchedSpan = score.Span
			best.ChunkIDs = []string{chunks[i].ID}
		}
	}

	// A context straddling a chunk boundary is contained in no single
	// chunk; retry containment over adjacent pairs before settling for a
	// fuzzy match.
	if best.Method != domain.GroundingContainment {
		if pair, ok := g.groundPair(seed, chunks); ok {
			best = pair
			best.SeedID = seed.ID
		}
	}

	if best.Confidence >= g.cfg.Threshold {
		best.Ungrounded = false
	} else {
		logger.Warn("Seed %s ungrounded: best score %.3f below threshold %.3f",
			seed.ID, best.Confidence, g.cfg.Threshold)
		best.ChunkIDs = nil
		best.MatchedSpan = domain.Span{}
	}

	return best
}

// groundPair checks containment across each adjacent chunk pair of the
// same document. The earliest matching pair wins.
func (g *Grounder) groundPair(seed domain.SeedRecord, chunks []domain.Chunk) (domain.Grounding, bool) {
	for i := 0; i+1 < len(chunks); i++ {
		a, b := chunks[i], chunks[i+1]
		if a.DocumentID != b.DocumentID || b.Index != a.Index+1 {
			continue
		}

		joined := a.Text + "\n\n" + b.Text
		score := g.scorer.Score(seed.Context, joined)
		if score.Method != domain.GroundingContainment {
			continue
		}

		span := score.Span
		if span.End > len(a.Text) {
			span.End = len(a.Text)
		}
		return domain.Grounding{
			SeedID:      seed.ID,
			ChunkIDs:    []string{a.ID, b.ID},
			Confidence:  score.Value,
			MatchedSpan: span,
			Method:      domain.GroundingContainment,
		}, true
	}
	return domain.Grounding{}, false
}

// orderChunks returns a copy sorted by (document path, chunk index),
// the pipeline's canonical document order.
func orderChunks(chunks []domain.Chunk) []domain.Chunk {
	ordered := make([]domain.Chunk, len(chunks))
	copy(ordered, chunks)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DocumentPath != ordered[j].DocumentPath {
			return ordered[i].DocumentPath < ordered[j].DocumentPath
		}
		return ordered[i].Index < ordered[j].Index
	})
	return ordered
}
