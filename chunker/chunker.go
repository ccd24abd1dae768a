// Package chunker splits block-structured documents into token-bounded
// chunks.
//
// Chunk boundaries always align to block boundaries: a block is never cut
// mid-sentence or mid-table. The single exception is declared, not hidden —
// a block that alone exceeds the budget is emitted whole as its own chunk
// with the Oversized flag set, because semantic coherence is a stronger
// invariant than strict budget adherence.
//
// Chunks are produced as a lazy, restartable stream per document, so very
// large documents never require the full chunk set in memory alongside the
// source text.
package chunker

import (
	"context"
	"strings"

	"github.com/khaledsulayman/data-ingestion/domain"
	"github.com/khaledsulayman/data-ingestion/internal/identity"
)

// Chunker splits documents according to a fixed configuration.
// It is stateless and safe for concurrent use across documents.
type Chunker struct {
	cfg     domain.ChunkConfig
	counter domain.TokenCounter
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithTokenCounter replaces the default word-estimate token counter.
func WithTokenCounter(tc domain.TokenCounter) Option {
	return func(c *Chunker) {
		if tc != nil {
			c.counter = tc
		}
	}
}

// New creates a chunker for the given configuration.
func New(cfg domain.ChunkConfig, opts ...Option) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Chunker{
		cfg:     cfg,
		counter: domain.DefaultTokenCounter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// draft is a chunk under construction. Drafts become immutable Chunks only
// at emission time, which lets the tail of a document fuse into its
// predecessor before either is observed downstream.
type draft struct {
	blocks    []domain.Block
	overlap   string
	tokens    int
	oversized bool
}

// coreText returns the draft's text without the overlap prefix.
func (d *draft) coreText() string {
	parts := make([]string, 0, len(d.blocks))
	for _, b := range d.blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n\n")
}

// text returns the full chunk text, overlap prefix included.
func (d *draft) text() string {
	core := d.coreText()
	if d.overlap == "" {
		return core
	}
	return d.overlap + "\n\n" + core
}

// Stream lazily chunks the document. The chunk channel is closed when the
// document is exhausted; the error channel delivers at most one error.
// Calling Stream again restarts chunking from the beginning.
func (c *Chunker) Stream(ctx context.Context, doc *domain.Document) (<-chan domain.Chunk, <-chan error) {
	out := make(chan domain.Chunk)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		if doc == nil {
			errs <- domain.ErrInvalidInput
			return
		}
		if err := c.run(ctx, doc, out); err != nil {
			errs <- err
		}
	}()

	return out, errs
}

// ChunkDocument chunks the document eagerly and returns the full sequence.
func (c *Chunker) ChunkDocument(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	out, errs := c.Stream(ctx, doc)

	var chunks []domain.Chunk
	for chunk := range out {
		chunks = append(chunks, chunk)
	}
	if err := <-errs; err != nil {
		return nil, err
	}
	return chunks, nil
}

// run walks the document's blocks, accumulating drafts and emitting chunks.
//
// Up to two finished drafts are held back before emission: the final draft
// of a document fuses into its predecessor when it falls under
// MinChunkTokens and the merge still fits the budget.
func (c *Chunker) run(ctx context.Context, doc *domain.Document, out chan<- domain.Chunk) error {
	var held []draft
	emitted := 0

	emit := func(d draft) error {
		chunk := c.finalise(d, doc, emitted)
		select {
		case out <- chunk:
			emitted++
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	hold := func(d draft) error {
		held = append(held, d)
		if len(held) > 2 {
			first := held[0]
			held = held[1:]
			return emit(first)
		}
		return nil
	}

	var cur draft
	flush := func() error {
		if len(cur.blocks) == 0 {
			return nil
		}
		closed := cur
		cur = draft{}
		if c.cfg.OverlapTokens > 0 {
			cur.overlap = c.tailWords(closed.coreText())
			cur.tokens = c.counter.Count(cur.overlap)
		}
		return hold(closed)
	}

	for _, block := range doc.Blocks {
		if err := ctx.Err(); err != nil {
			return err
		}

		bt := c.counter.Count(block.Text)

		// An atomic block over budget becomes its own flagged chunk
		// rather than being fragmented mid-sentence.
		if bt > c.cfg.MaxChunkTokens {
			if err := flush(); err != nil {
				return err
			}
			over := draft{
				blocks:    []domain.Block{block},
				overlap:   cur.overlap,
				tokens:    bt,
				oversized: true,
			}
			cur = draft{}
			if c.cfg.OverlapTokens > 0 {
				cur.overlap = c.tailWords(over.coreText())
				cur.tokens = c.counter.Count(cur.overlap)
			}
			if err := hold(over); err != nil {
				return err
			}
			continue
		}

		if len(cur.blocks) > 0 && cur.tokens+bt > c.cfg.MaxChunkTokens {
			if err := flush(); err != nil {
				return err
			}
		}
		cur.blocks = append(cur.blocks, block)
		cur.tokens += bt
	}
	if err := flush(); err != nil {
		return err
	}

	held = c.fuseTail(held)

	for _, d := range held {
		if err := emit(d); err != nil {
			return err
		}
	}
	return nil
}

// fuseTail merges an undersized final draft into its predecessor when the
// result, overlap prefix included, still fits the budget. Oversized drafts
// never participate.
func (c *Chunker) fuseTail(held []draft) []draft {
	if c.cfg.MinChunkTokens <= 0 || len(held) != 2 {
		return held
	}
	prev, tail := held[0], held[1]
	if prev.oversized || tail.oversized {
		return held
	}

	tailTokens := c.counter.Count(tail.coreText())
	if tailTokens >= c.cfg.MinChunkTokens {
		return held
	}

	merged := draft{
		blocks:  append(append([]domain.Block{}, prev.blocks...), tail.blocks...),
		overlap: prev.overlap,
	}
	// The budget binds the emitted text, which carries the overlap prefix.
	merged.tokens = c.counter.Count(merged.text())
	if merged.tokens > c.cfg.MaxChunkTokens {
		return held
	}
	return []draft{merged}
}

// finalise turns a draft into an immutable Chunk.
func (c *Chunker) finalise(d draft, doc *domain.Document, index int) domain.Chunk {
	text := d.text()
	return domain.Chunk{
		ID:           identity.ChunkID(doc.ID, index, text),
		DocumentID:   doc.ID,
		DocumentPath: doc.Path,
		Text:         text,
		TokenCount:   c.counter.Count(text),
		Index:        index,
		StartBlock:   d.blocks[0].Ordinal,
		EndBlock:     d.blocks[len(d.blocks)-1].Ordinal,
		Page:         d.blocks[0].Page,
		Oversized:    d.oversized,
	}
}

// tailWords returns the trailing words of text worth OverlapTokens,
// for replay at the start of the next chunk.
func (c *Chunker) tailWords(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	start := len(words)
	for start > 0 {
		candidate := strings.Join(words[start-1:], " ")
		if c.counter.Count(candidate) > c.cfg.OverlapTokens {
			break
		}
		start--
	}
	if start == len(words) {
		return ""
	}
	return strings.Join(words[start:], " ")
}
