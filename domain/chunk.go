package domain

// Chunk is a token-bounded, block-aligned span of document text.
//
// Chunks are derived values: they carry back-references to the document and
// block range they were cut from and are never mutated after creation.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the Document this chunk was cut from.
	DocumentID string

	// DocumentPath is the source file path, carried for provenance so a
	// chunk is meaningful without the Document in hand.
	DocumentPath string

	// Text is the chunk content: block texts joined by blank lines, with
	// any configured overlap prepended.
	Text string

	// TokenCount is the estimated token length of Text.
	TokenCount int

	// Index is the zero-based position of this chunk within its document.
	Index int

	// StartBlock and EndBlock are the ordinals of the first and last
	// blocks contributing non-overlap content to this chunk.
	StartBlock int
	EndBlock   int

	// Page is the page the chunk starts on.
	Page int

	// Oversized marks a chunk built from a single atomic block that
	// exceeds the configured budget. Such blocks are emitted whole rather
	// than fragmented mid-sentence, and the flag reports the violation.
	Oversized bool
}

// ChunkConfig bounds the chunker. All values are caller-supplied; Validate
// applies the documented fallbacks and rejects inconsistent combinations.
type ChunkConfig struct {
	// MaxChunkTokens is the chunk budget. Required, must be positive.
	MaxChunkTokens int

	// MinChunkTokens is the fusion threshold: a closing chunk smaller than
	// this is merged into its predecessor when possible. Zero disables
	// fusion.
	MinChunkTokens int

	// OverlapTokens is how much trailing content from one chunk is
	// replayed at the start of the next. Zero (the default) disables
	// overlap.
	OverlapTokens int
}

// Validate checks the configuration for consistency.
func (c ChunkConfig) Validate() error {
	if c.MaxChunkTokens <= 0 {
		return &ConfigError{Field: "max_chunk_tokens", Reason: "must be positive"}
	}
	if c.MinChunkTokens < 0 {
		return &ConfigError{Field: "min_chunk_tokens", Reason: "must not be negative"}
	}
	if c.OverlapTokens < 0 {
		return &ConfigError{Field: "overlap_tokens", Reason: "must not be negative"}
	}
	if c.OverlapTokens >= c.MaxChunkTokens {
		return &ConfigError{Field: "overlap_tokens", Reason: "must be smaller than max_chunk_tokens"}
	}
	if c.MinChunkTokens > c.MaxChunkTokens {
		return &ConfigError{Field: "min_chunk_tokens", Reason: "must not exceed max_chunk_tokens"}
	}
	return nil
}
