// Package domain defines the core entities of the data-ingestion pipeline.
//
// It is the innermost layer of the module and defines the fundamental types:
//
//   - Document: a loaded source document as an ordered sequence of Blocks
//   - Block: a structural unit of text (paragraph, heading, table, list item)
//   - SeedRecord: a human-authored context plus question/answer pairs
//   - Chunk: a token-bounded, block-aligned span of document text
//   - Grounding: the association between a seed record and its chunk(s)
//   - Dataset: the ordered output consumed by the SDG stage
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any other package in this module, any external dependency
//
// All derived values (Chunk, Grounding, Dataset) are immutable once produced.
// Pipeline stages create new generations rather than editing in place, so any
// stage can be re-run from cached intermediate output.
package domain
