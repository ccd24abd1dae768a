// Package loaders provides document loading for the ingestion pipeline.
// Each loader parses one file format into the block-structured
// domain.Document the chunker consumes.
//
// Format dispatch is a closed-set detection step: the registry selects a
// loader by file extension (with a content sniff for PDF), and every loader
// exposes the identical Load contract. Unrecognised extensions are reported
// as domain.ErrUnsupportedFormat so callers can skip the file with a warning
// instead of failing the run.
package loaders
