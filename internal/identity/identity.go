// Package identity derives deterministic identifiers for pipeline values.
//
// IDs are name-based (version 5) UUIDs over a fixed namespace, so re-running
// the pipeline on unchanged inputs reproduces identical identifiers — a
// requirement for byte-for-byte dataset idempotence.
package identity

import (
	"fmt"

	"github.com/google/uuid"
)

// namespace is the fixed UUID namespace for all ingestion identifiers.
var namespace = uuid.MustParse("7b0a9f2e-55c1-4c8d-9d3a-6f4e8b21c0de")

// DocumentID derives the identifier for a document from its source path.
func DocumentID(path string) string {
	return uuid.NewSHA1(namespace, []byte("doc:"+path)).String()
}

// ChunkID derives the identifier for a chunk from its parent document,
// position and content.
func ChunkID(documentID string, index int, text string) string {
	name := fmt.Sprintf("chunk:%s:%d:%s", documentID, index, text)
	return uuid.NewSHA1(namespace, []byte(name)).String()
}

// SeedID derives the identifier for a seed record from its entry and
// position within the seed file.
func SeedID(entryID string, index int) string {
	name := fmt.Sprintf("seed:%s:%d", entryID, index)
	return uuid.NewSHA1(namespace, []byte(name)).String()
}

// RunID derives the identifier for a pipeline run from its input directory
// and configuration fingerprint.
func RunID(dir, fingerprint string) string {
	return uuid.NewSHA1(namespace, []byte("run:"+dir+":"+fingerprint)).String()
}
