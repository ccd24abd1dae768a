package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentIDDeterministic(t *testing.T) {
	a := DocumentID("docs/guide.md")
	b := DocumentID("docs/guide.md")
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, DocumentID("docs/other.md"))
}

func TestChunkIDDeterministic(t *testing.T) {
	docID := DocumentID("docs/guide.md")
	a := ChunkID(docID, 0, "some chunk text")
	assert.Equal(t, a, ChunkID(docID, 0, "some chunk text"))
	assert.NotEqual(t, a, ChunkID(docID, 1, "some chunk text"))
	assert.NotEqual(t, a, ChunkID(docID, 0, "different text"))
}

func TestSeedIDDeterministic(t *testing.T) {
	a := SeedID("kb/qna.yaml", 2)
	assert.Equal(t, a, SeedID("kb/qna.yaml", 2))
	assert.NotEqual(t, a, SeedID("kb/qna.yaml", 3))
	assert.NotEqual(t, a, SeedID("other/qna.yaml", 2))
}

func TestRunIDDeterministic(t *testing.T) {
	a := RunID("kb", "fingerprint-1")
	assert.Equal(t, a, RunID("kb", "fingerprint-1"))
	assert.NotEqual(t, a, RunID("kb", "fingerprint-2"))
}
