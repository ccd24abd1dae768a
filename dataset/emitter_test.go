package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaledsulayman/data-ingestion/domain"
)

func testChunks() []domain.Chunk {
	// Deliberately out of order: Build must sort by (path, index).
	return []domain.Chunk{
		{ID: "b0", DocumentPath: "b.md", Index: 0, Text: "b zero", StartBlock: 0, EndBlock: 1},
		{ID: "a1", DocumentPath: "a.md", Index: 1, Text: "a one", StartBlock: 2, EndBlock: 3},
		{ID: "a0", DocumentPath: "a.md", Index: 0, Text: "a zero", StartBlock: 0, EndBlock: 1},
	}
}

func testSeeds() []domain.SeedRecord {
	return []domain.SeedRecord{
		{ID: "s1", Context: "a zero"},
		{ID: "s2", Context: "nowhere"},
	}
}

func TestBuildOrdersEntries(t *testing.T) {
	ds := Build(testChunks(), testSeeds(), nil)

	require.Len(t, ds.Entries, 3)
	assert.Equal(t, "a0", ds.Entries[0].Chunk.ID)
	assert.Equal(t, "a1", ds.Entries[1].Chunk.ID)
	assert.Equal(t, "b0", ds.Entries[2].Chunk.ID)
}

func TestBuildAttachesGroundings(t *testing.T) {
	groundings := []domain.Grounding{
		{SeedID: "s1", ChunkIDs: []string{"a0"}, Confidence: 1.0, Method: domain.GroundingContainment},
		{SeedID: "s2", Ungrounded: true, Confidence: 0.2},
	}

	ds := Build(testChunks(), testSeeds(), groundings)

	require.Len(t, ds.Entries, 3)
	require.Len(t, ds.Entries[0].Groundings, 1)
	assert.Equal(t, "s1", ds.Entries[0].Groundings[0].SeedID)
	assert.Empty(t, ds.Entries[1].Groundings)
	assert.Empty(t, ds.Entries[2].Groundings)

	require.Len(t, ds.Ungrounded, 1)
	assert.Equal(t, "s2", ds.Ungrounded[0].SeedID)
	assert.Equal(t, 1, ds.GroundedSeedCount())
}

func TestBuildPairGroundingAttachesToBothChunks(t *testing.T) {
	groundings := []domain.Grounding{
		{SeedID: "s1", ChunkIDs: []string{"a0", "a1"}, Confidence: 1.0, Method: domain.GroundingContainment},
	}

	ds := Build(testChunks(), testSeeds(), groundings)

	assert.Len(t, ds.Entries[0].Groundings, 1)
	assert.Len(t, ds.Entries[1].Groundings, 1)
	assert.Empty(t, ds.Entries[2].Groundings)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	chunks := testChunks()
	Build(chunks, testSeeds(), nil)
	assert.Equal(t, "b0", chunks[0].ID)
}

func TestWriteJSONL(t *testing.T) {
	groundings := []domain.Grounding{
		{SeedID: "s1", ChunkIDs: []string{"a0"}, Confidence: 0.93},
	}
	ds := Build(testChunks(), testSeeds(), groundings)

	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, ds))

	scanner := bufio.NewScanner(&buf)
	var records []Record
	for scanner.Scan() {
		var rec Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "a zero", first.ChunkText)
	assert.Equal(t, "a.md", first.SourceDocument)
	assert.Equal(t, [2]int{0, 1}, first.BlockRange)
	assert.Equal(t, []string{"s1"}, first.GroundedSeedIDs)
	assert.Equal(t, []float64{0.93}, first.GroundingConfidence)
	assert.Empty(t, records[2].GroundedSeedIDs)
}

func TestWriteJSONLNilDataset(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteJSONL(&buf, nil), domain.ErrInvalidInput)
}

func TestSamples(t *testing.T) {
	ds := Build(testChunks(), testSeeds(), nil)
	file := &domain.SeedFile{
		Path:            "kb/qna.yaml",
		Domain:          "biology",
		DocumentOutline: "Outline here",
		Records: []domain.SeedRecord{
			{
				ID:      "s1",
				Context: "seed context one",
				QnA: []domain.QnAPair{
					{Question: "Q1?", Answer: "A1."},
					{Question: "Q2?", Answer: "A2."},
				},
			},
			{
				ID:      "s2",
				Context: "seed context two",
				QnA: []domain.QnAPair{
					{Question: "Q3?", Answer: "A3."},
				},
			},
		},
	}

	samples := Samples(ds, file)
	require.Len(t, samples, 6) // 3 chunks x 2 seed examples

	first := samples[0]
	assert.Equal(t, "a zero", first["document"])
	assert.Equal(t, "seed context one", first["icl_document"])
	assert.Equal(t, "Outline here", first["document_outline"])
	assert.Equal(t, "biology", first["domain"])
	assert.Equal(t, "knowledge", first["leaf_node_type"])
	assert.Equal(t, "kb/qna.yaml", first["leaf_node_path"])
	assert.Equal(t, "Q1?", first["icl_query_1"])
	assert.Equal(t, "A1.", first["icl_response_1"])
	assert.Equal(t, "Q2?", first["icl_query_2"])
	assert.Equal(t, "A2.", first["icl_response_2"])

	second := samples[1]
	assert.Equal(t, "seed context two", second["icl_document"])
	assert.Equal(t, "Q3?", second["icl_query_1"])
	_, hasSecond := second["icl_query_2"]
	assert.False(t, hasSecond)
}

func TestSamplesNilInputs(t *testing.T) {
	assert.Nil(t, Samples(nil, &domain.SeedFile{}))
	assert.Nil(t, Samples(&domain.Dataset{}, nil))
}
