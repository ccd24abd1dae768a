// Package dataset assembles grounded chunks into the ordered output the
// SDG stage consumes, and serialises it for offline use.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/khaledsulayman/data-ingestion/domain"
)

// Build assembles the final dataset from a chunk set and its groundings.
//
// Entries are ordered by (document path, chunk index); groundings attach to
// every chunk they reference, in seed-file order. Below-threshold
// groundings are carried on Dataset.Ungrounded rather than discarded.
func Build(chunks []domain.Chunk, seeds []domain.SeedRecord, groundings []domain.Grounding) *domain.Dataset {
	ordered := make([]domain.Chunk, len(chunks))
	copy(ordered, chunks)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DocumentPath != ordered[j].DocumentPath {
			return ordered[i].DocumentPath < ordered[j].DocumentPath
		}
		return ordered[i].Index < ordered[j].Index
	})

	byChunk := make(map[string][]domain.Grounding)
	var ungrounded []domain.Grounding
	for _, g := range groundings {
		if g.Ungrounded {
			ungrounded = append(ungrounded, g)
			continue
		}
		for _, chunkID := range g.ChunkIDs {
			byChunk[chunkID] = append(byChunk[chunkID], g)
		}
	}

	ds := &domain.Dataset{
		Seeds:      seeds,
		Ungrounded: ungrounded,
	}
	for _, chunk := range ordered {
		ds.Entries = append(ds.Entries, domain.DatasetEntry{
			Chunk:      chunk,
			Groundings: byChunk[chunk.ID],
		})
	}
	return ds
}

// Record is the serialised form of one dataset entry.
type Record struct {
	ChunkText           string    `json:"chunk_text"`
	SourceDocument      string    `json:"source_document"`
	BlockRange          [2]int    `json:"block_range"`
	GroundedSeedIDs     []string  `json:"grounded_seed_ids"`
	GroundingConfidence []float64 `json:"grounding_confidence"`
	Oversized           bool      `json:"oversized,omitempty"`
}

// recordFor converts a dataset entry to its serialised form.
func recordFor(entry domain.DatasetEntry) Record {
	rec := Record{
		ChunkText:      entry.Chunk.Text,
		SourceDocument: entry.Chunk.DocumentPath,
		BlockRange:     [2]int{entry.Chunk.StartBlock, entry.Chunk.EndBlock},
		Oversized:      entry.Chunk.Oversized,
	}
	for _, g := range entry.Groundings {
		rec.GroundedSeedIDs = append(rec.GroundedSeedIDs, g.SeedID)
		rec.GroundingConfidence = append(rec.GroundingConfidence, g.Confidence)
	}
	return rec
}

// WriteJSONL writes the dataset as one JSON record per line.
func WriteJSONL(w io.Writer, ds *domain.Dataset) error {
	if ds == nil {
		return domain.ErrInvalidInput
	}

	enc := json.NewEncoder(w)
	for _, entry := range ds.Entries {
		if err := enc.Encode(recordFor(entry)); err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
	}
	return nil
}

// WriteJSONLFile writes the dataset to a JSONL file at path.
func WriteJSONLFile(path string, ds *domain.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteJSONL(f, ds); err != nil {
		return err
	}
	return f.Close()
}
