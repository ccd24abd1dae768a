package dataset

import (
	"fmt"

	"github.com/khaledsulayman/data-ingestion/domain"
)

// Sample is one SDG generation record: a chunk paired with one seed
// example's context and QnA pairs. Question/answer fields are numbered
// (icl_query_1, icl_response_1, ...) the way the downstream generator
// expects them.
type Sample map[string]string

// Samples expands the dataset into the chunk × seed-example cross product
// consumed by the SDG stage. Every chunk is paired with every seed example
// of the knowledge entry; grounding information stays available on the
// dataset itself for callers that want to filter to grounded pairs only.
func Samples(ds *domain.Dataset, file *domain.SeedFile) []Sample {
	if ds == nil || file == nil {
		return nil
	}

	samples := make([]Sample, 0, len(ds.Entries)*len(file.Records))
	for _, entry := range ds.Entries {
		for _, seed := range file.Records {
			sample := Sample{
				"document":         entry.Chunk.Text,
				"icl_document":     seed.Context,
				"document_outline": file.DocumentOutline,
				"domain":           file.Domain,
				"leaf_node_type":   "knowledge",
				"leaf_node_path":   file.Path,
			}
			for i, qna := range seed.QnA {
				sample[fmt.Sprintf("icl_query_%d", i+1)] = qna.Question
				sample[fmt.Sprintf("icl_response_%d", i+1)] = qna.Answer
			}
			samples = append(samples, sample)
		}
	}
	return samples
}
