package domain

// DatasetEntry pairs one chunk with every grounding that selected it.
type DatasetEntry struct {
	// Chunk is the grounded chunk.
	Chunk Chunk

	// Groundings are the accepted groundings referencing this chunk, in
	// seed-file order. Empty for chunks no seed record resolved to.
	Groundings []Grounding
}

// Dataset is the final ordered collection handed to the SDG stage.
//
// Entries are ordered by (document path, chunk index), so re-running the
// pipeline on unchanged inputs reproduces an identical dataset.
type Dataset struct {
	// Entries is the ordered (chunk, groundings) collection.
	Entries []DatasetEntry

	// Seeds are the seed records the groundings refer to, in file order.
	Seeds []SeedRecord

	// Ungrounded are the seed records no chunk matched above threshold.
	Ungrounded []Grounding
}

// GroundedSeedCount returns how many seed records have at least one
// accepted grounding.
func (d *Dataset) GroundedSeedCount() int {
	return len(d.Seeds) - len(d.Ungrounded)
}
