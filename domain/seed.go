package domain

// QnAPair is a single human-authored question/answer example.
type QnAPair struct {
	// Question is the example question about the seed context.
	Question string

	// Answer is the expected answer, grounded in the context.
	Answer string
}

// SeedRecord is one seed example from the knowledge specification file.
//
// The Context is verbatim text expected to appear in one of the knowledge
// source documents; the grounder resolves it to the chunk(s) containing it.
// A SeedRecord with an unresolvable context is a terminal validation error
// at parse time, never a silent drop.
type SeedRecord struct {
	// ID is the unique identifier for this record.
	ID string

	// EntryID identifies the knowledge-base entry (seed file) this record
	// came from, typically the seed file path.
	EntryID string

	// Index is the zero-based position within the seed file.
	Index int

	// Context is the verbatim excerpt the QnA pairs are grounded in.
	Context string

	// QnA is the non-empty ordered sequence of question/answer pairs.
	QnA []QnAPair
}

// SeedFile is the parsed content of a knowledge specification file.
type SeedFile struct {
	// Path is the location the file was parsed from.
	Path string

	// Version is the declared schema version.
	Version int

	// Domain is the optional subject domain declared in the file.
	Domain string

	// DocumentOutline is the optional outline of the referenced documents.
	DocumentOutline string

	// Records is the ordered sequence of seed examples.
	Records []SeedRecord
}
