package domain

import "time"

// BlockKind classifies the structural role of a Block within its document.
type BlockKind int

const (
	// BlockParagraph is a run of body text.
	BlockParagraph BlockKind = iota

	// BlockHeading is a section or chapter heading.
	BlockHeading

	// BlockTable is a table rendered as text (rows joined by newlines).
	BlockTable

	// BlockListItem is a single item of a bulleted or numbered list.
	BlockListItem
)

// String returns a human-readable name for the block kind.
func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "paragraph"
	case BlockHeading:
		return "heading"
	case BlockTable:
		return "table"
	case BlockListItem:
		return "list_item"
	default:
		return "unknown"
	}
}

// Block is a structural unit of text within a Document.
//
// Blocks within a document are totally ordered by Ordinal and do not overlap.
// The chunker aligns chunk boundaries to block boundaries, so loaders should
// keep blocks semantically whole (no mid-sentence or mid-table splits).
type Block struct {
	// Kind is the structural role of this block.
	Kind BlockKind

	// Text is the normalised text content.
	Text string

	// Ordinal is the zero-based position within the document.
	Ordinal int

	// Page is the 1-indexed page the block starts on (always 1 for
	// formats without pagination).
	Page int

	// Section is the most recent heading text above this block, empty if
	// the document has no headings.
	Section string
}

// Document is a loaded source document.
// It is immutable once produced by a loader.
type Document struct {
	// ID is the unique identifier for this document.
	ID string

	// Path is the source file path the document was loaded from.
	Path string

	// Format is the detected source format (e.g. "pdf", "markdown").
	Format string

	// Blocks is the ordered sequence of structural text units.
	Blocks []Block

	// Pages is the number of pages, 1 for unpaginated formats.
	Pages int

	// LoadedAt records when the document was loaded.
	LoadedAt time.Time
}

// Text returns the full document text: block texts joined by blank lines,
// in block order.
func (d *Document) Text() string {
	var size int
	for _, b := range d.Blocks {
		size += len(b.Text) + 2
	}

	buf := make([]byte, 0, size)
	for i, b := range d.Blocks {
		if i > 0 {
			buf = append(buf, '\n', '\n')
		}
		buf = append(buf, b.Text...)
	}
	return string(buf)
}

// BlockRange returns the blocks in [start, end] by ordinal.
// Out-of-range bounds are clamped; an empty slice is returned when the
// range is inverted.
func (d *Document) BlockRange(start, end int) []Block {
	if start < 0 {
		start = 0
	}
	if end >= len(d.Blocks) {
		end = len(d.Blocks) - 1
	}
	if start > end {
		return nil
	}
	return d.Blocks[start : end+1]
}
