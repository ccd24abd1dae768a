package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDocument() *Document {
	return &Document{
		ID:   "doc-1",
		Path: "guide.md",
		Blocks: []Block{
			{Kind: BlockHeading, Text: "Introduction", Ordinal: 0, Page: 1},
			{Kind: BlockParagraph, Text: "First paragraph.", Ordinal: 1, Page: 1, Section: "Introduction"},
			{Kind: BlockParagraph, Text: "Second paragraph.", Ordinal: 2, Page: 1, Section: "Introduction"},
		},
		Pages: 1,
	}
}

func TestDocumentText(t *testing.T) {
	doc := testDocument()
	assert.Equal(t, "Introduction\n\nFirst paragraph.\n\nSecond paragraph.", doc.Text())
}

func TestDocumentTextEmpty(t *testing.T) {
	doc := &Document{}
	assert.Equal(t, "", doc.Text())
}

func TestDocumentBlockRange(t *testing.T) {
	doc := testDocument()

	t.Run("full range", func(t *testing.T) {
		assert.Len(t, doc.BlockRange(0, 2), 3)
	})

	t.Run("middle", func(t *testing.T) {
		blocks := doc.BlockRange(1, 1)
		assert.Len(t, blocks, 1)
		assert.Equal(t, "First paragraph.", blocks[0].Text)
	})

	t.Run("clamped bounds", func(t *testing.T) {
		assert.Len(t, doc.BlockRange(-5, 100), 3)
	})

	t.Run("inverted range", func(t *testing.T) {
		assert.Nil(t, doc.BlockRange(2, 1))
	})
}

func TestBlockKindString(t *testing.T) {
	assert.Equal(t, "paragraph", BlockParagraph.String())
	assert.Equal(t, "heading", BlockHeading.String())
	assert.Equal(t, "table", BlockTable.String())
	assert.Equal(t, "list_item", BlockListItem.String())
	assert.Equal(t, "unknown", BlockKind(99).String())
}

func TestGroundingMethodString(t *testing.T) {
	assert.Equal(t, "none", GroundingNone.String())
	assert.Equal(t, "containment", GroundingContainment.String())
	assert.Equal(t, "token_overlap", GroundingOverlap.String())
}

func TestGroundConfigValidate(t *testing.T) {
	assert.NoError(t, GroundConfig{Threshold: 0.75}.Validate())
	assert.NoError(t, GroundConfig{Threshold: 1}.Validate())
	assert.Error(t, GroundConfig{Threshold: 0}.Validate())
	assert.Error(t, GroundConfig{Threshold: -0.1}.Validate())
	assert.Error(t, GroundConfig{Threshold: 1.1}.Validate())
}

func TestDatasetGroundedSeedCount(t *testing.T) {
	ds := &Dataset{
		Seeds:      []SeedRecord{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}},
		Ungrounded: []Grounding{{SeedID: "s3", Ungrounded: true}},
	}
	assert.Equal(t, 2, ds.GroundedSeedCount())
}
