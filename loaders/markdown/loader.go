// Package markdown loads Markdown files as structured blocks.
// Headings, list items and tables are preserved as distinct block kinds so
// the chunker can keep them whole.
package markdown

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/khaledsulayman/data-ingestion/domain"
	"github.com/khaledsulayman/data-ingestion/internal/identity"
)

// Loader handles Markdown documents.
type Loader struct{}

// New creates a new Markdown loader.
func New() *Loader {
	return &Loader{}
}

// Format returns the canonical format name.
func (l *Loader) Format() string {
	return "markdown"
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Priority returns the selection priority.
func (l *Loader) Priority() int {
	return 50 // Generic format loader, higher than plaintext
}

// Load reads the file and parses it into blocks.
// Markdown carries no pagination, so every block reports page 1.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtraction, path, err)
	}

	doc := &domain.Document{
		ID:       identity.DocumentID(path),
		Path:     path,
		Format:   l.Format(),
		Pages:    1,
		LoadedAt: time.Now(),
	}
	doc.Blocks = ParseBlocks(string(data))

	return doc, nil
}

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	listItemRe = regexp.MustCompile(`^\s*(?:[-*+]|\d+\.)\s+(.*)$`)
	tableRowRe = regexp.MustCompile(`^\s*\|.*\|\s*$`)

	// Markdown table cleanup: collapse separator dashes and padding spaces
	// in front of pipe characters so table text stays compact.
	tableDashesRe = regexp.MustCompile(`-{2,}\|`)
	tableSpacesRe = regexp.MustCompile(`\s{2,}\|`)
)

// ParseBlocks parses Markdown source into an ordered block sequence.
// Each block records the most recent heading as its section.
func ParseBlocks(source string) []domain.Block {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	lines := strings.Split(source, "\n")

	var blocks []domain.Block
	var section string
	var para []string
	var table []string
	inFence := false

	appendBlock := func(kind domain.BlockKind, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		blocks = append(blocks, domain.Block{
			Kind:    kind,
			Text:    text,
			Ordinal: len(blocks),
			Page:    1,
			Section: section,
		})
	}

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		appendBlock(domain.BlockParagraph, stripInline(strings.Join(para, "\n")))
		para = nil
	}

	flushTable := func() {
		if len(table) == 0 {
			return
		}
		appendBlock(domain.BlockTable, cleanTable(strings.Join(table, "\n")))
		table = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Fenced code is kept as paragraph content, fences dropped.
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			para = append(para, line)
			continue
		}

		switch {
		case trimmed == "":
			flushPara()
			flushTable()

		case tableRowRe.MatchString(line):
			flushPara()
			table = append(table, trimmed)

		case headingRe.MatchString(trimmed):
			flushPara()
			flushTable()
			m := headingRe.FindStringSubmatch(trimmed)
			section = strings.TrimSpace(m[2])
			appendBlock(domain.BlockHeading, section)

		case listItemRe.MatchString(line):
			flushPara()
			flushTable()
			m := listItemRe.FindStringSubmatch(line)
			appendBlock(domain.BlockListItem, stripInline(m[1]))

		default:
			flushTable()
			para = append(para, line)
		}
	}
	flushPara()
	flushTable()

	return blocks
}

// cleanTable normalises a markdown table's pipe alignment noise.
func cleanTable(table string) string {
	table = tableDashesRe.ReplaceAllString(table, "-|")
	table = tableSpacesRe.ReplaceAllString(table, " |")
	return table
}

var (
	inlineCodeRe = regexp.MustCompile("`[^`]+`")
	imageRe      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
)

// stripInline removes inline Markdown formatting, keeping the text content.
func stripInline(text string) string {
	text = imageRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "$1")
	text = inlineCodeRe.ReplaceAllStringFunc(text, func(s string) string {
		return strings.Trim(s, "`")
	})
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	return strings.TrimSpace(text)
}
