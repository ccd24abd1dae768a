// Package pdf loads PDF files as structured blocks.
//
// The primary path interprets each page's content stream glyph-by-glyph and
// reassembles the glyphs into paragraph, heading and table blocks using
// vertical spacing, font size and column alignment. When content
// interpretation fails the loader falls back to the plain text stream, which
// loses structure but still yields chunkable paragraphs.
package pdf

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/khaledsulayman/data-ingestion/domain"
	"github.com/khaledsulayman/data-ingestion/internal/identity"
	"github.com/khaledsulayman/data-ingestion/internal/logger"
)

// lineGapFactor is the multiple of the typical line spacing that starts a
// new block.
const lineGapFactor = 1.8

// headingFontFactor is how much larger than the page body font a single
// line must be to count as a heading.
const headingFontFactor = 1.15

// maxHeadingLen caps heading length; longer single lines stay paragraphs.
const maxHeadingLen = 120

// columnGapFactor is the multiple of the glyph font size that separates one
// table cell from the next within a row.
const columnGapFactor = 2.0

// columnAlignTol is the horizontal drift, in points, allowed between the
// column starts of consecutive table rows.
const columnAlignTol = 4.0

// minTableRows is how many consecutive aligned multi-column rows a group
// needs before it is treated as a table.
const minTableRows = 2

// Loader handles PDF documents.
type Loader struct{}

// New creates a new PDF loader.
func New() *Loader {
	return &Loader{}
}

// Format returns the canonical format name.
func (l *Loader) Format() string {
	return "pdf"
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".pdf"}
}

// Priority returns the selection priority.
func (l *Loader) Priority() int {
	return 50
}

// Load parses the PDF at path into a Document.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtraction, path, err)
	}
	defer f.Close()

	doc := &domain.Document{
		ID:       identity.DocumentID(path),
		Path:     path,
		Format:   l.Format(),
		Pages:    r.NumPage(),
		LoadedAt: time.Now(),
	}

	blocks, err := extractStructured(ctx, r)
	if err != nil {
		logger.Warn("Structured extraction failed for %s, falling back to plain text: %v", path, err)
		blocks, err = extractPlain(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtraction, path, err)
		}
	}
	doc.Blocks = blocks

	return doc, nil
}

// row is one extracted text row with layout information. Cells are the
// row's gap-separated text runs with their starting x positions; a row with
// two or more cells is a table row candidate.
type row struct {
	text     string
	position int64
	fontSize float64
	cells    []string
	columns  []float64
}

// extractStructured interprets each page's content stream and groups the
// extracted glyphs into blocks.
func extractStructured(ctx context.Context, r *pdf.Reader) ([]domain.Block, error) {
	var blocks []domain.Block
	var section string

	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		texts, err := pageTexts(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}

		blocks = appendPageBlocks(blocks, buildRows(texts), pageNum, &section)
	}

	return blocks, nil
}

// pageTexts interprets the page content stream, converting parser panics on
// malformed streams into errors.
func pageTexts(page pdf.Page) (texts []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("interpreting content stream: %v", r)
		}
	}()
	return page.Content().Text, nil
}

// buildRows groups a page's glyphs into rows by vertical position, top of
// the page first.
func buildRows(texts []pdf.Text) []row {
	byLine := make(map[int64][]pdf.Text)
	for _, t := range texts {
		byLine[int64(t.Y)] = append(byLine[int64(t.Y)], t)
	}

	positions := make([]int64, 0, len(byLine))
	for pos := range byLine {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] > positions[j] })

	rows := make([]row, 0, len(positions))
	for _, pos := range positions {
		glyphs := byLine[pos]
		sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X < glyphs[j].X })
		if rw, ok := buildRow(glyphs, pos); ok {
			rows = append(rows, rw)
		}
	}
	return rows
}

// buildRow flattens one row of glyphs, starting a new cell wherever the
// horizontal gap to the previous glyph is wide enough to be a column break.
func buildRow(glyphs []pdf.Text, position int64) (row, bool) {
	var (
		sb      strings.Builder
		cells   []string
		columns []float64
		maxFont float64
		start   float64
		prevEnd float64
	)
	flush := func() {
		if cell := strings.TrimSpace(sb.String()); cell != "" {
			cells = append(cells, cell)
			columns = append(columns, start)
		}
		sb.Reset()
	}

	for i, g := range glyphs {
		if g.FontSize > maxFont {
			maxFont = g.FontSize
		}
		if i == 0 {
			start = g.X
		} else if g.FontSize > 0 && g.X-prevEnd > g.FontSize*columnGapFactor {
			flush()
			start = g.X
		}
		sb.WriteString(g.S)
		prevEnd = g.X + g.W
	}
	flush()

	if len(cells) == 0 {
		return row{}, false
	}
	return row{
		text:     strings.Join(cells, " "),
		position: position,
		fontSize: maxFont,
		cells:    cells,
		columns:  columns,
	}, true
}

// appendPageBlocks groups one page's rows into blocks and appends them.
// Rows are first grouped by vertical spacing; within each group, runs of
// aligned multi-column rows become table blocks and the rest become
// paragraph or heading blocks. The section pointer carries the current
// heading across pages.
func appendPageBlocks(blocks []domain.Block, pageRows []row, pageNum int, section *string) []domain.Block {
	if len(pageRows) == 0 {
		return blocks
	}

	bodyFont := medianFontSize(pageRows)
	gapThreshold := typicalLineGap(pageRows) * lineGapFactor

	appendText := func(group []row) {
		lines := make([]string, 0, len(group))
		for _, rw := range group {
			lines = append(lines, rw.text)
		}
		text := strings.Join(lines, " ")

		kind := domain.BlockParagraph
		if isHeading(group, bodyFont) {
			kind = domain.BlockHeading
			*section = text
		}

		blocks = append(blocks, domain.Block{
			Kind:    kind,
			Text:    text,
			Ordinal: len(blocks),
			Page:    pageNum,
			Section: currentSection(kind, *section),
		})
	}

	appendTable := func(group []row) {
		lines := make([]string, 0, len(group))
		for _, rw := range group {
			lines = append(lines, strings.Join(rw.cells, " | "))
		}

		blocks = append(blocks, domain.Block{
			Kind:    domain.BlockTable,
			Text:    strings.Join(lines, "\n"),
			Ordinal: len(blocks),
			Page:    pageNum,
			Section: *section,
		})
	}

	appendGroup := func(group []row) {
		for len(group) > 0 {
			if n := tableRun(group); n >= minTableRows {
				appendTable(group[:n])
				group = group[n:]
				continue
			}
			end := 1
			for end < len(group) && tableRun(group[end:]) < minTableRows {
				end++
			}
			appendText(group[:end])
			group = group[end:]
		}
	}

	group := []row{pageRows[0]}
	for i := 1; i < len(pageRows); i++ {
		gap := absInt64(pageRows[i].position - pageRows[i-1].position)
		if gapThreshold > 0 && float64(gap) > gapThreshold {
			appendGroup(group)
			group = nil
		}
		group = append(group, pageRows[i])
	}
	appendGroup(group)

	return blocks
}

// tableRun returns the length of the leading run of rows that form one
// table: multi-column rows whose column starts line up with the first row.
func tableRun(rows []row) int {
	if len(rows) == 0 || len(rows[0].columns) < 2 {
		return 0
	}
	n := 1
	for n < len(rows) && alignedColumns(rows[0].columns, rows[n].columns) {
		n++
	}
	return n
}

// alignedColumns reports whether two rows share the same column layout.
func alignedColumns(a, b []float64) bool {
	if len(a) != len(b) || len(b) < 2 {
		return false
	}
	for i := range a {
		if diff := a[i] - b[i]; diff > columnAlignTol || diff < -columnAlignTol {
			return false
		}
	}
	return true
}

// currentSection returns the section to record on a block. A heading block
// records the heading above it, not itself.
func currentSection(kind domain.BlockKind, section string) string {
	if kind == domain.BlockHeading {
		return ""
	}
	return section
}

// isHeading reports whether a row group looks like a section heading:
// a single short line in a font visibly larger than the page body.
func isHeading(group []row, bodyFont float64) bool {
	if len(group) != 1 || bodyFont <= 0 {
		return false
	}
	rw := group[0]
	if len(rw.text) > maxHeadingLen || strings.HasSuffix(rw.text, ".") {
		return false
	}
	return rw.fontSize >= bodyFont*headingFontFactor
}

// medianFontSize returns the median row font size on a page.
func medianFontSize(pageRows []row) float64 {
	sizes := make([]float64, 0, len(pageRows))
	for _, rw := range pageRows {
		if rw.fontSize > 0 {
			sizes = append(sizes, rw.fontSize)
		}
	}
	if len(sizes) == 0 {
		return 0
	}
	sort.Float64s(sizes)
	return sizes[len(sizes)/2]
}

// typicalLineGap returns the smallest positive vertical gap between
// consecutive rows, which approximates single line spacing.
func typicalLineGap(pageRows []row) float64 {
	var smallest int64
	for i := 1; i < len(pageRows); i++ {
		gap := absInt64(pageRows[i].position - pageRows[i-1].position)
		if gap > 0 && (smallest == 0 || gap < smallest) {
			smallest = gap
		}
	}
	return float64(smallest)
}

// extractPlain is the degraded fallback: the whole document as a flat text
// stream split on blank lines, with no page attribution beyond page 1.
func extractPlain(r *pdf.Reader) ([]domain.Block, error) {
	reader, err := r.GetPlainText()
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	var blocks []domain.Block
	for _, para := range strings.Split(string(data), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		blocks = append(blocks, domain.Block{
			Kind:    domain.BlockParagraph,
			Text:    para,
			Ordinal: len(blocks),
			Page:    1,
		})
	}
	return blocks, nil
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
