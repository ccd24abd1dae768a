// Package plaintext loads plain text files as paragraph blocks.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/khaledsulayman/data-ingestion/domain"
	"github.com/khaledsulayman/data-ingestion/internal/identity"
)

// Loader handles plain text documents. Paragraphs are runs of non-blank
// lines separated by one or more blank lines.
type Loader struct{}

// New creates a new plain text loader.
func New() *Loader {
	return &Loader{}
}

// Format returns the canonical format name.
func (l *Loader) Format() string {
	return "text"
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".txt", ".text"}
}

// Priority returns the selection priority.
func (l *Loader) Priority() int {
	return 5 // Fallback loader
}

// Load reads the file and splits it into paragraph blocks.
// Plain text carries no pagination, so every block reports page 1.
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

	for _, para := range SplitParagraphs(string(data)) {
		doc.Blocks = append(doc.Blocks, domain.Block{
			Kind:    domain.BlockParagraph,
			Text:    para,
			Ordinal: len(doc.Blocks),
			Page:    1,
		})
	}

	return doc, nil
}

// SplitParagraphs splits text into paragraphs on blank lines.
// Line endings are normalised and surrounding whitespace trimmed; empty
// paragraphs are dropped.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paras []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		para := strings.TrimSpace(strings.Join(current, "\n"))
		if para != "" {
			paras = append(paras, para)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paras
}
