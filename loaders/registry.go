package loaders

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/khaledsulayman/data-ingestion/domain"
)

// Loader parses one file format into a block-structured document.
// Implementations must be safe for concurrent use: the pipeline loads
// documents from multiple goroutines.
type Loader interface {
	// Format returns the canonical name of the format this loader handles
	// (e.g. "pdf", "markdown").
	Format() string

	// Extensions returns the file extensions this loader handles,
	// lower-case with leading dot.
	Extensions() []string

	// Priority returns the selection priority (higher = preferred) when
	// multiple loaders claim the same extension.
	Priority() int

	// Load parses the file at path into a Document.
	Load(ctx context.Context, path string) (*domain.Document, error)
}

// Registry selects a loader for a file from a closed set of formats:
// extension first, then a content sniff for formats with a magic signature.
type Registry struct {
	byExt    map[string]Loader
	byFormat map[string]Loader
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt:    make(map[string]Loader),
		byFormat: make(map[string]Loader),
	}
}

// Register adds a loader. For extensions already claimed, the loader with
// the higher priority wins.
func (r *Registry) Register(l Loader) {
	r.byFormat[l.Format()] = l
	for _, ext := range l.Extensions() {
		ext = strings.ToLower(ext)
		if existing, ok := r.byExt[ext]; ok && existing.Priority() >= l.Priority() {
			continue
		}
		r.byExt[ext] = l
	}
}

// LoaderFor returns the loader for the file at path.
// Returns domain.ErrUnsupportedFormat when no loader claims the extension.
func (r *Registry) LoaderFor(path string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	return l, nil
}

// Detect resolves the loader for the file at path: extension first, then a
// content sniff for formats carrying a magic signature, so a PDF with a
// wrong or missing extension is still recognised.
func (r *Registry) Detect(path string) (Loader, error) {
	if l, err := r.LoaderFor(path); err == nil {
		return l, nil
	}

	format, ok := sniffFormat(path)
	if ok {
		if l, registered := r.byFormat[format]; registered {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, filepath.Ext(path))
}

// Load selects a loader for path and parses the file.
func (r *Registry) Load(ctx context.Context, path string) (*domain.Document, error) {
	l, err := r.Detect(path)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, path)
}

// Supported reports whether any registered loader handles the file at path.
func (r *Registry) Supported(path string) bool {
	_, err := r.Detect(path)
	return err == nil
}

// pdfMagic is the PDF file signature.
var pdfMagic = []byte("%PDF-")

// sniffFormat inspects the leading bytes of the file for a known signature.
// Only PDF carries one; markdown and plain text are indistinguishable by
// content and stay extension-dispatched.
func sniffFormat(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return "", false
	}
	if bytes.Equal(header, pdfMagic) {
		return "pdf", true
	}
	return "", false
}

// Extensions returns all extensions with a registered loader, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
