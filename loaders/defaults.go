package loaders

import (
	"github.com/khaledsulayman/data-ingestion/loaders/markdown"
	"github.com/khaledsulayman/data-ingestion/loaders/pdf"
	"github.com/khaledsulayman/data-ingestion/loaders/plaintext"
)

// Ensure the built-in loaders implement the interface.
var (
	_ Loader = (*pdf.Loader)(nil)
	_ Loader = (*markdown.Loader)(nil)
	_ Loader = (*plaintext.Loader)(nil)
)

// NewDefaultRegistry returns a registry with the built-in loaders:
// PDF, Markdown and plain text.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(markdown.New())
	r.Register(plaintext.New())
	return r
}
