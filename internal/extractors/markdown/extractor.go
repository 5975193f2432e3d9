// Package markdown extracts text from Markdown files.
package markdown

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Markdown documents. Markup is kept verbatim rather
// than rendered: citations must map back into the file the user uploaded,
// and stripping formatting would shift every character offset.
type Extractor struct{}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Extract returns the raw markdown as one page.
func (e *Extractor) Extract(_ context.Context, data []byte) ([]domain.PageText, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: not valid UTF-8 text", domain.ErrCorruptDocument)
	}

	return []domain.PageText{{
		Number:      1,
		Text:        string(data),
		GlobalStart: 0,
	}}, nil
}
