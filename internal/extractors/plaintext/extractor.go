// Package plaintext extracts text from plain text files.
package plaintext

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents. The whole document is a single
// page; its text is the input verbatim, so global offsets equal byte
// offsets into the original file.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".txt", ".text", ".log", ".csv"}
}

// Extract returns the file content as one page.
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
