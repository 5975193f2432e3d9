package driven

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// Extractor converts a raw document into ordered pages of text with exact
// position bookkeeping. Each extractor handles specific file extensions.
//
// Extractors must preserve reading order, must not mutate their input, and
// must report each page's exact text length so global offsets can be
// derived without re-scanning prior pages. Formats without an intrinsic
// page concept return a single page.
type Extractor interface {
	// SupportedExtensions returns lowercase extensions including the dot.
	SupportedExtensions() []string

	// Extract parses the document and returns its pages in reading order,
	// with GlobalStart populated cumulatively. Malformed input fails with
	// domain.ErrCorruptDocument.
	Extract(ctx context.Context, data []byte) ([]domain.PageText, error)
}
