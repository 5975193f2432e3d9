// Package extractors provides format-specific text extractors and the
// registry that selects one by file extension.
package extractors

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/extractors/docx"
	"github.com/veridoc-labs/veridoc-cli/internal/extractors/html"
	"github.com/veridoc-labs/veridoc-cli/internal/extractors/markdown"
	"github.com/veridoc-labs/veridoc-cli/internal/extractors/pdf"
	"github.com/veridoc-labs/veridoc-cli/internal/extractors/plaintext"
)

// Registry maps file extensions to extractors.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates a registry with the given extractors. Later
// registrations win on extension conflicts.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// DefaultRegistry returns a registry with all built-in extractors.
func DefaultRegistry() *Registry {
	return NewRegistry(
		plaintext.New(),
		markdown.New(),
		html.New(),
		docx.New(),
		pdf.New(),
	)
}

// Register adds an extractor for all its supported extensions.
func (r *Registry) Register(e driven.Extractor) {
	for _, ext := range e.SupportedExtensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// ForFilename selects the extractor for a filename's extension.
// Fails with domain.ErrUnsupportedFormat before any parsing work is done.
func (r *Registry) ForFilename(filename string) (driven.Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	e, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			domain.ErrUnsupportedFormat, ext, strings.Join(r.SupportedExtensions(), ", "))
	}
	return e, nil
}

// SupportedExtensions returns all registered extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
