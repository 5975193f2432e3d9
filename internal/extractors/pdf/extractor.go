// Package pdf extracts per-page text from PDF files.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents. Pages are extracted individually so
// every chunk can be traced back to the page it starts on; pages that
// yield no text still occupy a page number with a zero-length range.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Extract parses the PDF and returns one PageText per page, in order,
// with cumulative global offsets.
func (e *Extractor) Extract(_ context.Context, data []byte) (pages []domain.PageText, err error) {
	// The parser panics on some malformed files; treat that as a corrupt
	// document rather than crashing the ingestion worker.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: PDF parser failure: %v", domain.ErrCorruptDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("%w: PDF has no pages", domain.ErrCorruptDocument)
	}

	pages = make([]domain.PageText, 0, numPages)
	offset := 0

	for num := 1; num <= numPages; num++ {
		page := reader.Page(num)

		text := ""
		if !page.V.IsNull() {
			// Unextractable pages (scanned images, broken fonts) become
			// zero-length entries so later pages keep correct numbers.
			if content, perr := page.GetPlainText(nil); perr == nil {
				text = content
			}
		}

		pages = append(pages, domain.PageText{
			Number:      num,
			Text:        text,
			GlobalStart: offset,
		})
		offset += len(text)
	}

	return pages, nil
}
