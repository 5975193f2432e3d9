package domain

import "sort"

// PageText is one page's extracted text together with its position in the
// document-global character stream. The global offset of any character on
// the page is GlobalStart plus its page-local offset; this is what makes
// citations page-addressable without re-extracting the document.
type PageText struct {
	// Number is the 1-based page number.
	Number int

	// Text is the page's extracted text.
	Text string

	// GlobalStart is the cumulative length of all preceding pages' text.
	GlobalStart int
}

// GlobalEnd returns the exclusive end of the page's global character range.
func (p PageText) GlobalEnd() int {
	return p.GlobalStart + len(p.Text)
}

// PageMap resolves document-global character offsets to page numbers.
// It is built once per document from the extractor's output.
type PageMap struct {
	pages []PageText
}

// NewPageMap builds a page map from ordered extractor output.
// Pages must be in reading order with contiguous global ranges.
func NewPageMap(pages []PageText) *PageMap {
	return &PageMap{pages: pages}
}

// PageFor returns the number of the page containing the given global
// offset. Zero-length pages never contain an offset. Offsets past the end
// of the document resolve to the last non-empty page.
func (m *PageMap) PageFor(offset int) int {
	if len(m.pages) == 0 {
		return 0
	}

	// First page whose range ends after the offset.
	i := sort.Search(len(m.pages), func(i int) bool {
		return m.pages[i].GlobalEnd() > offset
	})
	if i == len(m.pages) {
		// Past the end: fall back to the last page with text.
		for j := len(m.pages) - 1; j >= 0; j-- {
			if len(m.pages[j].Text) > 0 {
				return m.pages[j].Number
			}
		}
		return m.pages[len(m.pages)-1].Number
	}
	return m.pages[i].Number
}

// TotalLen returns the length of the concatenated page text stream.
func (m *PageMap) TotalLen() int {
	if len(m.pages) == 0 {
		return 0
	}
	return m.pages[len(m.pages)-1].GlobalEnd()
}
