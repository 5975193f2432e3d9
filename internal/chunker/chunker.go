// Package chunker splits extracted page text into overlapping,
// position-tagged chunks sized for retrieval.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// boundaryTolerance is how far the window end may move backward to land
// on whitespace instead of splitting a word. It is capped at the overlap
// so that snapping can never open a gap between adjacent chunks.
const boundaryTolerance = 50

// Chunker produces overlapping chunks from a document's pages.
//
// Windows are target-size characters wide; each subsequent window starts
// a fixed stride (size - overlap) after the previous one's start, so
// chunk starts are fully determined by the configuration. When an end
// would split a word, it snaps backward to the nearest whitespace within
// tolerance; any cut point landing inside a multibyte rune steps back to
// the rune boundary. The rule is deterministic: identical input and
// configuration yield byte-identical boundaries.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured window size.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits the concatenated page text stream into chunks annotated
// with page numbers and global character ranges. It fails with
// domain.ErrEmptyDocument when the pages yield no non-whitespace text.
//
// Invariants on the output: chunk starts strictly increase, each
// chunk's text is exactly the slice its offsets name and valid UTF-8,
// and the last chunk's end equals the total text length.
func (c *Chunker) Chunk(documentID string, pages []domain.PageText) ([]domain.Chunk, error) {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(p.Text)
	}
	text := sb.String()

	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyDocument
	}

	pageMap := domain.NewPageMap(pages)
	stride := c.chunkSize - c.overlap

	tolerance := boundaryTolerance
	if tolerance > c.overlap {
		tolerance = c.overlap
	}

	chunks := make([]domain.Chunk, 0, len(text)/stride+1)

	// Starts advance by the stride for as long as text remains, even
	// when an earlier window already reached the end: trailing text is
	// always the start of its own chunk, never only a tail. Both cut
	// points align backward to a rune boundary so a window never splits
	// a multibyte character; on ASCII text every offset already is one.
	for start := 0; start < len(text); start += stride {
		chunkStart := alignToRuneStart(text, start)
		end := start + c.chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = snapToWhitespace(text, start, end, tolerance)
		}

		chunks = append(chunks, domain.Chunk{
			ID:         fmt.Sprintf("%s_chunk_%d", documentID, len(chunks)),
			DocumentID: documentID,
			Text:       text[chunkStart:end],
			PageNumber: pageMap.PageFor(chunkStart),
			CharStart:  chunkStart,
			CharEnd:    end,
			Index:      len(chunks),
		})
	}

	return chunks, nil
}

// snapToWhitespace moves the window end backward to just after the
// nearest whitespace within tolerance, so words stay intact in at least
// one chunk. If no whitespace is found the split is hard, not a
// failure, but it still aligns to a rune boundary: unbroken multibyte
// prose must yield valid UTF-8 chunks.
func snapToWhitespace(text string, start, end, tolerance int) int {
	for i := end; i > end-tolerance && i > start+1; i-- {
		if isSpace(text[i-1]) {
			return i
		}
	}
	return alignToRuneStart(text, end)
}

// alignToRuneStart steps pos backward to the nearest UTF-8 rune
// boundary, so slicing at pos never cuts a character in half.
func alignToRuneStart(text string, pos int) int {
	for pos > 0 && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
