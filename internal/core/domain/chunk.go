package domain

// Chunk is the unit of retrieval: a contiguous, position-tagged span of
// document text sized for embedding. Chunks are created once by the
// chunker, embedded once, and immutable thereafter; they are destroyed
// only when their owning document is deleted.
type Chunk struct {
	// ID is unique within the owning document.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Text is the chunk's verbatim text content.
	Text string

	// PageNumber is the page containing the chunk's global start offset.
	PageNumber int

	// CharStart is the document-global character start offset.
	CharStart int

	// CharEnd is the document-global end offset, exclusive.
	// CharEnd - CharStart == len(Text) always holds.
	CharEnd int

	// Index is the ordinal position within the document.
	Index int

	// Embedding is the vector representation, set once after embedding.
	Embedding []float32
}

// Span returns the chunk's global character range length.
func (c Chunk) Span() int {
	return c.CharEnd - c.CharStart
}
