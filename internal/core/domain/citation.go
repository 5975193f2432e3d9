package domain

import "unicode/utf8"

// maxCitationTextLen bounds the quoted text carried in a citation.
// The full span is always recoverable via CharStart/CharEnd.
const maxCitationTextLen = 200

// Citation links an answer back to an exact source location. It is a
// read-only projection of a retrieved chunk plus its relevance score,
// recomputed per query and never persisted.
type Citation struct {
	// ChunkID identifies the source chunk.
	ChunkID string `json:"chunk_id"`

	// Text is the chunk text, trimmed for display when long.
	Text string `json:"text"`

	// PageNumber is the page containing the chunk's start.
	PageNumber int `json:"page_number"`

	// CharStart is the document-global start offset of the full chunk.
	CharStart int `json:"char_start"`

	// CharEnd is the document-global end offset, exclusive.
	CharEnd int `json:"char_end"`

	// RelevanceScore is the normalised similarity score in [0,1].
	RelevanceScore float64 `json:"relevance_score"`
}

// NewCitation projects a retrieved chunk and its score into a citation.
// Offsets are copied verbatim; only the displayed text is trimmed.
func NewCitation(chunk Chunk, score float64) Citation {
	text := chunk.Text
	if len(text) > maxCitationTextLen {
		// Trim at a rune boundary so the displayed text stays valid UTF-8.
		cut := maxCitationTextLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return Citation{
		ChunkID:        chunk.ID,
		Text:           text,
		PageNumber:     chunk.PageNumber,
		CharStart:      chunk.CharStart,
		CharEnd:        chunk.CharEnd,
		RelevanceScore: score,
	}
}

// QueryResponse is the transient result of one question. It is returned
// once and not stored.
type QueryResponse struct {
	// Answer is the generated answer text.
	Answer string `json:"answer"`

	// Citations are ordered by descending relevance score, ties broken
	// by ascending CharStart.
	Citations []Citation `json:"citations"`

	// Question is the original question text.
	Question string `json:"question"`

	// ProcessingTimeMS is the end-to-end query latency in milliseconds.
	ProcessingTimeMS float64 `json:"processing_time_ms"`
}
