package services

import (
	"time"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// CitationAssembler turns ranked retrieval hits into the citation list
// of a query response. Every hit yields exactly one citation, in the
// order the hits arrive, so callers can verify each cited passage
// against the source document.
type CitationAssembler struct{}

// NewCitationAssembler creates an assembler.
func NewCitationAssembler() *CitationAssembler {
	return &CitationAssembler{}
}

// Assemble builds the final query response from the answer text and the
// ranked hits. An empty or nil hit list yields an empty (non-nil)
// citation slice so the JSON encoding is always "citations": [].
func (a *CitationAssembler) Assemble(question, answer string, hits []driven.VectorHit, elapsed time.Duration) *domain.QueryResponse {
	citations := make([]domain.Citation, 0, len(hits))
	for _, hit := range hits {
		citations = append(citations, domain.NewCitation(hit.Chunk, hit.Score))
	}
	return &domain.QueryResponse{
		Answer:           answer,
		Citations:        citations,
		Question:         question,
		ProcessingTimeMS: float64(elapsed.Microseconds()) / 1000.0,
	}
}
