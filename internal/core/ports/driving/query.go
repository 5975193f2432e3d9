package driving

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// DefaultMaxCitations favours precision and latency over exhaustive
// recall; a product tradeoff, not an algorithmic limit.
const DefaultMaxCitations = 3

// QueryRequest is one question against the indexed corpus.
type QueryRequest struct {
	// Question is the natural-language question. Must be non-empty.
	Question string `json:"question"`

	// DocumentID scopes retrieval to one document when set.
	DocumentID string `json:"document_id,omitempty"`

	// MaxCitations bounds the number of citations returned.
	// Zero means DefaultMaxCitations.
	MaxCitations int `json:"max_citations,omitempty"`
}

// QueryService answers questions with citations back to exact source
// locations.
type QueryService interface {
	// Query retrieves supporting chunks, generates an answer, and
	// assembles the response. A question with no relevant passage is a
	// valid outcome: the response carries an uncertain answer and an
	// empty citation list. Querying a pending or failed document fails
	// with domain.ErrDocumentNotReady.
	Query(ctx context.Context, req QueryRequest) (*domain.QueryResponse, error)
}
