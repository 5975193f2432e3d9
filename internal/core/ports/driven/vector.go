package driven

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// VectorIndex stores chunk vectors plus metadata and answers similarity
// searches, optionally scoped to one document.
//
// Insert is atomic per document from the caller's perspective: chunks are
// staged while the owning document is pending and become visible to Search
// only once the document is marked ready (staging-then-publish). Delete is
// safe to call concurrently with in-flight searches; an in-flight search
// may observe now-deleted chunks once, but no subsequent search will.
type VectorIndex interface {
	// Insert stages all chunks (with vectors) for a document.
	Insert(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// Search returns up to k nearest chunks by cosine similarity, scores
	// normalised to [0,1], highest first. An empty documentID searches
	// all ready documents; otherwise results come only from that document.
	Search(ctx context.Context, query []float32, k int, documentID string) ([]VectorHit, error)

	// Delete removes all chunks for a document.
	Delete(ctx context.Context, documentID string) error

	// Close releases resources.
	Close() error
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk with full position metadata.
	Chunk domain.Chunk

	// Score is the normalised relevance score in [0,1]; higher is better.
	Score float64
}
