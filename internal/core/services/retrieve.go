package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// DefaultRelevanceThreshold is the minimum similarity score a chunk
// needs to be cited. Scores below it are treated as noise rather than
// evidence.
const DefaultRelevanceThreshold = 0.25

// Retriever embeds a question and finds the most relevant chunks of a
// ready document. It holds no per-query state, so concurrent calls are
// independent.
type Retriever struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	threshold float64
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithRelevanceThreshold overrides the minimum score for a hit to
// count as relevant.
func WithRelevanceThreshold(t float64) RetrieverOption {
	return func(r *Retriever) {
		if t >= 0 {
			r.threshold = t
		}
	}
}

// NewRetriever creates a Retriever over the given embedder and index.
func NewRetriever(embedder driven.EmbeddingService, index driven.VectorIndex, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		embedder:  embedder,
		index:     index,
		threshold: DefaultRelevanceThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns up to maxResults chunks of the given document ranked
// by similarity to the question, highest first. Hits scoring below the
// relevance threshold are dropped; ties break toward the chunk that
// appears earlier in the document, so results are deterministic for a
// fixed index state.
func (r *Retriever) Retrieve(ctx context.Context, question, documentID string, maxResults int) ([]driven.VectorHit, error) {
	if maxResults <= 0 {
		maxResults = driving.DefaultMaxCitations
	}
	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := r.index.Search(ctx, vector, maxResults, documentID)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	relevant := hits[:0]
	for _, hit := range hits {
		if hit.Score >= r.threshold {
			relevant = append(relevant, hit)
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		if relevant[i].Score != relevant[j].Score {
			return relevant[i].Score > relevant[j].Score
		}
		return relevant[i].Chunk.CharStart < relevant[j].Chunk.CharStart
	})

	logger.Debug("Retrieved %d relevant chunks (of %d hits) for document %s",
		len(relevant), len(hits), documentID)
	return relevant, nil
}
