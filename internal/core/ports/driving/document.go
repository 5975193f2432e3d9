package driving

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// DocumentService manages uploaded documents.
type DocumentService interface {
	// List returns all documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Content reconstructs the document's extracted text stream from its
	// chunks, deduplicating overlap via chunk offsets.
	Content(ctx context.Context, id string) (string, error)

	// Delete removes a document, cascading to its indexed chunks.
	Delete(ctx context.Context, id string) error
}
