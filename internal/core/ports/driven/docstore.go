package driven

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// DocumentStore persists document metadata and chunk records so they
// survive process restart. Backed by SQLite.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound when it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// GetChunks retrieves a document's chunks ordered by Index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// SetStatus updates a document's processing status. Flipping to
	// StatusReady is the publish step that makes staged chunks searchable.
	SetStatus(ctx context.Context, id string, status domain.DocumentStatus) error

	// DeleteDocument removes a document and cascades to its chunks.
	DeleteDocument(ctx context.Context, id string) error
}
