package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages stored documents: listing, inspection,
// content reconstruction, and deletion.
type DocumentService struct {
	docStore driven.DocumentStore
	index    driven.VectorIndex
}

// NewDocumentService creates a document management service.
func NewDocumentService(docStore driven.DocumentStore, index driven.VectorIndex) *DocumentService {
	return &DocumentService{docStore: docStore, index: index}
}

// List returns all documents, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

// Get returns one document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// Content reconstructs the document's extracted text from its stored
// chunks. Chunks overlap, so each chunk contributes only the part past
// the previous chunk's end; the result matches the text the chunker saw.
func (s *DocumentService) Content(ctx context.Context, documentID string) (string, error) {
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return "", err
	}

	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("load chunks: %w", err)
	}
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].CharStart < chunks[j].CharStart
	})

	var sb strings.Builder
	end := 0
	for _, chunk := range chunks {
		if chunk.CharEnd <= end {
			continue
		}
		cut := end - chunk.CharStart
		if cut < 0 {
			cut = 0
		}
		sb.WriteString(chunk.Text[cut:])
		end = chunk.CharEnd
	}
	return sb.String(), nil
}

// Delete removes a document, its chunks, and its index entries. After
// it returns, queries against the document fail and no chunk of it can
// appear in any result.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return err
	}

	if err := s.index.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete from index: %w", err)
	}
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	logger.Info("Deleted document %s", documentID)
	return nil
}
