package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/index/memory"
	"github.com/veridoc-labs/veridoc-cli/internal/chunker"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

func TestDocumentService_ContentReconstruction(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	text := strings.Repeat("every word counts in this reconstruction test ", 20)
	pages := []domain.PageText{{Number: 1, Text: text, GlobalStart: 0}}
	chunks, err := chunker.New(chunker.WithChunkSize(120), chunker.WithOverlap(30)).Chunk("doc1", pages)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	doc := &domain.Document{ID: "doc1", Filename: "d.txt", Status: domain.StatusReady}
	require.NoError(t, store.DocumentStore().SaveDocument(ctx, doc))
	require.NoError(t, store.VectorIndex().Insert(ctx, "doc1", chunks))

	svc := NewDocumentService(store.DocumentStore(), store.VectorIndex())
	got, err := svc.Content(ctx, "doc1")
	require.NoError(t, err)

	// Overlap between chunks must be deduplicated exactly.
	assert.Equal(t, text, got)
}

func TestDocumentService_ContentMissingDocument(t *testing.T) {
	svc := NewDocumentService(memory.NewStore().DocumentStore(), &mockVectorIndex{})

	_, err := svc.Content(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_ListNewestFirst(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	base := time.Now().UTC()

	for i, id := range []string{"old", "mid", "new"} {
		doc := &domain.Document{
			ID:         id,
			Filename:   id + ".txt",
			Status:     domain.StatusReady,
			UploadedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.DocumentStore().SaveDocument(ctx, doc))
	}

	svc := NewDocumentService(store.DocumentStore(), store.VectorIndex())
	docs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "new", docs[0].ID)
	assert.Equal(t, "mid", docs[1].ID)
	assert.Equal(t, "old", docs[2].ID)
}

func TestDocumentService_DeleteCascades(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedDocument(t, store, "doc1", domain.StatusReady, []float32{1})

	svc := NewDocumentService(store.DocumentStore(), store.VectorIndex())
	require.NoError(t, svc.Delete(ctx, "doc1"))

	_, err := svc.Get(ctx, "doc1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := store.DocumentStore().GetChunks(ctx, "doc1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentService_DeleteMissingDocument(t *testing.T) {
	svc := NewDocumentService(memory.NewStore().DocumentStore(), &mockVectorIndex{})

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
