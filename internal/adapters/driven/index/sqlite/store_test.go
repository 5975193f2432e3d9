package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

// testDocument returns a document record with the given ID and status.
func testDocument(id string, status domain.DocumentStatus) *domain.Document {
	return &domain.Document{
		ID:         id,
		Filename:   id + ".txt",
		FileSize:   1024,
		PageCount:  2,
		TotalChars: 900,
		ChunkCount: 3,
		Status:     status,
		UploadedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// testChunks builds n chunks for a document, each with a distinct
// one-hot embedding so scores are easy to predict.
func testChunks(docID string, n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		embedding := make([]float32, 4)
		embedding[i%4] = 1
		chunks[i] = domain.Chunk{
			ID:         fmt.Sprintf("%s_chunk_%d", docID, i),
			DocumentID: docID,
			Text:       fmt.Sprintf("chunk %d text", i),
			PageNumber: 1 + i/2,
			CharStart:  i * 100,
			CharEnd:    i*100 + 100,
			Index:      i,
			Embedding:  embedding,
		}
	}
	return chunks
}

func TestNewStore_RunsMigrations(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)

	var version int
	row := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations")
	require.NoError(t, row.Scan(&version))
	assert.Equal(t, 1, version)
	require.NoError(t, store.Close())

	// Reopening the same directory must not re-run applied migrations.
	reopened, err := NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, reopened.Close())
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := testDocument("doc1", domain.StatusPending)
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Filename, got.Filename)
	assert.Equal(t, doc.FileSize, got.FileSize)
	assert.Equal(t, doc.PageCount, got.PageCount)
	assert.Equal(t, doc.TotalChars, got.TotalChars)
	assert.Equal(t, doc.ChunkCount, got.ChunkCount)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.WithinDuration(t, doc.UploadedAt, got.UploadedAt, time.Second)
}

func TestDocumentStore_SaveUpdatesExisting(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := testDocument("doc1", domain.StatusPending)
	require.NoError(t, docs.SaveDocument(ctx, doc))

	doc.ChunkCount = 7
	doc.Status = domain.StatusReady
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.ChunkCount)
	assert.Equal(t, domain.StatusReady, got.Status)

	all, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDocumentStore_GetMissing(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.DocumentStore().GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SetStatus(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc1", domain.StatusPending)))
	require.NoError(t, docs.SetStatus(ctx, "doc1", domain.StatusReady))

	got, err := docs.GetDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, got.Status)

	assert.ErrorIs(t, docs.SetStatus(ctx, "missing", domain.StatusReady), domain.ErrNotFound)
}

func TestDocumentStore_GetChunksInDocumentOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.DocumentStore().SaveDocument(ctx, testDocument("doc1", domain.StatusPending)))
	require.NoError(t, store.VectorIndex().Insert(ctx, "doc1", testChunks("doc1", 3)))

	chunks, err := store.DocumentStore().GetChunks(ctx, "doc1")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.Equal(t, fmt.Sprintf("doc1_chunk_%d", i), chunk.ID)
		assert.Equal(t, i*100, chunk.CharStart)
		assert.Len(t, chunk.Embedding, 4)
	}
}

func TestDocumentStore_DeleteCascadesToChunks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.DocumentStore().SaveDocument(ctx, testDocument("doc1", domain.StatusReady)))
	require.NoError(t, store.VectorIndex().Insert(ctx, "doc1", testChunks("doc1", 3)))

	require.NoError(t, store.DocumentStore().DeleteDocument(ctx, "doc1"))

	chunks, err := store.DocumentStore().GetChunks(ctx, "doc1")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	hits, err := store.VectorIndex().Search(ctx, []float32{1, 0, 0, 0}, 10, "")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVectorIndex_InsertReplacesChunks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.DocumentStore().SaveDocument(ctx, testDocument("doc1", domain.StatusReady)))
	require.NoError(t, store.VectorIndex().Insert(ctx, "doc1", testChunks("doc1", 4)))
	require.NoError(t, store.VectorIndex().Insert(ctx, "doc1", testChunks("doc1", 2)))

	chunks, err := store.DocumentStore().GetChunks(ctx, "doc1")
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestVectorIndex_SearchScoresAndRanks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.DocumentStore().SaveDocument(ctx, testDocument("doc1", domain.StatusReady)))
	require.NoError(t, store.VectorIndex().Insert(ctx, "doc1", []domain.Chunk{
		{ID: "doc1_chunk_0", DocumentID: "doc1", Text: "aligned", Index: 0, Embedding: []float32{1, 0, 0, 0}},
		{ID: "doc1_chunk_1", DocumentID: "doc1", Text: "diagonal", Index: 1, Embedding: []float32{1, 1, 0, 0}},
		{ID: "doc1_chunk_2", DocumentID: "doc1", Text: "orthogonal", Index: 2, Embedding: []float32{0, 0, 1, 0}},
	}))

	hits, err := store.VectorIndex().Search(ctx, []float32{2, 0, 0, 0}, 2, "")
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "doc1_chunk_0", hits[0].Chunk.ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
	assert.Equal(t, "doc1_chunk_1", hits[1].Chunk.ID)
	assert.InDelta(t, 0.7071, hits[1].Score, 1e-3)
}

func TestVectorIndex_SearchOnlySeesReadyDocuments(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.DocumentStore().SaveDocument(ctx, testDocument("pending", domain.StatusPending)))
	require.NoError(t, store.VectorIndex().Insert(ctx, "pending", testChunks("pending", 2)))

	hits, err := store.VectorIndex().Search(ctx, []float32{1, 0, 0, 0}, 10, "")
	require.NoError(t, err)
	assert.Empty(t, hits)

	// Publishing the document makes its chunks visible.
	require.NoError(t, store.DocumentStore().SetStatus(ctx, "pending", domain.StatusReady))

	hits, err = store.VectorIndex().Search(ctx, []float32{1, 0, 0, 0}, 10, "")
	require.NoError(t, err)
	assert.NotEmpty(t, hits)
}

func TestVectorIndex_SearchScopedToDocument(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"doc1", "doc2"} {
		require.NoError(t, store.DocumentStore().SaveDocument(ctx, testDocument(id, domain.StatusReady)))
		require.NoError(t, store.VectorIndex().Insert(ctx, id, testChunks(id, 2)))
	}

	hits, err := store.VectorIndex().Search(ctx, []float32{1, 0, 0, 0}, 10, "doc2")
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	for _, hit := range hits {
		assert.Equal(t, "doc2", hit.Chunk.DocumentID)
	}
}

func TestVectorIndex_EmbeddingRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.DocumentStore().SaveDocument(ctx, testDocument("doc1", domain.StatusReady)))
	require.NoError(t, store.VectorIndex().Insert(ctx, "doc1", []domain.Chunk{
		{ID: "doc1_chunk_0", DocumentID: "doc1", Text: "t", Index: 0, Embedding: []float32{3, 4, 0, 0}},
	}))

	chunks, err := store.DocumentStore().GetChunks(ctx, "doc1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	// Stored unit-normalised.
	require.Len(t, chunks[0].Embedding, 4)
	assert.InDelta(t, 0.6, float64(chunks[0].Embedding[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(chunks[0].Embedding[1]), 1e-6)
}
