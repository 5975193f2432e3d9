package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/index/memory"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
)

// seedDocument stores a document with the given status and three
// chunks embedded along the given axis vector.
func seedDocument(t *testing.T, store *memory.Store, id string, status domain.DocumentStatus, axis []float32) {
	t.Helper()
	ctx := context.Background()

	doc := &domain.Document{
		ID:         id,
		Filename:   id + ".txt",
		Status:     status,
		ChunkCount: 3,
		UploadedAt: time.Now().UTC(),
	}
	require.NoError(t, store.DocumentStore().SaveDocument(ctx, doc))

	chunks := make([]domain.Chunk, 3)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:         fmt.Sprintf("%s_chunk_%d", id, i),
			DocumentID: id,
			Text:       fmt.Sprintf("passage %d of %s", i, id),
			PageNumber: 1,
			CharStart:  i * 80,
			CharEnd:    i*80 + 100,
			Index:      i,
			Embedding:  axis,
		}
	}
	require.NoError(t, store.VectorIndex().Insert(ctx, id, chunks))
}

func testQueryService(store *memory.Store, embedder *mockEmbedder, llm *mockLLM) *QueryService {
	retriever := NewRetriever(embedder, store.VectorIndex())
	return NewQueryService(store.DocumentStore(), retriever, llm)
}

func TestQuery_AnswersWithCitations(t *testing.T) {
	store := memory.NewStore()
	seedDocument(t, store, "doc1", domain.StatusReady, []float32{1, 0})
	svc := testQueryService(store,
		&mockEmbedder{vector: []float32{1, 0}},
		&mockLLM{answer: "The sky is blue."})

	resp, err := svc.Query(context.Background(), driving.QueryRequest{
		Question:   "What colour is the sky?",
		DocumentID: "doc1",
	})
	require.NoError(t, err)

	assert.Equal(t, "The sky is blue.", resp.Answer)
	assert.Equal(t, "What colour is the sky?", resp.Question)
	assert.Len(t, resp.Citations, 3)
	assert.GreaterOrEqual(t, resp.ProcessingTimeMS, 0.0)

	for _, c := range resp.Citations {
		assert.NotEmpty(t, c.ChunkID)
		assert.NotEmpty(t, c.Text)
		assert.Equal(t, 1, c.PageNumber)
		assert.Greater(t, c.CharEnd, c.CharStart)
		assert.GreaterOrEqual(t, c.RelevanceScore, DefaultRelevanceThreshold)
	}

	// Identical scores order by document position.
	assert.Equal(t, "doc1_chunk_0", resp.Citations[0].ChunkID)
	assert.Equal(t, "doc1_chunk_1", resp.Citations[1].ChunkID)
}

func TestQuery_EmptyQuestion(t *testing.T) {
	svc := testQueryService(memory.NewStore(), &mockEmbedder{vector: []float32{1}}, &mockLLM{})

	_, err := svc.Query(context.Background(), driving.QueryRequest{
		Question:   "   ",
		DocumentID: "doc1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuery_MissingDocumentID(t *testing.T) {
	svc := testQueryService(memory.NewStore(), &mockEmbedder{vector: []float32{1}}, &mockLLM{})

	_, err := svc.Query(context.Background(), driving.QueryRequest{Question: "anything?"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuery_DocumentNotFound(t *testing.T) {
	svc := testQueryService(memory.NewStore(), &mockEmbedder{vector: []float32{1}}, &mockLLM{})

	_, err := svc.Query(context.Background(), driving.QueryRequest{
		Question:   "anything?",
		DocumentID: "missing",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuery_DocumentNotReady(t *testing.T) {
	store := memory.NewStore()
	seedDocument(t, store, "pending-doc", domain.StatusPending, []float32{1, 0})
	seedDocument(t, store, "failed-doc", domain.StatusFailed, []float32{1, 0})
	svc := testQueryService(store, &mockEmbedder{vector: []float32{1, 0}}, &mockLLM{answer: "x"})

	for _, id := range []string{"pending-doc", "failed-doc"} {
		_, err := svc.Query(context.Background(), driving.QueryRequest{
			Question:   "anything?",
			DocumentID: id,
		})
		assert.ErrorIs(t, err, domain.ErrDocumentNotReady, "document %s", id)
	}
}

func TestQuery_NoRelevantChunks(t *testing.T) {
	store := memory.NewStore()
	seedDocument(t, store, "doc1", domain.StatusReady, []float32{1, 0})
	// Orthogonal question vector: every chunk scores zero.
	svc := testQueryService(store, &mockEmbedder{vector: []float32{0, 1}}, &mockLLM{answer: "unused"})

	resp, err := svc.Query(context.Background(), driving.QueryRequest{
		Question:   "something unrelated?",
		DocumentID: "doc1",
	})
	require.NoError(t, err)

	assert.Equal(t, noRelevantAnswer, resp.Answer)
	assert.NotNil(t, resp.Citations)
	assert.Empty(t, resp.Citations)
}

func TestQuery_LLMFailureDegrades(t *testing.T) {
	store := memory.NewStore()
	seedDocument(t, store, "doc1", domain.StatusReady, []float32{1, 0})
	svc := testQueryService(store,
		&mockEmbedder{vector: []float32{1, 0}},
		&mockLLM{err: domain.ErrLLMUnavailable})

	resp, err := svc.Query(context.Background(), driving.QueryRequest{
		Question:   "anything?",
		DocumentID: "doc1",
	})
	require.NoError(t, err, "generation failures degrade rather than error")

	assert.Equal(t, serviceUnavailableAnswer, resp.Answer)
	assert.Empty(t, resp.Citations)
}

func TestQuery_EmbeddingFailureDegrades(t *testing.T) {
	store := memory.NewStore()
	seedDocument(t, store, "doc1", domain.StatusReady, []float32{1, 0})
	svc := testQueryService(store,
		&mockEmbedder{err: domain.ErrEmbeddingUnavailable},
		&mockLLM{answer: "unused"})

	resp, err := svc.Query(context.Background(), driving.QueryRequest{
		Question:   "anything?",
		DocumentID: "doc1",
	})
	require.NoError(t, err)

	assert.Equal(t, serviceUnavailableAnswer, resp.Answer)
	assert.Empty(t, resp.Citations)
}

func TestQuery_AfterDelete(t *testing.T) {
	store := memory.NewStore()
	seedDocument(t, store, "doc1", domain.StatusReady, []float32{1, 0})
	embedder := &mockEmbedder{vector: []float32{1, 0}}
	svc := testQueryService(store, embedder, &mockLLM{answer: "x"})
	docs := NewDocumentService(store.DocumentStore(), store.VectorIndex())

	require.NoError(t, docs.Delete(context.Background(), "doc1"))

	_, err := svc.Query(context.Background(), driving.QueryRequest{
		Question:   "anything?",
		DocumentID: "doc1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// No chunk of the deleted document survives anywhere.
	hits, err := store.VectorIndex().Search(context.Background(), []float32{1, 0}, 10, "")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestQuery_ConcurrentQueriesAreIndependent(t *testing.T) {
	store := memory.NewStore()
	seedDocument(t, store, "doc-a", domain.StatusReady, []float32{1, 0})
	seedDocument(t, store, "doc-b", domain.StatusReady, []float32{1, 0})
	svc := testQueryService(store, &mockEmbedder{vector: []float32{1, 0}}, &mockLLM{answer: "x"})

	var wg sync.WaitGroup
	for range 8 {
		for _, id := range []string{"doc-a", "doc-b"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := svc.Query(context.Background(), driving.QueryRequest{
					Question:   "anything?",
					DocumentID: id,
				})
				assert.NoError(t, err)
				for _, c := range resp.Citations {
					// Citations must come only from the queried document.
					assert.Contains(t, c.ChunkID, id+"_chunk_")
				}
			}()
		}
	}
	wg.Wait()
}
