// Package services implements the core pipelines behind the driving
// ports: ingestion, retrieval, citation assembly, and document
// management.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/veridoc-labs/veridoc-cli/internal/chunker"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/extractors"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Default embedding pipeline tuning.
const (
	// DefaultEmbedBatchSize is how many chunk texts go into one
	// embedding request.
	DefaultEmbedBatchSize = 16

	// DefaultEmbedConcurrency bounds concurrent embedding requests for
	// one document.
	DefaultEmbedConcurrency = 4

	// DefaultEmbedRetries bounds retry attempts per embedding request
	// before the document is marked failed.
	DefaultEmbedRetries = 3

	// defaultRetryBaseDelay is the first backoff delay; it doubles per
	// attempt.
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// IngestService runs the ingestion pipeline: extract, chunk, embed,
// index, publish. Extraction and chunking are sequential per document;
// embedding requests for independent chunk batches run concurrently,
// bounded and rate limited. Two documents may be ingested fully
// concurrently: the only shared state is the store and index, which
// support concurrent inserts for different documents.
type IngestService struct {
	docStore   driven.DocumentStore
	index      driven.VectorIndex
	embedder   driven.EmbeddingService
	extractors *extractors.Registry
	chunker    *chunker.Chunker
	limiter    *rate.Limiter

	batchSize      int
	concurrency    int
	retries        int
	retryBaseDelay time.Duration
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithEmbedBatchSize sets the texts-per-request batch size.
func WithEmbedBatchSize(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithEmbedConcurrency bounds concurrent embedding requests.
func WithEmbedConcurrency(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithEmbedRetries bounds retry attempts per embedding request.
func WithEmbedRetries(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.retries = n
		}
	}
}

// WithRetryBaseDelay sets the initial backoff delay. Used by tests to
// avoid real waits.
func WithRetryBaseDelay(d time.Duration) IngestOption {
	return func(s *IngestService) {
		if d > 0 {
			s.retryBaseDelay = d
		}
	}
}

// NewIngestService creates the ingestion pipeline. The limiter gates all
// embedding requests and may be shared with other pipelines; nil
// disables rate limiting.
func NewIngestService(
	docStore driven.DocumentStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	registry *extractors.Registry,
	chk *chunker.Chunker,
	limiter *rate.Limiter,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		docStore:       docStore,
		index:          index,
		embedder:       embedder,
		extractors:     registry,
		chunker:        chk,
		limiter:        limiter,
		batchSize:      DefaultEmbedBatchSize,
		concurrency:    DefaultEmbedConcurrency,
		retries:        DefaultEmbedRetries,
		retryBaseDelay: defaultRetryBaseDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest processes one uploaded document end to end.
//
// An unsupported format fails before any record is created. All later
// failures mark the document failed and return the record alongside the
// error; a failed document is never partially searchable.
func (s *IngestService) Ingest(ctx context.Context, filename string, data []byte) (*domain.Document, error) {
	logger.Section("Ingestion")
	logger.Debug("File: %s (%d bytes)", filename, len(data))

	extractor, err := s.extractors.ForFilename(filename)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:         uuid.New().String(),
		Filename:   filename,
		FileSize:   int64(len(data)),
		Status:     domain.StatusPending,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	pages, err := extractor.Extract(ctx, data)
	if err != nil {
		return s.fail(ctx, doc, fmt.Errorf("extract: %w", err))
	}
	doc.PageCount = len(pages)
	doc.TotalChars = domain.NewPageMap(pages).TotalLen()
	logger.Debug("Extracted %d pages, %d chars", doc.PageCount, doc.TotalChars)

	chunks, err := s.chunker.Chunk(doc.ID, pages)
	if err != nil {
		return s.fail(ctx, doc, fmt.Errorf("chunk: %w", err))
	}
	logger.Debug("Produced %d chunks", len(chunks))

	if err := s.embedChunks(ctx, chunks); err != nil {
		return s.fail(ctx, doc, fmt.Errorf("embed: %w", err))
	}

	if err := s.index.Insert(ctx, doc.ID, chunks); err != nil {
		return s.fail(ctx, doc, fmt.Errorf("index: %w", err))
	}

	doc.ChunkCount = len(chunks)
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return s.fail(ctx, doc, fmt.Errorf("update document: %w", err))
	}

	// Publish: from here on the document's chunks are searchable.
	if err := s.docStore.SetStatus(ctx, doc.ID, domain.StatusReady); err != nil {
		return s.fail(ctx, doc, fmt.Errorf("publish document: %w", err))
	}
	doc.Status = domain.StatusReady

	logger.Info("Ingested %s: %d pages, %d chunks", filename, doc.PageCount, doc.ChunkCount)
	return doc, nil
}

// fail marks the document failed and returns the original error.
// A partial index would produce misleading citations, so nothing of a
// failed document is published.
func (s *IngestService) fail(ctx context.Context, doc *domain.Document, err error) (*domain.Document, error) {
	logger.Warn("Ingestion of %s failed: %v", doc.Filename, err)
	doc.Status = domain.StatusFailed
	if serr := s.docStore.SetStatus(ctx, doc.ID, domain.StatusFailed); serr != nil {
		logger.Warn("Could not mark document %s failed: %v", doc.ID, serr)
	}
	return doc, err
}

// embedChunks fills in chunk embeddings, batching texts and running a
// bounded number of requests concurrently. Batches cover disjoint chunk
// ranges, so goroutines write without coordination.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i := range batch {
				texts[i] = batch[i].Text
			}

			vectors, err := s.embedWithRetry(ctx, texts)
			if err != nil {
				return err
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("%w: got %d embeddings for %d texts",
					domain.ErrEmbeddingUnavailable, len(vectors), len(batch))
			}

			for i := range batch {
				batch[i].Embedding = vectors[i]
			}
			return nil
		})
	}

	return g.Wait()
}

// embedWithRetry issues one embedding request with bounded exponential
// backoff on retryable failures.
func (s *IngestService) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	delay := s.retryBaseDelay

	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		if !domain.Retryable(err) || attempt == s.retries {
			break
		}

		logger.Debug("Embedding attempt %d/%d failed, retrying in %s: %v",
			attempt, s.retries, delay, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return nil, lastErr
}
