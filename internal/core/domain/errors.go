package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a document format no extractor handles.
	// Raised before any partial work is done.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrCorruptDocument indicates a document that could not be parsed.
	ErrCorruptDocument = errors.New("corrupt document")

	// ErrEmptyDocument indicates extraction yielded no non-whitespace text.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrDocumentNotReady indicates a query against a document that is
	// still pending ingestion or whose ingestion failed.
	ErrDocumentNotReady = errors.New("document not ready")

	// ErrEmbeddingUnavailable indicates the embedding service could not be
	// reached. Retryable during ingestion; degrades the answer at query time.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the embedding or answer service rejected a
	// request due to rate limits. Retryable with backoff.
	ErrRateLimited = errors.New("rate limited")

	// ErrLLMUnavailable indicates the answer-generation service is not
	// configured or unreachable. Queries degrade rather than fail.
	ErrLLMUnavailable = errors.New("answer service unavailable")
)

// Retryable reports whether an ingestion-time failure is worth retrying
// with backoff before escalating to document-level failure.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrEmbeddingUnavailable)
}
