package driving

import (
	"context"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

// IngestService runs the ingestion pipeline for one uploaded document:
// extract, chunk, embed, index, publish.
type IngestService interface {
	// Ingest processes raw document bytes under their original filename
	// and returns the document record, status ready on success. Fatal
	// ingestion errors (unsupported format, corrupt or empty document,
	// exhausted embedding retries) mark the document failed and are
	// returned alongside the record when one was created.
	Ingest(ctx context.Context, filename string, data []byte) (*domain.Document, error)
}
