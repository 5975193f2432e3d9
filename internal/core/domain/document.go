// Package domain contains the core types shared by the ingestion and query
// pipelines. Types here carry no behaviour beyond invariant checks; all
// orchestration lives in the services package.
package domain

import "time"

// DocumentStatus tracks a document through the ingestion pipeline.
type DocumentStatus string

const (
	// StatusPending means the document is uploaded but not yet searchable.
	StatusPending DocumentStatus = "pending"

	// StatusReady means all chunks are indexed and queries may run.
	StatusReady DocumentStatus = "ready"

	// StatusFailed means ingestion failed; no chunks are searchable.
	StatusFailed DocumentStatus = "failed"
)

// Document represents an uploaded document and its ingestion state.
// A document transitions pending -> ready only after every one of its
// chunks has been embedded and published to the index.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the original upload filename.
	Filename string

	// FileSize is the upload size in bytes.
	FileSize int64

	// PageCount is the number of pages extracted from the document.
	// Formats without an intrinsic page concept report 1.
	PageCount int

	// TotalChars is the length of the extracted text stream in bytes.
	TotalChars int

	// ChunkCount is the number of chunks produced at ingestion.
	ChunkCount int

	// Status is the current processing status.
	Status DocumentStatus

	// UploadedAt is when the document was received.
	UploadedAt time.Time
}
