// Package httpapi exposes the document pipelines over a small JSON
// HTTP API: upload, query, document management, and a health check.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// maxUploadBytes caps the accepted upload size at 50 MB.
const maxUploadBytes = 50 << 20

// Server wires the driving services to HTTP handlers.
type Server struct {
	ingest    driving.IngestService
	query     driving.QueryService
	documents driving.DocumentService

	httpServer *http.Server
}

// NewServer creates an API server over the given services.
func NewServer(ingest driving.IngestService, query driving.QueryService, documents driving.DocumentService) *Server {
	return &Server{
		ingest:    ingest,
		query:     query,
		documents: documents,
	}
}

// Routes returns the API route table. Method-qualified patterns make
// the mux reject wrong-method requests with 405 for free.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/query", s.handleQuery)
	mux.HandleFunc("GET /api/documents", s.handleListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", s.handleGetDocument)
	mux.HandleFunc("GET /api/documents/{id}/content", s.handleDocumentContent)
	mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// ListenAndServe starts serving on addr until the context is cancelled,
// then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// statusFor maps domain errors to HTTP status codes. Bad uploads and
// questions are the client's fault; a document mid-ingestion is a
// conflict the client can retry after.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDocumentNotReady):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrCorruptDocument),
		errors.Is(err, domain.ErrEmptyDocument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
