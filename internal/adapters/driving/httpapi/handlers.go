package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// uploadResponse is the JSON shape returned after a successful upload.
type uploadResponse struct {
	DocumentID string    `json:"document_id"`
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	PageCount  int       `json:"page_count"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
	Status     string    `json:"status"`
}

// documentResponse is the JSON shape of a stored document.
type documentResponse struct {
	DocumentID string    `json:"document_id"`
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	PageCount  int       `json:"page_count"`
	TotalChars int       `json:"total_chars"`
	ChunkCount int       `json:"chunk_count"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// errorResponse is the JSON shape of every error.
type errorResponse struct {
	Error string `json:"error"`
}

func toDocumentResponse(doc *domain.Document) documentResponse {
	return documentResponse{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		FileSize:   doc.FileSize,
		PageCount:  doc.PageCount,
		TotalChars: doc.TotalChars,
		ChunkCount: doc.ChunkCount,
		Status:     string(doc.Status),
		UploadedAt: doc.UploadedAt,
	}
}

// handleUpload accepts a multipart upload under the "file" field and
// runs it through the ingestion pipeline.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing or invalid file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	doc, err := s.ingest.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		FileSize:   doc.FileSize,
		PageCount:  doc.PageCount,
		ChunkCount: doc.ChunkCount,
		UploadedAt: doc.UploadedAt,
		Status:     string(doc.Status),
	})
}

// handleQuery answers a question against one document.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req driving.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := s.query.Query(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleListDocuments returns all stored documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.documents.List(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	out := make([]documentResponse, len(docs))
	for i := range docs {
		out[i] = toDocumentResponse(&docs[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": out})
}

// handleGetDocument returns one document's metadata.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

// handleDocumentContent returns the extracted text of one document.
func (s *Server) handleDocumentContent(w http.ResponseWriter, r *http.Request) {
	content, err := s.documents.Content(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

// handleDeleteDocument removes a document and its index entries.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.documents.Delete(r.Context(), id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "document_id": id})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Encoding response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
