package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// answerPromptTemplate instructs the model to answer concisely and
// without inline citation markers; citations are attached separately
// from the retrieval hits.
const answerPromptTemplate = `You are a helpful assistant that provides clear, concise answers from documents.

INSTRUCTIONS:
1. Read the context and find information that directly answers the question
2. Give a SHORT, SIMPLE answer using ONLY the information from the context
3. Answer in 2-3 sentences maximum - be direct and to the point
4. Use simple, clear English that anyone can understand
5. Do NOT include citation markers like [1], [2], [Source 1] - citations are shown separately
6. If the answer is not in the context, say "I cannot find this information in the document"

Context from the document:
%s

Question: %s

Provide a short, direct answer in simple English (2-3 sentences maximum). NO citation markers.`

// Degraded answers returned when the query cannot be fully served. The
// response still carries the question and timing; the citation list is
// empty because no passage backs these answers.
const (
	noRelevantAnswer = "I couldn't find any relevant information in the document to answer this question."

	serviceUnavailableAnswer = "I couldn't process this question right now because a backing service is unavailable. Please try again."
)

const answerMaxTokens = 256

// QueryService answers questions about a single ready document,
// returning an answer with verifiable citations. Each call is
// self-contained: concurrent queries share only the store, index, and
// model clients, all of which are safe for concurrent use.
type QueryService struct {
	docStore  driven.DocumentStore
	retriever *Retriever
	llm       driven.LLMService
	assembler *CitationAssembler
}

// NewQueryService creates the query pipeline.
func NewQueryService(docStore driven.DocumentStore, retriever *Retriever, llm driven.LLMService) *QueryService {
	return &QueryService{
		docStore:  docStore,
		retriever: retriever,
		llm:       llm,
		assembler: NewCitationAssembler(),
	}
}

// Query answers one question. Invalid input and missing or not-ready
// documents are returned as errors; infrastructure failures in
// retrieval or generation degrade to an answer stating the limitation,
// with an empty citation list.
func (s *QueryService) Query(ctx context.Context, req driving.QueryRequest) (*domain.QueryResponse, error) {
	start := time.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question cannot be empty", domain.ErrInvalidInput)
	}
	if req.DocumentID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}

	doc, err := s.docStore.GetDocument(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.StatusReady {
		return nil, fmt.Errorf("%w: document %s is %s", domain.ErrDocumentNotReady, doc.ID, doc.Status)
	}

	logger.Section("Query")
	logger.Debug("Question: %s (document %s)", question, doc.ID)

	hits, err := s.retriever.Retrieve(ctx, question, doc.ID, req.MaxCitations)
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		return s.assembler.Assemble(question, serviceUnavailableAnswer, nil, time.Since(start)), nil
	}

	if len(hits) == 0 {
		logger.Debug("No chunks above relevance threshold")
		return s.assembler.Assemble(question, noRelevantAnswer, nil, time.Since(start)), nil
	}

	answer, err := s.generate(ctx, question, hits)
	if err != nil {
		logger.Warn("Answer generation failed: %v", err)
		return s.assembler.Assemble(question, serviceUnavailableAnswer, nil, time.Since(start)), nil
	}

	resp := s.assembler.Assemble(question, answer, hits, time.Since(start))
	logger.Info("Answered in %.1fms with %d citations", resp.ProcessingTimeMS, len(resp.Citations))
	return resp, nil
}

// generate builds the prompt from the retrieved chunk texts and asks
// the model for an answer.
func (s *QueryService) generate(ctx context.Context, question string, hits []driven.VectorHit) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	parts := make([]string, len(hits))
	for i, hit := range hits {
		parts[i] = hit.Chunk.Text
	}
	prompt := fmt.Sprintf(answerPromptTemplate, strings.Join(parts, "\n---\n"), question)

	answer, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
