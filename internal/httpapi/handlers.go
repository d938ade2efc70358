package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"legalrag/internal/domain"
	"legalrag/internal/service"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// referenceResults is how many search hits accompany a RAG answer.
const referenceResults = 3

// Service is the subset of the RAG service the handlers call.
type Service interface {
	IngestDocument(ctx context.Context, documentID, text string, metadata map[string]any) (service.IngestResult, error)
	AnswerQuestion(ctx context.Context, question, documentID string) (domain.Answer, error)
	Search(ctx context.Context, query string, topK int, documentID string) ([]domain.SearchResult, error)
	ExtractClauses(text string) ([]domain.Clause, error)
	AnalyzeDocument(ctx context.Context, text, documentID, documentType string) (domain.AnalysisReport, error)
	Document(id string) (domain.Document, int, error)
	Stats() domain.StoreStats
}

// Handler implements the HTTP endpoints.
type Handler struct {
	svc Service
	now func() time.Time
}

// NewHandler creates a handler over svc.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// TextRequest is the body of the clause and analysis endpoints.
type TextRequest struct {
	Text         string `json:"text" binding:"required"`
	DocumentID   string `json:"document_id"`
	DocumentType string `json:"document_type"`
}

// AddDocumentRequest is the body of POST /api/rag-add-document.
type AddDocumentRequest struct {
	DocumentID string         `json:"document_id"`
	Text       string         `json:"text" binding:"required"`
	Metadata   map[string]any `json:"metadata"`
}

// QueryRequest is the body of POST /api/rag-query.
type QueryRequest struct {
	Question   string `json:"question" binding:"required"`
	DocumentID string `json:"document_id"`
}

// SearchRequest is the body of POST /api/semantic-search.
type SearchRequest struct {
	Query      string `json:"query" binding:"required"`
	DocumentID string `json:"document_id"`
	TopK       int    `json:"top_k"`
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	stats := h.svc.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "legalrag",
		"version":   Version,
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"documents": stats.Documents,
		"chunks":    stats.Chunks,
	})
}

// ExtractClauses handles POST /api/extract-clauses
func (h *Handler) ExtractClauses(c *gin.Context) {
	var req TextRequest
	if !bind(c, &req) {
		return
	}
	clauses, err := h.svc.ExtractClauses(req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"clauses":       clauses,
			"total_clauses": len(clauses),
		},
	})
}

// AnalyzeDocument handles POST /api/analyze-document
func (h *Handler) AnalyzeDocument(c *gin.Context) {
	var req TextRequest
	if !bind(c, &req) {
		return
	}
	report, err := h.svc.AnalyzeDocument(c.Request.Context(), req.Text, req.DocumentID, req.DocumentType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"document_id": report.DocumentID,
			"analysis":    report,
			"status":      "completed",
		},
	})
}

// AddDocument handles POST /api/rag-add-document
func (h *Handler) AddDocument(c *gin.Context) {
	var req AddDocumentRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.svc.IngestDocument(c.Request.Context(), req.DocumentID, req.Text, req.Metadata)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    res,
	})
}

// Query handles POST /api/rag-query
func (h *Handler) Query(c *gin.Context) {
	var req QueryRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	ans, err := h.svc.AnswerQuestion(ctx, req.Question, req.DocumentID)
	if err != nil {
		writeError(c, err)
		return
	}
	refs, err := h.svc.Search(ctx, req.Question, referenceResults, req.DocumentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"question":                req.Question,
			"answer":                  ans.Answer,
			"confidence":              ans.Confidence,
			"method":                  ans.Method,
			"model":                   ans.Model,
			"sources":                 ans.Sources,
			"context_chunks":          ans.ContextUsed,
			"semantic_search_results": refs,
			"document_id":             req.DocumentID,
		},
	})
}

// SemanticSearch handles POST /api/semantic-search
func (h *Handler) SemanticSearch(c *gin.Context) {
	var req SearchRequest
	if !bind(c, &req) {
		return
	}
	results, err := h.svc.Search(c.Request.Context(), req.Query, req.TopK, req.DocumentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"query":         req.Query,
			"results":       results,
			"total_results": len(results),
			"document_id":   req.DocumentID,
		},
	})
}

// GetDocument handles GET /api/documents/:id
func (h *Handler) GetDocument(c *gin.Context) {
	doc, chunks, err := h.svc.Document(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"document": doc,
			"chunks":   chunks,
		},
	})
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrGeneratorUnavailable):
		status, code = http.StatusServiceUnavailable, "GENERATOR_UNAVAILABLE"
	}
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
		},
	})
}
