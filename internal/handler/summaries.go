package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"bookdigest/internal/llm"
	"bookdigest/internal/model"
	"bookdigest/internal/store"
	"bookdigest/internal/summarizer"

	"github.com/gin-gonic/gin"
)

// SummaryTimeout is the maximum time allowed for one guide generation,
// including condensation passes and provider retries.
const SummaryTimeout = 5 * time.Minute

// CreateSummaryRequest tunes one generation. All fields are optional;
// zero values defer to the provider defaults.
type CreateSummaryRequest struct {
	Model       string   `json:"model"`
	MaxTokens   int      `json:"max_tokens" binding:"omitempty,min=1"`
	Temperature *float64 `json:"temperature" binding:"omitempty,min=0,max=2"`
}

// HandleCreateSummary generates a reading guide for a document. The
// call is synchronous; rate limiting in front of this route keeps the
// provider budget in check.
func (h *Handler) HandleCreateSummary(c *gin.Context) {
	if h.summarizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Summarization service is not available",
			"code":  "SERVICE_UNAVAILABLE",
		})
		return
	}

	var req CreateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
			"code":  "INVALID_REQUEST",
		})
		return
	}

	documentID := c.Param("id")
	if _, err := h.store.GetDocument(c.Request.Context(), documentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found", "code": "DOCUMENT_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document", "code": "INTERNAL_ERROR"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), SummaryTimeout)
	defer cancel()

	startTime := time.Now()
	summary, err := h.summarizer.Generate(ctx, documentID, summarizer.GenerateOptions{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		log.Printf("[SUMMARY] Generation failed after %v: %v", time.Since(startTime), err)

		if errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Summary generation timed out. Please try again.",
				"code":  "TIMEOUT",
			})
			return
		}
		if llm.IsTransient(err) {
			log.Printf("[QUOTA] Provider rate limit exceeded")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "The AI provider is rate limiting us. Please come back in a bit.",
				"code":       "PROVIDER_RATE_LIMITED",
				"retryAfter": 60,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate summary. Please try again.",
			"code":  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusCreated, summary)
}

func (h *Handler) HandleGetSummary(c *gin.Context) {
	summary, err := h.store.GetSummary(c.Request.Context(), c.Param("summaryId"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Summary not found", "code": "SUMMARY_NOT_FOUND"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load summary", "code": "INTERNAL_ERROR"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) HandleListSummaries(c *gin.Context) {
	documentID := c.Param("id")
	if _, err := h.store.GetDocument(c.Request.Context(), documentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found", "code": "DOCUMENT_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document", "code": "INTERNAL_ERROR"})
		return
	}

	summaries, err := h.store.ListSummaries(c.Request.Context(), documentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list summaries", "code": "INTERNAL_ERROR"})
		return
	}
	responses := make([]model.SummaryResponse, len(summaries))
	for i, s := range summaries {
		responses[i] = s.ToResponse()
	}
	c.JSON(http.StatusOK, responses)
}
