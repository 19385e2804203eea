package handler

import (
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"time"

	"bookdigest/internal/extract"
	"bookdigest/internal/model"
	"bookdigest/internal/sanitize"
	"bookdigest/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxUploadBytes caps the decoded size of an uploaded document.
const MaxUploadBytes = 20 << 20

// UploadRequest is the JSON upload transport: document bytes travel
// base64-encoded in the request body.
type UploadRequest struct {
	Title       string `json:"title" binding:"required,max=500"`
	Author      string `json:"author" binding:"max=500"`
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type"`
	Content     string `json:"content" binding:"required"`
}

// HandleUploadDocument decodes, extracts, sanitizes and stores an
// uploaded document.
func (h *Handler) HandleUploadDocument(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: title, filename and content are required",
			"code":  "INVALID_REQUEST",
		})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Content is not valid base64",
			"code":  "INVALID_ENCODING",
		})
		return
	}
	if len(data) > MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "Document exceeds the upload size limit",
			"code":  "DOCUMENT_TOO_LARGE",
		})
		return
	}

	text, err := h.extractors.Extract(data, req.ContentType, req.Filename)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{
				"error": "Unsupported document type",
				"code":  "UNSUPPORTED_TYPE",
			})
			return
		}
		log.Printf("[UPLOAD] Extraction failed for %q: %v", req.Filename, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Failed to extract text from document",
			"code":  "EXTRACTION_FAILED",
		})
		return
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Author:      req.Author,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		SizeBytes:   int64(len(data)),
		Text:        sanitize.Text(text),
		UploadedAt:  time.Now().UTC(),
	}
	if err := h.store.CreateDocument(c.Request.Context(), doc); err != nil {
		log.Printf("[UPLOAD] Failed to store document: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to store document",
			"code":  "INTERNAL_ERROR",
		})
		return
	}

	log.Printf("[UPLOAD] Stored document %s (%s, %d bytes, %d chars extracted)",
		doc.ID, doc.Filename, doc.SizeBytes, len(doc.Text))
	c.JSON(http.StatusCreated, doc.ToResponse())
}

func (h *Handler) HandleGetDocuments(c *gin.Context) {
	docs, err := h.store.ListDocuments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents", "code": "INTERNAL_ERROR"})
		return
	}
	responses := make([]model.DocumentResponse, len(docs))
	for i, doc := range docs {
		responses[i] = doc.ToResponse()
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) HandleGetDocument(c *gin.Context) {
	doc, err := h.store.GetDocument(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found", "code": "DOCUMENT_NOT_FOUND"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document", "code": "INTERNAL_ERROR"})
		return
	}
	c.JSON(http.StatusOK, doc.ToResponse())
}

// HandleGetDocumentText serves the extracted text as plain text.
func (h *Handler) HandleGetDocumentText(c *gin.Context) {
	doc, err := h.store.GetDocument(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found", "code": "DOCUMENT_NOT_FOUND"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document", "code": "INTERNAL_ERROR"})
		return
	}
	c.String(http.StatusOK, doc.Text)
}

func (h *Handler) HandleDeleteDocument(c *gin.Context) {
	err := h.store.DeleteDocument(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found", "code": "DOCUMENT_NOT_FOUND"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document", "code": "INTERNAL_ERROR"})
		return
	}
	c.Status(http.StatusNoContent)
}
