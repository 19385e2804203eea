package model

import "time"

// Document is an uploaded book or manuscript whose extracted text is
// the input to summary generation.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Text        string    `json:"text,omitempty"` // extracted, sanitized text
	UploadedAt  time.Time `json:"uploaded_at"`
}

// DocumentResponse is the API shape for a document; extracted text is
// served separately.
type DocumentResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func (d *Document) ToResponse() DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		Title:       d.Title,
		Author:      d.Author,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		UploadedAt:  d.UploadedAt,
	}
}

// Summary status lifecycle. A summary is created pending, then moves
// to complete or failed exactly once.
const (
	SummaryStatusPending  = "pending"
	SummaryStatusComplete = "complete"
	SummaryStatusFailed   = "failed"
)

// Summary is one generated reading guide for a document, together with
// the provider accounting for the calls that produced it.
type Summary struct {
	ID               string    `json:"id"`
	DocumentID       string    `json:"document_id"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	Status           string    `json:"status"`
	Content          string    `json:"content,omitempty"`
	Error            string    `json:"error,omitempty"`
	ReviewNotes      string    `json:"review_notes,omitempty"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	FinishReason     string    `json:"finish_reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// SummaryResponse is the API shape for a summary listing; full content
// is served by the detail endpoint.
type SummaryResponse struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"document_id"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Status       string    `json:"status"`
	TotalTokens  int       `json:"total_tokens"`
	FinishReason string    `json:"finish_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Summary) ToResponse() SummaryResponse {
	return SummaryResponse{
		ID:           s.ID,
		DocumentID:   s.DocumentID,
		Provider:     s.Provider,
		Model:        s.Model,
		Status:       s.Status,
		TotalTokens:  s.TotalTokens,
		FinishReason: s.FinishReason,
		CreatedAt:    s.CreatedAt,
	}
}
