// Package store persists documents and their generated summaries.
// The SQLite implementation backs the server; the in-memory one backs
// tests.
package store

import (
	"context"
	"errors"

	"bookdigest/internal/model"
)

// ErrNotFound is returned when a document or summary does not exist.
var ErrNotFound = errors.New("not found")

// DocumentStore is the persistence boundary for uploaded documents.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *model.Document) error
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	ListDocuments(ctx context.Context) ([]model.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// SummaryStore is the persistence boundary for generated summaries.
type SummaryStore interface {
	CreateSummary(ctx context.Context, s *model.Summary) error
	UpdateSummary(ctx context.Context, s *model.Summary) error
	GetSummary(ctx context.Context, id string) (*model.Summary, error)
	ListSummaries(ctx context.Context, documentID string) ([]model.Summary, error)
}

// Store combines both boundaries; both implementations satisfy it.
type Store interface {
	DocumentStore
	SummaryStore
}
