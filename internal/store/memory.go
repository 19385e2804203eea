package store

import (
	"context"
	"sort"
	"sync"

	"bookdigest/internal/model"
)

// Memory is a simple in-memory Store used by tests and local
// development without a database file.
type Memory struct {
	mu        sync.RWMutex
	documents map[string]model.Document
	summaries map[string]model.Summary
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		documents: make(map[string]model.Document),
		summaries: make(map[string]model.Summary),
	}
}

func (m *Memory) CreateDocument(_ context.Context, doc *model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = *doc
	return nil
}

func (m *Memory) GetDocument(_ context.Context, id string) (*model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &doc, nil
}

func (m *Memory) ListDocuments(_ context.Context) ([]model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := make([]model.Document, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

func (m *Memory) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return ErrNotFound
	}
	delete(m.documents, id)
	for sid, sum := range m.summaries {
		if sum.DocumentID == id {
			delete(m.summaries, sid)
		}
	}
	return nil
}

func (m *Memory) CreateSummary(_ context.Context, s *model.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[s.ID] = *s
	return nil
}

func (m *Memory) UpdateSummary(_ context.Context, s *model.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.summaries[s.ID]; !ok {
		return ErrNotFound
	}
	m.summaries[s.ID] = *s
	return nil
}

func (m *Memory) GetSummary(_ context.Context, id string) (*model.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum, ok := m.summaries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sum, nil
}

func (m *Memory) ListSummaries(_ context.Context, documentID string) ([]model.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sums []model.Summary
	for _, sum := range m.summaries {
		if sum.DocumentID == documentID {
			sums = append(sums, sum)
		}
	}
	sort.Slice(sums, func(i, j int) bool {
		return sums[i].CreatedAt.After(sums[j].CreatedAt)
	})
	return sums, nil
}
