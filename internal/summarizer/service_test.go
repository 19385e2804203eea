package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookdigest/internal/llm"
	"bookdigest/internal/model"
	"bookdigest/internal/store"
)

// stubInvoker records every call and replays canned results.
type stubInvoker struct {
	calls   []llm.InvocationParams
	results []*llm.InvocationResult
	err     error
}

func (s *stubInvoker) Name() string { return "stub" }

func (s *stubInvoker) Invoke(_ context.Context, params llm.InvocationParams) (*llm.InvocationResult, error) {
	s.calls = append(s.calls, params)
	if s.err != nil {
		return nil, s.err
	}
	idx := len(s.calls) - 1
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	return s.results[idx], nil
}

func seedDocument(t *testing.T, st store.Store, text string) *model.Document {
	t.Helper()
	doc := &model.Document{
		ID:         "doc-1",
		Title:      "Deep Work",
		Author:     "Cal Newport",
		Filename:   "deep-work.txt",
		Text:       text,
		UploadedAt: time.Now().UTC(),
	}
	require.NoError(t, st.CreateDocument(context.Background(), doc))
	return doc
}

func TestGenerateShortDocument(t *testing.T) {
	st := store.NewMemory()
	doc := seedDocument(t, st, "A short book about focus.")

	inv := &stubInvoker{results: []*llm.InvocationResult{{
		Content:      wellFormedGuide(),
		Model:        "gpt-4o-mini",
		FinishReason: llm.FinishStop,
		Usage:        llm.Usage{PromptTokens: 100, CompletionTokens: 400, TotalTokens: 500},
	}}}

	svc := New(st, inv)
	summary, err := svc.Generate(context.Background(), doc.ID, GenerateOptions{})
	require.NoError(t, err)

	// Short documents go straight to the guide pass.
	require.Len(t, inv.calls, 1)
	assert.Equal(t, model.SummaryStatusComplete, summary.Status)
	assert.Equal(t, "stub", summary.Provider)
	assert.Equal(t, "gpt-4o-mini", summary.Model)
	assert.Equal(t, wellFormedGuide(), summary.Content)
	assert.Equal(t, "stop", summary.FinishReason)
	assert.Equal(t, 500, summary.TotalTokens)
	assert.Empty(t, summary.ReviewNotes)

	persisted, err := st.GetSummary(context.Background(), summary.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SummaryStatusComplete, persisted.Status)
}

func TestGenerateRecordsReviewShortfalls(t *testing.T) {
	st := store.NewMemory()
	doc := seedDocument(t, st, "A short book.")

	inv := &stubInvoker{results: []*llm.InvocationResult{{
		Content:      "Just a paragraph, no structure.",
		FinishReason: llm.FinishStop,
	}}}

	svc := New(st, inv)
	summary, err := svc.Generate(context.Background(), doc.ID, GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, model.SummaryStatusComplete, summary.Status)
	assert.Contains(t, summary.ReviewNotes, "One-Page Summary")
	assert.Contains(t, summary.ReviewNotes, "; ")
}

func TestGenerateLongDocumentCondensesFirst(t *testing.T) {
	st := store.NewMemory()
	// Two paragraphs that together exceed the single-prompt budget.
	long := strings.Repeat("a", maxGuideSourceChars) + "\n\n" + strings.Repeat("b", 1000)
	doc := seedDocument(t, st, long)

	condensed := &llm.InvocationResult{
		Content: "condensed notes",
		Usage:   llm.Usage{PromptTokens: 50, CompletionTokens: 10, TotalTokens: 60},
	}
	guide := &llm.InvocationResult{
		Content:      wellFormedGuide(),
		Model:        "gpt-4o-mini",
		FinishReason: llm.FinishStop,
		Usage:        llm.Usage{PromptTokens: 30, CompletionTokens: 200, TotalTokens: 230},
	}
	inv := &stubInvoker{results: []*llm.InvocationResult{condensed, condensed, guide}}

	svc := New(st, inv)
	summary, err := svc.Generate(context.Background(), doc.ID, GenerateOptions{MaxTokens: 8000})
	require.NoError(t, err)

	// Two condense passes, then the guide pass over the joined notes.
	require.Len(t, inv.calls, 3)
	final := inv.calls[2]
	assert.Contains(t, final.Messages[1].Content, "condensed notes\n\ncondensed notes")
	assert.Equal(t, 8000, final.MaxTokens)
	// Condense passes run without the caller's output budget.
	assert.Zero(t, inv.calls[0].MaxTokens)

	// Usage accumulates across all three calls.
	assert.Equal(t, 130, summary.PromptTokens)
	assert.Equal(t, 220, summary.CompletionTokens)
	assert.Equal(t, 350, summary.TotalTokens)
}

func TestGenerateProviderFailure(t *testing.T) {
	st := store.NewMemory()
	doc := seedDocument(t, st, "A short book.")

	provErr := errors.New("provider returned status 503: overloaded")
	inv := &stubInvoker{err: provErr}

	svc := New(st, inv)
	summary, err := svc.Generate(context.Background(), doc.ID, GenerateOptions{})
	require.Error(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, model.SummaryStatusFailed, summary.Status)
	assert.Contains(t, summary.Error, "503")

	// The failure is persisted, not just returned.
	persisted, perr := st.GetSummary(context.Background(), summary.ID)
	require.NoError(t, perr)
	assert.Equal(t, model.SummaryStatusFailed, persisted.Status)
	assert.Contains(t, persisted.Error, "503")
}

func TestGenerateUnknownDocument(t *testing.T) {
	svc := New(store.NewMemory(), &stubInvoker{})

	_, err := svc.Generate(context.Background(), "no-such-doc", GenerateOptions{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGenerateEmptyDocumentText(t *testing.T) {
	st := store.NewMemory()
	doc := seedDocument(t, st, "   ")

	svc := New(st, &stubInvoker{})
	_, err := svc.Generate(context.Background(), doc.ID, GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no extracted text")
}
