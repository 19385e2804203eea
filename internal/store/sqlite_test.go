package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookdigest/internal/model"
)

// storeUnderTest runs the shared suite against both implementations.
func storeUnderTest(t *testing.T, name string) Store {
	t.Helper()
	switch name {
	case "sqlite":
		s, err := OpenSQLite(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	case "memory":
		return NewMemory()
	}
	t.Fatalf("unknown store %q", name)
	return nil
}

func newTestDocument() *model.Document {
	return &model.Document{
		ID:          uuid.NewString(),
		Title:       "Thinking in Systems",
		Author:      "Donella Meadows",
		Filename:    "thinking-in-systems.txt",
		ContentType: "text/plain",
		SizeBytes:   1024,
		Text:        "A system is a set of interconnected elements.",
		UploadedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

func newTestSummary(documentID string) *model.Summary {
	return &model.Summary{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Provider:   "openai",
		Model:      "gpt-4o-mini",
		Status:     model.SummaryStatusPending,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

func TestDocumentCRUD(t *testing.T) {
	for _, name := range []string{"sqlite", "memory"} {
		t.Run(name, func(t *testing.T) {
			s := storeUnderTest(t, name)
			ctx := context.Background()

			doc := newTestDocument()
			require.NoError(t, s.CreateDocument(ctx, doc))

			got, err := s.GetDocument(ctx, doc.ID)
			require.NoError(t, err)
			assert.Equal(t, doc.Title, got.Title)
			assert.Equal(t, doc.Author, got.Author)
			assert.Equal(t, doc.Text, got.Text)
			assert.Equal(t, doc.SizeBytes, got.SizeBytes)

			docs, err := s.ListDocuments(ctx)
			require.NoError(t, err)
			require.Len(t, docs, 1)
			assert.Equal(t, doc.ID, docs[0].ID)

			require.NoError(t, s.DeleteDocument(ctx, doc.ID))
			_, err = s.GetDocument(ctx, doc.ID)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestDocumentNotFound(t *testing.T) {
	for _, name := range []string{"sqlite", "memory"} {
		t.Run(name, func(t *testing.T) {
			s := storeUnderTest(t, name)
			ctx := context.Background()

			_, err := s.GetDocument(ctx, "no-such-id")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.DeleteDocument(ctx, "no-such-id"), ErrNotFound)
		})
	}
}

func TestListDocumentsNewestFirst(t *testing.T) {
	for _, name := range []string{"sqlite", "memory"} {
		t.Run(name, func(t *testing.T) {
			s := storeUnderTest(t, name)
			ctx := context.Background()

			older := newTestDocument()
			older.UploadedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
			newer := newTestDocument()

			require.NoError(t, s.CreateDocument(ctx, older))
			require.NoError(t, s.CreateDocument(ctx, newer))

			docs, err := s.ListDocuments(ctx)
			require.NoError(t, err)
			require.Len(t, docs, 2)
			assert.Equal(t, newer.ID, docs[0].ID)
			assert.Equal(t, older.ID, docs[1].ID)
		})
	}
}

func TestSummaryLifecycle(t *testing.T) {
	for _, name := range []string{"sqlite", "memory"} {
		t.Run(name, func(t *testing.T) {
			s := storeUnderTest(t, name)
			ctx := context.Background()

			doc := newTestDocument()
			require.NoError(t, s.CreateDocument(ctx, doc))

			sum := newTestSummary(doc.ID)
			require.NoError(t, s.CreateSummary(ctx, sum))

			sum.Status = model.SummaryStatusComplete
			sum.Content = "## One-Page Summary\n..."
			sum.PromptTokens = 120
			sum.CompletionTokens = 80
			sum.TotalTokens = 200
			sum.FinishReason = "stop"
			require.NoError(t, s.UpdateSummary(ctx, sum))

			got, err := s.GetSummary(ctx, sum.ID)
			require.NoError(t, err)
			assert.Equal(t, model.SummaryStatusComplete, got.Status)
			assert.Equal(t, sum.Content, got.Content)
			assert.Equal(t, 200, got.TotalTokens)
			assert.Equal(t, "stop", got.FinishReason)

			sums, err := s.ListSummaries(ctx, doc.ID)
			require.NoError(t, err)
			require.Len(t, sums, 1)
			assert.Equal(t, sum.ID, sums[0].ID)
		})
	}
}

func TestUpdateSummaryNotFound(t *testing.T) {
	for _, name := range []string{"sqlite", "memory"} {
		t.Run(name, func(t *testing.T) {
			s := storeUnderTest(t, name)

			sum := newTestSummary("doc-x")
			assert.ErrorIs(t, s.UpdateSummary(context.Background(), sum), ErrNotFound)
		})
	}
}

func TestDeleteDocumentCascadesSummaries(t *testing.T) {
	for _, name := range []string{"sqlite", "memory"} {
		t.Run(name, func(t *testing.T) {
			s := storeUnderTest(t, name)
			ctx := context.Background()

			doc := newTestDocument()
			require.NoError(t, s.CreateDocument(ctx, doc))
			sum := newTestSummary(doc.ID)
			require.NoError(t, s.CreateSummary(ctx, sum))

			require.NoError(t, s.DeleteDocument(ctx, doc.ID))

			_, err := s.GetSummary(ctx, sum.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			sums, err := s.ListSummaries(ctx, doc.ID)
			require.NoError(t, err)
			assert.Empty(t, sums)
		})
	}
}

func TestOpenSQLiteMissingParentDir(t *testing.T) {
	_, err := OpenSQLite("/no/such/dir/bookdigest.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
