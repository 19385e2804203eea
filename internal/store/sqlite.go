package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bookdigest/internal/model"

	// Register the modernc sqlite driver under the name "sqlite".
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	author        TEXT NOT NULL DEFAULT '',
	filename      TEXT NOT NULL,
	content_type  TEXT NOT NULL,
	size_bytes    INTEGER NOT NULL,
	text          TEXT NOT NULL,
	uploaded_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS summaries (
	id                TEXT PRIMARY KEY,
	document_id       TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	provider          TEXT NOT NULL,
	model             TEXT NOT NULL,
	status            TEXT NOT NULL,
	content           TEXT NOT NULL DEFAULT '',
	error             TEXT NOT NULL DEFAULT '',
	review_notes      TEXT NOT NULL DEFAULT '',
	prompt_tokens     INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	total_tokens      INTEGER NOT NULL DEFAULT 0,
	finish_reason     TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_summaries_document ON summaries(document_id);
`

// SQLite is the database-backed Store. It uses the pure-Go
// modernc.org/sqlite driver, so no CGO is required.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the
// schema. WAL mode allows concurrent reads during writes; the busy
// timeout prevents SQLITE_BUSY under burst writes. Use ":memory:" for
// tests.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil, fmt.Errorf("parent directory %q does not exist", dir)
		}
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(ON)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) CreateDocument(ctx context.Context, doc *model.Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, author, filename, content_type, size_bytes, text, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.Author, doc.Filename, doc.ContentType, doc.SizeBytes, doc.Text, doc.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (s *SQLite) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, author, filename, content_type, size_bytes, text, uploaded_at
		 FROM documents WHERE id = ?`, id)

	var doc model.Document
	err := row.Scan(&doc.ID, &doc.Title, &doc.Author, &doc.Filename,
		&doc.ContentType, &doc.SizeBytes, &doc.Text, &doc.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	return &doc, nil
}

func (s *SQLite) ListDocuments(ctx context.Context) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, author, filename, content_type, size_bytes, uploaded_at
		 FROM documents ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var doc model.Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Author, &doc.Filename,
			&doc.ContentType, &doc.SizeBytes, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLite) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) CreateSummary(ctx context.Context, sum *model.Summary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summaries (id, document_id, provider, model, status, content, error, review_notes,
		                        prompt_tokens, completion_tokens, total_tokens, finish_reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.ID, sum.DocumentID, sum.Provider, sum.Model, sum.Status, sum.Content, sum.Error,
		sum.ReviewNotes, sum.PromptTokens, sum.CompletionTokens, sum.TotalTokens,
		sum.FinishReason, sum.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert summary: %w", err)
	}
	return nil
}

func (s *SQLite) UpdateSummary(ctx context.Context, sum *model.Summary) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE summaries SET status = ?, content = ?, error = ?, review_notes = ?,
		        prompt_tokens = ?, completion_tokens = ?, total_tokens = ?, finish_reason = ?
		 WHERE id = ?`,
		sum.Status, sum.Content, sum.Error, sum.ReviewNotes,
		sum.PromptTokens, sum.CompletionTokens, sum.TotalTokens, sum.FinishReason, sum.ID)
	if err != nil {
		return fmt.Errorf("failed to update summary: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) GetSummary(ctx context.Context, id string) (*model.Summary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, document_id, provider, model, status, content, error, review_notes,
		        prompt_tokens, completion_tokens, total_tokens, finish_reason, created_at
		 FROM summaries WHERE id = ?`, id)

	var sum model.Summary
	err := row.Scan(&sum.ID, &sum.DocumentID, &sum.Provider, &sum.Model, &sum.Status,
		&sum.Content, &sum.Error, &sum.ReviewNotes, &sum.PromptTokens,
		&sum.CompletionTokens, &sum.TotalTokens, &sum.FinishReason, &sum.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan summary: %w", err)
	}
	return &sum, nil
}

func (s *SQLite) ListSummaries(ctx context.Context, documentID string) ([]model.Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, provider, model, status, error, review_notes,
		        prompt_tokens, completion_tokens, total_tokens, finish_reason, created_at
		 FROM summaries WHERE document_id = ? ORDER BY created_at DESC`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var sums []model.Summary
	for rows.Next() {
		var sum model.Summary
		if err := rows.Scan(&sum.ID, &sum.DocumentID, &sum.Provider, &sum.Model, &sum.Status,
			&sum.Error, &sum.ReviewNotes, &sum.PromptTokens, &sum.CompletionTokens,
			&sum.TotalTokens, &sum.FinishReason, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		sums = append(sums, sum)
	}
	return sums, rows.Err()
}
