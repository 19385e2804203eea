// Package extract turns uploaded document bytes into plain text for
// summarization. Each format is one Extractor; the registry picks the
// first extractor that supports the upload. Binary formats (PDF, DOCX,
// RTF) plug in behind the same interface.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType is returned when no registered extractor supports
// the uploaded content type.
var ErrUnsupportedType = errors.New("unsupported document type")

// Extractor extracts plain text from one document format.
type Extractor interface {
	// Supports reports whether this extractor handles the given
	// content type and filename.
	Supports(contentType, filename string) bool
	// Extract returns the document's plain text.
	Extract(data []byte) (string, error)
}

// Registry holds extractors in registration order; the first extractor
// that supports an upload handles it.
type Registry struct {
	extractors []Extractor
}

// NewRegistry returns a registry with the built-in text extractors.
func NewRegistry() *Registry {
	return &Registry{
		extractors: []Extractor{
			&PlainText{},
		},
	}
}

// Register appends an extractor. Registration happens at startup;
// afterwards the registry is read-only.
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// Extract finds an extractor for the upload and runs it.
func (r *Registry) Extract(data []byte, contentType, filename string) (string, error) {
	for _, e := range r.extractors {
		if e.Supports(contentType, filename) {
			text, err := e.Extract(data)
			if err != nil {
				return "", fmt.Errorf("failed to extract %q: %w", filename, err)
			}
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, contentType, filename)
}

// Supports reports whether any registered extractor handles the upload.
func (r *Registry) Supports(contentType, filename string) bool {
	for _, e := range r.extractors {
		if e.Supports(contentType, filename) {
			return true
		}
	}
	return false
}

// baseContentType strips any media-type parameters (e.g. charset).
func baseContentType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

func extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
