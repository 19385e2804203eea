package summarizer

import (
	"fmt"
	"strings"

	"bookdigest/internal/llm"
	"bookdigest/internal/model"
)

// Builder constructs the message lists sent to the LLM.
type Builder struct{}

// NewBuilder creates a new prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildGuideMessages builds the final guide request over source
// material (the full text, or condensed notes for long documents).
func (b *Builder) BuildGuideMessages(doc *model.Document, source string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPromptGuide},
		{Role: llm.RoleUser, Content: fmt.Sprintf(GuidePromptFormat, doc.Title, authorOrUnknown(doc), source)},
	}
}

// BuildCondenseMessages builds the per-chunk condensation request used
// when a document exceeds the single-prompt budget.
func (b *Builder) BuildCondenseMessages(doc *model.Document, chunk string, index, total int) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleUser, Content: fmt.Sprintf(CondensePromptFormat, index, total, doc.Title, authorOrUnknown(doc), chunk)},
	}
}

func authorOrUnknown(doc *model.Document) string {
	if doc.Author == "" {
		return "an unknown author"
	}
	return doc.Author
}

// ChunkText splits text into chunks of at most maxChars, preferring
// paragraph boundaries so no argument is cut mid-thought.
func ChunkText(text string, maxChars int) []string {
	if len(text) <= maxChars {
		return []string{text}
	}

	paragraphs := strings.Split(text, "\n\n")
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, p := range paragraphs {
		// A single oversized paragraph is split hard.
		for len(p) > maxChars {
			flush()
			chunks = append(chunks, p[:maxChars])
			p = p[maxChars:]
		}
		if current.Len()+len(p)+2 > maxChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	flush()
	return chunks
}
