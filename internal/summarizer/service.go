// Package summarizer generates long-form reading guides for uploaded
// documents: it chunks and condenses the source text when needed,
// calls the configured LLM provider, reviews the structure of the
// result, and persists the outcome.
package summarizer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"bookdigest/internal/llm"
	"bookdigest/internal/model"
	"bookdigest/internal/store"

	"github.com/google/uuid"
)

// maxGuideSourceChars is the largest source text sent in a single
// guide prompt. Longer documents are condensed chunk-by-chunk first.
const maxGuideSourceChars = 48000

// GenerateOptions are the caller-tunable parameters for one guide.
type GenerateOptions struct {
	Model       string
	MaxTokens   int
	Temperature *float64
}

// Service orchestrates guide generation for one provider.
type Service struct {
	store   store.Store
	invoker llm.Invoker
	builder *Builder
}

// New creates a summarizer service.
func New(st store.Store, invoker llm.Invoker) *Service {
	return &Service{
		store:   st,
		invoker: invoker,
		builder: NewBuilder(),
	}
}

// Generate produces a reading guide for the document and persists it.
// The returned summary is complete or failed; a pending record exists
// only while generation runs.
func (s *Service) Generate(ctx context.Context, documentID string, opts GenerateOptions) (*model.Summary, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return nil, fmt.Errorf("document %s has no extracted text", documentID)
	}

	summary := &model.Summary{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		Provider:   s.invoker.Name(),
		Model:      opts.Model,
		Status:     model.SummaryStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateSummary(ctx, summary); err != nil {
		return nil, err
	}

	startTime := time.Now()
	result, usage, err := s.generate(ctx, doc, opts)
	duration := time.Since(startTime)

	summary.PromptTokens = usage.PromptTokens
	summary.CompletionTokens = usage.CompletionTokens
	summary.TotalTokens = usage.TotalTokens

	if err != nil {
		log.Printf("[SUMMARY] Generation failed for document %s after %v: %v", doc.ID, duration, err)
		summary.Status = model.SummaryStatusFailed
		summary.Error = err.Error()
		if updateErr := s.store.UpdateSummary(ctx, summary); updateErr != nil {
			log.Printf("[SUMMARY] Warning: failed to record failure: %v", updateErr)
		}
		return summary, err
	}

	summary.Status = model.SummaryStatusComplete
	summary.Content = result.Content
	summary.Model = result.Model
	summary.FinishReason = string(result.FinishReason)

	if issues := Review(result.Content); len(issues) > 0 {
		log.Printf("[REVIEW] Guide for document %s has %d structural issues", doc.ID, len(issues))
		summary.ReviewNotes = strings.Join(issues, "; ")
	}

	if err := s.store.UpdateSummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to persist summary: %w", err)
	}

	log.Printf("[PERF] Guide for document %s completed in %v (tokens: %d)", doc.ID, duration, summary.TotalTokens)
	return summary, nil
}

// generate runs the condense passes (when needed) and the final guide
// pass, accumulating token usage across all calls.
func (s *Service) generate(ctx context.Context, doc *model.Document, opts GenerateOptions) (*llm.InvocationResult, llm.Usage, error) {
	var usage llm.Usage
	source := doc.Text

	chunks := ChunkText(doc.Text, maxGuideSourceChars)
	if len(chunks) > 1 {
		log.Printf("[SUMMARY] Document %s split into %d chunks for condensation", doc.ID, len(chunks))
		var notes []string
		for i, chunk := range chunks {
			res, err := s.invoker.Invoke(ctx, llm.InvocationParams{
				Messages:    s.builder.BuildCondenseMessages(doc, chunk, i+1, len(chunks)),
				Model:       opts.Model,
				Temperature: opts.Temperature,
			})
			usage = accumulate(usage, res)
			if err != nil {
				return nil, usage, fmt.Errorf("condense pass %d/%d: %w", i+1, len(chunks), err)
			}
			notes = append(notes, res.Content)
		}
		source = strings.Join(notes, "\n\n")
	}

	result, err := s.invoker.Invoke(ctx, llm.InvocationParams{
		Messages:    s.builder.BuildGuideMessages(doc, source),
		Model:       opts.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	usage = accumulate(usage, result)
	if err != nil {
		return nil, usage, err
	}
	return result, usage, nil
}

func accumulate(total llm.Usage, res *llm.InvocationResult) llm.Usage {
	if res == nil {
		return total
	}
	total.PromptTokens += res.Usage.PromptTokens
	total.CompletionTokens += res.Usage.CompletionTokens
	total.TotalTokens = total.PromptTokens + total.CompletionTokens
	return total
}
