package llm

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when neither the caller nor the
// environment names a model.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient speaks the Gemini API through the genai SDK.
type GeminiClient struct {
	client       *genai.Client
	model        string
	maxTokens    int
	retry        RetryConfig
	capabilities CapabilityTable
}

// NewGeminiClient builds the client from the environment. The API key
// is required; everything else has defaults.
func NewGeminiClient(ctx context.Context) (*GeminiClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiClient{
		client:       client,
		model:        model,
		maxTokens:    defaultMaxTokensFromEnv(),
		capabilities: geminiCapabilities,
	}, nil
}

// Name implements Invoker.
func (c *GeminiClient) Name() string { return "gemini" }

// toWire maps the internal message list to genai contents: system
// messages surface as the SystemInstruction config field, user maps to
// "user", assistant to "model", unknown roles are dropped.
func (c *GeminiClient) toWire(params InvocationParams, maxTokens int) ([]*genai.Content, *genai.GenerateContentConfig) {
	system, rest := splitSystem(params.Messages)

	contents := make([]*genai.Content, 0, len(rest))
	for _, m := range rest {
		role := genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Flatten()}},
		})
	}

	config := &genai.GenerateContentConfig{}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}
	if params.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*params.Temperature))
	}
	if params.TopP != nil {
		config.TopP = genai.Ptr(float32(*params.TopP))
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	return contents, config
}

// fromWire normalizes a Gemini response: text parts of the first
// candidate concatenate with newlines, usage totals are recomputed.
func (c *GeminiClient) fromWire(resp *genai.GenerateContentResponse) *InvocationResult {
	result := &InvocationResult{
		ID:           resp.ResponseID,
		Model:        resp.ModelVersion,
		FinishReason: FinishOther,
	}
	if usage := resp.UsageMetadata; usage != nil {
		result.Usage = normalizeUsage(int(usage.PromptTokenCount), int(usage.CandidatesTokenCount))
	} else {
		result.Usage = normalizeUsage(0, 0)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return result
	}
	candidate := resp.Candidates[0]

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	result.Content = strings.Join(texts, "\n")

	switch candidate.FinishReason {
	case genai.FinishReasonStop:
		result.FinishReason = FinishStop
	case genai.FinishReasonMaxTokens:
		result.FinishReason = FinishLength
	case "":
		result.FinishReason = FinishOther
	default:
		result.FinishReason = FinishReason(candidate.FinishReason)
	}
	return result
}

// Invoke implements Invoker.
func (c *GeminiClient) Invoke(ctx context.Context, params InvocationParams) (*InvocationResult, error) {
	model := params.Model
	if model == "" {
		model = c.model
	}
	maxTokens := ResolveMaxTokens(c.capabilities, model, params.MaxTokens, c.maxTokens)

	contents, config := c.toWire(params, maxTokens)
	log.Printf("[LLM] provider=gemini model=%s messages=%d max_tokens=%d",
		model, len(contents), maxTokens)

	resp, err := WithRetry(ctx, c.retry, isGeminiTransient, func() (*genai.GenerateContentResponse, error) {
		return c.client.Models.GenerateContent(ctx, model, contents, config)
	})
	if err != nil {
		return nil, err
	}

	result := c.fromWire(resp)
	log.Printf("[LLM] provider=gemini model=%s finish=%s completion_tokens=%d",
		result.Model, result.FinishReason, result.Usage.CompletionTokens)
	return result, nil
}
