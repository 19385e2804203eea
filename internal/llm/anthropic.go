package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when neither the caller nor the
// environment names a model.
const DefaultAnthropicModel = "claude-3-5-sonnet-latest"

// anthropicFallbackMaxTokens is used when no budget is requested and
// the model has no capability rule. The Messages API requires
// max_tokens on every request.
const anthropicFallbackMaxTokens = 4096

// AnthropicClient speaks the Anthropic Messages API.
type AnthropicClient struct {
	client       anthropic.Client
	model        string
	maxTokens    int
	retry        RetryConfig
	capabilities CapabilityTable
}

// NewAnthropicClient builds the client from the environment. The API
// key is required; everything else has defaults. The SDK's internal
// retry is disabled so the retry policy here is the only one running.
func NewAnthropicClient() (*AnthropicClient, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = DefaultAnthropicModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL := os.Getenv("ANTHROPIC_BASE_URL"); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &AnthropicClient{
		client:       anthropic.NewClient(opts...),
		model:        model,
		maxTokens:    defaultMaxTokensFromEnv(),
		capabilities: anthropicCapabilities,
	}, nil
}

// Name implements Invoker.
func (c *AnthropicClient) Name() string { return "anthropic" }

// toWire maps the internal message list to MessageNewParams: system
// messages surface as the dedicated system field, user/assistant map
// 1:1 in order, unknown roles are dropped.
func (c *AnthropicClient) toWire(params InvocationParams, model string, maxTokens int) anthropic.MessageNewParams {
	system, rest := splitSystem(params.Messages)

	messages := make([]anthropic.MessageParam, 0, len(rest))
	for _, m := range rest {
		block := anthropic.NewTextBlock(m.Flatten())
		switch m.Role {
		case RoleUser:
			messages = append(messages, anthropic.NewUserMessage(block))
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(block))
		}
	}

	req := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  messages,
	}
	if system != "" {
		req.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if params.Temperature != nil {
		req.Temperature = anthropic.Float(*params.Temperature)
	}
	if params.TopP != nil {
		req.TopP = anthropic.Float(*params.TopP)
	}
	return req
}

// fromWire normalizes a Messages API response: text blocks concatenate
// with newlines, non-text blocks are dropped, and the usage total is
// recomputed from the prompt/completion counts.
func (c *AnthropicClient) fromWire(msg *anthropic.Message) *InvocationResult {
	var texts []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			texts = append(texts, block.Text)
		}
	}

	result := &InvocationResult{
		ID:      msg.ID,
		Content: strings.Join(texts, "\n"),
		Model:   string(msg.Model),
		Usage:   normalizeUsage(int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)),
	}
	switch msg.StopReason {
	case anthropic.StopReasonEndTurn:
		result.FinishReason = FinishStop
	case anthropic.StopReasonMaxTokens:
		result.FinishReason = FinishLength
	case "":
		result.FinishReason = FinishOther
	default:
		result.FinishReason = FinishReason(msg.StopReason)
	}
	return result
}

// Invoke implements Invoker.
func (c *AnthropicClient) Invoke(ctx context.Context, params InvocationParams) (*InvocationResult, error) {
	model := params.Model
	if model == "" {
		model = c.model
	}
	maxTokens := ResolveMaxTokens(c.capabilities, model, params.MaxTokens, c.maxTokens)
	if maxTokens <= 0 {
		maxTokens = anthropicFallbackMaxTokens
	}

	req := c.toWire(params, model, maxTokens)
	log.Printf("[LLM] provider=anthropic model=%s messages=%d max_tokens=%d",
		model, len(req.Messages), maxTokens)

	msg, err := WithRetry(ctx, c.retry, isAnthropicTransient, func() (*anthropic.Message, error) {
		return c.client.Messages.New(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	result := c.fromWire(msg)
	log.Printf("[LLM] provider=anthropic model=%s finish=%s completion_tokens=%d",
		result.Model, result.FinishReason, result.Usage.CompletionTokens)
	return result, nil
}

// isAnthropicTransient classifies SDK errors by HTTP status before
// falling back to the signature set. 529 is Anthropic's overloaded
// status.
func isAnthropicTransient(err error) bool {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusTooManyRequests, http.StatusServiceUnavailable, 529:
			return true
		case http.StatusRequestTimeout:
			return true
		}
		return false
	}
	return IsTransient(err)
}
