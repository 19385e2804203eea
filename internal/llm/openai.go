package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// DefaultOpenAIModel is used when neither the caller nor the
// environment names a model.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient speaks the OpenAI chat-completions wire format. It also
// serves OpenAI-compatible endpoints (set OPENAI_BASE_URL).
type OpenAIClient struct {
	apiKey       string
	baseURL      string
	model        string
	maxTokens    int
	httpClient   *http.Client
	retry        RetryConfig
	capabilities CapabilityTable
}

// NewOpenAIClient builds the client from the environment. The API key
// is required; everything else has defaults.
func NewOpenAIClient() (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIClient{
		apiKey:    apiKey,
		baseURL:   baseURL,
		model:     model,
		maxTokens: defaultMaxTokensFromEnv(),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		capabilities: openAICapabilities,
	}, nil
}

// Name implements Invoker.
func (c *OpenAIClient) Name() string { return "openai" }

// Wire shapes for /chat/completions. Only the fields we consume or
// produce are declared.

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
	TopP        *float64        `json:"top_p,omitempty"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// toWire maps the internal message list to the OpenAI shape: system
// messages collapse into one leading system message, the rest map 1:1
// in order, unknown roles are dropped.
func (c *OpenAIClient) toWire(params InvocationParams, model string, maxTokens int) openAIRequest {
	system, rest := splitSystem(params.Messages)

	messages := make([]openAIMessage, 0, len(rest)+1)
	if system != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: system})
	}
	for _, m := range rest {
		messages = append(messages, openAIMessage{Role: string(m.Role), Content: m.Flatten()})
	}

	return openAIRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: params.Temperature,
		TopP:        params.TopP,
	}
}

// fromWire normalizes the provider response. Missing fields degrade to
// an empty but well-formed result; the total token count is recomputed
// rather than trusted.
func (c *OpenAIClient) fromWire(resp *openAIResponse) *InvocationResult {
	result := &InvocationResult{
		ID:           resp.ID,
		Model:        resp.Model,
		Usage:        normalizeUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
		FinishReason: FinishOther,
	}
	if len(resp.Choices) == 0 {
		return result
	}
	choice := resp.Choices[0]
	result.Content = choice.Message.Content
	switch choice.FinishReason {
	case "stop":
		result.FinishReason = FinishStop
	case "length":
		result.FinishReason = FinishLength
	case "":
		result.FinishReason = FinishOther
	default:
		result.FinishReason = FinishReason(choice.FinishReason)
	}
	return result
}

// Invoke implements Invoker.
func (c *OpenAIClient) Invoke(ctx context.Context, params InvocationParams) (*InvocationResult, error) {
	model := params.Model
	if model == "" {
		model = c.model
	}
	maxTokens := ResolveMaxTokens(c.capabilities, model, params.MaxTokens, c.maxTokens)

	req := c.toWire(params, model, maxTokens)
	log.Printf("[LLM] provider=openai model=%s messages=%d max_tokens=%d",
		model, len(req.Messages), maxTokens)

	resp, err := WithRetry(ctx, c.retry, IsTransient, func() (*openAIResponse, error) {
		return c.send(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	result := c.fromWire(resp)
	log.Printf("[LLM] provider=openai model=%s finish=%s completion_tokens=%d",
		result.Model, result.FinishReason, result.Usage.CompletionTokens)
	return result, nil
}

func (c *OpenAIClient) send(ctx context.Context, reqBody openAIRequest) (*openAIResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, respBody)
	}

	var parsed openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		// Degrade to an empty result rather than failing the
		// invocation; the caller can detect empty content.
		log.Printf("[LLM] provider=openai failed to decode response body: %v", err)
		return &openAIResponse{}, nil
	}
	return &parsed, nil
}
