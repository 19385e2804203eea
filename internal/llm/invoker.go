package llm

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

// Invoker is the single entry point for one provider family: it
// resolves the token budget, translates messages to the wire format,
// calls the provider with retry, and translates the response back.
// Implementations hold no mutable state after construction and are
// safe for concurrent use.
type Invoker interface {
	// Name returns the provider identifier (e.g. "anthropic").
	Name() string
	// Invoke performs one completion call. It fails with a provider
	// error when all retry attempts are exhausted or a permanent
	// error occurs; it never returns partial results.
	Invoke(ctx context.Context, params InvocationParams) (*InvocationResult, error)
}

// FromEnv constructs the Invoker selected by LLM_PROVIDER
// (anthropic | openai | gemini). When unset, the first provider whose
// API key is present wins, probing in that same order.
func FromEnv(ctx context.Context) (Invoker, error) {
	switch provider := os.Getenv("LLM_PROVIDER"); provider {
	case "anthropic":
		return NewAnthropicClient()
	case "openai":
		return NewOpenAIClient()
	case "gemini":
		return NewGeminiClient(ctx)
	case "":
		if os.Getenv("ANTHROPIC_API_KEY") != "" {
			return NewAnthropicClient()
		}
		if os.Getenv("OPENAI_API_KEY") != "" {
			return NewOpenAIClient()
		}
		if os.Getenv("GEMINI_API_KEY") != "" {
			return NewGeminiClient(ctx)
		}
		return nil, fmt.Errorf("no LLM provider configured: set LLM_PROVIDER or an API key")
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", provider)
	}
}

// defaultMaxTokensFromEnv reads the optional DEFAULT_MAX_TOKENS
// override used as the resolver fallback when the caller requests no
// budget and the model is unknown. Zero means "provider default".
func defaultMaxTokensFromEnv() int {
	v := os.Getenv("DEFAULT_MAX_TOKENS")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
