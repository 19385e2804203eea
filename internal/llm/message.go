// Package llm translates between an internal, provider-neutral message
// shape and the wire formats of the LLM vendors used for summary
// generation (Anthropic, OpenAI-compatible, Gemini). Each provider is
// one Invoker implementation; adding a vendor means adding a file, not
// touching callers.
package llm

import "strings"

// Role identifies the sender of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContentBlock is a single typed piece of message content. Only text
// blocks are produced today; other types are dropped during
// translation rather than rejected.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Message is one turn of conversation. Content holds plain string
// content; Blocks, when non-empty, takes precedence over Content.
type Message struct {
	Role    Role           `json:"role"`
	Content string         `json:"content,omitempty"`
	Blocks  []ContentBlock `json:"blocks,omitempty"`
}

// Flatten reduces a message to a single string: block content is the
// text of all text-typed blocks joined by newlines (non-text blocks
// are silently dropped), string content passes through unchanged.
// Multi-block messages are therefore a lossy, one-way transform.
func (m Message) Flatten() string {
	if len(m.Blocks) == 0 {
		return m.Content
	}
	var parts []string
	for _, b := range m.Blocks {
		if b.Type == "text" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// InvocationParams is a provider-neutral completion request. The
// caller owns it; invokers only read it. Zero values mean "use the
// provider or client default".
type InvocationParams struct {
	Messages    []Message
	Model       string
	MaxTokens   int
	Temperature *float64 // [0,2]
	TopP        *float64 // [0,1]
}

// FinishReason is the normalized stop signal. Providers' natural
// completion signals map to FinishStop and their truncation signals to
// FinishLength; anything else passes through as its raw string value,
// or FinishOther when absent.
type FinishReason string

const (
	FinishStop   FinishReason = "stop"
	FinishLength FinishReason = "length"
	FinishOther  FinishReason = "other"
)

// Usage is the canonical token accounting triple. TotalTokens is
// always recomputed as the sum; a total reported by the provider is
// not trusted.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// InvocationResult is the normalized provider response, newly
// constructed per call and owned by the caller.
type InvocationResult struct {
	ID           string
	Content      string
	Model        string
	Usage        Usage
	FinishReason FinishReason
}

// splitSystem separates system instructions from the conversation.
// All system messages are flattened and joined with a blank line; the
// remaining user/assistant messages keep their order. Messages with
// any other role are dropped silently.
func splitSystem(messages []Message) (system string, rest []Message) {
	var sys []string
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			sys = append(sys, m.Flatten())
		case RoleUser, RoleAssistant:
			rest = append(rest, m)
		}
	}
	return strings.Join(sys, "\n\n"), rest
}

// normalizeUsage enforces TotalTokens = PromptTokens + CompletionTokens.
func normalizeUsage(prompt, completion int) Usage {
	if prompt < 0 {
		prompt = 0
	}
	if completion < 0 {
		completion = 0
	}
	return Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}
