package llm

import (
	"errors"
	"net/http"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicClient() *AnthropicClient {
	return &AnthropicClient{
		model:        DefaultAnthropicModel,
		capabilities: anthropicCapabilities,
	}
}

func TestAnthropicToWire(t *testing.T) {
	c := newTestAnthropicClient()

	params := InvocationParams{
		Messages: []Message{
			{Role: RoleSystem, Content: "act as an editor"},
			{Role: RoleUser, Content: "summarize"},
			{Role: "tool", Content: "dropped"},
			{Role: RoleAssistant, Content: "working on it"},
		},
	}

	req := c.toWire(params, "claude-3-5-sonnet-latest", 8192)

	assert.Equal(t, anthropic.Model("claude-3-5-sonnet-latest"), req.Model)
	assert.Equal(t, int64(8192), req.MaxTokens)

	// System text surfaces in the dedicated field, not the messages.
	require.Len(t, req.System, 1)
	assert.Equal(t, "act as an editor", req.System[0].Text)

	require.Len(t, req.Messages, 2)
	assert.Equal(t, anthropic.MessageParamRoleUser, req.Messages[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, req.Messages[1].Role)
}

func TestAnthropicToWireTemperature(t *testing.T) {
	c := newTestAnthropicClient()
	temp := 0.3

	req := c.toWire(InvocationParams{
		Messages:    []Message{{Role: RoleUser, Content: "hi"}},
		Temperature: &temp,
	}, "claude-3-5-sonnet-latest", 1024)

	require.True(t, req.Temperature.Valid())
	assert.InDelta(t, 0.3, req.Temperature.Value, 1e-9)
}

func TestAnthropicFromWire(t *testing.T) {
	c := newTestAnthropicClient()

	msg := &anthropic.Message{
		ID:    "msg_123",
		Model: "claude-3-5-sonnet-latest",
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "first block"},
			{Type: "tool_use", Name: "dropped"},
			{Type: "text", Text: "second block"},
		},
		StopReason: anthropic.StopReasonEndTurn,
		Usage:      anthropic.Usage{InputTokens: 20, OutputTokens: 30},
	}

	result := c.fromWire(msg)
	assert.Equal(t, "msg_123", result.ID)
	assert.Equal(t, "first block\nsecond block", result.Content)
	assert.Equal(t, FinishStop, result.FinishReason)
	assert.Equal(t, 50, result.Usage.TotalTokens)
}

func TestAnthropicFromWireStopReasons(t *testing.T) {
	c := newTestAnthropicClient()

	for raw, want := range map[anthropic.StopReason]FinishReason{
		anthropic.StopReasonEndTurn:   FinishStop,
		anthropic.StopReasonMaxTokens: FinishLength,
		"":                            FinishOther,
		"stop_sequence":               FinishReason("stop_sequence"),
	} {
		result := c.fromWire(&anthropic.Message{StopReason: raw})
		assert.Equal(t, want, result.FinishReason, "raw stop reason %q", raw)
	}
}

func TestAnthropicFromWireEmptyMessage(t *testing.T) {
	c := newTestAnthropicClient()

	result := c.fromWire(&anthropic.Message{})
	assert.Empty(t, result.Content)
	assert.Zero(t, result.Usage.TotalTokens)
	assert.Equal(t, FinishOther, result.FinishReason)
}

func TestIsAnthropicTransient(t *testing.T) {
	for status, want := range map[int]bool{
		http.StatusTooManyRequests:     true,
		http.StatusServiceUnavailable:  true,
		529:                            true,
		http.StatusUnauthorized:        false,
		http.StatusBadRequest:          false,
		http.StatusInternalServerError: false,
	} {
		err := &anthropic.Error{StatusCode: status}
		assert.Equal(t, want, isAnthropicTransient(err), "status %d", status)
	}

	// Non-SDK errors fall back to the signature set.
	assert.True(t, isAnthropicTransient(errors.New("connection timed out")))
	assert.False(t, isAnthropicTransient(errors.New("model not found")))
}

func TestNewAnthropicClientRequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := NewAnthropicClient()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}
