package schema

import (
	"context"
	"encoding/json"
)

// ChatOptions configures a single chat request to the model provider.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

func NewChatOptions(model string, maxTokens int, temperature float64) ChatOptions {
	return ChatOptions{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// ToolCallRequest represents one tool invocation requested by the model.
type ToolCallRequest struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ChatResponse is the normalised response from any model provider.
type ChatResponse struct {
	Content      string // may be empty when the response contains only tool calls
	ToolCalls    []ToolCallRequest
	FinishReason string
}

// HasToolCalls reports whether the response contains at least one tool call.
func (r ChatResponse) HasToolCalls() bool { return len(r.ToolCalls) > 0 }

// ChatProvider is the interface every model backend must satisfy.
// Chat sends the full transcript plus all registered tool definitions and
// returns exactly one assistant message. Tool definitions are pre-rendered
// JSON so parameter ordering survives the trip to the wire.
type ChatProvider interface {
	Chat(ctx context.Context, messages Messages, tools []json.RawMessage, opts ChatOptions) (ChatResponse, error)
	DefaultModel() string
}
