package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/armature/armature/internal/schema"
)

// Ollama makes direct HTTP calls to the native Ollama chat API.
type Ollama struct {
	host         string
	defaultModel string
	httpClient   *http.Client
}

// NewOllama constructs a provider for the Ollama server at host.
// An empty host falls back to the local default.
func NewOllama(host, defaultModel string) *Ollama {
	if host == "" {
		host = defaultOllamaHost
	}
	return &Ollama{
		host:         strings.TrimRight(host, "/"),
		defaultModel: defaultModel,
		// Local models can take a while on first load.
		httpClient: &http.Client{Timeout: 300 * time.Second},
	}
}

func (p *Ollama) DefaultModel() string { return p.defaultModel }

// ollamaMessage is the native chat wire format for one message.
type ollamaMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaToolCall `json:"tool_calls,omitempty"`
	ToolName  string           `json:"tool_name,omitempty"`
}

type ollamaToolCall struct {
	Function ollamaFunctionCall `json:"function"`
}

type ollamaFunctionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ollamaChatResponse is the subset of the /api/chat response we care about.
type ollamaChatResponse struct {
	Message    ollamaMessage `json:"message"`
	Done       bool          `json:"done"`
	DoneReason string        `json:"done_reason"`
}

// Chat implements schema.ChatProvider against POST /api/chat.
func (p *Ollama) Chat(
	ctx context.Context,
	messages schema.Messages,
	tools []json.RawMessage,
	opts schema.ChatOptions,
) (schema.ChatResponse, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}

	body := map[string]any{
		"model":    model,
		"messages": toOllamaMessages(messages),
		"stream":   false,
		"options": map[string]any{
			"temperature": opts.Temperature,
		},
	}
	if opts.MaxTokens > 0 {
		body["options"].(map[string]any)["num_predict"] = opts.MaxTokens
	}
	if len(tools) > 0 {
		body["tools"] = tools
	}

	data, err := json.Marshal(body)
	if err != nil {
		return schema.ChatResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.host+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return schema.ChatResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return schema.ChatResponse{}, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return schema.ChatResponse{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return schema.ChatResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, friendlyHTTPError(resp.StatusCode, raw))
	}

	return parseOllamaResponse(raw)
}

func toOllamaMessages(messages schema.Messages) []ollamaMessage {
	out := make([]ollamaMessage, 0, messages.Len())
	for _, m := range messages.Messages {
		wire := ollamaMessage{Role: m.Role, Content: m.Content}
		for _, tc := range m.ToolCalls {
			wire.ToolCalls = append(wire.ToolCalls, ollamaToolCall{
				Function: ollamaFunctionCall{Name: tc.Name, Arguments: tc.Arguments},
			})
		}
		if m.Role == "tool" {
			wire.ToolName = m.ToolName
		}
		out = append(out, wire)
	}
	return out
}

func parseOllamaResponse(raw []byte) (schema.ChatResponse, error) {
	var body ollamaChatResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return schema.ChatResponse{}, fmt.Errorf("parse Ollama response: %w", err)
	}

	var toolCalls []schema.ToolCallRequest
	for _, tc := range body.Message.ToolCalls {
		args := tc.Function.Arguments
		if args == nil {
			args = map[string]any{}
		}
		toolCalls = append(toolCalls, schema.ToolCallRequest{
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	finish := body.DoneReason
	if finish == "" {
		finish = "stop"
	}
	if len(toolCalls) > 0 {
		finish = "tool_calls"
	}

	return schema.ChatResponse{
		Content:      body.Message.Content,
		ToolCalls:    toolCalls,
		FinishReason: finish,
	}, nil
}
