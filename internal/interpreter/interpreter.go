// Package interpreter owns the conversation transcript and the turn loop
// that alternates between asking the model provider for the next message
// and executing the tool invocations it requests.
package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/armature/armature/internal/schema"
	"github.com/armature/armature/internal/shared/llmutils"
	"github.com/armature/armature/internal/toolkit"
)

// ErrTurnLimit is returned by Run when the configured turn cap is reached
// before the model produces a message without tool calls.
var ErrTurnLimit = errors.New("turn limit reached without a final answer")

// Interpreter drives one conversation. The transcript accumulates across
// Run calls for the lifetime of the instance; it is never truncated or
// persisted. Not safe for concurrent use — one Interpreter per
// conversation.
type Interpreter struct {
	provider   schema.ChatProvider
	settings   schema.Settings
	tools      *toolkit.ToolList
	transcript schema.Messages
}

// New creates an Interpreter with an empty transcript. tools may be nil
// when every tool is registered later via RegisterTool.
func New(provider schema.ChatProvider, settings schema.Settings, tools *toolkit.ToolList) *Interpreter {
	if tools == nil {
		tools = toolkit.NewToolList()
	}
	return &Interpreter{
		provider:   provider,
		settings:   settings,
		tools:      tools,
		transcript: schema.NewMessages(),
	}
}

// RegisterTool inserts a tool into the registry, replacing any previous
// tool with the same name. The transcript is untouched.
func (in *Interpreter) RegisterTool(t schema.Tool) {
	in.tools.Add(t)
}

// Transcript returns a copy of the conversation so far.
func (in *Interpreter) Transcript() schema.Messages {
	return in.transcript.Clone()
}

// Run submits a command and loops turn-by-turn against the model provider
// until the model produces a message with no tool invocations. It returns
// the concatenated assistant text from every turn of this call.
//
// Tool-level failures (unknown tool, callback error) are reported back to
// the model as tool-result messages and never surface here; a failure of
// the provider call itself aborts the loop and is returned.
func (in *Interpreter) Run(ctx context.Context, command string) (string, error) {
	return in.run(ctx, command, nil)
}

// RunWithProgress is Run with a callback receiving intermediate assistant
// text and tool hints, for front-ends that display streaming progress.
func (in *Interpreter) RunWithProgress(ctx context.Context, command string, onProgress func(string)) (string, error) {
	return in.run(ctx, command, onProgress)
}

func (in *Interpreter) run(ctx context.Context, command string, onProgress func(string)) (string, error) {
	in.transcript.AddUser(command)

	var out strings.Builder
	for turn := 0; ; turn++ {
		if in.settings.MaxTurns > 0 && turn >= in.settings.MaxTurns {
			return out.String(), fmt.Errorf("%w (max %d)", ErrTurnLimit, in.settings.MaxTurns)
		}

		resp, err := in.provider.Chat(ctx,
			in.transcript,
			in.tools.Definitions(),
			schema.NewChatOptions(in.settings.Model, in.settings.MaxTokens, in.settings.Temperature),
		)
		if err != nil {
			return out.String(), fmt.Errorf("model provider: %w", err)
		}

		out.WriteString(resp.Content)

		var calls []schema.ToolCall
		for _, tc := range resp.ToolCalls {
			calls = append(calls, schema.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments})
		}
		in.transcript.AddAssistant(resp.Content, calls)

		if !resp.HasToolCalls() {
			// Terminal turn.
			return llmutils.StripThink(out.String()), nil
		}

		if onProgress != nil {
			if clean := llmutils.StripThink(resp.Content); clean != "" {
				onProgress(clean)
			}
			onProgress(llmutils.ToolHint(resp.ToolCalls))
		}

		// Execute each invocation in the order the model listed them,
		// appending the result immediately so results for earlier
		// invocations are on the transcript before later ones run.
		for _, tc := range resp.ToolCalls {
			argsJSON, _ := json.Marshal(tc.Arguments)
			slog.Info("Tool call", "name", tc.Name, "args", llmutils.Truncate(string(argsJSON), 200))

			in.transcript.AddToolResult(tc.ID, tc.Name, in.dispatch(ctx, tc))
		}
	}
}

// dispatch invokes one requested tool and renders the result as the
// tool-role message content. Every failure path produces a message for
// the model rather than an error for the caller.
func (in *Interpreter) dispatch(ctx context.Context, tc schema.ToolCallRequest) string {
	t := in.tools.Get(tc.Name)
	if t == nil {
		return fmt.Sprintf("Error: %s is not a tool.", tc.Name)
	}

	result, err := t.Execute(ctx, tc.Arguments)
	if err != nil {
		return "Error: " + err.Error()
	}
	return "Completed with no errors. Result: " + result
}
