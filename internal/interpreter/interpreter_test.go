package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/armature/armature/internal/schema"
	"github.com/armature/armature/internal/toolkit"
)

// scriptedProvider replays a fixed sequence of responses and records the
// transcript it was sent on every call.
type scriptedProvider struct {
	turns []schema.ChatResponse
	err   error // returned once the scripted turns run out

	seen []schema.Messages
}

func (p *scriptedProvider) Chat(_ context.Context, msgs schema.Messages, _ []json.RawMessage, _ schema.ChatOptions) (schema.ChatResponse, error) {
	p.seen = append(p.seen, msgs.Clone())
	if len(p.turns) == 0 {
		if p.err != nil {
			return schema.ChatResponse{}, p.err
		}
		return schema.ChatResponse{}, errors.New("scripted provider exhausted")
	}
	next := p.turns[0]
	p.turns = p.turns[1:]
	return next, nil
}

func (p *scriptedProvider) DefaultModel() string { return "arm_model" }

func newTestInterpreter(p schema.ChatProvider, tools ...schema.Tool) *Interpreter {
	return New(p, schema.Settings{Model: "arm_model"}, toolkit.NewToolList(tools...))
}

func callRequest(name string, args map[string]any) schema.ToolCallRequest {
	return schema.ToolCallRequest{Name: name, Arguments: args}
}

func TestRun_ToolRoundTrip(t *testing.T) {
	wave := toolkit.NewFunc(
		toolkit.NewSpec("wave", "Wave the arm."),
		func(context.Context, map[string]any) (string, error) { return "waved", nil },
	)
	provider := &scriptedProvider{turns: []schema.ChatResponse{
		{Content: "", ToolCalls: []schema.ToolCallRequest{callRequest("wave", map[string]any{})}},
		{Content: "done"},
	}}

	in := newTestInterpreter(provider, wave)
	out, err := in.Run(context.Background(), "go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "done" {
		t.Errorf("expected %q, got %q", "done", out)
	}

	tr := in.Transcript()
	if tr.Len() != 4 {
		t.Fatalf("expected 4 transcript messages, got %d", tr.Len())
	}
	wantRoles := []string{"user", "assistant", "tool", "assistant"}
	for i, want := range wantRoles {
		if tr.Messages[i].Role != want {
			t.Errorf("message %d: expected role %q, got %q", i, want, tr.Messages[i].Role)
		}
	}
	if got := tr.Messages[2].Content; got != "Completed with no errors. Result: waved" {
		t.Errorf("unexpected tool result content: %q", got)
	}
}

func TestRun_UnknownTool(t *testing.T) {
	provider := &scriptedProvider{turns: []schema.ChatResponse{
		{ToolCalls: []schema.ToolCallRequest{callRequest("teleport", map[string]any{})}},
		{Content: "sorry"},
	}}

	in := newTestInterpreter(provider)
	out, err := in.Run(context.Background(), "teleport somewhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "sorry" {
		t.Errorf("expected %q, got %q", "sorry", out)
	}

	tr := in.Transcript()
	if got := tr.Messages[2].Content; got != "Error: teleport is not a tool." {
		t.Errorf("unexpected tool result content: %q", got)
	}
	// The loop asked the provider for another turn instead of raising.
	if len(provider.seen) != 2 {
		t.Errorf("expected 2 provider calls, got %d", len(provider.seen))
	}
}

func TestRun_CallbackFailure(t *testing.T) {
	broken := toolkit.NewFunc(
		toolkit.NewSpec("grip", "Close the gripper."),
		func(context.Context, map[string]any) (string, error) {
			return "", errors.New("servo stalled")
		},
	)
	provider := &scriptedProvider{turns: []schema.ChatResponse{
		{ToolCalls: []schema.ToolCallRequest{callRequest("grip", map[string]any{})}},
		{Content: "the gripper seems stuck"},
	}}

	in := newTestInterpreter(provider, broken)
	if _, err := in.Run(context.Background(), "grab it"); err != nil {
		t.Fatalf("callback failure must not surface to the caller: %v", err)
	}

	tr := in.Transcript()
	got := tr.Messages[2].Content
	if !strings.HasPrefix(got, "Error:") {
		t.Errorf("expected tool result starting with Error:, got %q", got)
	}
	if !strings.Contains(got, "servo stalled") {
		t.Errorf("expected failure text embedded, got %q", got)
	}
}

func TestRun_TwoInvocationsOneTurn(t *testing.T) {
	var order []string
	mk := func(name string) schema.Tool {
		return toolkit.NewFunc(
			toolkit.NewSpec(name, ""),
			func(context.Context, map[string]any) (string, error) {
				order = append(order, name)
				return "ok", nil
			},
		)
	}
	provider := &scriptedProvider{turns: []schema.ChatResponse{
		{ToolCalls: []schema.ToolCallRequest{
			callRequest("first", map[string]any{}),
			callRequest("second", map[string]any{}),
		}},
		{Content: "both done"},
	}}

	in := newTestInterpreter(provider, mk("first"), mk("second"))
	if _, err := in.Run(context.Background(), "do both"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected sequential execution first,second; got %v", order)
	}
	tr := in.Transcript()
	// user, assistant, tool, tool, assistant — no provider call between the
	// two tool messages.
	if tr.Len() != 5 {
		t.Fatalf("expected 5 transcript messages, got %d", tr.Len())
	}
	if tr.Messages[2].ToolName != "first" || tr.Messages[3].ToolName != "second" {
		t.Errorf("tool results out of order: %q, %q", tr.Messages[2].ToolName, tr.Messages[3].ToolName)
	}
	if len(provider.seen) != 2 {
		t.Errorf("expected 2 provider calls, got %d", len(provider.seen))
	}
}

func TestRun_TranscriptAccumulatesAcrossCalls(t *testing.T) {
	provider := &scriptedProvider{turns: []schema.ChatResponse{
		{Content: "hello"},
		{Content: "again"},
	}}

	in := newTestInterpreter(provider)
	if _, err := in.Run(context.Background(), "first command"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := in.Run(context.Background(), "second command"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := provider.seen[1]
	if second.Len() != 3 {
		t.Fatalf("expected second call to carry 3 messages, got %d", second.Len())
	}
	if second.Messages[0].Content != "first command" ||
		second.Messages[1].Content != "hello" ||
		second.Messages[2].Content != "second command" {
		t.Errorf("second call transcript missing history: %+v", second.Messages)
	}
}

func TestRun_ProviderErrorPropagates(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("connection refused")}

	in := newTestInterpreter(provider)
	_, err := in.Run(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected provider failure to propagate")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRun_TurnLimit(t *testing.T) {
	spin := toolkit.NewFunc(toolkit.NewSpec("spin", ""),
		func(context.Context, map[string]any) (string, error) { return "spinning", nil })

	// A model that never stops requesting invocations.
	provider := &scriptedProvider{turns: []schema.ChatResponse{
		{ToolCalls: []schema.ToolCallRequest{callRequest("spin", map[string]any{})}},
		{ToolCalls: []schema.ToolCallRequest{callRequest("spin", map[string]any{})}},
		{ToolCalls: []schema.ToolCallRequest{callRequest("spin", map[string]any{})}},
	}}

	in := New(provider, schema.Settings{Model: "arm_model", MaxTurns: 3}, toolkit.NewToolList(spin))
	_, err := in.Run(context.Background(), "forever")
	if !errors.Is(err, ErrTurnLimit) {
		t.Fatalf("expected ErrTurnLimit, got %v", err)
	}
	if len(provider.seen) != 3 {
		t.Errorf("expected exactly 3 provider calls, got %d", len(provider.seen))
	}
}

func TestRegisterTool_LastWriteWins(t *testing.T) {
	first := toolkit.NewFunc(toolkit.NewSpec("park", ""),
		func(context.Context, map[string]any) (string, error) { return "old", nil })
	second := toolkit.NewFunc(toolkit.NewSpec("park", ""),
		func(context.Context, map[string]any) (string, error) { return "new", nil })

	provider := &scriptedProvider{turns: []schema.ChatResponse{
		{ToolCalls: []schema.ToolCallRequest{callRequest("park", map[string]any{})}},
		{Content: "parked"},
	}}

	in := newTestInterpreter(provider)
	in.RegisterTool(first)
	in.RegisterTool(second)

	if _, err := in.Run(context.Background(), "park"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := in.Transcript()
	if got := tr.Messages[2].Content; got != "Completed with no errors. Result: new" {
		t.Errorf("expected dispatch to the replacement tool, got %q", got)
	}
}
