package llmutils

import (
	"testing"

	"github.com/armature/armature/internal/schema"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("pick up the cube", 7); got != "pick up..." {
		t.Errorf("unexpected truncation: %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("short strings must pass through, got %q", got)
	}
}

func TestStripThink(t *testing.T) {
	in := "<think>where is the cube?</think>moving now"
	if got := StripThink(in); got != "moving now" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestToolHint_StableAcrossMapOrder(t *testing.T) {
	tc := schema.ToolCallRequest{
		Name: "goto_waypoint",
		Arguments: map[string]any{
			"zone": "left",
			"name": "home",
		},
	}
	want := `goto_waypoint("home")`
	for i := 0; i < 20; i++ {
		if got := ToolHint([]schema.ToolCallRequest{tc}); got != want {
			t.Fatalf("iteration %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestToolHint_SkipsNonStringValues(t *testing.T) {
	tc := schema.ToolCallRequest{
		Name: "move_to",
		Arguments: map[string]any{
			"axis": "x",
			"x":    0.2,
			"y":    0.3,
		},
	}
	if got := ToolHint([]schema.ToolCallRequest{tc}); got != `move_to("x")` {
		t.Errorf("expected the first string value, got %q", got)
	}
}

func TestToolHint_NoStringArguments(t *testing.T) {
	tc := schema.ToolCallRequest{
		Name:      "move_to",
		Arguments: map[string]any{"x": 0.1, "y": 0.2, "z": 0.3},
	}
	if got := ToolHint([]schema.ToolCallRequest{tc}); got != "move_to" {
		t.Errorf("expected bare tool name, got %q", got)
	}
}
