package toolkit

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSchema_PreservesDeclarationOrder(t *testing.T) {
	spec := NewSpec("move_to", "Move the arm.").
		Param("x", TypeNumber, "").
		Param("y", TypeNumber, "").
		Optional("z", TypeNumber, "", 0.0)

	raw := string(spec.Schema())
	ix := strings.Index(raw, `"x"`)
	iy := strings.Index(raw, `"y"`)
	iz := strings.Index(raw, `"z"`)
	if ix < 0 || iy < 0 || iz < 0 {
		t.Fatalf("schema missing a declared parameter: %s", raw)
	}
	if !(ix < iy && iy < iz) {
		t.Errorf("parameters out of declaration order: %s", raw)
	}
}

func TestSchema_RequiredOnlyWithoutDefault(t *testing.T) {
	spec := NewSpec("grip", "Close the gripper.").
		Param("target", TypeString, "").
		Optional("force", TypeNumber, "", 0.5)

	var parsed struct {
		Properties map[string]struct {
			Type        string `json:"type"`
			Description string `json:"description"`
		} `json:"properties"`
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(spec.Schema(), &parsed); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}

	if len(parsed.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(parsed.Properties))
	}
	if len(parsed.Required) != 1 || parsed.Required[0] != "target" {
		t.Errorf("expected required=[target], got %v", parsed.Required)
	}
}

func TestSchema_UntypedParameterIsAny(t *testing.T) {
	spec := NewSpec("probe", "").Param("payload", "", "")

	var parsed struct {
		Properties map[string]struct {
			Type        string `json:"type"`
			Description string `json:"description"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(spec.Schema(), &parsed); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	p, ok := parsed.Properties["payload"]
	if !ok {
		t.Fatal("payload property missing")
	}
	if p.Type != "any" {
		t.Errorf("expected type=any, got %q", p.Type)
	}
	if p.Description != "The payload parameter" {
		t.Errorf("unexpected generic description: %q", p.Description)
	}
}

func TestCoerce_MissingRequired(t *testing.T) {
	spec := NewSpec("move_to", "").Param("x", TypeNumber, "")
	_, err := spec.Coerce(map[string]any{})
	if err == nil {
		t.Fatal("expected error for missing required parameter")
	}
	if !strings.Contains(err.Error(), `"x"`) {
		t.Errorf("error should name the parameter: %v", err)
	}
}

func TestCoerce_DefaultApplied(t *testing.T) {
	spec := NewSpec("grip", "").Optional("force", TypeNumber, "", 0.5)
	out, err := spec.Coerce(map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["force"] != 0.5 {
		t.Errorf("expected default force=0.5, got %v", out["force"])
	}
}

func TestCoerce_UnknownParameter(t *testing.T) {
	spec := NewSpec("release", "")
	_, err := spec.Coerce(map[string]any{"speed": 3})
	if err == nil {
		t.Fatal("expected error for unknown parameter")
	}
}

func TestCoerce_TypeMismatch(t *testing.T) {
	spec := NewSpec("move_to", "").Param("x", TypeNumber, "")
	_, err := spec.Coerce(map[string]any{"x": "fast"})
	if err == nil {
		t.Fatal("expected error for string where number declared")
	}
}

func TestCoerce_IntegerFromJSONFloat(t *testing.T) {
	spec := NewSpec("set_speed", "").Param("level", TypeInteger, "")

	out, err := spec.Coerce(map[string]any{"level": 3.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["level"] != 3 {
		t.Errorf("expected level=3, got %v (%T)", out["level"], out["level"])
	}

	if _, err := spec.Coerce(map[string]any{"level": 3.5}); err == nil {
		t.Error("expected error for fractional integer")
	}
}

func TestCoerce_EnumViolation(t *testing.T) {
	spec := NewSpec("goto_waypoint", "").Enum("name", "", "home", "rest")

	if _, err := spec.Coerce(map[string]any{"name": "home"}); err != nil {
		t.Fatalf("unexpected error for valid enum value: %v", err)
	}
	if _, err := spec.Coerce(map[string]any{"name": "launchpad"}); err == nil {
		t.Error("expected error for value outside enum")
	}
}
