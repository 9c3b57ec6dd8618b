// Package toolkit builds tool descriptors and dispatches model-requested
// invocations onto host callbacks.
//
// A Spec declares a tool's invocation shape once, at registration time:
// name, description, and an ordered parameter list. The rendered JSON
// schema preserves declaration order, so the model always sees parameters
// in the order the host declared them.
package toolkit

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParamType is the JSON-schema type of a single tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"

	// TypeAny marks a parameter with no declared type constraint.
	TypeAny ParamType = "any"
)

// Param is one declared tool parameter.
// A parameter without a default value is required.
type Param struct {
	Name     string
	Type     ParamType
	Desc     string
	Required bool
	Default  any

	// Enum optionally restricts a string parameter to specific values.
	Enum []string
}

// Spec is an immutable-after-build tool descriptor: the declarative
// equivalent of introspecting a host function's signature.
type Spec struct {
	name   string
	desc   string
	params []Param
}

// NewSpec starts a tool descriptor. desc may be empty when the tool has
// no documentation.
func NewSpec(name, desc string) *Spec {
	return &Spec{name: name, desc: desc}
}

// Param declares a required parameter. An empty typ records the parameter
// as unconstrained ("any"); an empty desc gets the generic
// "The <name> parameter" description.
func (s *Spec) Param(name string, typ ParamType, desc string) *Spec {
	s.params = append(s.params, normalizeParam(Param{
		Name:     name,
		Type:     typ,
		Desc:     desc,
		Required: true,
	}))
	return s
}

// Optional declares a parameter with a default value. Defaulted parameters
// are not required; when the model omits them the default is supplied to
// the callback.
func (s *Spec) Optional(name string, typ ParamType, desc string, def any) *Spec {
	s.params = append(s.params, normalizeParam(Param{
		Name:    name,
		Type:    typ,
		Desc:    desc,
		Default: def,
	}))
	return s
}

// Enum declares a required string parameter restricted to the given values.
func (s *Spec) Enum(name, desc string, values ...string) *Spec {
	s.params = append(s.params, normalizeParam(Param{
		Name:     name,
		Type:     TypeString,
		Desc:     desc,
		Required: true,
		Enum:     values,
	}))
	return s
}

func normalizeParam(p Param) Param {
	if p.Type == "" {
		p.Type = TypeAny
	}
	if p.Desc == "" {
		p.Desc = fmt.Sprintf("The %s parameter", p.Name)
	}
	return p
}

func (s *Spec) Name() string        { return s.name }
func (s *Spec) Description() string { return s.desc }

// Params returns the declared parameters in declaration order.
func (s *Spec) Params() []Param { return s.params }

// Schema renders the parameter list as an OpenAI-style JSON schema object.
// Properties are written in declaration order, which encoding/json maps
// cannot guarantee, so the object is assembled by hand.
func (s *Spec) Schema() json.RawMessage {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"object","properties":{`)
	for i, p := range s.params {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSON(&buf, p.Name)
		buf.WriteString(`:{"type":`)
		writeJSON(&buf, string(p.Type))
		buf.WriteString(`,"description":`)
		writeJSON(&buf, p.Desc)
		if len(p.Enum) > 0 {
			buf.WriteString(`,"enum":`)
			writeJSON(&buf, p.Enum)
		}
		buf.WriteByte('}')
	}
	buf.WriteString(`},"required":[`)
	first := true
	for _, p := range s.params {
		if !p.Required {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeJSON(&buf, p.Name)
	}
	buf.WriteString(`]}`)
	return json.RawMessage(buf.Bytes())
}

// Definition renders the complete function-calling declaration sent to the
// model provider.
func (s *Spec) Definition() json.RawMessage {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"function","function":{"name":`)
	writeJSON(&buf, s.name)
	buf.WriteString(`,"description":`)
	writeJSON(&buf, s.desc)
	buf.WriteString(`,"parameters":`)
	buf.Write(s.Schema())
	buf.WriteString(`}}`)
	return json.RawMessage(buf.Bytes())
}

// Coerce validates the model-supplied argument map against the declared
// parameters and returns a map safe to hand to the callback. Missing
// optional parameters receive their declared defaults. Any violation is
// returned as an error so the dispatcher can report it back to the model
// instead of failing the turn.
func (s *Spec) Coerce(args map[string]any) (map[string]any, error) {
	declared := make(map[string]bool, len(s.params))
	out := make(map[string]any, len(s.params))

	for _, p := range s.params {
		declared[p.Name] = true
		v, ok := args[p.Name]
		if !ok {
			if p.Required {
				return nil, fmt.Errorf("missing required parameter %q", p.Name)
			}
			if p.Default != nil {
				out[p.Name] = p.Default
			}
			continue
		}
		coerced, err := coerceValue(p, v)
		if err != nil {
			return nil, err
		}
		out[p.Name] = coerced
	}

	for k := range args {
		if !declared[k] {
			return nil, fmt.Errorf("unknown parameter %q", k)
		}
	}
	return out, nil
}

func coerceValue(p Param, v any) (any, error) {
	switch p.Type {
	case TypeAny:
		return v, nil

	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %q: expected string, got %T", p.Name, v)
		}
		if len(p.Enum) > 0 {
			for _, allowed := range p.Enum {
				if s == allowed {
					return s, nil
				}
			}
			return nil, fmt.Errorf("parameter %q: %q is not one of %v", p.Name, s, p.Enum)
		}
		return s, nil

	case TypeNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
			}
			return f, nil
		}
		return nil, fmt.Errorf("parameter %q: expected number, got %T", p.Name, v)

	case TypeInteger:
		switch n := v.(type) {
		case int:
			return n, nil
		case float64:
			if n != float64(int(n)) {
				return nil, fmt.Errorf("parameter %q: expected integer, got %v", p.Name, n)
			}
			return int(n), nil
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
			}
			return int(i), nil
		}
		return nil, fmt.Errorf("parameter %q: expected integer, got %T", p.Name, v)

	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("parameter %q: expected boolean, got %T", p.Name, v)
		}
		return b, nil
	}

	return v, nil
}

func writeJSON(buf *bytes.Buffer, v any) {
	data, _ := json.Marshal(v)
	buf.Write(data)
}
