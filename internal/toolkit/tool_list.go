package toolkit

import (
	"bytes"
	"encoding/json"

	"github.com/armature/armature/internal/schema"
)

// ToolList holds a named set of tools and exposes them for model calls.
// Registration order is preserved so tool definitions reach the provider
// in a stable order.
type ToolList struct {
	order []string
	tools map[string]schema.Tool
}

func NewToolList(ts ...schema.Tool) *ToolList {
	list := &ToolList{tools: make(map[string]schema.Tool, len(ts))}
	for _, t := range ts {
		list.Add(t)
	}
	return list
}

// Get returns the tool with the given name, or nil if not found.
func (r *ToolList) Get(name string) schema.Tool {
	return r.tools[name]
}

// Add registers a tool, silently replacing any existing tool with the same
// name. A replaced tool keeps its original position in the list.
func (r *ToolList) Add(t schema.Tool) schema.Tool {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
	return t
}

// Len returns the number of registered tools.
func (r *ToolList) Len() int { return len(r.order) }

// Names returns tool names in registration order.
func (r *ToolList) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Definitions returns all tool definitions in function-calling wire format,
// in registration order. Definitions are rendered as raw JSON so parameter
// ordering inside each schema is preserved end to end.
func (r *ToolList) Definitions() []json.RawMessage {
	list := make([]json.RawMessage, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		if d, ok := t.(interface{ Definition() json.RawMessage }); ok {
			list = append(list, d.Definition())
			continue
		}
		list = append(list, renderDefinition(t))
	}
	return list
}

// renderDefinition wraps an arbitrary schema.Tool whose Parameters are
// already raw JSON into the function-calling envelope.
func renderDefinition(t schema.Tool) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"function","function":{"name":`)
	writeJSON(&buf, t.Name())
	buf.WriteString(`,"description":`)
	writeJSON(&buf, t.Description())
	buf.WriteString(`,"parameters":`)
	params := t.Parameters()
	if len(params) == 0 {
		params = json.RawMessage(`{"type":"object","properties":{}}`)
	}
	buf.Write(params)
	buf.WriteString(`}}`)
	return json.RawMessage(buf.Bytes())
}
