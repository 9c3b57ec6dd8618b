package toolkit

import (
	"github.com/armature/armature/internal/schema"
)

// Registry holds an immutable set of named tools built during construction.
type Registry struct {
	tools map[string]schema.Tool
	order []string
}

// Get returns the tool with the given name, or nil.
func (r *Registry) Get(name string) schema.Tool {
	return r.tools[name]
}

// All returns a mutable ToolList seeded with every registered tool.
func (r *Registry) All() *ToolList {
	list := NewToolList()
	for _, name := range r.order {
		list.Add(r.tools[name])
	}
	return list
}
