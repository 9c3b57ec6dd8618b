package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
)

// Callback is the host function a tool dispatches to. It receives arguments
// already validated and coerced against the tool's Spec.
type Callback func(ctx context.Context, args map[string]any) (string, error)

// Func binds a Spec to a callback, implementing schema.Tool.
type Func struct {
	spec *Spec
	fn   Callback
}

// NewFunc creates a tool from a descriptor and a callback.
func NewFunc(spec *Spec, fn Callback) *Func {
	return &Func{spec: spec, fn: fn}
}

func (f *Func) Name() string                { return f.spec.Name() }
func (f *Func) Description() string         { return f.spec.Description() }
func (f *Func) Parameters() json.RawMessage { return f.spec.Schema() }
func (f *Func) Definition() json.RawMessage { return f.spec.Definition() }

// Execute validates args against the Spec and invokes the callback.
// Argument-shape violations and callback panics come back as ordinary
// errors so the caller can report them to the model and keep the
// conversation alive.
func (f *Func) Execute(ctx context.Context, args map[string]any) (out string, err error) {
	coerced, err := f.spec.Coerce(args)
	if err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", f.spec.Name(), r)
		}
	}()

	return f.fn(ctx, coerced)
}
