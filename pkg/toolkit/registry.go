package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ErrNotFound reports a dispatch request for a capability no registered
// toolset exposes.
var ErrNotFound = errors.New("capability not found")

type binding struct {
	owner     Toolset
	schema    CapabilitySchema
	handler   Handler
	validator *gojsonschema.Schema
}

// Registry resolves capability names to handlers across registered
// toolsets and validates arguments before invoking them.
type Registry struct {
	mu       sync.RWMutex
	sets     []Toolset
	bindings map[string]*binding
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]*binding)}
}

// Register compiles a toolset and adds its capabilities. Compilation is
// fail-fast: an unsupported type anywhere rejects the whole toolset. A
// capability name already registered by another toolset is a conflict.
func (r *Registry) Register(ts Toolset) error {
	schemas, err := Compile(ts)
	if err != nil {
		return err
	}

	handlers := make(map[string]Handler)
	for _, declared := range ts.Capabilities() {
		if _, ok := handlers[declared.Name]; !ok {
			handlers[declared.Name] = declared.Handler
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, schema := range schemas {
		if existing, ok := r.bindings[schema.Name]; ok {
			return fmt.Errorf("capability %q already registered by toolset %q", schema.Name, existing.owner.Name())
		}
	}
	for _, schema := range schemas {
		validator, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema.validatorSchema()))
		if err != nil {
			return fmt.Errorf("capability %q: building argument validator: %w", schema.Name, err)
		}
		r.bindings[schema.Name] = &binding{
			owner:     ts,
			schema:    schema,
			handler:   handlers[schema.Name],
			validator: validator,
		}
		r.order = append(r.order, schema.Name)
	}
	r.sets = append(r.sets, ts)
	return nil
}

// Has reports whether some registered toolset exposes the capability.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bindings[name]
	return ok
}

// Schemas returns the compiled capability schemas in registration order.
func (r *Registry) Schemas() []CapabilitySchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CapabilitySchema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.bindings[name].schema)
	}
	return out
}

// Execute resolves the named capability, fills declared defaults for absent
// arguments, validates the argument mapping, and invokes the handler. The
// result is returned in canonical text form: strings pass through, anything
// else is serialized as JSON.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	r.mu.RLock()
	b, ok := r.bindings[name]
	sets := r.sets
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %q (toolsets: %s)", ErrNotFound, name, toolsetNames(sets))
	}

	// Defaults are filled into a copy; the caller's map may be a stored
	// record that must replay exactly as the provider sent it.
	if args == nil {
		args = map[string]any{}
	} else {
		args = maps.Clone(args)
	}
	for _, arg := range b.schema.Args {
		if arg.Default == nil {
			continue
		}
		if _, present := args[arg.Name]; !present {
			args[arg.Name] = arg.Default
		}
	}

	result, err := b.validator.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return "", fmt.Errorf("capability %q: validating arguments: %w", name, err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return "", fmt.Errorf("capability %q: invalid arguments: %s", name, strings.Join(details, "; "))
	}

	out, err := b.handler(ctx, args)
	if err != nil {
		return "", fmt.Errorf("capability %q: %w", name, err)
	}
	return renderResult(out)
}

// renderResult folds a handler result into the textual form the gateway
// accepts. encoding/json sorts map keys, so the form is deterministic for a
// given input.
func renderResult(out any) (string, error) {
	switch v := out.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("serializing tool result: %w", err)
		}
		return string(data), nil
	}
}

func toolsetNames(sets []Toolset) string {
	if len(sets) == 0 {
		return "none registered"
	}
	names := make([]string, 0, len(sets))
	for _, ts := range sets {
		names = append(names, ts.Name())
	}
	return strings.Join(names, ", ")
}
