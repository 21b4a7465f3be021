package toolkit

import (
	"context"
	"fmt"
	"reflect"
)

// Handler executes one capability with the model-supplied arguments.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Arg declares one capability argument. Type holds a prototype value of the
// argument's Go type (0 for integer, "" for string, []int(nil) for an
// integer array, (*string)(nil) for an optional string, and so on). An
// argument is required exactly when it declares no default.
type Arg struct {
	Name        string
	Type        any
	Enum        []string
	Default     any
	Description string
}

// ReturnSpec documents a capability's return value. It is informational:
// dispatch never consults it, but an unsupported return type still fails
// compilation.
type ReturnSpec struct {
	Type        any
	Description string
}

// Capability is one operation a toolset exposes to the model.
// HideDescription publishes the capability with an empty description.
type Capability struct {
	Name            string
	Description     string
	HideDescription bool
	Args            []Arg
	Returns         *ReturnSpec
	Handler         Handler
}

// Toolset is a named collection of capabilities. Exposure is opt-in: only
// what Capabilities returns is ever compiled or dispatchable. When a list
// carries duplicate names the first occurrence wins, so an embedding
// toolset can override by listing its own capabilities first.
type Toolset interface {
	Name() string
	Capabilities() []Capability
}

// ArgSchema is the compiled form of one argument.
type ArgSchema struct {
	Name        string
	Type        *Descriptor
	Required    bool
	Default     any
	Description string
}

// ReturnSchema is the compiled, informational return shape.
type ReturnSchema struct {
	Type        *Descriptor
	Description string
}

// CapabilitySchema is the compiled form of one capability.
type CapabilitySchema struct {
	Name        string
	Description string
	Args        []ArgSchema
	Returns     *ReturnSchema
}

// Compile resolves a toolset's declared capabilities into schemas. It fails
// on the first unsupported argument or return type, naming the capability
// and the offending declaration; no partial schema is returned. A toolset
// exposing zero capabilities is itself an error.
func Compile(ts Toolset) ([]CapabilitySchema, error) {
	caps := ts.Capabilities()
	if len(caps) == 0 {
		return nil, fmt.Errorf("toolset %q exposes no capabilities", ts.Name())
	}

	schemas := make([]CapabilitySchema, 0, len(caps))
	seen := make(map[string]bool, len(caps))
	for _, cap := range caps {
		if cap.Name == "" {
			return nil, fmt.Errorf("toolset %q declares a capability with no name", ts.Name())
		}
		if seen[cap.Name] {
			// Overridden by an earlier, more specific declaration.
			continue
		}
		seen[cap.Name] = true

		schema, err := compileCapability(cap)
		if err != nil {
			return nil, fmt.Errorf("toolset %q: %w", ts.Name(), err)
		}
		schemas = append(schemas, schema)
	}
	return schemas, nil
}

func compileCapability(cap Capability) (CapabilitySchema, error) {
	if cap.Handler == nil {
		return CapabilitySchema{}, fmt.Errorf("capability %q has no handler", cap.Name)
	}

	description := cap.Description
	if cap.HideDescription {
		description = ""
	}

	args := make([]ArgSchema, 0, len(cap.Args))
	argSeen := make(map[string]bool, len(cap.Args))
	for _, arg := range cap.Args {
		if arg.Name == "" {
			return CapabilitySchema{}, fmt.Errorf("capability %q declares an argument with no name", cap.Name)
		}
		if argSeen[arg.Name] {
			return CapabilitySchema{}, fmt.Errorf("capability %q declares argument %q twice", cap.Name, arg.Name)
		}
		argSeen[arg.Name] = true

		desc, err := describeType(reflect.TypeOf(arg.Type))
		if err != nil {
			return CapabilitySchema{}, fmt.Errorf("capability %q: argument %q: %w", cap.Name, arg.Name, err)
		}
		if len(arg.Enum) > 0 {
			if desc.Kind != KindString {
				return CapabilitySchema{}, fmt.Errorf(
					"capability %q: argument %q: enum requires a string type, got %s", cap.Name, arg.Name, desc.Kind)
			}
			desc.Enum = append([]string(nil), arg.Enum...)
		}
		args = append(args, ArgSchema{
			Name:        arg.Name,
			Type:        desc,
			Required:    arg.Default == nil,
			Default:     arg.Default,
			Description: arg.Description,
		})
	}

	var returns *ReturnSchema
	if cap.Returns != nil && cap.Returns.Type != nil {
		desc, err := describeType(reflect.TypeOf(cap.Returns.Type))
		if err != nil {
			return CapabilitySchema{}, fmt.Errorf("capability %q: return value: %w", cap.Name, err)
		}
		returns = &ReturnSchema{Type: desc, Description: cap.Returns.Description}
	}

	return CapabilitySchema{
		Name:        cap.Name,
		Description: description,
		Args:        args,
		Returns:     returns,
	}, nil
}

// Wire renders the schema in the provider wire shape:
//
//	{type:"function", name, description,
//	 parameters:{type:"object", properties:{...}, required:[...],
//	             additionalProperties:false}}
func (c CapabilitySchema) Wire() map[string]any {
	properties := make(map[string]any, len(c.Args))
	required := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		prop := arg.Type.wireMap()
		prop["description"] = arg.Description
		properties[arg.Name] = prop
		if arg.Required {
			required = append(required, arg.Name)
		}
	}
	return map[string]any{
		"type":        "function",
		"name":        c.Name,
		"description": c.Description,
		"parameters": map[string]any{
			"type":                 "object",
			"properties":           properties,
			"required":             required,
			"additionalProperties": false,
		},
	}
}

// validatorSchema is the strict JSON Schema used to validate arguments
// before dispatch.
func (c CapabilitySchema) validatorSchema() map[string]any {
	properties := make(map[string]any, len(c.Args))
	required := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		properties[arg.Name] = arg.Type.validatorMap()
		if arg.Required {
			required = append(required, arg.Name)
		}
	}
	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
