package toolkit

import (
	"fmt"
	"reflect"
)

// Kind is the structural type of an argument descriptor. The set is closed:
// anything a Go type cannot be classified into fails compilation.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// Descriptor is the structural shape of one argument or return value.
type Descriptor struct {
	Kind                 Kind        `json:"type"`
	Enum                 []string    `json:"enum,omitempty"`
	Nullable             bool        `json:"nullable,omitempty"`
	Items                *Descriptor `json:"items,omitempty"`
	AdditionalProperties *Descriptor `json:"additionalProperties,omitempty"`
}

// describeType classifies a Go type into a descriptor:
//
//	string            -> string
//	int*/uint*        -> integer
//	float32/float64   -> number
//	bool              -> boolean
//	*T                -> descriptor(T) with nullable set
//	[]T / [N]T        -> array with items = descriptor(T)
//	map[string]V      -> object with additionalProperties = descriptor(V)
//
// Everything else is unsupported and returns an error naming the type.
func describeType(t reflect.Type) (*Descriptor, error) {
	if t == nil {
		return nil, fmt.Errorf("missing type")
	}
	switch t.Kind() {
	case reflect.String:
		return &Descriptor{Kind: KindString}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Descriptor{Kind: KindInteger}, nil
	case reflect.Float32, reflect.Float64:
		return &Descriptor{Kind: KindNumber}, nil
	case reflect.Bool:
		return &Descriptor{Kind: KindBoolean}, nil
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Pointer {
			return nil, fmt.Errorf("nested optional type %s is unsupported", t)
		}
		d, err := describeType(t.Elem())
		if err != nil {
			return nil, err
		}
		d.Nullable = true
		return d, nil
	case reflect.Slice, reflect.Array:
		items, err := describeType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Descriptor{Kind: KindArray, Items: items}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map key type %s is unsupported, only string keys are allowed", t.Key())
		}
		values, err := describeType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Descriptor{Kind: KindObject, AdditionalProperties: values}, nil
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}
}

// wireMap renders the descriptor as the provider-facing JSON shape.
func (d *Descriptor) wireMap() map[string]any {
	m := map[string]any{"type": string(d.Kind)}
	if len(d.Enum) > 0 {
		m["enum"] = append([]string(nil), d.Enum...)
	}
	if d.Nullable {
		m["nullable"] = true
	}
	if d.Items != nil {
		m["items"] = d.Items.wireMap()
	}
	if d.AdditionalProperties != nil {
		m["additionalProperties"] = d.AdditionalProperties.wireMap()
	}
	return m
}

// validatorMap renders the descriptor as a strict JSON Schema fragment for
// argument validation. Nullable descriptors accept null here, since
// "nullable" is a wire annotation rather than a JSON Schema keyword.
func (d *Descriptor) validatorMap() map[string]any {
	var typ any = string(d.Kind)
	if d.Nullable {
		typ = []string{string(d.Kind), "null"}
	}
	m := map[string]any{"type": typ}
	if len(d.Enum) > 0 {
		m["enum"] = append([]string(nil), d.Enum...)
	}
	if d.Items != nil {
		m["items"] = d.Items.validatorMap()
	}
	if d.AdditionalProperties != nil {
		m["additionalProperties"] = d.AdditionalProperties.validatorMap()
	}
	return m
}
