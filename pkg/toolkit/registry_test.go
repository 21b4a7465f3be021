package toolkit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addToolset() *fakeToolset {
	return &fakeToolset{
		name: "math",
		caps: []Capability{{
			Name:        "add",
			Description: "Add two integers.",
			Args: []Arg{
				{Name: "a", Type: 0},
				{Name: "b", Type: 0},
			},
			Handler: func(_ context.Context, args map[string]any) (any, error) {
				return args["a"].(float64) + args["b"].(float64), nil
			},
		}},
	}
}

func TestRegistry(t *testing.T) {
	t.Run("should dispatch to the registered handler", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(addToolset()))

		out, err := r.Execute(context.Background(), "add", map[string]any{"a": 3.0, "b": 5.0})
		require.NoError(t, err)
		assert.Equal(t, "8", out)
	})

	t.Run("should return ErrNotFound with available toolsets", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(addToolset()))

		_, err := r.Execute(context.Background(), "subtract", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "math")
	})

	t.Run("should fill defaults for absent arguments", func(t *testing.T) {
		var got map[string]any
		ts := &fakeToolset{
			name: "greet",
			caps: []Capability{{
				Name: "hello",
				Args: []Arg{
					{Name: "name", Type: ""},
					{Name: "greeting", Type: "", Default: "hello"},
				},
				Handler: func(_ context.Context, args map[string]any) (any, error) {
					got = args
					return fmt.Sprintf("%s, %s", args["greeting"], args["name"]), nil
				},
			}},
		}

		r := NewRegistry()
		require.NoError(t, r.Register(ts))

		out, err := r.Execute(context.Background(), "hello", map[string]any{"name": "world"})
		require.NoError(t, err)
		assert.Equal(t, "hello, world", out)
		assert.Equal(t, "hello", got["greeting"])
	})

	t.Run("should fill defaults into a copy, never the caller's map", func(t *testing.T) {
		ts := &fakeToolset{
			name: "greet",
			caps: []Capability{{
				Name: "hello",
				Args: []Arg{
					{Name: "name", Type: ""},
					{Name: "greeting", Type: "", Default: "hello"},
				},
				Handler: func(_ context.Context, args map[string]any) (any, error) {
					return args["greeting"], nil
				},
			}},
		}

		r := NewRegistry()
		require.NoError(t, r.Register(ts))

		callerArgs := map[string]any{"name": "world"}
		out, err := r.Execute(context.Background(), "hello", callerArgs)
		require.NoError(t, err)
		assert.Equal(t, "hello", out)
		assert.Equal(t, map[string]any{"name": "world"}, callerArgs)
	})

	t.Run("should reject missing required arguments", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(addToolset()))

		_, err := r.Execute(context.Background(), "add", map[string]any{"a": 1.0})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid arguments")
	})

	t.Run("should reject mistyped and unknown arguments", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(addToolset()))

		_, err := r.Execute(context.Background(), "add", map[string]any{"a": "one", "b": 2.0})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid arguments")

		_, err = r.Execute(context.Background(), "add", map[string]any{"a": 1.0, "b": 2.0, "c": 3.0})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid arguments")
	})

	t.Run("should reject cross-toolset name conflicts", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(addToolset()))

		other := addToolset()
		other.name = "other"
		err := r.Register(other)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `already registered by toolset "math"`)
	})

	t.Run("should wrap handler errors with the capability name", func(t *testing.T) {
		sentinel := fmt.Errorf("boom")
		ts := &fakeToolset{
			name: "fragile",
			caps: []Capability{{
				Name: "explode",
				Handler: func(_ context.Context, _ map[string]any) (any, error) {
					return nil, sentinel
				},
			}},
		}

		r := NewRegistry()
		require.NoError(t, r.Register(ts))

		_, err := r.Execute(context.Background(), "explode", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, sentinel)
		assert.Contains(t, err.Error(), `capability "explode"`)
	})

	t.Run("should render non-string results as JSON", func(t *testing.T) {
		ts := &fakeToolset{
			name: "render",
			caps: []Capability{
				{
					Name: "list",
					Handler: func(_ context.Context, _ map[string]any) (any, error) {
						return map[string]any{"b": 2, "a": 1}, nil
					},
				},
				{
					Name: "nothing",
					Handler: func(_ context.Context, _ map[string]any) (any, error) {
						return nil, nil
					},
				},
			},
		}

		r := NewRegistry()
		require.NoError(t, r.Register(ts))

		out, err := r.Execute(context.Background(), "list", nil)
		require.NoError(t, err)
		assert.Equal(t, `{"a":1,"b":2}`, out)

		out, err = r.Execute(context.Background(), "nothing", nil)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("should report schemas in registration order", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(addToolset()))

		greet := &fakeToolset{
			name: "greet",
			caps: []Capability{{Name: "hello", Handler: noopHandler}},
		}
		require.NoError(t, r.Register(greet))

		schemas := r.Schemas()
		require.Len(t, schemas, 2)
		assert.Equal(t, "add", schemas[0].Name)
		assert.Equal(t, "hello", schemas[1].Name)
		assert.True(t, r.Has("add"))
		assert.False(t, r.Has("goodbye"))
	})
}
