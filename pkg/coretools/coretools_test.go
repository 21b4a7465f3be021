package coretools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/conclave/pkg/toolkit"
)

func newRegistry(t *testing.T) *toolkit.Registry {
	t.Helper()
	r := toolkit.NewRegistry()
	require.NoError(t, r.Register(NewBasics()))
	return r
}

func TestBasics(t *testing.T) {
	t.Run("should compile and register all capabilities", func(t *testing.T) {
		r := newRegistry(t)
		assert.True(t, r.Has("calculate"))
		assert.True(t, r.Has("current_time"))
		assert.True(t, r.Has("word_count"))
	})

	t.Run("should calculate", func(t *testing.T) {
		r := newRegistry(t)

		out, err := r.Execute(context.Background(), "calculate", map[string]any{
			"op": "mul", "a": 6.0, "b": 7.0,
		})
		require.NoError(t, err)
		assert.Equal(t, "42", out)
	})

	t.Run("should reject division by zero", func(t *testing.T) {
		r := newRegistry(t)

		_, err := r.Execute(context.Background(), "calculate", map[string]any{
			"op": "div", "a": 1.0, "b": 0.0,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "division by zero")
	})

	t.Run("should reject operations outside the enum", func(t *testing.T) {
		r := newRegistry(t)

		_, err := r.Execute(context.Background(), "calculate", map[string]any{
			"op": "pow", "a": 2.0, "b": 3.0,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid arguments")
	})

	t.Run("should count words with the default separator", func(t *testing.T) {
		r := newRegistry(t)

		out, err := r.Execute(context.Background(), "word_count", map[string]any{
			"text": "one two  three",
		})
		require.NoError(t, err)
		assert.Equal(t, "3", out)
	})
}
