package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	t.Run("should expose run and discuss subcommands", func(t *testing.T) {
		root := GetRootCmd()
		require.NotNil(t, root)

		names := make([]string, 0)
		for _, cmd := range root.Commands() {
			names = append(names, cmd.Name())
		}
		assert.Contains(t, names, "run")
		assert.Contains(t, names, "discuss")
	})

	t.Run("should report a version", func(t *testing.T) {
		assert.NotEmpty(t, GetVersion())
	})
}
