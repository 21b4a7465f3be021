package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Run("should provide usable defaults", func(t *testing.T) {
		cfg := DefaultConfig()

		assert.Equal(t, "openai", cfg.Provider)
		assert.NotEmpty(t, cfg.Model)
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.Equal(t, 1000, cfg.RetryDelayMs)
		assert.Equal(t, 10, cfg.MaxTurns)
		assert.Equal(t, 8, cfg.SessionTurnLimit)
		assert.Equal(t, "info", cfg.Logging.Level)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.OpenAIAPIKey = "sk-test"
		return cfg
	}

	t.Run("should accept a complete openai config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("should require the key matching the provider", func(t *testing.T) {
		cfg := valid()
		cfg.OpenAIAPIKey = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "openai_api_key")

		cfg = valid()
		cfg.Provider = "anthropic"
		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "anthropic_api_key")

		cfg.AnthropicAPIKey = "sk-ant-test"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("should reject unknown providers", func(t *testing.T) {
		cfg := valid()
		cfg.Provider = "cohere"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown provider "cohere"`)
	})

	t.Run("should reject out-of-range values", func(t *testing.T) {
		cfg := valid()
		cfg.Temperature = 3.0
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.MaxTurns = 0
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.SessionTurnLimit = -1
		assert.Error(t, cfg.Validate())
	})
}

func TestLoad(t *testing.T) {
	t.Run("should fall back to defaults without a config file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().Model, cfg.Model)
	})

	t.Run("should resolve any key from the environment", func(t *testing.T) {
		t.Setenv("CONCLAVE_MODEL", "gpt-4o")
		t.Setenv("CONCLAVE_PROVIDER", "anthropic")
		t.Setenv("CONCLAVE_ANTHROPIC_API_KEY", "sk-ant-test")
		t.Setenv("CONCLAVE_SESSION_TURN_LIMIT", "6")
		t.Setenv("CONCLAVE_LOGGING_LEVEL", "debug")

		cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", cfg.Model)
		assert.Equal(t, "anthropic", cfg.Provider)
		assert.Equal(t, "sk-ant-test", cfg.AnthropicAPIKey)
		assert.Equal(t, 6, cfg.SessionTurnLimit)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("should merge file values over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conclave.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"provider": "anthropic",
			"model": "claude-3-5-haiku-latest",
			"anthropic_api_key": "sk-ant-test",
			"session_turn_limit": 12
		}`), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "anthropic", cfg.Provider)
		assert.Equal(t, "claude-3-5-haiku-latest", cfg.Model)
		assert.Equal(t, 12, cfg.SessionTurnLimit)
		// Untouched fields keep their defaults.
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.NoError(t, cfg.Validate())
	})
}
