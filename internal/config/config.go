package config

import (
	"fmt"

	"github.com/harun/conclave/internal/logger"
)

// Config is the top-level application configuration.
type Config struct {
	// Provider selects the model gateway: "openai" or "anthropic".
	Provider string `json:"provider" mapstructure:"provider"`
	// Model is the model identifier passed to the provider.
	Model string `json:"model" mapstructure:"model"`

	OpenAIAPIKey    string `json:"openai_api_key" mapstructure:"openai_api_key"`
	AnthropicAPIKey string `json:"anthropic_api_key" mapstructure:"anthropic_api_key"`

	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`

	// MaxRetries bounds gateway attempts per call.
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`
	// RetryDelayMs is the fixed backoff between attempts, in milliseconds.
	RetryDelayMs int `json:"retry_delay_ms" mapstructure:"retry_delay_ms"`
	// MaxTurns bounds gateway rounds within one task.
	MaxTurns int `json:"max_turns" mapstructure:"max_turns"`
	// SessionTurnLimit is the shared-history statement cutoff.
	SessionTurnLimit int `json:"session_turn_limit" mapstructure:"session_turn_limit"`

	// PromptDir holds the hot-reloaded prompt files.
	PromptDir string `json:"prompt_dir" mapstructure:"prompt_dir"`

	Logging logger.Config `json:"logging" mapstructure:"logging"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:         "openai",
		Model:            "gpt-4.1-mini",
		Temperature:      0.7,
		MaxRetries:       3,
		RetryDelayMs:     1000,
		MaxTurns:         10,
		SessionTurnLimit: 8,
		PromptDir:        "prompts",
		Logging:          logger.DefaultConfig(),
	}
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("openai_api_key is required when provider is openai")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("anthropic_api_key is required when provider is anthropic")
		}
	default:
		return fmt.Errorf("unknown provider %q, expected openai or anthropic", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %v is out of range [0, 2]", c.Temperature)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max_retries must be positive")
	}
	if c.MaxTurns <= 0 {
		return fmt.Errorf("max_turns must be positive")
	}
	if c.SessionTurnLimit <= 0 {
		return fmt.Errorf("session_turn_limit must be positive")
	}
	return nil
}
