package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/harun/conclave/internal/config"
	"github.com/harun/conclave/internal/logger"
	"github.com/harun/conclave/pkg/agent"
	"github.com/harun/conclave/pkg/coretools"
	"github.com/harun/conclave/pkg/gateway"
	"github.com/harun/conclave/pkg/toolkit"
)

// setup loads configuration and builds the logger shared by all commands.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	lg, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, lg, nil
}

// newGateway builds the configured provider gateway.
func newGateway(cfg *config.Config, lg zerolog.Logger) (gateway.Gateway, error) {
	switch cfg.Provider {
	case "openai":
		return gateway.NewOpenAI(gateway.OpenAIOptions{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Logger:      lg,
		})
	case "anthropic":
		return gateway.NewAnthropic(gateway.AnthropicOptions{
			APIKey:      cfg.AnthropicAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Logger:      lg,
		})
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

// newAgent builds an agent named name with the built-in toolset.
func newAgent(cfg *config.Config, lg zerolog.Logger, name, identity string) (*agent.Agent, error) {
	gw, err := newGateway(cfg, lg)
	if err != nil {
		return nil, err
	}
	tools := toolkit.NewRegistry()
	if err := tools.Register(coretools.NewBasics()); err != nil {
		return nil, err
	}
	return agent.New(agent.Options{
		Name:       name,
		Identity:   identity,
		Gateway:    gw,
		Tools:      tools,
		Logger:     lg,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		MaxTurns:   cfg.MaxTurns,
	})
}
