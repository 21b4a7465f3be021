package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/harun/conclave/pkg/conversation"
	"github.com/harun/conclave/pkg/gateway"
	"github.com/harun/conclave/pkg/toolkit"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
	defaultMaxTurns   = 10
)

// Agent executes tasks against a model gateway with an optional toolkit.
type Agent struct {
	name     string
	identity string
	gw       gateway.Gateway
	tools    *toolkit.Registry
	logger   zerolog.Logger

	maxRetries int
	retryDelay time.Duration
	maxTurns   int
	prices     gateway.PriceTable
}

// Options configure a new Agent.
type Options struct {
	// Name identifies the agent in multi-agent sessions.
	Name string
	// Identity is the agent's system instruction ("who am I").
	Identity string
	Gateway  gateway.Gateway
	Tools    *toolkit.Registry
	Logger   zerolog.Logger

	// MaxRetries bounds gateway attempts per call for transient failures.
	MaxRetries int
	// RetryDelay is the fixed backoff between attempts.
	RetryDelay time.Duration
	// MaxTurns bounds gateway rounds within one task.
	MaxTurns int
	// Prices converts token usage to dollars; defaults to the built-in table.
	Prices gateway.PriceTable
}

// New creates an Agent with the provided options.
func New(opts Options) (*Agent, error) {
	if opts.Gateway == nil {
		return nil, fmt.Errorf("agent requires a model gateway")
	}
	if opts.Identity == "" {
		return nil, fmt.Errorf("agent requires an identity prompt")
	}

	name := opts.Name
	if name == "" {
		name = "agent"
	}
	tools := opts.Tools
	if tools == nil {
		tools = toolkit.NewRegistry()
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	prices := opts.Prices
	if prices == nil {
		prices = gateway.DefaultPrices()
	}

	return &Agent{
		name:       name,
		identity:   opts.Identity,
		gw:         opts.Gateway,
		tools:      tools,
		logger:     opts.Logger.With().Str("agent", name).Logger(),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		maxTurns:   maxTurns,
		prices:     prices,
	}, nil
}

// Name returns the agent's identity tag.
func (a *Agent) Name() string {
	return a.name
}

// Identity returns the agent's system instruction.
func (a *Agent) Identity() string {
	return a.identity
}

// Cost returns the dollar total of all tokens this agent's gateway has
// consumed so far.
func (a *Agent) Cost() float64 {
	return a.prices.Cost(a.gw.Model(), a.gw.Usage())
}

// ExecuteTask runs a single task to completion and returns the final answer.
func (a *Agent) ExecuteTask(ctx context.Context, task string) (string, error) {
	hist := conversation.NewHistory()
	hist.AppendStatement(conversation.RoleSystem, a.identity)
	hist.AppendStatement(conversation.RoleUser, task)
	return a.run(ctx, hist)
}

// TakeTurn runs one turn of a shared session the agent currently owns and
// returns the agent's answer. The caller hands ownership over before the
// call and takes it back when it returns.
func (a *Agent) TakeTurn(ctx context.Context, hist *conversation.SessionHistory) (string, error) {
	if hist.Owner() != a.name {
		return "", fmt.Errorf("agent %q cannot take a turn on a history owned by %q", a.name, hist.Owner())
	}
	return a.run(ctx, hist)
}

// run is the execution loop shared by every entry point.
func (a *Agent) run(ctx context.Context, conv conversation.Conversation) (string, error) {
	for turn := 0; turn < a.maxTurns; turn++ {
		res, err := a.submitWithRetry(ctx, gateway.Request{
			Items: conv.ProjectForModel(),
			Tools: a.tools.Schemas(),
		})
		if err != nil {
			return "", err
		}

		sawToolCall := false
		for _, unit := range res.Units {
			if !unit.IsToolCall {
				// First plain unit is the final answer; anything after it
				// in this batch is discarded.
				conv.AppendStatement(conversation.RoleAssistant, unit.Text)
				return unit.Text, nil
			}
			sawToolCall = true
			conv.AppendToolCall(conversation.ToolCallRecord{
				CallID:    unit.CallID,
				Name:      unit.ToolName,
				Arguments: unit.Args,
			})
			output, execErr := a.tools.Execute(ctx, unit.ToolName, unit.Args)
			if execErr != nil {
				if errors.Is(execErr, toolkit.ErrNotFound) {
					return "", execErr
				}
				a.logger.Warn().Str("tool", unit.ToolName).Err(execErr).Msg("Tool execution failed")
				output = fmt.Sprintf("tool execution failed: %v", execErr)
			}
			conv.AppendToolResult(conversation.ToolResultRecord{
				CallID: unit.CallID,
				Output: output,
			})
		}
		if !sawToolCall {
			// Empty batch: treat as an empty final answer.
			conv.AppendStatement(conversation.RoleAssistant, "")
			return "", nil
		}
	}
	return "", fmt.Errorf("agent %q exceeded %d turns without a final answer", a.name, a.maxTurns)
}

// submitWithRetry retries transient gateway failures with fixed backoff.
// Exhausting the attempts surfaces the last provider error unchanged.
func (a *Agent) submitWithRetry(ctx context.Context, req gateway.Request) (*gateway.Result, error) {
	var lastErr error
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		res, err := a.gw.Submit(ctx, req)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !gateway.IsTransient(err) {
			return nil, err
		}
		if attempt == a.maxRetries {
			break
		}
		a.logger.Info().Int("attempt", attempt).Err(err).Msg("Retrying after transient gateway error")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.retryDelay):
		}
	}
	return nil, lastErr
}
