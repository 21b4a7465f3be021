package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harun/conclave/pkg/conversation"
)

const defaultAnthropicMaxTokens = 1024

// AnthropicGateway submits conversations to the Anthropic messages API.
type AnthropicGateway struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int

	mu    sync.Mutex
	usage Usage

	logger zerolog.Logger
}

// AnthropicOptions configure a new Anthropic gateway.
type AnthropicOptions struct {
	APIKey      string
	Model       string
	Temperature float64
	// MaxTokens caps each response; the Anthropic API requires a value, so
	// zero falls back to a conservative default.
	MaxTokens int
	Logger    zerolog.Logger
}

// NewAnthropic creates an Anthropic-backed gateway.
func NewAnthropic(opts AnthropicOptions) (*AnthropicGateway, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &AnthropicGateway{
		client:      anthropic.NewClient(option.WithAPIKey(opts.APIKey)),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		logger:      opts.Logger,
	}, nil
}

// Model returns the configured model identifier.
func (g *AnthropicGateway) Model() string {
	return g.model
}

// Usage returns the running token totals.
func (g *AnthropicGateway) Usage() Usage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.usage
}

// Submit sends the projection plus tool schemas and maps the response into
// ordered units.
func (g *AnthropicGateway) Submit(ctx context.Context, req Request) (*Result, error) {
	requestID := uuid.NewString()

	messages, system := g.buildMessages(req.Items)

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		Messages:  messages,
		MaxTokens: int64(maxTokens),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	temperature := g.temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(temperature)
	}
	if len(req.Tools) > 0 {
		tools := make([]anthropic.ToolUnionParam, 0, len(req.Tools))
		for _, schema := range req.Tools {
			wire := schema.Wire()
			parameters := wire["parameters"].(map[string]any)
			toolParam := anthropic.ToolParam{
				Name:        schema.Name,
				Description: anthropic.String(schema.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: parameters["properties"],
				},
			}
			if required, ok := parameters["required"].([]string); ok {
				toolParam.InputSchema.Required = required
			}
			tools = append(tools, anthropic.ToolUnionParam{OfTool: &toolParam})
		}
		params.Tools = tools
	}

	response, err := g.client.Messages.New(ctx, params)
	if err != nil {
		g.logger.Warn().Str("request_id", requestID).Err(err).Msg("Anthropic call failed")
		return nil, g.classify(err)
	}

	usage := Usage{
		InputTokens:  int(response.Usage.InputTokens),
		OutputTokens: int(response.Usage.OutputTokens),
	}
	g.mu.Lock()
	g.usage.InputTokens += usage.InputTokens
	g.usage.OutputTokens += usage.OutputTokens
	g.mu.Unlock()

	text := ""
	var units []Unit
	for _, block := range response.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			text += b.Text
		case anthropic.ToolUseBlock:
			var args map[string]any
			if err := json.Unmarshal([]byte(b.JSON.Input.Raw()), &args); err != nil {
				return nil, Fatal(fmt.Errorf("parsing tool input for %s: %w", b.Name, err))
			}
			units = append(units, Unit{
				IsToolCall: true,
				ToolName:   b.Name,
				CallID:     b.ID,
				Args:       args,
			})
		}
	}
	for i := range units {
		units[i].Text = text
	}
	if len(units) == 0 {
		units = append(units, Unit{Text: text})
	}

	g.logger.Debug().
		Str("request_id", requestID).
		Int("units", len(units)).
		Int("input_tokens", usage.InputTokens).
		Int("output_tokens", usage.OutputTokens).
		Msg("Anthropic call completed")

	return &Result{Units: units, Usage: usage}, nil
}

// buildMessages converts projection items into Anthropic message params.
// System statements are collected into the dedicated system field; tool
// records replay as tool_use and tool_result blocks.
func (g *AnthropicGateway) buildMessages(items []conversation.Item) ([]anthropic.MessageParam, string) {
	messages := make([]anthropic.MessageParam, 0, len(items))
	system := ""
	var pendingCalls []anthropic.ContentBlockParamUnion

	flush := func() {
		if len(pendingCalls) == 0 {
			return
		}
		messages = append(messages, anthropic.MessageParam{
			Role:    anthropic.MessageParamRoleAssistant,
			Content: pendingCalls,
		})
		pendingCalls = nil
	}

	for _, item := range items {
		switch item.Kind {
		case conversation.ItemToolCall:
			pendingCalls = append(pendingCalls,
				anthropic.NewToolUseBlock(item.ToolCall.CallID, item.ToolCall.Arguments, item.ToolCall.Name))
		case conversation.ItemToolResult:
			flush()
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(item.ToolResult.CallID, item.ToolResult.Output, false)))
		default:
			flush()
			switch item.Role {
			case conversation.RoleSystem:
				if system != "" {
					system += "\n\n"
				}
				system += item.Text
			case conversation.RoleAssistant:
				messages = append(messages, anthropic.MessageParam{
					Role:    anthropic.MessageParamRoleAssistant,
					Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(item.Text)},
				})
			default:
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(item.Text)))
			}
		}
	}
	flush()
	return messages, system
}

// classify maps anthropic-sdk-go errors onto the gateway taxonomy.
func (g *AnthropicGateway) classify(err error) *Error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode, err)
	}
	return classifyStatus(0, err)
}
