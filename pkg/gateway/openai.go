package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/harun/conclave/pkg/conversation"
)

// OpenAIGateway submits conversations to the OpenAI chat completions API.
type OpenAIGateway struct {
	client      openai.Client
	model       string
	temperature float64

	mu    sync.Mutex
	usage Usage

	logger zerolog.Logger
}

// OpenAIOptions configure a new OpenAI gateway.
type OpenAIOptions struct {
	APIKey      string
	Model       string
	Temperature float64
	Logger      zerolog.Logger
}

// NewOpenAI creates an OpenAI-backed gateway.
func NewOpenAI(opts OpenAIOptions) (*OpenAIGateway, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &OpenAIGateway{
		client:      openai.NewClient(option.WithAPIKey(opts.APIKey)),
		model:       opts.Model,
		temperature: opts.Temperature,
		logger:      opts.Logger,
	}, nil
}

// Model returns the configured model identifier.
func (g *OpenAIGateway) Model() string {
	return g.model
}

// Usage returns the running token totals.
func (g *OpenAIGateway) Usage() Usage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.usage
}

// Submit sends the projection plus tool schemas and maps the response into
// ordered units.
func (g *OpenAIGateway) Submit(ctx context.Context, req Request) (*Result, error) {
	requestID := uuid.NewString()

	messages, err := g.buildMessages(req.Items)
	if err != nil {
		return nil, Fatal(err)
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(g.model),
		Messages: messages,
	}
	if g.temperature > 0 {
		params.Temperature = openai.Float(g.temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if len(req.Tools) > 0 {
		tools := make([]openai.ChatCompletionToolParam, 0, len(req.Tools))
		for _, schema := range req.Tools {
			wire := schema.Wire()
			tools = append(tools, openai.ChatCompletionToolParam{
				Type: "function",
				Function: openai.FunctionDefinitionParam{
					Name:        schema.Name,
					Description: openai.String(schema.Description),
					Parameters:  openai.FunctionParameters(wire["parameters"].(map[string]any)),
				},
			})
		}
		params.Tools = tools
	}

	response, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		g.logger.Warn().Str("request_id", requestID).Err(err).Msg("OpenAI call failed")
		return nil, g.classify(err)
	}
	if len(response.Choices) == 0 {
		return nil, Fatal(fmt.Errorf("no response choices returned"))
	}

	usage := Usage{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
	}
	g.mu.Lock()
	g.usage.InputTokens += usage.InputTokens
	g.usage.OutputTokens += usage.OutputTokens
	g.mu.Unlock()

	choice := response.Choices[0]
	units := make([]Unit, 0, len(choice.Message.ToolCalls)+1)
	for _, tc := range choice.Message.ToolCalls {
		var args map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return nil, Fatal(fmt.Errorf("parsing tool arguments for %s: %w", tc.Function.Name, err))
		}
		units = append(units, Unit{
			Text:       choice.Message.Content,
			IsToolCall: true,
			ToolName:   tc.Function.Name,
			CallID:     tc.ID,
			Args:       args,
		})
	}
	if len(units) == 0 {
		units = append(units, Unit{Text: choice.Message.Content})
	}

	g.logger.Debug().
		Str("request_id", requestID).
		Int("units", len(units)).
		Int("input_tokens", usage.InputTokens).
		Int("output_tokens", usage.OutputTokens).
		Msg("OpenAI call completed")

	return &Result{Units: units, Usage: usage}, nil
}

// buildMessages converts projection items into chat-completion params.
// Consecutive tool-call records are coalesced into one assistant message so
// the replayed transcript matches what the provider originally emitted.
func (g *OpenAIGateway) buildMessages(items []conversation.Item) ([]openai.ChatCompletionMessageParamUnion, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(items))
	var pendingCalls []openai.ChatCompletionMessageToolCall

	flush := func() {
		if len(pendingCalls) == 0 {
			return
		}
		assistant := openai.ChatCompletionMessage{
			Role:      "assistant",
			ToolCalls: pendingCalls,
		}
		messages = append(messages, assistant.ToParam())
		pendingCalls = nil
	}

	for _, item := range items {
		switch item.Kind {
		case conversation.ItemToolCall:
			argsJSON, err := json.Marshal(item.ToolCall.Arguments)
			if err != nil {
				return nil, fmt.Errorf("marshaling tool arguments: %w", err)
			}
			pendingCalls = append(pendingCalls, openai.ChatCompletionMessageToolCall{
				ID:   item.ToolCall.CallID,
				Type: "function",
				Function: openai.ChatCompletionMessageToolCallFunction{
					Name:      item.ToolCall.Name,
					Arguments: string(argsJSON),
				},
			})
		case conversation.ItemToolResult:
			flush()
			messages = append(messages, openai.ToolMessage(item.ToolResult.Output, item.ToolResult.CallID))
		default:
			flush()
			switch item.Role {
			case conversation.RoleSystem:
				messages = append(messages, openai.SystemMessage(item.Text))
			case conversation.RoleAssistant:
				messages = append(messages, openai.AssistantMessage(item.Text))
			default:
				messages = append(messages, openai.UserMessage(item.Text))
			}
		}
	}
	flush()
	return messages, nil
}

// classify maps openai-go errors onto the gateway taxonomy.
func (g *OpenAIGateway) classify(err error) *Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode, err)
	}
	return classifyStatus(0, err)
}
