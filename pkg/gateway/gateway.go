package gateway

import (
	"context"

	"github.com/harun/conclave/pkg/conversation"
	"github.com/harun/conclave/pkg/toolkit"
)

// Usage counts tokens consumed across gateway calls.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Unit is one response element of a gateway call: either plain text or a
// structured tool-invocation request. A single call may carry zero, one, or
// several tool requests among plain text; consumers must inspect units in
// order.
type Unit struct {
	Text       string
	IsToolCall bool
	ToolName   string
	CallID     string
	Args       map[string]any
}

// Result is one model turn: the ordered response units plus the token usage
// of this call.
type Result struct {
	Units []Unit
	Usage Usage
}

// Request carries the conversation projection and the optional tool schema
// list for one gateway call.
type Request struct {
	Items       []conversation.Item
	Tools       []toolkit.CapabilitySchema
	Temperature float64
	MaxTokens   int
}

// Gateway is the stateless contract to a model provider. Usage returns the
// running token totals accumulated over this gateway's lifetime.
type Gateway interface {
	Submit(ctx context.Context, req Request) (*Result, error)
	Model() string
	Usage() Usage
}
