// Package gateway is the boundary to hosted language-model providers.
//
// Invariants:
// - Submit is stateless request/response; conversation state lives with the
//   caller.
// - Response units preserve the provider's submission order.
// - Errors are classified Transient (retryable) or Fatal at this boundary;
//   callers own the retry policy.
//
// Usage:
//
//	gw, _ := gateway.NewOpenAI(gateway.OpenAIOptions{APIKey: key, Model: "gpt-4.1"})
//	res, _ := gw.Submit(ctx, gateway.Request{Items: hist.ProjectForModel()})
//	_ = res.Units
package gateway
