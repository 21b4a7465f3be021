// Package agent drives a single agent's turn to completion: submit the
// conversation and tool schemas to the model gateway, dispatch requested
// tools, fold results back into history, repeat until a plain answer.
//
// Invariants:
// - One logical flow of control per turn; the gateway call is the sole
//   suspension point.
// - Response units are processed strictly in submission order; the first
//   non-tool unit is the final answer and later units in the same batch are
//   discarded.
// - Tool execution failures are fed back to the model as text; they never
//   terminate the loop.
//
// Usage:
//
//	ag, _ := agent.New(agent.Options{Identity: "You are a researcher.", Gateway: gw, Tools: reg})
//	answer, _ := ag.ExecuteTask(ctx, "Summarize the findings.")
//	_ = answer
package agent
