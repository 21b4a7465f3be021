// Package toolkit compiles tool capability schemas and dispatches model
// tool-invocation requests.
//
// Invariants:
// - Capability visibility is allow-list: only capabilities a toolset
//   declares are ever exposed.
// - Compilation is all-or-nothing per toolset; one unsupported argument or
//   return type fails the whole toolset.
// - Arguments are schema-validated before a handler runs.
//
// Usage:
//
//	reg := toolkit.NewRegistry()
//	_ = reg.Register(calculatorToolset{})
//	out, _ := reg.Execute(ctx, "add", map[string]any{"x": 3, "y": 5})
//	_ = out
package toolkit
