// Package conversation models the ordered record of a model-facing dialogue.
//
// Invariants:
// - Entries are append-only; only Clean removes entries, and it removes
//   exactly the non-statement ones.
// - A statement's owner tag is fixed at creation.
// - A SessionHistory is written by exactly one owner at a time; ownership
//   transfers through SetOwner at turn boundaries.
//
// Usage:
//
//	hist := conversation.NewHistory()
//	hist.AppendStatement(conversation.RoleSystem, "You are a calculator.")
//	hist.AppendStatement(conversation.RoleUser, "What is 3+5?")
//	items := hist.ProjectForModel()
//	_ = items
package conversation
