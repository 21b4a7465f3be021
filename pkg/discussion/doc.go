// Package discussion coordinates multiple agents sharing one
// perspective-tagged history.
//
// Invariants:
// - Exactly one agent owns the shared history at a time; ownership moves
//   only at turn boundaries.
// - The session ends at the bounded statement cutoff, never mid-turn.
// - A failed turn aborts the whole session.
//
// Usage:
//
//	sess, _ := discussion.New(discussion.Options{Participants: []*agent.Agent{alice, bob}})
//	transcript, _ := sess.Start(ctx, "Agree on a release plan.", "Alice")
//	_ = transcript
package discussion
