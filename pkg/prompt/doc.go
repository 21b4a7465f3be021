// Package prompt loads named prompt texts from a directory and keeps them
// current while the process runs.
//
// Invariants:
// - A prompt's name is its file name without the .txt or .md extension.
// - Get returns the text most recently read from disk; edits are picked up
//   by the watcher without a restart.
//
// Usage:
//
//	store, _ := prompt.NewStore(prompt.StoreConfig{Dir: "prompts"})
//	defer store.Close()
//	directive, _ := store.Get("planning")
package prompt
