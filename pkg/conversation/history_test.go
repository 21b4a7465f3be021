package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	t.Run("should project statements and tool records in order", func(t *testing.T) {
		h := NewHistory()
		h.AppendStatement(RoleSystem, "You are a calculator.")
		h.AppendStatement(RoleUser, "What is 3 + 5?")
		h.AppendToolCall(ToolCallRecord{CallID: "c1", Name: "add", Arguments: map[string]any{"a": 3.0, "b": 5.0}})
		h.AppendToolResult(ToolResultRecord{CallID: "c1", Output: "8"})
		h.AppendStatement(RoleAssistant, "3 + 5 = 8")

		items := h.ProjectForModel()
		require.Len(t, items, 5)

		assert.Equal(t, ItemMessage, items[0].Kind)
		assert.Equal(t, RoleSystem, items[0].Role)
		assert.Equal(t, ContentInput, items[0].Content)

		assert.Equal(t, ItemToolCall, items[2].Kind)
		require.NotNil(t, items[2].ToolCall)
		assert.Equal(t, "add", items[2].ToolCall.Name)

		assert.Equal(t, ItemToolResult, items[3].Kind)
		require.NotNil(t, items[3].ToolResult)
		assert.Equal(t, "8", items[3].ToolResult.Output)

		assert.Equal(t, ContentOutput, items[4].Content)
		assert.Equal(t, RoleAssistant, items[4].Role)
	})

	t.Run("should drop tool records on clean and keep statements", func(t *testing.T) {
		h := NewHistory()
		h.AppendStatement(RoleUser, "hi")
		h.AppendToolCall(ToolCallRecord{CallID: "c1", Name: "noop"})
		h.AppendToolResult(ToolResultRecord{CallID: "c1", Output: ""})
		h.AppendStatement(RoleAssistant, "hello")

		h.Clean()

		require.Len(t, h.Entries(), 2)
		assert.Equal(t, 2, h.StatementCount())
		for _, e := range h.Entries() {
			_, ok := e.(Statement)
			assert.True(t, ok)
		}
	})
}

func TestSessionHistory(t *testing.T) {
	profiles := map[string]string{
		"Alice": "An optimist.",
		"Bob":   "A skeptic.",
	}

	t.Run("should tag statements with the current owner", func(t *testing.T) {
		s := NewSessionHistory("Decide lunch.", profiles)
		s.SetOwner("Alice")
		s.AppendStatement(RoleAssistant, "Pizza?")
		s.SetOwner("Bob")
		s.AppendStatement(RoleAssistant, "Too greasy.")

		statements := s.Statements()
		require.Len(t, statements, 2)
		assert.Equal(t, "Alice", statements[0].Whose)
		assert.Equal(t, "Bob", statements[1].Whose)
	})

	t.Run("should render foreign statements as attributed user speech", func(t *testing.T) {
		s := NewSessionHistory("Decide lunch.", profiles)
		s.SetOwner("Alice")
		s.AppendStatement(RoleAssistant, "Pizza?")
		s.SetOwner("Bob")

		items := s.ProjectForModel()
		require.Len(t, items, 2)

		// Preamble first, addressed to the current owner.
		assert.Equal(t, RoleSystem, items[0].Role)
		assert.Contains(t, items[0].Text, "Your name is Bob.")
		assert.Contains(t, items[0].Text, "Decide lunch.")
		assert.Contains(t, items[0].Text, "- Alice: An optimist.")
		assert.Contains(t, items[0].Text, "- Bob: A skeptic.")

		// Alice's assistant turn becomes user speech for Bob, never an
		// assistant item.
		assert.Equal(t, RoleUser, items[1].Role)
		assert.Equal(t, "(Alice): Pizza?", items[1].Text)
	})

	t.Run("should keep own statements first person", func(t *testing.T) {
		s := NewSessionHistory("Decide lunch.", profiles)
		s.SetOwner("Alice")
		s.AppendStatement(RoleAssistant, "Pizza?")

		items := s.ProjectForModel()
		require.Len(t, items, 2)
		assert.Equal(t, RoleAssistant, items[1].Role)
		assert.Equal(t, "Pizza?", items[1].Text)
		assert.Equal(t, ContentOutput, items[1].Content)
	})

	t.Run("should omit foreign system statements", func(t *testing.T) {
		s := NewSessionHistory("Decide lunch.", profiles)
		s.SetOwner("Alice")
		s.AppendStatement(RoleSystem, "Alice, push for pizza.")
		s.SetOwner("Bob")

		items := s.ProjectForModel()
		require.Len(t, items, 1)
		assert.Equal(t, RoleSystem, items[0].Role)
		assert.NotContains(t, items[0].Text, "push for pizza")
	})

	t.Run("should clean tool records when ownership changes", func(t *testing.T) {
		s := NewSessionHistory("Decide lunch.", profiles)
		s.SetOwner("Alice")
		s.AppendToolCall(ToolCallRecord{CallID: "c1", Name: "search"})
		s.AppendToolResult(ToolResultRecord{CallID: "c1", Output: "results"})
		s.AppendStatement(RoleAssistant, "Found some options.")

		s.SetOwner("Bob")

		assert.Equal(t, 1, s.StatementCount())
		assert.Len(t, s.Entries(), 1)
	})

	t.Run("should project for another participant without mutating", func(t *testing.T) {
		s := NewSessionHistory("Decide lunch.", profiles)
		s.SetOwner("Alice")
		s.AppendToolCall(ToolCallRecord{CallID: "c1", Name: "search"})
		s.AppendToolResult(ToolResultRecord{CallID: "c1", Output: "results"})
		s.AppendStatement(RoleAssistant, "Pizza?")

		items := s.ProjectFor("Bob")
		assert.Contains(t, items[0].Text, "Your name is Bob.")

		// Alice still owns the record, tool entries included.
		assert.Equal(t, "Alice", s.Owner())
		assert.Len(t, s.Entries(), 3)
	})

	t.Run("should finish at the statement cutoff, not before", func(t *testing.T) {
		s := NewSessionHistory("Decide lunch.", profiles)
		s.SetOwner("Alice")
		for i := 0; i < DefaultTurnLimit-1; i++ {
			s.AppendStatement(RoleAssistant, "more")
		}
		assert.False(t, s.IsFinished())

		s.AppendStatement(RoleAssistant, "enough")
		assert.True(t, s.IsFinished())
	})

	t.Run("should count only statements toward the cutoff", func(t *testing.T) {
		s := NewSessionHistory("Decide lunch.", profiles, WithTurnLimit(2))
		s.SetOwner("Alice")
		s.AppendStatement(RoleAssistant, "one")
		s.AppendToolCall(ToolCallRecord{CallID: "c1", Name: "search"})
		s.AppendToolResult(ToolResultRecord{CallID: "c1", Output: "x"})

		assert.False(t, s.IsFinished())

		s.AppendStatement(RoleAssistant, "two")
		assert.True(t, s.IsFinished())
	})
}
