package gateway

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/conclave/pkg/conversation"
)

func newTestOpenAI(t *testing.T) *OpenAIGateway {
	t.Helper()
	gw, err := NewOpenAI(OpenAIOptions{
		APIKey: "test-key",
		Model:  "gpt-4.1-mini",
		Logger: zerolog.New(os.Stdout).Level(zerolog.Disabled),
	})
	require.NoError(t, err)
	return gw
}

func TestNewOpenAI(t *testing.T) {
	t.Run("should require an api key and model", func(t *testing.T) {
		_, err := NewOpenAI(OpenAIOptions{Model: "m"})
		assert.Error(t, err)

		_, err = NewOpenAI(OpenAIOptions{APIKey: "k"})
		assert.Error(t, err)
	})
}

func TestOpenAIBuildMessages(t *testing.T) {
	t.Run("should map statement roles one to one", func(t *testing.T) {
		gw := newTestOpenAI(t)

		messages, err := gw.buildMessages([]conversation.Item{
			{Kind: conversation.ItemMessage, Role: conversation.RoleSystem, Text: "Be brief."},
			{Kind: conversation.ItemMessage, Role: conversation.RoleUser, Text: "Hello."},
			{Kind: conversation.ItemMessage, Role: conversation.RoleAssistant, Text: "Hi."},
		})
		require.NoError(t, err)
		require.Len(t, messages, 3)
		assert.NotNil(t, messages[0].OfSystem)
		assert.NotNil(t, messages[1].OfUser)
		assert.NotNil(t, messages[2].OfAssistant)
	})

	t.Run("should coalesce consecutive tool calls into one assistant message", func(t *testing.T) {
		gw := newTestOpenAI(t)

		messages, err := gw.buildMessages([]conversation.Item{
			{Kind: conversation.ItemMessage, Role: conversation.RoleUser, Text: "Add twice."},
			{Kind: conversation.ItemToolCall, ToolCall: &conversation.ToolCallRecord{CallID: "c1", Name: "add", Arguments: map[string]any{"a": 1.0, "b": 2.0}}},
			{Kind: conversation.ItemToolCall, ToolCall: &conversation.ToolCallRecord{CallID: "c2", Name: "add", Arguments: map[string]any{"a": 3.0, "b": 4.0}}},
			{Kind: conversation.ItemToolResult, ToolResult: &conversation.ToolResultRecord{CallID: "c1", Output: "3"}},
			{Kind: conversation.ItemToolResult, ToolResult: &conversation.ToolResultRecord{CallID: "c2", Output: "7"}},
			{Kind: conversation.ItemMessage, Role: conversation.RoleAssistant, Text: "Done."},
		})
		require.NoError(t, err)

		// user, assistant(two calls), tool, tool, assistant
		require.Len(t, messages, 5)
		assert.NotNil(t, messages[0].OfUser)
		require.NotNil(t, messages[1].OfAssistant)
		assert.Len(t, messages[1].OfAssistant.ToolCalls, 2)
		require.NotNil(t, messages[2].OfTool)
		assert.Equal(t, "c1", messages[2].OfTool.ToolCallID)
		require.NotNil(t, messages[3].OfTool)
		assert.Equal(t, "c2", messages[3].OfTool.ToolCallID)
		assert.NotNil(t, messages[4].OfAssistant)
	})
}
