package conversation

// Role identifies who a statement is attributed to.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Statement is a single conversational turn. Whose carries the speaking
// participant's identity and is only meaningful in multi-agent sessions.
type Statement struct {
	Role    Role
	Content string
	Whose   string
}

// ToolCallRecord is a provider-issued tool invocation request that must be
// replayed verbatim on subsequent model rounds. It captures exactly the
// fields the replay step needs.
type ToolCallRecord struct {
	CallID    string
	Name      string
	Arguments map[string]any
}

// ToolResultRecord is the textual outcome of a dispatched tool call,
// correlated to the originating invocation.
type ToolResultRecord struct {
	CallID string
	Output string
}

// Entry is one element of a history: a statement or one of the two
// provider-tagged tool records. The set is closed.
type Entry interface {
	isEntry()
}

func (Statement) isEntry()        {}
func (ToolCallRecord) isEntry()   {}
func (ToolResultRecord) isEntry() {}
