package conversation

// ItemKind distinguishes the projection item variants.
type ItemKind string

const (
	ItemMessage    ItemKind = "message"
	ItemToolCall   ItemKind = "tool_call"
	ItemToolResult ItemKind = "tool_result"
)

// ContentKind tags message items as model input or prior model output.
type ContentKind string

const (
	ContentInput  ContentKind = "input_text"
	ContentOutput ContentKind = "output_text"
)

// Item is one element of the provider-facing projection of a history.
type Item struct {
	Kind       ItemKind
	Role       Role
	Content    ContentKind
	Text       string
	ToolCall   *ToolCallRecord
	ToolResult *ToolResultRecord
}

// Conversation is the mutable record an agent turn operates on. Both
// History and SessionHistory satisfy it.
type Conversation interface {
	AppendStatement(role Role, content string)
	AppendToolCall(rec ToolCallRecord)
	AppendToolResult(rec ToolResultRecord)
	ProjectForModel() []Item
	Entries() []Entry
}

// History is the ordered record used inside a single agent run, tool
// bookkeeping included.
type History struct {
	entries []Entry
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// AppendStatement appends a statement with no owner tag.
func (h *History) AppendStatement(role Role, content string) {
	h.entries = append(h.entries, Statement{Role: role, Content: content})
}

func (h *History) appendOwnedStatement(role Role, content, whose string) {
	h.entries = append(h.entries, Statement{Role: role, Content: content, Whose: whose})
}

// AppendToolCall stores a provider tool invocation for later replay.
func (h *History) AppendToolCall(rec ToolCallRecord) {
	h.entries = append(h.entries, rec)
}

// AppendToolResult stores the textual result of a dispatched tool call.
func (h *History) AppendToolResult(rec ToolResultRecord) {
	h.entries = append(h.entries, rec)
}

// Clean removes every entry that is not a statement. Used when a
// conversation crosses an ownership boundary and tool bookkeeping must not
// leak to the next owner.
func (h *History) Clean() {
	kept := h.entries[:0]
	for _, e := range h.entries {
		if _, ok := e.(Statement); ok {
			kept = append(kept, e)
		}
	}
	h.entries = kept
}

// Entries returns the stored entries in order.
func (h *History) Entries() []Entry {
	return h.entries
}

// StatementCount reports how many entries are statements.
func (h *History) StatementCount() int {
	n := 0
	for _, e := range h.entries {
		if _, ok := e.(Statement); ok {
			n++
		}
	}
	return n
}

// ProjectForModel maps statements to role-tagged content items and passes
// tool records through for verbatim replay.
func (h *History) ProjectForModel() []Item {
	items := make([]Item, 0, len(h.entries))
	for _, e := range h.entries {
		items = append(items, projectEntry(e))
	}
	return items
}

func projectEntry(e Entry) Item {
	switch v := e.(type) {
	case Statement:
		return Item{Kind: ItemMessage, Role: v.Role, Content: contentKindFor(v.Role), Text: v.Content}
	case ToolCallRecord:
		rec := v
		return Item{Kind: ItemToolCall, ToolCall: &rec}
	case ToolResultRecord:
		rec := v
		return Item{Kind: ItemToolResult, ToolResult: &rec}
	}
	return Item{}
}

func contentKindFor(role Role) ContentKind {
	if role == RoleAssistant {
		return ContentOutput
	}
	return ContentInput
}
