package conversation

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultTurnLimit is the bounded-turn session cutoff: once this many
// statements have accumulated (after Clean) the session is considered
// finished. A coarse policy, not a semantic end-of-discussion detector.
const DefaultTurnLimit = 8

// SessionHistory is a History shared by several agents. It tags every
// appended statement with the current owner and renders the record from the
// owner's first-person perspective.
type SessionHistory struct {
	History

	whose     string
	purpose   string
	profiles  map[string]string
	turnLimit int
}

// SessionOption adjusts session history construction.
type SessionOption func(*SessionHistory)

// WithTurnLimit overrides the statement-count cutoff.
func WithTurnLimit(n int) SessionOption {
	return func(s *SessionHistory) {
		if n > 0 {
			s.turnLimit = n
		}
	}
}

// NewSessionHistory creates a shared history for a discussion with the given
// purpose. profiles maps each participant identity to its role description.
func NewSessionHistory(purpose string, profiles map[string]string, opts ...SessionOption) *SessionHistory {
	s := &SessionHistory{
		purpose:   purpose,
		profiles:  profiles,
		turnLimit: DefaultTurnLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetOwner hands the history to a new owner. Entries only the previous
// owner may see (tool bookkeeping) are removed at the boundary.
func (s *SessionHistory) SetOwner(whose string) {
	s.whose = whose
	s.Clean()
}

// Owner returns the identity currently holding the history.
func (s *SessionHistory) Owner() string {
	return s.whose
}

// Purpose returns the session goal text.
func (s *SessionHistory) Purpose() string {
	return s.purpose
}

// AppendStatement appends a statement tagged with the current owner.
func (s *SessionHistory) AppendStatement(role Role, content string) {
	s.appendOwnedStatement(role, content, s.whose)
}

// IsFinished reports whether the bounded-turn cutoff has been reached. It
// cleans the history first so only statements are counted.
func (s *SessionHistory) IsFinished() bool {
	s.Clean()
	return s.StatementCount() >= s.turnLimit
}

// Statements returns the statement entries in order.
func (s *SessionHistory) Statements() []Statement {
	out := make([]Statement, 0, len(s.entries))
	for _, e := range s.entries {
		if st, ok := e.(Statement); ok {
			out = append(out, st)
		}
	}
	return out
}

// ProjectForModel renders the shared record from the current owner's
// perspective: a synthesized system preamble first, own statements as-is,
// foreign statements re-tagged as user speech prefixed with the speaker's
// identity, and foreign system statements omitted entirely.
func (s *SessionHistory) ProjectForModel() []Item {
	return s.ProjectFor(s.whose)
}

// ProjectFor renders the record from an arbitrary participant's perspective
// without transferring ownership. Speaker-selection probes use this so they
// never clean or re-tag the shared history.
func (s *SessionHistory) ProjectFor(whose string) []Item {
	items := make([]Item, 0, len(s.entries)+1)
	items = append(items, Item{
		Kind:    ItemMessage,
		Role:    RoleSystem,
		Content: ContentInput,
		Text:    s.preambleFor(whose),
	})
	for _, e := range s.entries {
		st, ok := e.(Statement)
		if !ok {
			items = append(items, projectEntry(e))
			continue
		}
		if st.Whose == whose {
			items = append(items, projectEntry(e))
			continue
		}
		if st.Role == RoleSystem {
			// Another agent's instructions must never surface here.
			continue
		}
		items = append(items, Item{
			Kind:    ItemMessage,
			Role:    RoleUser,
			Content: ContentInput,
			Text:    fmt.Sprintf("(%s): %s", st.Whose, st.Content),
		})
	}
	return items
}

func (s *SessionHistory) preambleFor(whose string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are participating in a discussion session. Your name is %s.\n", whose)
	fmt.Fprintf(&b, "The purpose of this session is:\n%s\n\n", s.purpose)
	b.WriteString("The profiles of the participants are as follows:\n")
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %s\n", name, s.profiles[name])
	}
	return b.String()
}
