package session

import (
	"github.com/greyline-systems/honeytrap/internal/intel"
	"github.com/greyline-systems/honeytrap/internal/profile"
)

const (
	SenderScammer  = "scammer"
	SenderHoneypot = "honeypot"
)

// Message is a single entry in a session's conversation history.
type Message struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Session is the unit of persistent state for one conversation, keyed by the
// caller-assigned session id. It is mutated once per turn by the controller
// and serialized as-is by the store.
type Session struct {
	ID            string          `json:"sessionId"`
	State         State           `json:"state"`
	TurnCount     int             `json:"turnCount"`
	Persona       profile.Persona `json:"persona"`
	Intelligence  intel.Record    `json:"intelligence"`
	History       []Message       `json:"conversationHistory"`
	Reported      bool            `json:"reported"`
	ScamType      string          `json:"scamType,omitempty"`
	UsedExitLines []string        `json:"usedExitLines,omitempty"`
}

// New returns a fresh session in the initial state.
func New(id string) *Session {
	return &Session{ID: id, State: StateInit}
}

// Append adds a message to the conversation history. History is append-only;
// insertion order is the only ordering signal downstream heuristics have.
func (s *Session) Append(sender, text string, timestamp int64) {
	s.History = append(s.History, Message{Sender: sender, Text: text, Timestamp: timestamp})
}

// ScammerTexts returns the scammer-side utterances in history order.
func (s *Session) ScammerTexts() []string {
	var texts []string
	for _, m := range s.History {
		if m.Sender == SenderScammer {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

// HasUsedExitLine reports whether line was already emitted as an exit reply
// in this session.
func (s *Session) HasUsedExitLine(line string) bool {
	for _, used := range s.UsedExitLines {
		if used == line {
			return true
		}
	}
	return false
}

// MarkExitLineUsed records line so it is never emitted again for this
// session, across process restarts.
func (s *Session) MarkExitLineUsed(line string) {
	s.UsedExitLines = append(s.UsedExitLines, line)
}
