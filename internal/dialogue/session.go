// Package dialogue runs the profile elicitation conversation: it reads user turns,
// applies corrections and extracted values to the profile, and stops once the
// profile is complete or the user leaves.
package dialogue

import (
	"github.com/google/uuid"
	"github.com/jonathan/career-guide/internal/llm"
	"github.com/jonathan/career-guide/internal/profile"
)

// Fixed assistant messages.
const (
	GreetingMessage = "Hi! I'm your Clean Energy Career Guidance Assistant 😊.\n" +
		"Before we begin our formal consultation today, I need to gather some of your personal information. " +
		"This will help me provide you with more professional career guidance and planning!"
	FarewellMessage    = "No worries! Feel free to come back anytime. Take care!"
	CompletionMessage  = "Thank you for sharing your information! We'll now match you with a professional clean energy career advisor 😊."
	ClarifyMessage     = "I'm having trouble understanding. Could you rephrase that?"
	ReassuranceMessage = "I'm listening carefully. Could you help me understand more about your background?"
	DefaultResponse    = "Could you tell me more?"
	correctionAckFmt   = "I see you want to change your %s. Let me help you with that."
)

// exitWords end the conversation when typed on their own.
var exitWords = map[string]bool{
	"exit":    true,
	"end":     true,
	"bye":     true,
	"goodbye": true,
}

// State is the dialogue loop state.
type State int

// Dialogue states. Complete and Aborted are terminal.
const (
	Collecting State = iota
	Complete
	Aborted
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Complete:
		return "complete"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further turns are accepted.
func (s State) Terminal() bool { return s != Collecting }

// Session owns the mutable state of one conversation. Sessions are never shared
// between conversations.
type Session struct {
	ID          string
	Profile     *profile.Profile
	History     []llm.Message
	Corrections *profile.CorrectionLog
}

// NewSession returns a session with an empty profile, history and correction log.
func NewSession() *Session {
	return &Session{
		ID:          uuid.NewString(),
		Profile:     profile.New(),
		Corrections: &profile.CorrectionLog{},
	}
}

func (s *Session) appendUser(content string) {
	s.History = append(s.History, llm.Message{Role: llm.RoleUser, Content: content})
}

func (s *Session) appendAssistant(content string) {
	s.History = append(s.History, llm.Message{Role: llm.RoleAssistant, Content: content})
}

// Result is handed to the caller once the loop reaches a terminal state.
type Result struct {
	SessionID   string
	State       State
	Profile     *profile.Profile
	History     []llm.Message
	Corrections []profile.CorrectionEntry
}
