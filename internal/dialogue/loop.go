package dialogue

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-guide/internal/extraction"
	"github.com/jonathan/career-guide/internal/llm"
	"github.com/jonathan/career-guide/internal/profile"
	"go.uber.org/zap"
)

// Terminal prefixes used by Run.
const (
	AssistantPrefix = "💬 Chatbot: "
	UserPrompt      = "🧑‍💻 You: "
)

// Extractor reads profile information out of a user turn.
type Extractor interface {
	Extract(ctx context.Context, req extraction.Request) (*extraction.Reply, error)
}

// Loop is the elicitation state machine for a single session.
type Loop struct {
	extractor   Extractor
	interpreter *profile.CorrectionInterpreter
	session     *Session
	state       State
	started     bool
	logger      *zap.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSession runs the loop over an existing session.
func WithSession(s *Session) Option {
	return func(l *Loop) { l.session = s }
}

// WithCorrectionInterpreter replaces the default correction vocabulary.
func WithCorrectionInterpreter(ci *profile.CorrectionInterpreter) Option {
	return func(l *Loop) { l.interpreter = ci }
}

// NewLoop returns a loop in the Collecting state over a fresh session.
func NewLoop(extractor Extractor, opts ...Option) *Loop {
	l := &Loop{
		extractor:   extractor,
		interpreter: profile.NewCorrectionInterpreter(),
		state:       Collecting,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.session == nil {
		l.session = NewSession()
	}
	l.logger = l.logger.With(zap.String("session_id", l.session.ID))
	return l
}

// State returns the current state.
func (l *Loop) State() State { return l.state }

// Session returns the session the loop mutates.
func (l *Loop) Session() *Session { return l.session }

// Start records and returns the greeting. Later calls return nothing.
func (l *Loop) Start() []string {
	if l.started {
		return nil
	}
	l.started = true
	l.session.appendAssistant(GreetingMessage)
	return []string{GreetingMessage}
}

// Step processes one user utterance and returns the assistant messages to show,
// in order. Steps after a terminal state are ignored.
func (l *Loop) Step(ctx context.Context, input string) (replies []string) {
	if l.state.Terminal() {
		return nil
	}
	replies = append(replies, l.Start()...)

	if exitWords[strings.ToLower(input)] {
		l.state = Aborted
		l.logger.Debug("user left the conversation")
		return append(replies, FarewellMessage)
	}

	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("turn failed", zap.Any("panic", r))
			l.session.appendAssistant(ReassuranceMessage)
			replies = append(replies, ReassuranceMessage)
		}
	}()

	s := l.session
	if slot, value, ok := l.interpreter.Interpret(input, s.Profile, s.Corrections, len(s.History)); ok {
		input = profile.Instruction(slot, value)
		replies = append(replies, fmt.Sprintf(correctionAckFmt, slot))
		l.logger.Debug("correction requested", zap.String("slot", string(slot)), zap.String("value", value))
	}

	s.appendUser(input)

	reply, err := l.extractor.Extract(ctx, extraction.Request{
		Profile:     s.Profile,
		History:     s.History,
		Input:       input,
		Corrections: s.Corrections.Entries(),
	})
	if err != nil {
		var eErr *extraction.Error
		if !errors.As(err, &eErr) {
			l.logger.Error("turn failed", zap.Error(err))
			s.appendAssistant(ReassuranceMessage)
			return append(replies, ReassuranceMessage)
		}
		l.logger.Warn("extraction failed", zap.String("kind", string(eErr.Kind)), zap.Error(err))
		s.appendAssistant(ClarifyMessage)
		return append(replies, ClarifyMessage)
	}

	for _, r := range s.Profile.Apply(reply.Info) {
		l.logger.Debug("extracted value rejected", zap.Stringer("rejection", r))
	}

	if s.Profile.IsComplete() {
		l.state = Complete
		s.appendAssistant(CompletionMessage)
		l.logger.Debug("profile complete", zap.Int("turns", len(s.History)))
		return append(replies, CompletionMessage)
	}

	response := reply.Response
	if response == "" {
		response = DefaultResponse
	}
	if reply.NextStep != "" {
		response += " " + reply.NextStep
	}
	s.appendAssistant(response)
	l.logger.Debug("turn processed", zap.String("state", l.state.String()), zap.Int("turns", len(s.History)))
	return append(replies, response)
}

// Abort ends the conversation as if the user had typed an exit word.
func (l *Loop) Abort() []string {
	if l.state.Terminal() {
		return nil
	}
	l.state = Aborted
	return []string{FarewellMessage}
}

// Result snapshots the session.
func (l *Loop) Result() *Result {
	s := l.session
	history := make([]llm.Message, len(s.History))
	copy(history, s.History)
	return &Result{
		SessionID:   s.ID,
		State:       l.state,
		Profile:     s.Profile.Clone(),
		History:     history,
		Corrections: s.Corrections.Entries(),
	}
}

// Run drives the loop from scanner until it reaches a terminal state. The
// scanner is left positioned after the last line consumed, so a later phase can
// keep reading from it. End of input counts as an exit. The returned error is
// non-nil only when reading input fails or ctx is done; the result is valid
// either way.
func (l *Loop) Run(ctx context.Context, scanner *bufio.Scanner, out io.Writer) (*Result, error) {
	emit := func(msgs []string) {
		for _, m := range msgs {
			_, _ = fmt.Fprintf(out, "%s%s\n", AssistantPrefix, m)
		}
	}

	emit(l.Start())
	for !l.state.Terminal() {
		if err := ctx.Err(); err != nil {
			return l.Result(), err
		}
		_, _ = fmt.Fprint(out, UserPrompt)
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out)
			emit(l.Abort())
			return l.Result(), scanner.Err()
		}
		emit(l.Step(ctx, scanner.Text()))
	}
	return l.Result(), nil
}
