// Package extraction asks the Completion Service to read profile information out of
// the latest user turn and turns its reply into a structured Reply.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/career-guide/internal/llm"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/prompts"
	"github.com/jonathan/career-guide/internal/schemas"
	"go.uber.org/zap"
)

// NoCorrections is rendered into the prompt when the correction log is empty.
const NoCorrections = "No corrections made"

// Request is everything one extraction call sees.
type Request struct {
	Profile     *profile.Profile
	History     []llm.Message
	Input       string
	Corrections []profile.CorrectionEntry
}

// Reply is the decoded model reply.
type Reply struct {
	Info     profile.ExtractedInfo
	Response string
	NextStep string
}

type replyEnvelope struct {
	ExtractedInfo map[string]any `json:"extracted_info"`
	Response      string         `json:"response"`
	NextStep      *string        `json:"next_step"`
}

// Client turns user input into extracted profile values.
type Client struct {
	llm    llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTier selects the model tier used for extraction.
func WithTier(tier llm.ModelTier) Option {
	return func(c *Client) { c.tier = tier }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Client that calls the given Completion Service.
func New(client llm.Client, opts ...Option) *Client {
	c := &Client{
		llm:    client,
		tier:   llm.TierStandard,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Extract sends one extraction request. Every failure is returned as *Error.
func (c *Client) Extract(ctx context.Context, req Request) (*Reply, error) {
	messages, err := BuildMessages(req)
	if err != nil {
		return nil, &Error{Kind: KindService, Message: "failed to build prompt", Cause: err}
	}

	text, err := c.llm.Complete(ctx, messages, c.tier)
	if err != nil {
		return nil, &Error{Kind: KindService, Message: "completion failed", Cause: err}
	}

	reply, err := ParseReply(text)
	if err != nil {
		c.logger.Debug("unparseable extraction reply", zap.String("reply", truncate(text, 500)))
		return nil, err
	}
	return reply, nil
}

// BuildMessages renders the system and user prompts for a request.
func BuildMessages(req Request) ([]llm.Message, error) {
	system, err := prompts.Get(prompts.ElicitationFile, "system")
	if err != nil {
		return nil, err
	}

	p := req.Profile
	if p == nil {
		p = profile.New()
	}
	display := p.Display()

	user, err := prompts.Render(prompts.ElicitationFile, "collect-profile", map[string]string{
		"Corrections":         FormatCorrections(req.Corrections),
		"Age":                 display[profile.SlotAge],
		"EducationBackground": display[profile.SlotEducation],
		"OccupationStatus":    display[profile.SlotOccupation],
		"WorkingExperience":   display[profile.SlotExperience],
		"Dialogue":            FormatDialogue(req.History),
		"UserInput":           req.Input,
	})
	if err != nil {
		return nil, err
	}

	return []llm.Message{llm.SystemMessage(system), llm.UserMessage(user)}, nil
}

// FormatCorrections renders the correction log one "- Changed ..." line per entry.
func FormatCorrections(entries []profile.CorrectionEntry) string {
	if len(entries) == 0 {
		return NoCorrections
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = "- " + e.String()
	}
	return strings.Join(lines, "\n")
}

// FormatDialogue renders the history as "User:" and "Assistant:" lines.
func FormatDialogue(history []llm.Message) string {
	var sb strings.Builder
	for _, m := range history {
		switch m.Role {
		case llm.RoleUser:
			sb.WriteString("User: ")
		case llm.RoleAssistant:
			sb.WriteString("Assistant: ")
		default:
			continue
		}
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ParseReply locates the first JSON object in a model reply, checks it against the
// reply envelope schema and decodes it. Numbers are kept as json.Number so that
// integral and fractional values stay distinguishable.
func ParseReply(text string) (*Reply, error) {
	object, err := llm.ExtractJSONObject(llm.CleanJSONBlock(text))
	if err != nil {
		return nil, &Error{Kind: KindParse, Message: "no JSON object in reply", Cause: err}
	}

	if err := schemas.Validate(schemas.ElicitationReply, []byte(object)); err != nil {
		return nil, &Error{Kind: KindParse, Message: "reply does not match envelope", Cause: err}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(object)))
	dec.UseNumber()
	var env replyEnvelope
	if err := dec.Decode(&env); err != nil {
		return nil, &Error{Kind: KindParse, Message: "failed to decode reply", Cause: err}
	}

	reply := &Reply{
		Info:     profile.ExtractedInfo(env.ExtractedInfo),
		Response: strings.TrimSpace(env.Response),
	}
	if reply.Info == nil {
		reply.Info = profile.ExtractedInfo{}
	}
	if env.NextStep != nil {
		reply.NextStep = strings.TrimSpace(*env.NextStep)
	}
	return reply, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:n], len(s))
}
