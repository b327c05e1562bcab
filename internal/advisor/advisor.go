// Package advisor runs the tool-using career advisor that takes over once the
// profile is collected. The advisor is an eino ReAct agent over the document
// retriever, web search, job search and page reader tools; models without tool
// calling get a plain chat fallback.
package advisor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"github.com/jonathan/career-guide/internal/dialogue"
	"github.com/jonathan/career-guide/internal/llm"
	"github.com/jonathan/career-guide/internal/search"
	"go.uber.org/zap"
)

// Fixed advisor messages.
const (
	WelcomeMessage = "Thank you for sharing your information! I'll tailor my guidance to your needs. " +
		"How can I help with your clean energy career questions today? 😊"
	GoodbyeMessage = "Thank you for our conversation. Best of luck with your clean energy career journey!"
	ApologyMessage = "I apologize for the error. How else can I assist you?"
)

// DefaultMaxSteps bounds the agent's model and tool rounds per turn.
const DefaultMaxSteps = 12

var exitWords = map[string]bool{"exit": true, "end": true}

// Config configures an Advisor.
type Config struct {
	Model        model.BaseChatModel
	Tools        []tool.BaseTool
	SystemPrompt string
	// History seeds the conversation memory, normally the elicitation transcript.
	History  []llm.Message
	MaxSteps int
	// JobSearch answers job search requests directly when the model cannot call tools.
	JobSearch Runner
	Logger    *zap.Logger
}

// Advisor holds the agent and the conversation memory of one session.
type Advisor struct {
	chat      model.BaseChatModel
	agent     *react.Agent
	system    string
	memory    []*schema.Message
	jobSearch Runner
	logger    *zap.Logger
}

// New builds the advisor. The ReAct agent is used when the model supports tool
// calling and tools are configured.
func New(ctx context.Context, cfg Config) (*Advisor, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("advisor requires a chat model")
	}
	a := &Advisor{
		chat:      cfg.Model,
		system:    cfg.SystemPrompt,
		memory:    seedMemory(cfg.History),
		jobSearch: cfg.JobSearch,
		logger:    cfg.Logger,
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	toolCallingModel, ok := cfg.Model.(model.ToolCallingChatModel)
	if !ok || len(cfg.Tools) == 0 {
		a.logger.Info("advisor running without tools", zap.Bool("tool_calling", ok), zap.Int("tools", len(cfg.Tools)))
		return a, nil
	}

	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: toolCallingModel,
		ToolsConfig:      compose.ToolsNodeConfig{Tools: cfg.Tools},
		MaxStep:          maxSteps,
		MessageModifier: func(_ context.Context, msgs []*schema.Message) []*schema.Message {
			return a.withSystem(msgs)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create advisor agent: %w", err)
	}
	a.agent = agent
	return a, nil
}

func seedMemory(history []llm.Message) []*schema.Message {
	turns := make([]llm.Message, 0, len(history))
	for _, m := range history {
		if m.Role != llm.RoleSystem {
			turns = append(turns, m)
		}
	}
	return llm.ToSchemaMessages(turns)
}

func (a *Advisor) withSystem(msgs []*schema.Message) []*schema.Message {
	if a.system == "" {
		return msgs
	}
	return append([]*schema.Message{schema.SystemMessage(a.system)}, msgs...)
}

// UsesTools reports whether turns go through the ReAct agent.
func (a *Advisor) UsesTools() bool { return a.agent != nil }

// Reply answers one user message. Memory is extended only on success.
func (a *Advisor) Reply(ctx context.Context, input string) (string, error) {
	user := schema.UserMessage(input)
	msgs := make([]*schema.Message, 0, len(a.memory)+1)
	msgs = append(msgs, a.memory...)

	var resp *schema.Message
	var err error
	if a.agent != nil {
		resp, err = a.agent.Generate(ctx, append(msgs, user))
	} else {
		resp, err = a.chat.Generate(ctx, a.withSystem(append(msgs, a.fallbackInput(ctx, input))))
	}
	if err != nil {
		return "", err
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("advisor returned no content")
	}

	a.memory = append(a.memory, user, schema.AssistantMessage(resp.Content, nil))
	return resp.Content, nil
}

// fallbackInput attaches job listings to job search requests when the model
// cannot call the job search tool itself.
func (a *Advisor) fallbackInput(ctx context.Context, input string) *schema.Message {
	if a.jobSearch == nil || !search.IsJobSearchRequest(input) {
		return schema.UserMessage(input)
	}
	listings := a.jobSearch.Run(ctx, input)
	a.logger.Debug("answered job search request without tools")
	return schema.UserMessage(input + "\n\nJob search results:\n" + listings)
}

// Step handles one line of user input. done is true when the user left.
// Failures are logged and answered with an apology.
func (a *Advisor) Step(ctx context.Context, input string) (reply string, done bool) {
	if exitWords[strings.ToLower(input)] {
		return GoodbyeMessage, true
	}
	resp, err := a.Reply(ctx, input)
	if err != nil {
		a.logger.Warn("advisor turn failed", zap.Error(err))
		return ApologyMessage, false
	}
	return resp, false
}

// Run greets the user and answers lines from scanner until an exit word, end
// of input or ctx cancellation.
func (a *Advisor) Run(ctx context.Context, scanner *bufio.Scanner, out io.Writer) error {
	emit := func(msg string) {
		_, _ = fmt.Fprintf(out, "%s%s\n", dialogue.AssistantPrefix, msg)
	}

	emit(WelcomeMessage)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, _ = fmt.Fprint(out, dialogue.UserPrompt)
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out)
			emit(GoodbyeMessage)
			return scanner.Err()
		}
		reply, done := a.Step(ctx, scanner.Text())
		emit(reply)
		if done {
			return nil
		}
	}
}

// History returns the conversation memory as chat messages.
func (a *Advisor) History() []llm.Message {
	out := make([]llm.Message, 0, len(a.memory))
	for _, m := range a.memory {
		role := llm.RoleUser
		if m.Role == schema.Assistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out
}
