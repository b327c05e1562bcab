package advisor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/jonathan/career-guide/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatModel returns scripted replies and records every request.
type chatModel struct {
	mu       sync.Mutex
	replies  []*schema.Message
	err      error
	requests [][]*schema.Message
}

func (m *chatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, input)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.replies) == 0 {
		return schema.AssistantMessage("done", nil), nil
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

func (m *chatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// toolChatModel adds tool binding to chatModel.
type toolChatModel struct {
	*chatModel
	bound []*schema.ToolInfo
}

func (m *toolChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	m.bound = tools
	return m, nil
}

func toolCall(name, args string) *schema.Message {
	return schema.AssistantMessage("", []schema.ToolCall{{
		ID:       "call_1",
		Type:     "function",
		Function: schema.FunctionCall{Name: name, Arguments: args},
	}})
}

func contents(msgs []*schema.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

var elicitation = []llm.Message{
	{Role: llm.RoleAssistant, Content: "Hi! What is your age?"},
	{Role: llm.RoleUser, Content: "I'm 22 and studying physics"},
	{Role: llm.RoleSystem, Content: "ignored"},
}

func lineScanner(input string) *bufio.Scanner {
	return bufio.NewScanner(strings.NewReader(input))
}

func TestAdvisor_FallbackChat(t *testing.T) {
	m := &chatModel{replies: []*schema.Message{schema.AssistantMessage("Consider solar.", nil)}}
	a, err := New(context.Background(), Config{Model: m, SystemPrompt: "You are a professor.", History: elicitation})
	require.NoError(t, err)
	assert.False(t, a.UsesTools())

	reply, err := a.Reply(context.Background(), "What should I study?")

	require.NoError(t, err)
	assert.Equal(t, "Consider solar.", reply)
	require.Len(t, m.requests, 1)
	req := m.requests[0]
	require.Len(t, req, 4)
	assert.Equal(t, schema.System, req[0].Role)
	assert.Equal(t, "Hi! What is your age?", req[1].Content)
	assert.Equal(t, "I'm 22 and studying physics", req[2].Content)
	assert.Equal(t, "What should I study?", req[3].Content)

	history := a.History()
	require.Len(t, history, 4)
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "Consider solar."}, history[3])
}

func TestAdvisor_FallbackAnswersJobSearches(t *testing.T) {
	m := &chatModel{}
	var queries []string
	jobs := RunnerFunc(func(_ context.Context, q string) string {
		queries = append(queries, q)
		return "Found 1 job listings for 'solar' in 'Ohio':"
	})
	a, err := New(context.Background(), Config{Model: m, JobSearch: jobs})
	require.NoError(t, err)

	_, err = a.Reply(context.Background(), "search for solar jobs in Ohio")
	require.NoError(t, err)
	_, err = a.Reply(context.Background(), "what is a heat pump?")
	require.NoError(t, err)

	assert.Equal(t, []string{"search for solar jobs in Ohio"}, queries)
	assert.Contains(t, contents(m.requests[0]), "Job search results:\nFound 1 job listings")
	assert.NotContains(t, contents(m.requests[1]), "Job search results")
}

func TestAdvisor_ReactAgentCallsTools(t *testing.T) {
	m := &toolChatModel{chatModel: &chatModel{replies: []*schema.Message{
		toolCall(DocumentRetrieverName, `{"query":"solar installer training"}`),
		schema.AssistantMessage("Start with a NABCEP course.", nil),
	}}}
	var queries []string
	retriever := RunnerFunc(func(_ context.Context, q string) string {
		queries = append(queries, q)
		return "[Document 1]\nSolar installers train for 6 months."
	})

	a, err := New(context.Background(), Config{
		Model:        m,
		Tools:        []tool.BaseTool{NewDocumentRetrieverTool(retriever)},
		SystemPrompt: "You are a professor.",
		History:      elicitation,
	})
	require.NoError(t, err)
	require.True(t, a.UsesTools())

	reply, err := a.Reply(context.Background(), "How do I become a solar installer?")

	require.NoError(t, err)
	assert.Equal(t, "Start with a NABCEP course.", reply)
	assert.Equal(t, []string{"solar installer training"}, queries)
	require.Len(t, m.bound, 1)
	assert.Equal(t, DocumentRetrieverName, m.bound[0].Name)

	require.Len(t, m.requests, 2)
	assert.Equal(t, schema.System, m.requests[0][0].Role)
	assert.Contains(t, contents(m.requests[1]), "Solar installers train for 6 months.")

	// Tool traffic stays out of the conversation memory.
	assert.Len(t, a.History(), 4)
}

func TestAdvisor_StepErrorApologises(t *testing.T) {
	m := &chatModel{err: errors.New("rate limited")}
	a, err := New(context.Background(), Config{Model: m, History: elicitation})
	require.NoError(t, err)

	reply, done := a.Step(context.Background(), "hello")

	assert.Equal(t, ApologyMessage, reply)
	assert.False(t, done)
	assert.Len(t, a.History(), 2)
}

func TestAdvisor_StepEmptyReplyApologises(t *testing.T) {
	m := &chatModel{replies: []*schema.Message{schema.AssistantMessage("  ", nil)}}
	a, err := New(context.Background(), Config{Model: m})
	require.NoError(t, err)

	reply, _ := a.Step(context.Background(), "hello")
	assert.Equal(t, ApologyMessage, reply)
}

func TestAdvisor_StepExit(t *testing.T) {
	a, err := New(context.Background(), Config{Model: &chatModel{}})
	require.NoError(t, err)

	for _, word := range []string{"exit", "END", "Exit"} {
		reply, done := a.Step(context.Background(), word)
		assert.Equal(t, GoodbyeMessage, reply)
		assert.True(t, done)
	}
	for _, word := range []string{"bye", " exit ", "exit now"} {
		_, done := a.Step(context.Background(), word)
		assert.False(t, done, word)
	}
}

func TestAdvisor_Run(t *testing.T) {
	m := &chatModel{replies: []*schema.Message{schema.AssistantMessage("Wind is booming.", nil)}}
	a, err := New(context.Background(), Config{Model: m})
	require.NoError(t, err)

	var out bytes.Buffer
	err = a.Run(context.Background(), lineScanner("tell me about wind\nexit\n"), &out)

	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, WelcomeMessage)
	assert.Contains(t, text, "Wind is booming.")
	assert.True(t, strings.HasSuffix(text, GoodbyeMessage+"\n"))
}

func TestAdvisor_RunEOF(t *testing.T) {
	a, err := New(context.Background(), Config{Model: &chatModel{}})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, a.Run(context.Background(), lineScanner(""), &out))
	assert.True(t, strings.HasSuffix(out.String(), GoodbyeMessage+"\n"))
}

func TestAdvisor_RunCancelled(t *testing.T) {
	a, err := New(context.Background(), Config{Model: &chatModel{}})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = a.Run(ctx, lineScanner("hi\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_RequiresModel(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}
