package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatModel struct {
	reply    string
	err      error
	received []*schema.Message
}

func (m *stubChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.received = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestToSchemaMessages(t *testing.T) {
	msgs := ToSchemaMessages([]Message{
		SystemMessage("be brief"),
		UserMessage("hello"),
		{Role: RoleAssistant, Content: "hi"},
	})

	require.Len(t, msgs, 3)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, "be brief", msgs[0].Content)
	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, schema.Assistant, msgs[2].Role)
}

func TestEinoClient_Complete(t *testing.T) {
	stub := &stubChatModel{reply: `{"response": "ok"}`}
	client := NewEinoClientFromModel(stub, DefaultOpenAIConfig())

	text, err := client.Complete(context.Background(), []Message{SystemMessage("s"), UserMessage("u")}, TierLite)

	require.NoError(t, err)
	assert.Equal(t, `{"response": "ok"}`, text)
	assert.Len(t, stub.received, 2)
	assert.Equal(t, "gpt-4o-mini", client.GetModel(TierLite))
	assert.NoError(t, client.Close())
}

func TestEinoClient_Error(t *testing.T) {
	client := NewEinoClientFromModel(&stubChatModel{err: errors.New("boom")}, DefaultOpenAIConfig())
	_, err := client.Complete(context.Background(), []Message{UserMessage("u")}, TierLite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestEinoClient_EmptyReply(t *testing.T) {
	client := NewEinoClientFromModel(&stubChatModel{}, DefaultOpenAIConfig())
	_, err := client.Complete(context.Background(), []Message{UserMessage("u")}, TierLite)
	assert.Error(t, err)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultGeminiConfig(), "")
	assert.Error(t, err)
}

func TestNewChatModel_OpenAIRequiresKey(t *testing.T) {
	_, err := NewChatModel(context.Background(), DefaultOpenAIConfig(), "", "gpt-4o-mini")
	assert.Error(t, err)
}

func TestNewChatModel_GeminiRequiresKey(t *testing.T) {
	_, err := NewChatModel(context.Background(), DefaultGeminiConfig(), "", "gemini-2.5-flash")
	assert.Error(t, err)
}

func TestNewChatModel_UnsupportedProvider(t *testing.T) {
	cfg := &Config{Provider: "anthropic"}
	_, err := NewChatModel(context.Background(), cfg, "key", "claude")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported chat model provider")
}

func TestValidateProvider(t *testing.T) {
	for _, p := range []string{"gemini", "openai", "ollama"} {
		got, err := ValidateProvider(p)
		require.NoError(t, err)
		assert.Equal(t, Provider(p), got)
	}
	_, err := ValidateProvider("anthropic")
	assert.Error(t, err)
}

type scriptedClient struct {
	replies []string
	errs    []error
	calls   int
}

func (c *scriptedClient) Complete(ctx context.Context, _ []Message, _ ModelTier) (string, error) {
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return "", c.errs[i]
	}
	if i < len(c.replies) {
		return c.replies[i], nil
	}
	<-ctx.Done()
	return "", ctx.Err()
}

func (c *scriptedClient) GetModel(ModelTier) string { return "scripted" }
func (c *scriptedClient) Close() error            { return nil }

func TestRetryClient_SucceedsOnSecondAttempt(t *testing.T) {
	inner := &scriptedClient{errs: []error{errors.New("transient")}, replies: []string{"", "done"}}
	client := NewRetryClient(inner, 2, time.Second, nil)
	client.backoff = time.Millisecond

	text, err := client.Complete(context.Background(), nil, TierLite)

	require.NoError(t, err)
	assert.Equal(t, "done", text)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, "scripted", client.GetModel(TierLite))
}

func TestRetryClient_GivesUp(t *testing.T) {
	inner := &scriptedClient{errs: []error{errors.New("one"), errors.New("two"), errors.New("three")}}
	client := NewRetryClient(inner, 2, time.Second, nil)
	client.backoff = time.Millisecond

	_, err := client.Complete(context.Background(), nil, TierLite)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Contains(t, err.Error(), "two")
	assert.Equal(t, 2, inner.calls)
}

func TestRetryClient_TimeoutPerAttempt(t *testing.T) {
	inner := &scriptedClient{}
	client := NewRetryClient(inner, 1, 10*time.Millisecond, nil)

	_, err := client.Complete(context.Background(), nil, TierLite)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
