package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jonathan/career-guide/internal/llm"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	reply    string
	err      error
	messages []llm.Message
	tier     llm.ModelTier
}

func (f *fakeLLM) Complete(_ context.Context, messages []llm.Message, tier llm.ModelTier) (string, error) {
	f.messages = messages
	f.tier = tier
	return f.reply, f.err
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeLLM) Close() error                  { return nil }

func TestParseReply(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantKind Kind
		validate func(*testing.T, *Reply)
	}{
		{
			name: "plain object",
			text: `{"extracted_info": {"age": 25, "education_background": "Bachelor's"}, "response": "Thanks!", "next_step": "Which option fits you?"}`,
			validate: func(t *testing.T, r *Reply) {
				assert.Equal(t, json.Number("25"), r.Info["age"])
				assert.Equal(t, "Bachelor's", r.Info["education_background"])
				assert.Equal(t, "Thanks!", r.Response)
				assert.Equal(t, "Which option fits you?", r.NextStep)
			},
		},
		{
			name: "fenced with preamble",
			text: "```json\nSure! {\"extracted_info\": {}, \"response\": \"Hi {there}\"} trailing\n```",
			validate: func(t *testing.T, r *Reply) {
				assert.Empty(t, r.Info)
				assert.Equal(t, "Hi {there}", r.Response)
				assert.Empty(t, r.NextStep)
			},
		},
		{
			name: "fractional number stays distinguishable",
			text: `{"extracted_info": {"age": 25.5}, "response": "ok"}`,
			validate: func(t *testing.T, r *Reply) {
				assert.Equal(t, json.Number("25.5"), r.Info["age"])
			},
		},
		{
			name: "null extracted info",
			text: `{"extracted_info": null, "response": "ok"}`,
			validate: func(t *testing.T, r *Reply) {
				assert.NotNil(t, r.Info)
				assert.Empty(t, r.Info)
			},
		},
		{
			name: "prose braces before the reply",
			text: "Noted {age recorded}. {\"extracted_info\": {\"age\": 25}, \"response\": \"Thanks!\"}",
			validate: func(t *testing.T, r *Reply) {
				assert.Equal(t, json.Number("25"), r.Info["age"])
				assert.Equal(t, "Thanks!", r.Response)
			},
		},
		{name: "prose only", text: "I'm not sure what you mean.", wantKind: KindParse},
		{name: "unbalanced", text: `{"response": "ok"`, wantKind: KindParse},
		{name: "extracted info is a list", text: `{"extracted_info": [], "response": "ok"}`, wantKind: KindParse},
		{name: "response is a number", text: `{"response": 7}`, wantKind: KindParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := ParseReply(tt.text)
			if tt.wantKind != "" {
				var eErr *Error
				require.True(t, errors.As(err, &eErr), "expected *Error, got %v", err)
				assert.Equal(t, tt.wantKind, eErr.Kind)
				assert.Nil(t, reply)
				return
			}
			require.NoError(t, err)
			tt.validate(t, reply)
		})
	}
}

func TestExtract_Success(t *testing.T) {
	fake := &fakeLLM{reply: `{"extracted_info": {"occupation_status": "1"}, "response": "Got it.", "next_step": ""}`}
	c := New(fake, WithTier(llm.TierLite))

	p := profile.New()
	p.SetAge(30)
	reply, err := c.Extract(context.Background(), Request{
		Profile: p,
		History: []llm.Message{
			{Role: llm.RoleAssistant, Content: "Hi!"},
			{Role: llm.RoleUser, Content: "I'm a lawyer"},
		},
		Input: "I'm a lawyer",
	})

	require.NoError(t, err)
	assert.Equal(t, "1", reply.Info["occupation_status"])
	assert.Equal(t, llm.TierLite, fake.tier)
	require.Len(t, fake.messages, 2)
	assert.Equal(t, llm.RoleSystem, fake.messages[0].Role)
	assert.Equal(t, llm.RoleUser, fake.messages[1].Role)
}

func TestExtract_ServiceFailure(t *testing.T) {
	cause := errors.New("deadline exceeded")
	c := New(&fakeLLM{err: cause})

	_, err := c.Extract(context.Background(), Request{Input: "hello"})

	var eErr *Error
	require.True(t, errors.As(err, &eErr))
	assert.Equal(t, KindService, eErr.Kind)
	assert.ErrorIs(t, err, cause)
}

func TestExtract_GarbageReply(t *testing.T) {
	c := New(&fakeLLM{reply: "<html>502 Bad Gateway</html>"})

	_, err := c.Extract(context.Background(), Request{Input: "hello"})

	var eErr *Error
	require.True(t, errors.As(err, &eErr))
	assert.Equal(t, KindParse, eErr.Kind)
}

func TestBuildMessages_EmbedsState(t *testing.T) {
	p := profile.New()
	p.SetAge(42)
	p.SetEducation("PhD")

	msgs, err := BuildMessages(Request{
		Profile: p,
		History: []llm.Message{
			{Role: llm.RoleAssistant, Content: "Welcome"},
			{Role: llm.RoleUser, Content: "I am 42 with a PhD"},
		},
		Input: "I am 42 with a PhD",
		Corrections: []profile.CorrectionEntry{
			{Slot: profile.SlotAge, OldValue: "None", NewValue: "42", TurnIndex: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	user := msgs[1].Content
	assert.Contains(t, user, "- Age: 42")
	assert.Contains(t, user, "- Education Background: PhD")
	assert.Contains(t, user, "- Occupation Status: Not provided")
	assert.Contains(t, user, "- Working Experience: Not provided")
	assert.Contains(t, user, "Assistant: Welcome\nUser: I am 42 with a PhD")
	assert.Contains(t, user, "- Changed age from None to 42")
	assert.Contains(t, user, `"I am 42 with a PhD"`)
	assert.Contains(t, user, "DO NOT infer occupation_status or working_experience")
	assert.NotContains(t, user, "{{.")
}

func TestFormatCorrections(t *testing.T) {
	assert.Equal(t, NoCorrections, FormatCorrections(nil))

	got := FormatCorrections([]profile.CorrectionEntry{
		{Slot: profile.SlotOccupation, OldValue: "1", NewValue: "to 2"},
		{Slot: profile.SlotAge, OldValue: "30", NewValue: "31"},
	})
	assert.Equal(t, "- Changed occupation_status from 1 to to 2\n- Changed age from 30 to 31", got)
}

func TestFormatDialogue_SkipsSystem(t *testing.T) {
	got := FormatDialogue([]llm.Message{
		llm.SystemMessage("hidden"),
		llm.UserMessage("hi"),
	})
	assert.Equal(t, "User: hi", got)
}
