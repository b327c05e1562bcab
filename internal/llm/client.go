package llm

import (
	"context"
	"fmt"
	"strings"

	einogemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	genaisdk "google.golang.org/genai"
)

// Role tags a chat message.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    Role
	Content string
}

// SystemMessage returns a system-role message.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage returns a user-role message.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends an ordered list of messages and returns the model's text reply
	Complete(ctx context.Context, messages []Message, tier ModelTier) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderOpenAI, ProviderOllama:
		return NewEinoClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Complete sends the conversation to Gemini. System messages become the system
// instruction; the final message is sent on a chat session whose history holds
// the rest.
func (c *GeminiClient) Complete(ctx context.Context, messages []Message, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	var system []string
	var turns []Message
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	if len(turns) == 0 {
		return "", fmt.Errorf("no user message to send")
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(strings.Join(system, "\n\n"))},
		}
	}

	session := model.StartChat()
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// EinoClient implements Client over an Eino chat model (OpenAI or Ollama).
type EinoClient struct {
	models map[ModelTier]model.BaseChatModel
	config *Config
}

// NewEinoClient creates one chat model per configured tier.
func NewEinoClient(ctx context.Context, config *Config, apiKey string) (*EinoClient, error) {
	c := &EinoClient{
		models: make(map[ModelTier]model.BaseChatModel),
		config: config,
	}
	for _, tier := range []ModelTier{TierLite, TierStandard, TierAdvanced} {
		name := config.GetModel(tier)
		if name == "" {
			continue
		}
		m, err := NewChatModel(ctx, config, apiKey, name)
		if err != nil {
			return nil, err
		}
		c.models[tier] = m
	}
	if len(c.models) == 0 {
		return nil, fmt.Errorf("no models configured for provider %s", config.Provider)
	}
	return c, nil
}

// NewEinoClientFromModel wraps an existing chat model for every tier.
func NewEinoClientFromModel(m model.BaseChatModel, config *Config) *EinoClient {
	return &EinoClient{
		models: map[ModelTier]model.BaseChatModel{
			TierLite:     m,
			TierStandard: m,
			TierAdvanced: m,
		},
		config: config,
	}
}

// Complete sends the messages through the tier's chat model.
func (c *EinoClient) Complete(ctx context.Context, messages []Message, tier ModelTier) (string, error) {
	m, ok := c.models[tier]
	if !ok {
		m, ok = c.models[TierStandard]
	}
	if !ok {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	resp, err := m.Generate(ctx, ToSchemaMessages(messages))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || resp.Content == "" {
		return "", fmt.Errorf("no content in response")
	}
	return resp.Content, nil
}

// GetModel returns the model name for a tier
func (c *EinoClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; Eino chat models hold no releasable resources.
func (c *EinoClient) Close() error { return nil }

// NewChatModel creates an Eino chat model for the configured provider. Gemini
// chat models are built on the google.golang.org/genai SDK, which supports tool
// calling for the advisor.
func NewChatModel(ctx context.Context, config *Config, apiKey, modelName string) (model.BaseChatModel, error) {
	switch config.Provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		temperature := config.Temperature
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			Model:       modelName,
			APIKey:      apiKey,
			BaseURL:     config.BaseURL,
			Temperature: &temperature,
		})

	case ProviderOllama:
		baseURL := config.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   modelName,
		})

	case ProviderGemini:
		if apiKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		client, err := genaisdk.NewClient(ctx, &genaisdk.ClientConfig{
			APIKey:  apiKey,
			Backend: genaisdk.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		temperature := config.Temperature
		return einogemini.NewChatModel(ctx, &einogemini.Config{
			Client:      client,
			Model:       modelName,
			Temperature: &temperature,
		})

	default:
		return nil, fmt.Errorf("unsupported chat model provider: %s (supported: gemini, openai, ollama)", config.Provider)
	}
}

// ToSchemaMessages converts messages to Eino's schema representation.
func ToSchemaMessages(messages []Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, schema.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, nil))
		default:
			out = append(out, schema.UserMessage(m.Content))
		}
	}
	return out
}

// ValidateProvider checks if the given provider string is supported.
func ValidateProvider(p string) (Provider, error) {
	switch Provider(p) {
	case ProviderGemini, ProviderOpenAI, ProviderOllama:
		return Provider(p), nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", p)
	}
}
