package llm

import (
	"context"
	"fmt"

	ollamaEmbed "github.com/cloudwego/eino-ext/components/embedding/ollama"
	openaiEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"
)

// Default embedding models per provider.
const (
	DefaultOpenAIEmbeddingModel = "text-embedding-3-small"
	DefaultOllamaEmbeddingModel = "nomic-embed-text"
)

// NewEmbedder creates an Eino embedder for the configured provider. Gemini has
// no embedder here; callers fall back to lexical ranking.
func NewEmbedder(ctx context.Context, config *Config, apiKey, modelName string) (embedding.Embedder, error) {
	if config == nil {
		return nil, fmt.Errorf("embedding config is required")
	}

	switch config.Provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		if modelName == "" {
			modelName = DefaultOpenAIEmbeddingModel
		}
		return openaiEmbed.NewEmbedder(ctx, &openaiEmbed.EmbeddingConfig{
			Model:  modelName,
			APIKey: apiKey,
		})

	case ProviderOllama:
		baseURL := config.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		if modelName == "" {
			modelName = DefaultOllamaEmbeddingModel
		}
		return ollamaEmbed.NewEmbedder(ctx, &ollamaEmbed.EmbeddingConfig{
			BaseURL: baseURL,
			Model:   modelName,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s (supported: openai, ollama)", config.Provider)
	}
}
