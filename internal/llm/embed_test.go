package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedder_OpenAIRequiresKey(t *testing.T) {
	_, err := NewEmbedder(context.Background(), DefaultOpenAIConfig(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewEmbedder_GeminiUnsupported(t *testing.T) {
	_, err := NewEmbedder(context.Background(), DefaultGeminiConfig(), "key", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported embedding provider")
}

func TestNewEmbedder_NilConfig(t *testing.T) {
	_, err := NewEmbedder(context.Background(), nil, "key", "")
	assert.Error(t, err)
}

func TestNewEmbedder_Ollama(t *testing.T) {
	e, err := NewEmbedder(context.Background(), DefaultOllamaConfig(), "", "")
	require.NoError(t, err)
	assert.NotNil(t, e)
}
