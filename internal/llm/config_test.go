package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigFor(t *testing.T) {
	tests := []struct {
		provider Provider
		want     Provider
		lite     string
		advanced string
		baseURL  string
	}{
		{ProviderGemini, ProviderGemini, "gemini-2.5-flash-lite", "gemini-2.5-pro", ""},
		{ProviderOpenAI, ProviderOpenAI, "gpt-4o-mini", "gpt-4o", ""},
		{ProviderOllama, ProviderOllama, "llama3.1", "llama3.1", DefaultOllamaURL},
		{"something-else", ProviderGemini, "gemini-2.5-flash-lite", "gemini-2.5-pro", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			cfg := ConfigFor(tt.provider)
			assert.Equal(t, tt.want, cfg.Provider)
			assert.Equal(t, tt.lite, cfg.GetModel(TierLite))
			assert.Equal(t, tt.advanced, cfg.GetModel(TierAdvanced))
			assert.Equal(t, tt.baseURL, cfg.BaseURL)
			assert.Equal(t, DefaultTemperature, cfg.Temperature)
		})
	}
}

func TestConfigFor_ReturnsIndependentCopies(t *testing.T) {
	a := ConfigFor(ProviderOpenAI)
	a.Models[TierLite] = "mutated"

	assert.Equal(t, "gpt-4o-mini", ConfigFor(ProviderOpenAI).GetModel(TierLite))
}

func TestGetModel_Fallback(t *testing.T) {
	assert.Equal(t, "lite-only", (&Config{Models: map[ModelTier]string{TierLite: "lite-only"}}).GetModel("unknown"))
	assert.Equal(t, "std", (&Config{Models: map[ModelTier]string{TierLite: "l", TierStandard: "std"}}).GetModel(TierAdvanced))
	assert.Empty(t, (&Config{}).GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	cfg := DefaultOllamaConfig()
	cfg.Temperature = 0.2

	next := cfg.WithModel(TierAdvanced, "qwen2.5:14b")

	assert.Equal(t, "llama3.1", cfg.GetModel(TierAdvanced))
	assert.Equal(t, "qwen2.5:14b", next.GetModel(TierAdvanced))
	assert.Equal(t, "llama3.1", next.GetModel(TierLite))
	assert.Equal(t, DefaultOllamaURL, next.BaseURL)
	assert.Equal(t, float32(0.2), next.Temperature)
}

func TestWithModel_NilModels(t *testing.T) {
	next := (&Config{Provider: ProviderOpenAI}).WithModel(TierLite, "gpt-4o-mini")
	assert.Equal(t, "gpt-4o-mini", next.GetModel(TierAdvanced))
}
