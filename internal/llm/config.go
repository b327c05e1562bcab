// Package llm provides the chat completion clients used by the career guide.
// The elicitation dialogue and the advisor agent both talk to models through this package.
package llm

import (
	"maps"
	"time"
)

// ModelTier selects a model by how much reasoning a call needs.
type ModelTier string

const (
	// TierLite is for simple tasks: slot extraction from a single turn
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: the tool-using advisor
	TierAdvanced ModelTier = "advanced"
)

// Provider is a Completion Service backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	// ProviderOllama is a local Ollama server.
	ProviderOllama Provider = "ollama"
)

// DefaultOllamaURL is used when no base URL is configured for Ollama.
const DefaultOllamaURL = "http://localhost:11434"

// Default call bounds for the Completion Service.
const (
	DefaultTimeout     = 60 * time.Second
	DefaultMaxAttempts = 2
)

// DefaultTemperature is the sampling temperature for every provider.
const DefaultTemperature float32 = 0.7

// Config names the provider and the model used at each tier.
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	BaseURL     string
	Temperature float32
}

// providerModels are the shipped tier assignments.
var providerModels = map[Provider]map[ModelTier]string{
	ProviderGemini: {TierLite: "gemini-2.5-flash-lite", TierStandard: "gemini-2.5-flash", TierAdvanced: "gemini-2.5-pro"},
	ProviderOpenAI: {TierLite: "gpt-4o-mini", TierStandard: "gpt-4o-mini", TierAdvanced: "gpt-4o"},
	ProviderOllama: {TierLite: "llama3.1", TierStandard: "llama3.1", TierAdvanced: "llama3.1"},
}

// ConfigFor returns the default configuration for a provider. Unknown providers
// get the Gemini defaults.
func ConfigFor(p Provider) *Config {
	models, ok := providerModels[p]
	if !ok {
		p, models = ProviderGemini, providerModels[ProviderGemini]
	}
	cfg := &Config{Provider: p, Models: maps.Clone(models), Temperature: DefaultTemperature}
	if p == ProviderOllama {
		cfg.BaseURL = DefaultOllamaURL
	}
	return cfg
}

// DefaultConfig is the Gemini configuration.
func DefaultConfig() *Config { return ConfigFor(ProviderGemini) }

func DefaultGeminiConfig() *Config { return ConfigFor(ProviderGemini) }

func DefaultOpenAIConfig() *Config { return ConfigFor(ProviderOpenAI) }

func DefaultOllamaConfig() *Config { return ConfigFor(ProviderOllama) }

// GetModel returns the model for tier. A tier without a model falls back to the
// standard model and then the lite one; "" means nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c that uses model at tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := *c
	next.Models = maps.Clone(c.Models)
	if next.Models == nil {
		next.Models = make(map[ModelTier]string)
	}
	next.Models[tier] = model
	return &next
}
