// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/jonathan/career-guide/internal/llm"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CAREER_GUIDE_LLM_PROVIDER.
const EnvPrefix = "CAREER_GUIDE"

// configName is the file searched for in "." and $HOME (career_guide.yaml, .json, ...).
const configName = "career_guide"

// Credential variables read when llm.api_key is not set.
const (
	GeminiKeyEnv = "GEMINI_API_KEY"
	OpenAIKeyEnv = "OPENAI_API_KEY"
)

// Config is the full CLI configuration.
type Config struct {
	LLM       LLMConfig       `mapstructure:"llm"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	Search    SearchConfig    `mapstructure:"search"`
	Advisor   AdvisorConfig   `mapstructure:"advisor"`
	Verbose   bool            `mapstructure:"verbose"`
}

// LLMConfig selects the Completion Service.
type LLMConfig struct {
	Provider     string        `mapstructure:"provider" validate:"oneof=gemini openai ollama"`
	Model        string        `mapstructure:"model"`
	AdvisorModel string        `mapstructure:"advisor_model"`
	BaseURL      string        `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxAttempts  int           `mapstructure:"max_attempts" validate:"min=1,max=5"`
}

// KnowledgeConfig configures the document retriever.
type KnowledgeConfig struct {
	Path         string `mapstructure:"path"`
	ChunkSize    int    `mapstructure:"chunk_size" validate:"gt=0"`
	ChunkOverlap int    `mapstructure:"chunk_overlap" validate:"gte=0,ltfield=ChunkSize"`
	TopK         int    `mapstructure:"top_k" validate:"min=1,max=50"`
	Embeddings   bool   `mapstructure:"embeddings"`
}

// SearchConfig configures the web and job search tools.
type SearchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UseBrowser bool          `mapstructure:"use_browser"`
}

// AdvisorConfig configures the advisor agent.
type AdvisorConfig struct {
	MaxSteps int `mapstructure:"max_steps" validate:"min=1,max=50"`
}

var validate = validator.New()

// Load reads configuration from defaults, an optional config file, a .env file and
// CAREER_GUIDE_* environment variables, in increasing priority. An empty path
// searches for career_guide.* in the working directory and $HOME.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", string(llm.ProviderGemini))
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.advisor_model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", llm.DefaultTimeout)
	v.SetDefault("llm.max_attempts", llm.DefaultMaxAttempts)

	v.SetDefault("knowledge.path", "")
	v.SetDefault("knowledge.chunk_size", 256)
	v.SetDefault("knowledge.chunk_overlap", 50)
	v.SetDefault("knowledge.top_k", 5)
	v.SetDefault("knowledge.embeddings", false)

	v.SetDefault("search.timeout", 20*time.Second)
	v.SetDefault("search.use_browser", false)

	v.SetDefault("advisor.max_steps", 12)
	v.SetDefault("verbose", false)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// ResolveAPIKey returns the configured key, falling back to the provider's
// conventional environment variable. Ollama needs no key.
func (c *Config) ResolveAPIKey() string {
	if c.LLM.APIKey != "" {
		return c.LLM.APIKey
	}
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderOpenAI:
		return os.Getenv(OpenAIKeyEnv)
	case llm.ProviderOllama:
		return ""
	default:
		return os.Getenv(GeminiKeyEnv)
	}
}

// LLMSettings converts the configuration into the llm package's model settings.
// model overrides every tier when set.
func (c *Config) LLMSettings() *llm.Config {
	cfg := llm.ConfigFor(llm.Provider(c.LLM.Provider))
	if c.LLM.BaseURL != "" {
		cfg.BaseURL = c.LLM.BaseURL
	}
	if c.LLM.Model != "" {
		cfg = withModelAllTiers(cfg, c.LLM.Model)
	}
	return cfg
}

// AdvisorSettings is LLMSettings with advisor_model applied when set.
func (c *Config) AdvisorSettings() *llm.Config {
	cfg := c.LLMSettings()
	if c.LLM.AdvisorModel != "" {
		cfg = withModelAllTiers(cfg, c.LLM.AdvisorModel)
	}
	return cfg
}

func withModelAllTiers(cfg *llm.Config, model string) *llm.Config {
	for _, tier := range []llm.ModelTier{llm.TierLite, llm.TierStandard, llm.TierAdvanced} {
		cfg = cfg.WithModel(tier, model)
	}
	return cfg
}
