package main

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/tool"
	"github.com/jonathan/career-guide/internal/advisor"
	"github.com/jonathan/career-guide/internal/config"
	"github.com/jonathan/career-guide/internal/fetch"
	"github.com/jonathan/career-guide/internal/knowledge"
	"github.com/jonathan/career-guide/internal/llm"
	"github.com/jonathan/career-guide/internal/search"
	"go.uber.org/zap"
)

// newCompletionClient returns the elicitation model client bounded by the
// configured timeout and attempt count.
func newCompletionClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (llm.Client, error) {
	settings := cfg.LLMSettings()
	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" && settings.Provider != llm.ProviderOllama {
		return nil, fmt.Errorf("API key is required for %s (set %s, %s or llm.api_key)",
			settings.Provider, config.GeminiKeyEnv, config.OpenAIKeyEnv)
	}
	client, err := llm.NewClient(ctx, settings, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return llm.NewRetryClient(client, cfg.LLM.MaxAttempts, cfg.LLM.Timeout, log), nil
}

func newReader(cfg *config.Config, log *zap.Logger) *fetch.Reader {
	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.Search.Timeout
	return fetch.NewReader(&fetch.ReaderConfig{
		Options:    opts,
		UseBrowser: cfg.Search.UseBrowser,
		Logger:     log,
	})
}

// newRetriever indexes the knowledge document. It returns nil when no document
// is configured. Embedding setup failures fall back to lexical ranking.
func newRetriever(ctx context.Context, cfg *config.Config, log *zap.Logger) (*knowledge.Retriever, error) {
	if cfg.Knowledge.Path == "" {
		return nil, nil
	}

	var embedder embedding.Embedder
	if cfg.Knowledge.Embeddings {
		e, err := llm.NewEmbedder(ctx, cfg.LLMSettings(), cfg.ResolveAPIKey(), "")
		if err != nil {
			log.Warn("embeddings unavailable, using lexical ranking", zap.Error(err))
		} else {
			embedder = e
		}
	}

	r, err := knowledge.Open(ctx, knowledge.Config{
		Path:         cfg.Knowledge.Path,
		ChunkSize:    cfg.Knowledge.ChunkSize,
		ChunkOverlap: cfg.Knowledge.ChunkOverlap,
		TopK:         cfg.Knowledge.TopK,
		Embedder:     embedder,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge document: %w", err)
	}
	return r, nil
}

// advisorTools holds the collaborators behind the advisor's tools.
type advisorTools struct {
	retriever *knowledge.Retriever
	web       *search.WebSearcher
	jobs      *search.JobSearcher
	reader    *fetch.Reader
}

func newAdvisorTools(ctx context.Context, cfg *config.Config, log *zap.Logger) (*advisorTools, error) {
	retriever, err := newRetriever(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	reader := newReader(cfg, log)
	return &advisorTools{
		retriever: retriever,
		web:       search.NewWebSearcher(reader, search.WithWebLogger(log)),
		jobs:      search.NewJobSearcher(reader, search.WithJobLogger(log)),
		reader:    reader,
	}, nil
}

// list returns the eino tools; the document retriever is left out when no
// document is loaded.
func (t *advisorTools) list() []tool.BaseTool {
	var tools []tool.BaseTool
	if t.retriever != nil {
		tools = append(tools, advisor.NewDocumentRetrieverTool(t.retriever))
	}
	return append(tools,
		advisor.NewWebSearcherTool(t.web),
		advisor.NewJobSearcherTool(t.jobs),
		advisor.NewPageReaderTool(t.reader),
	)
}
