package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jonathan/career-guide/internal/advisor"
	"github.com/jonathan/career-guide/internal/dialogue"
	"github.com/jonathan/career-guide/internal/extraction"
	"github.com/jonathan/career-guide/internal/llm"
	"github.com/jonathan/career-guide/internal/observability"
	"github.com/jonathan/career-guide/internal/templates"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client, err := newCompletionClient(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	loop := dialogue.NewLoop(extraction.New(client, extraction.WithLogger(logger)), dialogue.WithLogger(logger))
	// both phases read from one scanner so input buffered by the first is not lost
	result, err := loop.Run(ctx, scanner, out)
	if err != nil || result.State != dialogue.Complete {
		return err
	}

	registry, err := templates.Builtin(logger)
	if err != nil {
		return err
	}
	tmpl, _ := registry.Select(result.Profile)
	if appConfig.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintProfile(result.Profile)
		printer.PrintCorrections(result.Corrections)
		printer.PrintTemplate(tmpl)
	}

	adv, err := newSessionAdvisor(ctx, result, tmpl)
	if err != nil {
		return err
	}
	return adv.Run(ctx, scanner, out)
}

// newSessionAdvisor builds the advisor for a completed elicitation.
func newSessionAdvisor(ctx context.Context, result *dialogue.Result, tmpl *templates.Template) (*advisor.Advisor, error) {
	system, err := advisor.SystemPrompt(result.Profile, tmpl)
	if err != nil {
		return nil, err
	}

	settings := appConfig.AdvisorSettings()
	chatModel, err := llm.NewChatModel(ctx, settings, appConfig.ResolveAPIKey(), settings.GetModel(llm.TierAdvanced))
	if err != nil {
		return nil, fmt.Errorf("failed to create advisor model: %w", err)
	}

	tools, err := newAdvisorTools(ctx, appConfig, logger)
	if err != nil {
		return nil, err
	}
	if tools.retriever == nil {
		logger.Warn("no knowledge document configured, DocumentRetriever disabled")
	}

	return advisor.New(ctx, advisor.Config{
		Model:        chatModel,
		Tools:        tools.list(),
		SystemPrompt: system,
		History:      result.History,
		MaxSteps:     appConfig.Advisor.MaxSteps,
		JobSearch:    tools.jobs,
		Logger:       logger.With(zap.String("session_id", result.SessionID)),
	})
}
