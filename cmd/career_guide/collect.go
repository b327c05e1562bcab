package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/jonathan/career-guide/internal/dialogue"
	"github.com/jonathan/career-guide/internal/extraction"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/templates"
	"github.com/spf13/cobra"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect a user profile through conversation and print it as JSON",
	Long:  "Run only the profile elicitation dialogue, then print the profile, the corrections made and the selected template as JSON.",
	RunE:  runCollect,
}

var collectOutputFile string

func init() {
	collectCmd.Flags().StringVarP(&collectOutputFile, "out", "o", "", "Write the JSON summary to this file instead of stdout")

	rootCmd.AddCommand(collectCmd)
}

// collectSummary is the JSON document printed by collect.
type collectSummary struct {
	SessionID   string                    `json:"session_id"`
	State       string                    `json:"state"`
	Complete    bool                      `json:"complete"`
	Profile     *profile.Profile          `json:"profile"`
	Corrections []profile.CorrectionEntry `json:"corrections"`
	TemplateID  string                    `json:"template_id,omitempty"`
}

func runCollect(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client, err := newCompletionClient(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	loop := dialogue.NewLoop(extraction.New(client, extraction.WithLogger(logger)), dialogue.WithLogger(logger))
	result, err := loop.Run(ctx, bufio.NewScanner(cmd.InOrStdin()), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	summary, err := summarize(result)
	if err != nil {
		return err
	}
	jsonBytes, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if collectOutputFile != "" {
		if err := os.WriteFile(collectOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Output: %s\n", collectOutputFile)
		return nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	return nil
}

// summarize selects a template for complete profiles.
func summarize(result *dialogue.Result) (*collectSummary, error) {
	summary := &collectSummary{
		SessionID:   result.SessionID,
		State:       result.State.String(),
		Complete:    result.State == dialogue.Complete,
		Profile:     result.Profile,
		Corrections: result.Corrections,
	}
	if summary.Corrections == nil {
		summary.Corrections = []profile.CorrectionEntry{}
	}
	if !summary.Complete {
		return summary, nil
	}

	registry, err := templates.Builtin(logger)
	if err != nil {
		return nil, err
	}
	if tmpl, ok := registry.Select(result.Profile); ok {
		summary.TemplateID = tmpl.ID
	}
	return summary, nil
}
