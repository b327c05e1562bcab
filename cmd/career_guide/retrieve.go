package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-guide/internal/advisor"
	"github.com/jonathan/career-guide/internal/fetch"
	"github.com/jonathan/career-guide/internal/observability"
	"github.com/spf13/cobra"
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve <question>",
	Short: "Retrieve passages from the knowledge document",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRetrieve,
}

var readPageCmd = &cobra.Command{
	Use:   "read-page <url>",
	Short: "Print the main text of a web page as the advisor reads it",
	Args:  cobra.ExactArgs(1),
	RunE:  runReadPage,
}

var retrieveDocument string

func init() {
	retrieveCmd.Flags().StringVarP(&retrieveDocument, "document", "d", "", "Knowledge document (overrides knowledge.path)")

	rootCmd.AddCommand(retrieveCmd)
	rootCmd.AddCommand(readPageCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if retrieveDocument != "" {
		appConfig.Knowledge.Path = retrieveDocument
	}
	if appConfig.Knowledge.Path == "" {
		return fmt.Errorf("no knowledge document configured (set knowledge.path or use --document)")
	}

	retriever, err := newRetriever(cmd.Context(), appConfig, logger)
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")

	if appConfig.Verbose {
		passages, err := retriever.Retrieve(cmd.Context(), query)
		if err != nil {
			return err
		}
		observability.NewPrinter(cmd.ErrOrStderr()).PrintPassages(passages)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), retriever.Run(cmd.Context(), query))
	return nil
}

func runReadPage(cmd *cobra.Command, args []string) error {
	text, err := newReader(appConfig, logger).Read(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), fetch.Truncate(text, advisor.PageTextLimit))
	return nil
}
