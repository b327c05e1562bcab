package main

import (
	"strings"

	"github.com/jonathan/career-guide/internal/observability"
	"github.com/jonathan/career-guide/internal/search"
	"github.com/spf13/cobra"
)

var searchWebCmd = &cobra.Command{
	Use:   "search-web <query>",
	Short: "Search the web for clean energy information",
	Long:  `Search DuckDuckGo for the query (suffixed with "clean energy industry") and print the top results as the advisor sees them.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearchWeb,
}

var searchJobsCmd = &cobra.Command{
	Use:   "search-jobs <title> [in <location>]",
	Short: "Search LinkedIn job listings",
	Long:  `Search LinkedIn's public job listings, e.g. "career_guide search-jobs solar engineer in California".`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearchJobs,
}

var (
	searchEndpoint string
	searchRecords  bool
)

func init() {
	for _, c := range []*cobra.Command{searchWebCmd, searchJobsCmd} {
		c.Flags().StringVar(&searchEndpoint, "endpoint", "", "Override the search endpoint URL")
		c.Flags().BoolVar(&searchRecords, "records", false, "Print parsed records instead of the advisor text")
		_ = c.Flags().MarkHidden("endpoint")
		rootCmd.AddCommand(c)
	}
}

func runSearchWeb(cmd *cobra.Command, args []string) error {
	opts := []search.WebOption{search.WithWebLogger(logger)}
	if searchEndpoint != "" {
		opts = append(opts, search.WithWebURL(searchEndpoint))
	}
	s := search.NewWebSearcher(newReader(appConfig, logger), opts...)
	query := strings.Join(args, " ")

	if !searchRecords {
		_, _ = cmd.OutOrStdout().Write([]byte(s.Run(cmd.Context(), query)))
		return nil
	}
	records, err := s.Search(cmd.Context(), query)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRecords("WEB RESULTS", records)
	return nil
}

func runSearchJobs(cmd *cobra.Command, args []string) error {
	opts := []search.JobOption{search.WithJobLogger(logger)}
	if searchEndpoint != "" {
		opts = append(opts, search.WithJobsURL(searchEndpoint))
	}
	s := search.NewJobSearcher(newReader(appConfig, logger), opts...)
	query := strings.Join(args, " ")

	if !searchRecords {
		_, _ = cmd.OutOrStdout().Write([]byte(s.Run(cmd.Context(), query) + "\n"))
		return nil
	}
	title, location := search.ParseJobQuery(query)
	records, err := s.Search(cmd.Context(), title, location)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRecords("JOB LISTINGS", records)
	return nil
}
