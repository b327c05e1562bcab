package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/career-guide/internal/observability"
	"github.com/jonathan/career-guide/internal/templates"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates [id]",
	Short: "List the guidance templates, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTemplates,
}

var templatesJSON bool

func init() {
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Print templates as JSON")

	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	registry, err := templates.Builtin(logger)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		tmpl, ok := registry.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown template %q", args[0])
		}
		if templatesJSON {
			return writeJSON(cmd, tmpl)
		}
		_, _ = fmt.Fprintf(out, "%s\n%s\n\n%s\n\nSTYLE GUIDE\n%s\n\nTOOL USAGE GUIDELINES\n%s\n",
			tmpl.ID, tmpl.Name, tmpl.Description, tmpl.StyleGuide, tmpl.ToolUsageGuidelines)
		return nil
	}

	if templatesJSON {
		all := make([]*templates.Template, 0, registry.Len())
		for _, id := range registry.IDs() {
			tmpl, _ := registry.Get(id)
			all = append(all, tmpl)
		}
		return writeJSON(cmd, all)
	}
	observability.NewPrinter(out).PrintTemplates(registry)
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	return nil
}
