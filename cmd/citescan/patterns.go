package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/config"
	"github.com/ludo-technologies/citescan/service"
	"github.com/spf13/cobra"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the citation pattern library",
		Long: `List the citation patterns with their weights and estimated citation boost.

Weights come from the scoring section of the active configuration.

Examples:
  citescan patterns
  citescan patterns --json`,
		Args: cobra.NoArgs,
		RunE: runPatterns,
	}

	cmd.Flags().Bool("json", false, "Output the library as JSON")
	cmd.Flags().StringP("config", "c", "", "Path to config file")

	return cmd
}

func runPatterns(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	patterns := service.NewEngineFromConfig(cfg, newLogger(cfg.LogLevel, false)).Patterns()

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]any{"patterns": patterns})
	}
	return writePatternTable(cmd.OutOrStdout(), patterns)
}

func writePatternTable(w io.Writer, patterns []domain.PatternInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tWEIGHT\tBOOST")
	for _, p := range patterns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t+%d-%d%%\n",
			p.ID, p.Name, p.Category, p.Weight, p.CitationBoost.Min, p.CitationBoost.Max)
	}
	return tw.Flush()
}
