package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ludo-technologies/citescan/app"
	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/config"
	"github.com/ludo-technologies/citescan/service"
	"github.com/spf13/cobra"
)

const defaultHTMLReport = "citescan-report.html"

var (
	outputFormat    string
	configPath      string
	jsonOutput      bool
	htmlOutput      bool
	outputPath      string
	inputFormat     string
	sortBy          string
	noProgress      bool
	showDetails     bool
	topGaps         int
	excludePatterns []string
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [path...]",
		Short: "Score markdown and HTML files for citability",
		Long: `Score markdown and HTML files against the citation pattern library.

Directories are walked for .md, .markdown, .html and .htm files. Each file gets a
0-100 score, a letter grade, anti-pattern penalties and its most valuable gaps.

Examples:
  citescan score docs/
  citescan score --json README.md
  citescan score --html -o report.html site/
  citescan score --input-format html page.txt
  citescan score --sort path --top-gaps -1 docs/`,
		RunE: runScore,
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text",
		"Output format: text, json, yaml, html")
	cmd.Flags().BoolVar(&jsonOutput, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().BoolVar(&htmlOutput, "html", false,
		"Output results as HTML (shorthand for --format html)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Output file path (default: "+defaultHTMLReport+" for HTML)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "",
		"Force the content format: markdown, html (default: by file extension)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVar(&sortBy, "sort", "score",
		"Sort files by: score, path, gaps")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false,
		"Disable the progress bar")
	cmd.Flags().BoolVar(&showDetails, "details", false,
		"Show per-pattern scores in text output")
	cmd.Flags().IntVar(&topGaps, "top-gaps", config.DefaultTopGaps,
		"Number of gaps to show per file (-1 = all)")
	cmd.Flags().StringSliceVar(&excludePatterns, "exclude", nil,
		"Additional gitignore-style exclude patterns")

	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	cfg, err := config.LoadConfigWithTarget(configPath, args[0])
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg.LogLevel, false)

	loader := service.NewConfigurationLoader()
	override := &domain.ScoreRequest{
		Paths:        args,
		InputFormat:  inputFormat,
		OutputWriter: cmd.OutOrStdout(),
		OutputPath:   outputPath,
		ShowDetails:  showDetails,
		ConfigPath:   configPath,
	}
	switch {
	case jsonOutput:
		override.OutputFormat = domain.OutputFormatJSON
	case htmlOutput:
		override.OutputFormat = domain.OutputFormatHTML
	case cmd.Flags().Changed("format"):
		override.OutputFormat = domain.OutputFormat(outputFormat)
	}
	if cmd.Flags().Changed("sort") {
		override.SortBy = domain.SortCriteria(sortBy)
	}
	if cmd.Flags().Changed("top-gaps") {
		override.TopGaps = topGaps
	}

	req := loader.MergeConfig(loader.FromConfig(cfg), override)
	if len(excludePatterns) > 0 {
		req.ExcludePatterns = append(append([]string{}, req.ExcludePatterns...), excludePatterns...)
	}
	if req.OutputFormat == "" {
		req.OutputFormat = domain.OutputFormatText
	}
	if err := loader.ValidateConfig(req); err != nil {
		return err
	}
	if req.OutputFormat == domain.OutputFormatHTML && req.OutputPath == "" {
		req.OutputPath = defaultHTMLReport
	}

	// Progress is drawn on stderr and only for human-readable output
	pm := service.NewProgressManager(!noProgress && req.OutputFormat == domain.OutputFormatText)
	defer pm.Close()

	svc := newScoringService(cfg, logger, pm, "Scoring documents")
	uc, err := app.NewScoreUseCaseBuilder().
		WithService(svc).
		WithFormatter(service.NewOutputFormatterFromRequest(*req)).
		Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := uc.Execute(ctx, *req); err != nil {
		return err
	}

	if req.OutputPath != "" {
		displayPath := req.OutputPath
		if absPath, err := filepath.Abs(req.OutputPath); err == nil {
			displayPath = absPath
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to: %s\n", displayPath)
	}

	return nil
}

// newScoringService wires the engine, validator and executor of a configuration
func newScoringService(cfg *config.Config, logger *slog.Logger, pm domain.ProgressManager, description string) *service.ScoringServiceImpl {
	engine := service.NewEngineFromConfig(cfg, logger)
	validator := service.NewContentValidator(&cfg.Limits)
	executor := service.NewParallelExecutorWithProgress(&cfg.Performance, pm)
	executor.SetDescription(description)
	return service.NewScoringService(engine, validator, executor, logger)
}
