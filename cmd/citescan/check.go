package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ludo-technologies/citescan/app"
	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/config"
	"github.com/ludo-technologies/citescan/service"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkMinScore   float64
	checkMinGrade   string
	checkMaxPenalty int
	checkVerbose    bool
	checkJSON       bool
	checkConfigPath string
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Fast citability gate for CI/CD pipelines",
		Long: `Score content and fail when files fall below configurable thresholds.

Exit codes:
  0 - All checks pass
  1 - Threshold(s) violated
  2 - Analysis error (file not found, unreadable or oversized content, etc.)

Examples:
  # Thresholds from citescan.yaml
  citescan check docs/

  # Require a B or better everywhere
  citescan check --min-grade B docs/

  # Fail on heavy anti-pattern penalties
  citescan check --min-score 60 --max-penalty 15 docs/

  # JSON output for machine parsing
  citescan check --json docs/`,
		RunE:          runCheck,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	cmd.Flags().Float64Var(&checkMinScore, "min-score", 0,
		"Minimum score per file (0 = no score gate)")
	cmd.Flags().StringVar(&checkMinGrade, "min-grade", "",
		"Minimum grade per file: A+, A, B, C, D, F")
	cmd.Flags().IntVar(&checkMaxPenalty, "max-penalty", 0,
		"Maximum anti-pattern penalty per file (0 = no limit)")
	cmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false,
		"Show detailed output")
	cmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output results as JSON")
	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &CheckExitError{Code: app.CheckExitError, Message: "no paths specified"}
	}

	cfg, err := config.LoadConfigWithTarget(checkConfigPath, args[0])
	if err != nil {
		return &CheckExitError{Code: app.CheckExitError, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}

	// Flags set on the command line override the config thresholds
	if cmd.Flags().Changed("min-score") {
		cfg.Check.MinScore = checkMinScore
	}
	if cmd.Flags().Changed("min-grade") {
		cfg.Check.MinGrade = checkMinGrade
	}
	if cmd.Flags().Changed("max-penalty") {
		cfg.Check.MaxPenalty = checkMaxPenalty
	}
	if err := cfg.Check.Validate(); err != nil {
		return &CheckExitError{Code: app.CheckExitError, Message: err.Error()}
	}

	logger := newLogger(cfg.LogLevel, checkVerbose)

	// Create progress manager (auto-disabled for JSON output or non-TTY/CI)
	pm := service.NewProgressManager(!checkJSON)
	defer pm.Close()

	req := service.NewConfigurationLoader().FromConfig(cfg)
	req.Paths = args

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	uc := app.NewCheckUseCase(newScoringService(cfg, logger, pm, "Checking documents"))
	result, err := uc.Execute(ctx, *req, app.ThresholdsFromConfig(&cfg.Check))
	if err != nil {
		return &CheckExitError{Code: app.CheckExitError, Message: err.Error()}
	}

	return outputCheckResult(cmd.OutOrStdout(), result, cfg.Check)
}

func outputCheckResult(w io.Writer, result *domain.CheckResult, thresholds config.CheckConfig) error {
	if checkJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return &CheckExitError{Code: app.CheckExitError, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
		}
	} else {
		outputCheckText(w, result, thresholds)
	}

	if !result.Passed {
		return &CheckExitError{Code: result.ExitCode, Message: ""}
	}
	return nil
}

func outputCheckText(w io.Writer, result *domain.CheckResult, thresholds config.CheckConfig) {
	if result.Passed {
		fmt.Fprintln(w, "PASS: All citability checks passed")
		if checkVerbose {
			fmt.Fprintf(w, "  Files checked: %d\n", result.Summary.FilesChecked)
			fmt.Fprintf(w, "  Average score: %.1f\n", result.Summary.AverageScore)
			fmt.Fprintf(w, "  Duration: %dms\n", result.Duration)
			if thresholds.MinScore > 0 {
				fmt.Fprintf(w, "  Score: checked (min: %.1f)\n", thresholds.MinScore)
			}
			if thresholds.MinGrade != "" {
				fmt.Fprintf(w, "  Grade: checked (min: %s)\n", thresholds.MinGrade)
			}
			if thresholds.MaxPenalty > 0 {
				fmt.Fprintf(w, "  Penalties: checked (max: %d)\n", thresholds.MaxPenalty)
			}
		}
		return
	}

	fmt.Fprintln(w, "FAIL: Citability check failed")
	fmt.Fprintf(w, "  Violations: %d\n", result.Summary.TotalViolations)

	for _, v := range result.Violations {
		severity := "ERROR"
		if v.Severity == "warning" {
			severity = "WARN"
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", severity, v.Category, v.Message)
		if checkVerbose && v.Location != "" {
			fmt.Fprintf(w, "         at %s\n", v.Location)
		}
	}

	if checkVerbose {
		fmt.Fprintf(w, "\nSummary:\n")
		fmt.Fprintf(w, "  Files: %d checked, %d failed\n", result.Summary.FilesChecked, result.Summary.FilesFailed)
		fmt.Fprintf(w, "  Average score: %.1f\n", result.Summary.AverageScore)
		fmt.Fprintf(w, "  Low score files: %d\n", result.Summary.LowScoreFiles)
		fmt.Fprintf(w, "  Low grade files: %d\n", result.Summary.LowGradeFiles)
		fmt.Fprintf(w, "  Penalized files: %d\n", result.Summary.PenalizedFiles)
		fmt.Fprintf(w, "  Duration: %dms\n", result.Duration)
	}
}
