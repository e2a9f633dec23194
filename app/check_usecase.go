package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/config"
	"github.com/ludo-technologies/citescan/internal/version"
)

// Check exit codes
const (
	CheckExitPass     = 0
	CheckExitViolated = 1
	CheckExitError    = 2
)

// CheckThresholds are the quality gates of a check run
type CheckThresholds struct {
	MinScore   float64
	MinGrade   string
	MaxPenalty int // 0 = no limit
}

// ThresholdsFromConfig converts the check section of a configuration
func ThresholdsFromConfig(cfg *config.CheckConfig) CheckThresholds {
	if cfg == nil {
		return CheckThresholds{}
	}
	return CheckThresholds{
		MinScore:   cfg.MinScore,
		MinGrade:   cfg.MinGrade,
		MaxPenalty: cfg.MaxPenalty,
	}
}

// CheckUseCase scores files and evaluates them against thresholds for CI pipelines
type CheckUseCase struct {
	score *ScoreUseCase
}

// NewCheckUseCase creates a check use case on top of a scoring service.
// Reports are never written; the caller renders the CheckResult.
func NewCheckUseCase(service domain.ScoringService) *CheckUseCase {
	return &CheckUseCase{score: NewScoreUseCase(service, nil)}
}

// Execute scores the request paths and evaluates the thresholds
func (uc *CheckUseCase) Execute(ctx context.Context, req domain.ScoreRequest, thresholds CheckThresholds) (*domain.CheckResult, error) {
	start := time.Now()

	response, err := uc.score.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	result := EvaluateCheck(response, thresholds)
	result.Duration = time.Since(start).Milliseconds()
	return result, nil
}

// EvaluateCheck evaluates a scoring response against thresholds. Files that could not be
// scored produce the error exit code; otherwise any violation fails the check.
func EvaluateCheck(response *domain.ScoreResponse, thresholds CheckThresholds) *domain.CheckResult {
	result := &domain.CheckResult{
		Passed:      true,
		ExitCode:    CheckExitPass,
		Violations:  []domain.CheckViolation{},
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
	}
	if response == nil {
		return result
	}

	minGradeRank := -1
	if thresholds.MinGrade != "" {
		minGradeRank = config.GradeRank(thresholds.MinGrade)
	}

	for _, file := range response.Files {
		if file.Failed() {
			result.Summary.FilesFailed++
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category: "analysis",
				Rule:     "scorable",
				Severity: "error",
				Message:  fmt.Sprintf("could not score file: %s", file.Error),
				Location: file.Path,
				Actual:   "error",
			})
			continue
		}

		result.Summary.FilesChecked++
		res := file.Result

		if thresholds.MinScore > 0 && res.Score < thresholds.MinScore {
			result.Summary.LowScoreFiles++
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category:  "score",
				Rule:      "min-score",
				Severity:  "error",
				Message:   fmt.Sprintf("Score %.1f is below %.1f", res.Score, thresholds.MinScore),
				Location:  file.Path,
				Actual:    strconv.FormatFloat(res.Score, 'f', 1, 64),
				Threshold: strconv.FormatFloat(thresholds.MinScore, 'f', 1, 64),
			})
		}

		// Higher rank means a worse grade
		if minGradeRank >= 0 && config.GradeRank(res.Grade) > minGradeRank {
			result.Summary.LowGradeFiles++
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category:  "grade",
				Rule:      "min-grade",
				Severity:  "error",
				Message:   fmt.Sprintf("Grade %s is below %s", res.Grade, thresholds.MinGrade),
				Location:  file.Path,
				Actual:    res.Grade,
				Threshold: thresholds.MinGrade,
			})
		}

		if thresholds.MaxPenalty > 0 && res.AntiPatternPenalties > thresholds.MaxPenalty {
			result.Summary.PenalizedFiles++
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category:  "penalty",
				Rule:      "max-penalty",
				Severity:  "warning",
				Message:   fmt.Sprintf("Anti-pattern penalties of %d exceed %d", res.AntiPatternPenalties, thresholds.MaxPenalty),
				Location:  file.Path,
				Actual:    strconv.Itoa(res.AntiPatternPenalties),
				Threshold: strconv.Itoa(thresholds.MaxPenalty),
			})
		}
	}

	result.Summary.AverageScore = response.Summary.AverageScore
	result.Summary.TotalViolations = len(result.Violations)

	switch {
	case result.Summary.FilesFailed > 0:
		result.Passed = false
		result.ExitCode = CheckExitError
	case len(result.Violations) > 0:
		result.Passed = false
		result.ExitCode = CheckExitViolated
	}

	return result
}
