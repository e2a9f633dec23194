package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"time"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/analyzer"
	"github.com/ludo-technologies/citescan/internal/parser"
	"github.com/ludo-technologies/citescan/internal/version"
)

// ScoringServiceImpl implements the ScoringService interface
type ScoringServiceImpl struct {
	engine    *analyzer.Engine
	validator *ContentValidator
	executor  *ParallelExecutorImpl
	logger    *slog.Logger
}

var _ domain.ScoringService = (*ScoringServiceImpl)(nil)

// NewScoringService creates a scoring service. Nil collaborators fall back to defaults.
func NewScoringService(engine *analyzer.Engine, validator *ContentValidator, executor *ParallelExecutorImpl, logger *slog.Logger) *ScoringServiceImpl {
	if engine == nil {
		engine = analyzer.NewEngine()
	}
	if validator == nil {
		validator = NewContentValidator(nil)
	}
	if executor == nil {
		executor = NewParallelExecutor()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoringServiceImpl{
		engine:    engine,
		validator: validator,
		executor:  executor,
		logger:    logger,
	}
}

// scoreTask scores one file into its slot of the result slice
type scoreTask struct {
	service     *ScoringServiceImpl
	path        string
	inputFormat string
	slot        *domain.FileScore
}

func (t *scoreTask) Name() string    { return t.path }
func (t *scoreTask) IsEnabled() bool { return true }

func (t *scoreTask) Execute(ctx context.Context) (interface{}, error) {
	*t.slot = t.service.ScoreFile(ctx, t.path, t.inputFormat)
	if t.slot.Failed() {
		return nil, errors.New(t.slot.Error)
	}
	return t.slot.Result, nil
}

// Score scores every path of the request. Files that fail are reported in the
// response and never abort the run.
func (s *ScoringServiceImpl) Score(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResponse, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewValidationError("no files to score")
	}
	if req.InputFormat != "" {
		if _, err := parser.ParseFormat(req.InputFormat); err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
	}

	start := time.Now()
	files := make([]domain.FileScore, len(req.Paths))
	tasks := make([]domain.ExecutableTask, len(req.Paths))
	for i, path := range req.Paths {
		tasks[i] = &scoreTask{service: s, path: path, inputFormat: req.InputFormat, slot: &files[i]}
	}

	var errs []string
	if err := s.executor.Execute(ctx, tasks); err != nil {
		var agg *AggregatedError
		if !errors.As(err, &agg) {
			return nil, domain.NewAnalysisError("batch scoring failed", err)
		}
		for _, te := range agg.Errors {
			errs = append(errs, te.Error())
		}
	}

	// tasks cut off by cancellation never filled their slot
	for i := range files {
		if files[i].Path == "" {
			files[i] = domain.FileScore{
				Path:   req.Paths[i],
				Format: string(s.formatFor(req.Paths[i], req.InputFormat)),
				Error:  "not scored: run cancelled or timed out",
			}
		}
	}

	files = sortFiles(files, req.SortBy)

	return &domain.ScoreResponse{
		Files:       files,
		Summary:     summarize(files),
		Errors:      errs,
		GeneratedAt: time.Now().Format(time.RFC3339),
		DurationMs:  time.Since(start).Milliseconds(),
		Version:     version.Version,
	}, nil
}

// ScoreFile reads, validates and scores one file
func (s *ScoringServiceImpl) ScoreFile(ctx context.Context, path string, inputFormat string) domain.FileScore {
	format := s.formatFor(path, inputFormat)
	fs := domain.FileScore{Path: path, Format: string(format)}

	if err := ctx.Err(); err != nil {
		fs.Error = fmt.Sprintf("not scored: %v", err)
		return fs
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fs.Error = fmt.Sprintf("failed to read file: %v", err)
		s.logger.Debug("read failed", "path", path, "error", err)
		return fs
	}

	content, err := s.validator.Prepare(string(data), format)
	if err != nil {
		fs.Error = err.Error()
		s.logger.Debug("content rejected", "path", path, "error", err)
		return fs
	}

	fs.Result = s.engine.Score(content, format)
	s.logger.Debug("scored", "path", path, "score", fs.Result.Score, "grade", fs.Result.Grade)
	return fs
}

func (s *ScoringServiceImpl) formatFor(path, inputFormat string) parser.Format {
	if inputFormat != "" {
		if f, err := parser.ParseFormat(inputFormat); err == nil {
			return f
		}
	}
	return parser.FormatForPath(path)
}

// sortFiles orders scored files by the criteria; failed files always come last
func sortFiles(files []domain.FileScore, sortBy domain.SortCriteria) []domain.FileScore {
	sorted := make([]domain.FileScore, len(files))
	copy(sorted, files)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Failed() != b.Failed() {
			return !a.Failed()
		}
		if a.Failed() {
			return a.Path < b.Path
		}

		switch sortBy {
		case domain.SortByPath:
			return a.Path < b.Path
		case domain.SortByGaps:
			if len(a.Result.Gaps) != len(b.Result.Gaps) {
				return len(a.Result.Gaps) > len(b.Result.Gaps)
			}
		default:
			if a.Result.Score != b.Result.Score {
				return a.Result.Score > b.Result.Score
			}
		}
		return a.Path < b.Path
	})

	return sorted
}

// summarize computes aggregate statistics over scored files
func summarize(files []domain.FileScore) domain.ScoreSummary {
	summary := domain.ScoreSummary{
		GradeDistribution: make(map[string]int),
	}

	total := 0.0
	for _, f := range files {
		if f.Failed() {
			summary.FilesFailed++
			continue
		}
		score := f.Result.Score
		if summary.FilesScored == 0 || score < summary.MinScore {
			summary.MinScore = score
		}
		if summary.FilesScored == 0 || score > summary.MaxScore {
			summary.MaxScore = score
		}
		summary.FilesScored++
		total += score
		summary.TotalGaps += len(f.Result.Gaps)
		summary.GradeDistribution[f.Result.Grade]++
	}

	if summary.FilesScored > 0 {
		summary.AverageScore = math.Round(total/float64(summary.FilesScored)*10) / 10
	}
	return summary
}
