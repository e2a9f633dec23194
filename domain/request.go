package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatHTML OutputFormat = "html"
)

// SortCriteria represents the criteria for sorting scored files
type SortCriteria string

const (
	SortByScore SortCriteria = "score"
	SortByPath  SortCriteria = "path"
	SortByGaps  SortCriteria = "gaps"
)

// ScoreRequest represents a request to score a set of documents
type ScoreRequest struct {
	// Input files to score
	Paths []string

	// InputFormat forces "markdown" or "html"; empty infers it from the file extension
	InputFormat string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string
	ShowDetails  bool
	TopGaps      int

	SortBy SortCriteria

	// File collection
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Configuration
	ConfigPath string
}

// FileScore is the scoring outcome of one file
type FileScore struct {
	Path   string       `json:"path" yaml:"path"`
	Format string       `json:"format" yaml:"format"`
	Result *ScoreResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the file could not be scored
func (f FileScore) Failed() bool {
	return f.Result == nil
}

// ScoreSummary represents aggregate statistics over scored files
type ScoreSummary struct {
	FilesScored  int     `json:"files_scored" yaml:"files_scored"`
	FilesFailed  int     `json:"files_failed" yaml:"files_failed"`
	AverageScore float64 `json:"average_score" yaml:"average_score"`
	MinScore     float64 `json:"min_score" yaml:"min_score"`
	MaxScore     float64 `json:"max_score" yaml:"max_score"`
	TotalGaps    int     `json:"total_gaps" yaml:"total_gaps"`

	// GradeDistribution counts files per letter grade
	GradeDistribution map[string]int `json:"grade_distribution,omitempty" yaml:"grade_distribution,omitempty"`
}

// ScoreResponse represents the complete result of a batch scoring run
type ScoreResponse struct {
	Files   []FileScore  `json:"files" yaml:"files"`
	Summary ScoreSummary `json:"summary" yaml:"summary"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Metadata
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	DurationMs  int64  `json:"duration_ms" yaml:"duration_ms"`
	Version     string `json:"version" yaml:"version"`
}

// ScoringService defines the business logic for scoring documents on disk
type ScoringService interface {
	// Score scores every path of the request
	Score(ctx context.Context, req ScoreRequest) (*ScoreResponse, error)

	// ScoreFile scores a single file
	ScoreFile(ctx context.Context, path string, inputFormat string) FileScore
}

// OutputFormatter defines the interface for formatting scoring results
type OutputFormatter interface {
	// Write writes the response in the given format
	Write(response *ScoreResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader turns configuration files into score requests
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*ScoreRequest, error)

	// LoadDefaultConfig loads the discovered or built-in configuration
	LoadDefaultConfig() *ScoreRequest

	// MergeConfig applies override on top of base
	MergeConfig(base *ScoreRequest, override *ScoreRequest) *ScoreRequest

	// ValidateConfig validates a request
	ValidateConfig(req *ScoreRequest) error
}
