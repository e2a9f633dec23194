package domain

// CheckResult represents the result of a quality check
type CheckResult struct {
	Passed      bool             `json:"passed"`
	ExitCode    int              `json:"exit_code"`
	Violations  []CheckViolation `json:"violations"`
	Summary     CheckSummary     `json:"summary"`
	Duration    int64            `json:"duration_ms"`
	GeneratedAt string           `json:"generated_at"`
	Version     string           `json:"version"`
}

// CheckViolation represents a single threshold violation
type CheckViolation struct {
	Category  string `json:"category"`            // score, grade, penalty
	Rule      string `json:"rule"`                // min-score, min-grade, max-penalty
	Severity  string `json:"severity"`            // error, warning
	Message   string `json:"message"`             // Human-readable description
	Location  string `json:"location,omitempty"`  // File path
	Actual    string `json:"actual"`              // Actual value
	Threshold string `json:"threshold,omitempty"` // Configured threshold
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	FilesChecked    int     `json:"files_checked"`
	FilesFailed     int     `json:"files_failed"`
	TotalViolations int     `json:"total_violations"`
	AverageScore    float64 `json:"average_score"`
	LowScoreFiles   int     `json:"low_score_files"`
	LowGradeFiles   int     `json:"low_grade_files"`
	PenalizedFiles  int     `json:"penalized_files"`
}
