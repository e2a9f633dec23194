package domain

import (
	"context"
	"time"
)

// Benchmark places a score relative to top-cited content
type Benchmark struct {
	Percentile   int                `json:"percentile" yaml:"percentile"`
	EngineScores map[string]float64 `json:"engine_scores" yaml:"engine_scores"`
}

// AuditRequest is the input of a single audit
type AuditRequest struct {
	Content string `json:"content"`
	Format  string `json:"format,omitempty"`
	URL     string `json:"url,omitempty"`
}

// AuditResult is the cached, persisted shape of an audit
type AuditResult struct {
	ID          string    `json:"id" yaml:"id"`
	ContentHash string    `json:"content_hash" yaml:"content_hash"`
	Score       float64   `json:"score" yaml:"score"`
	Grade       string    `json:"grade" yaml:"grade"`
	Gaps        []Gap     `json:"gaps" yaml:"gaps"`
	Fixes       []string  `json:"fixes" yaml:"fixes"`
	Benchmark   Benchmark `json:"benchmark" yaml:"benchmark"`
	Cached      bool      `json:"cached" yaml:"cached"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	ExpiresAt   time.Time `json:"expires_at" yaml:"expires_at"`
}

// AuditCache stores audit results keyed by content fingerprint
type AuditCache interface {
	// Get returns the unexpired audit for hash, or nil when there is none
	Get(ctx context.Context, hash string, now time.Time) (*AuditResult, error)

	// Put stores or replaces the audit for its content hash
	Put(ctx context.Context, result *AuditResult) error
}

// AuditService runs audits for collaborators such as the HTTP API
type AuditService interface {
	Audit(ctx context.Context, req AuditRequest) (*AuditResult, error)
}
