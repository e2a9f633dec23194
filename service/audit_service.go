package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/analyzer"
	"github.com/ludo-technologies/citescan/internal/constants"
	"github.com/ludo-technologies/citescan/internal/parser"
)

// AuditServiceImpl scores single documents for API callers and caches the outcome
type AuditServiceImpl struct {
	engine    *analyzer.Engine
	validator *ContentValidator
	benchmark *BenchmarkService
	cache     domain.AuditCache
	ttl       time.Duration
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

var _ domain.AuditService = (*AuditServiceImpl)(nil)

// AuditOption configures an AuditServiceImpl
type AuditOption func(*AuditServiceImpl)

// WithAuditCache enables caching; nil disables it
func WithAuditCache(cache domain.AuditCache) AuditOption {
	return func(s *AuditServiceImpl) {
		s.cache = cache
	}
}

// WithAuditTTL sets how long cached audits stay valid
func WithAuditTTL(ttl time.Duration) AuditOption {
	return func(s *AuditServiceImpl) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithAuditLogger sets the service logger
func WithAuditLogger(logger *slog.Logger) AuditOption {
	return func(s *AuditServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuditClock replaces the wall clock, used for expiry
func WithAuditClock(now func() time.Time) AuditOption {
	return func(s *AuditServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAuditService creates an audit service around engine and validator
func NewAuditService(engine *analyzer.Engine, validator *ContentValidator, opts ...AuditOption) *AuditServiceImpl {
	if engine == nil {
		engine = analyzer.NewEngine()
	}
	if validator == nil {
		validator = NewContentValidator(nil)
	}

	s := &AuditServiceImpl{
		engine:    engine,
		validator: validator,
		benchmark: NewBenchmarkService(),
		ttl:       constants.DefaultCacheTTLHours * time.Hour,
		logger:    slog.Default(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Audit scores the request content, serving unexpired results from the cache
func (s *AuditServiceImpl) Audit(ctx context.Context, req domain.AuditRequest) (*domain.AuditResult, error) {
	if req.URL != "" {
		return nil, domain.NewDomainError(domain.ErrCodeURLNotSupported,
			"fetching content from a URL is not supported; submit the content directly", nil)
	}

	format, err := parser.ParseFormat(req.Format)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	content := s.validator.Sanitize(req.Content, format)
	if strings.TrimSpace(content) == "" {
		return nil, domain.NewValidationError("content must not be empty")
	}
	if err := s.validator.Validate(content); err != nil {
		return nil, err
	}

	hash := parser.HashContent(content)
	now := s.now().UTC()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, hash, now)
		if err != nil {
			s.logger.Warn("audit cache read failed", "hash", hash, "error", err)
		} else if cached != nil {
			s.logger.Debug("audit cache hit", "hash", hash)
			cached.Cached = true
			return cached, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	score := s.engine.Score(content, format)
	result := &domain.AuditResult{
		ID:          s.newID(),
		ContentHash: hash,
		Score:       score.Score,
		Grade:       score.Grade,
		Gaps:        score.Gaps,
		Fixes:       []string{},
		Benchmark:   s.benchmark.Calculate(score.Score),
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, result); err != nil {
			s.logger.Warn("audit cache write failed", "hash", hash, "error", err)
		}
	}

	s.logger.Debug("audit complete", "hash", hash, "score", result.Score, "grade", result.Grade)
	return result, nil
}
