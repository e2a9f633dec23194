package analyzer

import (
	"log/slog"
	"math"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/entity"
	"github.com/ludo-technologies/citescan/internal/parser"
)

// Engine scores documents against the citability patterns.
// An Engine is immutable after NewEngine and safe for concurrent use.
type Engine struct {
	parser     *parser.Parser
	config     ScoringConfig
	recognizer domain.EntityRecognizer
	detectors  []Detector
	logger     *slog.Logger
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithEntityRecognizer sets the recognizer used by entity_density
func WithEntityRecognizer(r domain.EntityRecognizer) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.recognizer = r
		}
	}
}

// WithScoringConfig replaces the default weight table and thresholds
func WithScoringConfig(cfg ScoringConfig) EngineOption {
	return func(e *Engine) {
		e.config = cfg
	}
}

// WithLogger sets the engine logger
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine builds an engine. The recognizer's availability is read once here.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		parser:     parser.NewParser(),
		config:     DefaultScoringConfig(),
		recognizer: entity.Unavailable{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	e.config = e.config.clone()
	e.detectors = Detectors(e.recognizer)

	if !e.recognizer.Available() {
		e.logger.Debug("entity recognizer unavailable, entity_density will score 0")
	}
	return e
}

// Config returns a copy of the engine's scoring configuration
func (e *Engine) Config() ScoringConfig {
	return e.config.clone()
}

// Score parses content once and scores it
func (e *Engine) Score(content string, format parser.Format) *domain.ScoreResult {
	return e.ScoreDocument(e.parser.Parse(content, format))
}

// ScoreDocument scores an already parsed document
func (e *Engine) ScoreDocument(doc *parser.StructuralDocument) *domain.ScoreResult {
	if doc == nil {
		doc = &parser.StructuralDocument{}
	}

	scores := make(map[string]domain.PatternResult, len(e.detectors))
	for _, d := range e.detectors {
		scores[d.ID] = d.Detect(doc)
	}

	total := Aggregate(scores, e.config)
	hits := DetectAntiPatterns(doc, e.config)
	penalty := totalPenalty(hits)
	final := round1(math.Max(0, math.Min(100, total-float64(penalty))))

	return &domain.ScoreResult{
		Score:                final,
		Grade:                e.config.Grade(final),
		PatternScores:        scores,
		Gaps:                 GenerateGaps(scores),
		AntiPatternPenalties: penalty,
		AntiPatterns:         hits,
		WordCount:            doc.WordCount,
		ContentHash:          doc.ContentHash,
	}
}

// Aggregate re-normalizes each pattern score to its weight and sums them,
// rounded to one decimal. Patterns without a weight contribute nothing.
func Aggregate(scores map[string]domain.PatternResult, cfg ScoringConfig) float64 {
	total := 0.0
	for _, id := range domain.PatternIDs() {
		res, ok := scores[id]
		if !ok || res.Max <= 0 {
			continue
		}
		total += res.Score / res.Max * cfg.Weight(id)
	}
	return round1(total)
}
