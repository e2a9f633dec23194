package service

import (
	"log/slog"

	"github.com/ludo-technologies/citescan/internal/analyzer"
	"github.com/ludo-technologies/citescan/internal/config"
	"github.com/ludo-technologies/citescan/internal/entity"
)

// ScoringConfigFrom converts the scoring section of a configuration file into engine settings
func ScoringConfigFrom(cfg *config.ScoringConfig) analyzer.ScoringConfig {
	if cfg == nil {
		return analyzer.DefaultScoringConfig()
	}

	weights := make(map[string]float64, len(cfg.Weights))
	for id, w := range cfg.Weights {
		weights[id] = w
	}

	p := cfg.Penalties
	return analyzer.ScoringConfig{
		Weights: weights,
		Grades: []analyzer.GradeThreshold{
			{Min: cfg.Grades.APlus, Grade: "A+"},
			{Min: cfg.Grades.A, Grade: "A"},
			{Min: cfg.Grades.B, Grade: "B"},
			{Min: cfg.Grades.C, Grade: "C"},
			{Min: cfg.Grades.D, Grade: "D"},
		},
		FailGrade: "F",

		OverOptimizationDensity: p.OverOptimizationDensity,
		OverOptimizationPenalty: p.OverOptimization,

		KeywordStuffingRatio:     p.KeywordStuffingRatio,
		KeywordStuffingMinLength: p.KeywordStuffingMinLength,
		KeywordStuffingPenalty:   p.KeywordStuffing,

		UnderStructuringWords:   p.UnderStructuringWords,
		UnderStructuringPenalty: p.UnderStructuring,
	}
}

// NewEngineFromConfig builds a scoring engine from configuration. A nil config
// yields the default engine without entity recognition.
func NewEngineFromConfig(cfg *config.Config, logger *slog.Logger) *analyzer.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		return analyzer.NewEngine(analyzer.WithLogger(logger))
	}

	recognizer := entity.New(cfg.Entities.Enabled)
	if cfg.Entities.Enabled && !recognizer.Available() {
		logger.Warn("entity recognition enabled but the model could not be loaded; entity_density will score 0")
	}

	return analyzer.NewEngine(
		analyzer.WithScoringConfig(ScoringConfigFrom(&cfg.Scoring)),
		analyzer.WithEntityRecognizer(recognizer),
		analyzer.WithLogger(logger),
	)
}
