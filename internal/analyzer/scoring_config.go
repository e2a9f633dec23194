package analyzer

import (
	"math"
	"sort"

	"github.com/ludo-technologies/citescan/domain"
)

// GradeThreshold maps an inclusive lower score bound to a letter grade
type GradeThreshold struct {
	Min   float64
	Grade string
}

// ScoringConfig holds the weight table, grade ladder and anti-pattern constants.
// The engine keeps its own copy; callers may not mutate it after construction.
type ScoringConfig struct {
	// Weights is the target contribution of each pattern to the total.
	// The default table sums to 125.
	Weights map[string]float64

	// Grades is the threshold ladder, checked from the highest bound down
	Grades []GradeThreshold

	// FailGrade is assigned below the lowest threshold
	FailGrade string

	// Over-optimization: structural elements per 1000 words
	OverOptimizationDensity float64
	OverOptimizationPenalty int

	// Keyword stuffing: share of all tokens taken by one word longer than MinLength
	KeywordStuffingRatio     float64
	KeywordStuffingMinLength int
	KeywordStuffingPenalty   int

	// Under-structuring: long content without tables or lists
	UnderStructuringWords   int
	UnderStructuringPenalty int
}

// DefaultScoringConfig returns the built-in weight table and thresholds
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights: map[string]float64{
			domain.PatternStructuredData:        20,
			domain.PatternComparisonTables:      15,
			domain.PatternRecursiveDepth:        15,
			domain.PatternEntityDensity:         15,
			domain.PatternTemporalAnchoring:     10,
			domain.PatternCitationHooks:         10,
			domain.PatternDefinitionalPrecision: 10,
			domain.PatternProceduralClarity:     5,
			domain.PatternFAQInjection:          15,
			domain.PatternMetaContext:           10,
		},
		Grades: []GradeThreshold{
			{Min: 90, Grade: "A+"},
			{Min: 80, Grade: "A"},
			{Min: 70, Grade: "B"},
			{Min: 60, Grade: "C"},
			{Min: 50, Grade: "D"},
		},
		FailGrade: "F",

		OverOptimizationDensity: 10,
		OverOptimizationPenalty: 20,

		KeywordStuffingRatio:     0.05,
		KeywordStuffingMinLength: 4,
		KeywordStuffingPenalty:   15,

		UnderStructuringWords:   1000,
		UnderStructuringPenalty: 15,
	}
}

// Grade converts a final score to its letter grade
func (c ScoringConfig) Grade(score float64) string {
	for _, t := range c.Grades {
		if score >= t.Min {
			return t.Grade
		}
	}
	return c.FailGrade
}

// Weight returns the weight of a pattern, 0 when the table has no entry
func (c ScoringConfig) Weight(pattern string) float64 {
	return c.Weights[pattern]
}

// TotalWeight is the sum of the weight table
func (c ScoringConfig) TotalWeight() float64 {
	total := 0.0
	for _, w := range c.Weights {
		total += w
	}
	return total
}

// clone returns a deep copy with the grade ladder sorted from the highest bound down
func (c ScoringConfig) clone() ScoringConfig {
	out := c
	out.Weights = make(map[string]float64, len(c.Weights))
	for k, v := range c.Weights {
		out.Weights[k] = v
	}
	out.Grades = append([]GradeThreshold(nil), c.Grades...)
	sort.SliceStable(out.Grades, func(i, j int) bool {
		return out.Grades[i].Min > out.Grades[j].Min
	})
	if out.FailGrade == "" {
		out.FailGrade = "F"
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
