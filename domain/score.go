package domain

// Severity ranks how much an undetected pattern costs a document
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank returns the sort rank of a severity (high first). Unknown severities sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

// Pattern identifiers, in detector declaration order
const (
	PatternStructuredData        = "structured_data"
	PatternEntityDensity         = "entity_density"
	PatternCitationHooks         = "citation_hooks"
	PatternRecursiveDepth        = "recursive_depth"
	PatternTemporalAnchoring     = "temporal_anchoring"
	PatternComparisonTables      = "comparison_tables"
	PatternDefinitionalPrecision = "definitional_precision"
	PatternProceduralClarity     = "procedural_clarity"
	PatternFAQInjection          = "faq_injection"
	PatternMetaContext           = "meta_context"
)

// PatternIDs returns every pattern identifier in declaration order
func PatternIDs() []string {
	return []string{
		PatternStructuredData,
		PatternEntityDensity,
		PatternCitationHooks,
		PatternRecursiveDepth,
		PatternTemporalAnchoring,
		PatternComparisonTables,
		PatternDefinitionalPrecision,
		PatternProceduralClarity,
		PatternFAQInjection,
		PatternMetaContext,
	}
}

// PatternResult is the outcome of one detector
type PatternResult struct {
	Score    float64        `json:"score" yaml:"score"`
	Max      float64        `json:"max" yaml:"max"`
	Detected bool           `json:"detected" yaml:"detected"`
	Details  map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// GapLocation is the span a gap refers to. The engine emits a fixed placeholder span.
type GapLocation struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Gap explains one undetected pattern
type Gap struct {
	ID          string      `json:"id" yaml:"id"`
	Category    string      `json:"category" yaml:"category"`
	Severity    Severity    `json:"severity" yaml:"severity"`
	Description string      `json:"description" yaml:"description"`
	Location    GapLocation `json:"location" yaml:"location"`
	ExampleFix  string      `json:"example_fix" yaml:"example_fix"`
}

// AntiPattern identifiers
const (
	AntiPatternOverOptimization = "over_optimization"
	AntiPatternKeywordStuffing  = "keyword_stuffing"
	AntiPatternUnderStructuring = "under_structuring"
)

// AntiPatternHit records one triggered anti-pattern check
type AntiPatternHit struct {
	ID      string `json:"id" yaml:"id"`
	Penalty int    `json:"penalty" yaml:"penalty"`
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// ScoreResult is the complete citability assessment of one document
type ScoreResult struct {
	Score                float64                  `json:"score" yaml:"score"`
	Grade                string                   `json:"grade" yaml:"grade"`
	PatternScores        map[string]PatternResult `json:"pattern_scores" yaml:"pattern_scores"`
	Gaps                 []Gap                    `json:"gaps" yaml:"gaps"`
	AntiPatternPenalties int                      `json:"anti_pattern_penalties" yaml:"anti_pattern_penalties"`
	AntiPatterns         []AntiPatternHit         `json:"anti_patterns,omitempty" yaml:"anti_patterns,omitempty"`
	WordCount            int                      `json:"word_count" yaml:"word_count"`
	ContentHash          string                   `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`
}

// TopGaps returns at most n gaps from the front of the ranked list
func (r *ScoreResult) TopGaps(n int) []Gap {
	if n < 0 || n >= len(r.Gaps) {
		return r.Gaps
	}
	return r.Gaps[:n]
}

// EntityRecognizer is the optional named-entity capability used by the entity_density pattern.
// Availability is fixed when the recognizer is constructed.
type EntityRecognizer interface {
	// Available reports whether the recognizer can extract entities at all
	Available() bool

	// ExtractEntities returns the set of distinct entity surface forms found in text
	ExtractEntities(text string) map[string]struct{}
}

// CitationBoost is the estimated citation-rate improvement range of a pattern, in percent
type CitationBoost struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// PatternInfo describes one pattern of the library
type PatternInfo struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Category      string        `json:"category" yaml:"category"`
	Description   string        `json:"description" yaml:"description"`
	CitationBoost CitationBoost `json:"citation_boost" yaml:"citation_boost"`
	Weight        float64       `json:"weight" yaml:"weight"`
	Max           float64       `json:"max" yaml:"max"`
}
