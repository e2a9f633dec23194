package analyzer

import (
	"math"
	"regexp"
	"strings"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/parser"
)

// Detector ceilings
const (
	StructuredDataMax        = 20.0
	EntityDensityMax         = 15.0
	CitationHooksMax         = 10.0
	RecursiveDepthMax        = 15.0
	TemporalAnchoringMax     = 10.0
	ComparisonTablesMax      = 15.0
	DefinitionalPrecisionMax = 10.0
	ProceduralClarityMax     = 5.0
	FAQInjectionMax          = 15.0
	MetaContextMax           = 10.0
)

var (
	// matched against lower-cased text
	citationPatterns = compileAll(
		`according to`,
		`research (from|by|at|shows)`,
		`study (found|shows|indicates)`,
		`\[.*\]\(.*\)`,
		`source:`,
		`references?:`,
	)

	questionPairPattern   = regexp.MustCompile(`\?[^?]*\?`)
	nestedQuestionPattern = regexp.MustCompile(`(?i)(what|how|why|when|where|which).*\?.*(but|however|additionally|furthermore|moreover)`)

	temporalPatterns = compileAll(
		`\d{4}`,
		`(?i)(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}`,
		`(?i)as of`,
		`(?i)updated`,
		`(?i)version\s+\d+`,
		`(?i)v\d+\.\d+`,
	)

	comparisonKeywords = []string{"vs", "versus", "compare", "comparison", "difference", "better", "worse"}

	definitionPatterns = compileAll(
		`(?i)is defined as`,
		`(?i)means`,
		`(?i)refers to`,
		`(?i)is a`,
		`(?i)is an`,
		`(?i)\*\*.*\*\*.*is`,
	)

	stepPatterns = compileAll(
		`(?i)step\s+\d+`,
		`(?i)step\s+[a-z]`,
		`(?i)first.*second.*third`,
		`\d+\.\s+`,
	)

	faqPatterns = compileAll(
		`(?i)frequently asked questions`,
		`(?i)faq`,
		`(?i)common questions`,
	)

	importancePatterns = compileAll(
		`(?i)this is important because`,
		`(?i)this is critical because`,
		`(?i)this matters because`,
		`(?i)significantly`,
		`(?i)crucially`,
		`(?i)essential`,
	)
)

func compileAll(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		res[i] = regexp.MustCompile(expr)
	}
	return res
}

// countMatches sums non-overlapping matches of every pattern
func countMatches(patterns []*regexp.Regexp, text string) int {
	count := 0
	for _, re := range patterns {
		count += len(re.FindAllStringIndex(text, -1))
	}
	return count
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// newResult clamps score to [0, max] and rounds it to one decimal
func newResult(score, max float64, detected bool, details map[string]any) domain.PatternResult {
	score = math.Max(0, math.Min(score, max))
	return domain.PatternResult{
		Score:    round1(score),
		Max:      max,
		Detected: detected,
		Details:  details,
	}
}

// DetectStructuredData scores tables, lists and headers per 500 words.
// Detected at one element per 500 words, saturating at two.
func DetectStructuredData(doc *parser.StructuralDocument) domain.PatternResult {
	if doc.WordCount == 0 {
		return newResult(0, StructuredDataMax, false, nil)
	}

	tables, lists, headers := len(doc.Tables), len(doc.Lists), len(doc.Headers)
	per500 := float64((tables+lists+headers)*500) / float64(doc.WordCount)

	return newResult(per500/2*StructuredDataMax, StructuredDataMax, per500 >= 1, map[string]any{
		"tables":  tables,
		"lists":   lists,
		"headers": headers,
	})
}

// DetectEntityDensity scores unique named entities per 100 words.
// Without an available recognizer the pattern is zero and undetected.
func DetectEntityDensity(doc *parser.StructuralDocument, recognizer domain.EntityRecognizer) domain.PatternResult {
	if doc.WordCount == 0 || recognizer == nil || !recognizer.Available() {
		return newResult(0, EntityDensityMax, false, nil)
	}

	count := len(recognizer.ExtractEntities(doc.Text))
	per100 := float64(count*100) / float64(doc.WordCount)

	return newResult(per100/3*EntityDensityMax, EntityDensityMax, per100 >= 2, map[string]any{
		"entity_count":     count,
		"entities_per_100": round1(per100),
	})
}

// DetectCitationHooks scores attribution phrasing per 1000 words
func DetectCitationHooks(doc *parser.StructuralDocument) domain.PatternResult {
	count := countMatches(citationPatterns, strings.ToLower(doc.Text))

	per1000 := 0.0
	if doc.WordCount > 0 {
		per1000 = float64(count*1000) / float64(doc.WordCount)
	}

	return newResult(per1000/2*CitationHooksMax, CitationHooksMax, count > 0, map[string]any{
		"citation_count": count,
	})
}

// DetectRecursiveDepth scores question pairs and nested follow-up questions
func DetectRecursiveDepth(doc *parser.StructuralDocument) domain.PatternResult {
	questions := len(questionPairPattern.FindAllStringIndex(doc.Text, -1))
	nested := len(nestedQuestionPattern.FindAllStringIndex(doc.Text, -1))

	score := math.Min(7.5, float64(questions)*1.5) + math.Min(7.5, float64(nested)*2.5)

	return newResult(score, RecursiveDepthMax, questions > 0 || nested > 0, map[string]any{
		"question_count": questions,
		"nested_count":   nested,
	})
}

// DetectTemporalAnchoring scores years, dates, freshness phrases and version tokens
func DetectTemporalAnchoring(doc *parser.StructuralDocument) domain.PatternResult {
	count := countMatches(temporalPatterns, doc.Text)

	return newResult(float64(count)*2, TemporalAnchoringMax, count > 0, map[string]any{
		"date_count": count,
	})
}

// DetectComparisonTables scores tables (5 each, up to 10) plus 5 for comparison wording
func DetectComparisonTables(doc *parser.StructuralDocument) domain.PatternResult {
	text := strings.ToLower(doc.Text)
	hasKeywords := false
	for _, kw := range comparisonKeywords {
		if strings.Contains(text, kw) {
			hasKeywords = true
			break
		}
	}

	tables := len(doc.Tables)
	score := math.Min(10, float64(tables)*5)
	if hasKeywords {
		score += 5
	}

	return newResult(score, ComparisonTablesMax, tables > 0 || hasKeywords, map[string]any{
		"table_count":             tables,
		"has_comparison_keywords": hasKeywords,
	})
}

// DetectDefinitionalPrecision scores explicit definitions
func DetectDefinitionalPrecision(doc *parser.StructuralDocument) domain.PatternResult {
	count := countMatches(definitionPatterns, doc.Text)

	return newResult(float64(count)*2, DefinitionalPrecisionMax, count > 0, map[string]any{
		"definition_count": count,
	})
}

// DetectProceduralClarity scores step phrasing (up to 3) and ordered list items (up to 2)
func DetectProceduralClarity(doc *parser.StructuralDocument) domain.PatternResult {
	steps := countMatches(stepPatterns, doc.Text)

	ordered := doc.OrderedLists()
	items := 0
	for _, l := range ordered {
		items += l.ItemCount
	}

	score := math.Min(3, float64(steps)*0.5) + math.Min(2, float64(items)/5)

	return newResult(score, ProceduralClarityMax, steps > 0 || len(ordered) > 0, map[string]any{
		"step_count":         steps,
		"ordered_list_count": len(ordered),
	})
}

// DetectFAQInjection scores an FAQ section (flat 10) plus question headers (1 each, up to 5)
func DetectFAQInjection(doc *parser.StructuralDocument) domain.PatternResult {
	hasSection := anyMatch(faqPatterns, doc.Text)

	questionHeaders := 0
	for _, h := range doc.Headers {
		if strings.Contains(h.Text, "?") {
			questionHeaders++
		}
	}

	score := math.Min(5, float64(questionHeaders))
	if hasSection {
		score += 10
	}

	return newResult(score, FAQInjectionMax, hasSection || questionHeaders > 0, map[string]any{
		"has_faq_section":       hasSection,
		"question_header_count": questionHeaders,
	})
}

// DetectMetaContext scores importance framing
func DetectMetaContext(doc *parser.StructuralDocument) domain.PatternResult {
	count := countMatches(importancePatterns, doc.Text)

	return newResult(float64(count)*2, MetaContextMax, count > 0, map[string]any{
		"importance_count": count,
	})
}

// Detector is one named pattern rule
type Detector struct {
	ID     string
	Max    float64
	Detect func(doc *parser.StructuralDocument) domain.PatternResult
}

// Detectors returns the ten detectors in declaration order.
// The recognizer is bound into entity_density.
func Detectors(recognizer domain.EntityRecognizer) []Detector {
	return []Detector{
		{ID: domain.PatternStructuredData, Max: StructuredDataMax, Detect: DetectStructuredData},
		{ID: domain.PatternEntityDensity, Max: EntityDensityMax, Detect: func(doc *parser.StructuralDocument) domain.PatternResult {
			return DetectEntityDensity(doc, recognizer)
		}},
		{ID: domain.PatternCitationHooks, Max: CitationHooksMax, Detect: DetectCitationHooks},
		{ID: domain.PatternRecursiveDepth, Max: RecursiveDepthMax, Detect: DetectRecursiveDepth},
		{ID: domain.PatternTemporalAnchoring, Max: TemporalAnchoringMax, Detect: DetectTemporalAnchoring},
		{ID: domain.PatternComparisonTables, Max: ComparisonTablesMax, Detect: DetectComparisonTables},
		{ID: domain.PatternDefinitionalPrecision, Max: DefinitionalPrecisionMax, Detect: DetectDefinitionalPrecision},
		{ID: domain.PatternProceduralClarity, Max: ProceduralClarityMax, Detect: DetectProceduralClarity},
		{ID: domain.PatternFAQInjection, Max: FAQInjectionMax, Detect: DetectFAQInjection},
		{ID: domain.PatternMetaContext, Max: MetaContextMax, Detect: DetectMetaContext},
	}
}
