package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/parser"
)

// DetectAntiPatterns runs the three penalty checks independently and
// returns every hit. Penalties are summed by the caller.
func DetectAntiPatterns(doc *parser.StructuralDocument, cfg ScoringConfig) []domain.AntiPatternHit {
	var hits []domain.AntiPatternHit

	if doc.WordCount > 0 {
		density := float64(doc.StructuralElements()*1000) / float64(doc.WordCount)
		if density > cfg.OverOptimizationDensity {
			hits = append(hits, domain.AntiPatternHit{
				ID:      domain.AntiPatternOverOptimization,
				Penalty: cfg.OverOptimizationPenalty,
				Detail:  fmt.Sprintf("%.1f structural elements per 1000 words", density),
			})
		}
	}

	if word, ok := stuffedKeyword(doc.Text, cfg); ok {
		hits = append(hits, domain.AntiPatternHit{
			ID:      domain.AntiPatternKeywordStuffing,
			Penalty: cfg.KeywordStuffingPenalty,
			Detail:  fmt.Sprintf("%q repeated too often", word),
		})
	}

	if doc.WordCount > cfg.UnderStructuringWords && len(doc.Tables) == 0 && len(doc.Lists) == 0 {
		hits = append(hits, domain.AntiPatternHit{
			ID:      domain.AntiPatternUnderStructuring,
			Penalty: cfg.UnderStructuringPenalty,
			Detail:  fmt.Sprintf("%d words without tables or lists", doc.WordCount),
		})
	}

	return hits
}

// stuffedKeyword returns the first word, in order of first appearance, that is
// longer than the minimum length and takes more than the allowed share of tokens
func stuffedKeyword(text string, cfg ScoringConfig) (string, bool) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return "", false
	}

	freq := make(map[string]int)
	var order []string
	for _, w := range words {
		if utf8.RuneCountInString(w) <= cfg.KeywordStuffingMinLength {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}

	limit := float64(len(words)) * cfg.KeywordStuffingRatio
	for _, w := range order {
		if float64(freq[w]) > limit {
			return w, true
		}
	}
	return "", false
}

func totalPenalty(hits []domain.AntiPatternHit) int {
	total := 0
	for _, h := range hits {
		total += h.Penalty
	}
	return total
}
