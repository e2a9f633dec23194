package analyzer

import (
	"sort"
	"strings"

	"github.com/ludo-technologies/citescan/domain"
)

type gapInfo struct {
	category    string
	severity    domain.Severity
	description string
}

var gapCatalogue = map[string]gapInfo{
	domain.PatternStructuredData:        {"structure", domain.SeverityHigh, "Missing structured data (tables, lists, headers)"},
	domain.PatternComparisonTables:      {"comparison", domain.SeverityHigh, "No comparison tables found"},
	domain.PatternRecursiveDepth:        {"recursion", domain.SeverityHigh, "Missing recursive depth (nested Q&A)"},
	domain.PatternEntityDensity:         {"entities", domain.SeverityMedium, "Low entity density"},
	domain.PatternTemporalAnchoring:     {"temporal", domain.SeverityMedium, "Missing temporal anchors (dates, versions)"},
	domain.PatternCitationHooks:         {"citations", domain.SeverityMedium, "Missing citation hooks"},
	domain.PatternDefinitionalPrecision: {"definition", domain.SeverityLow, "Missing explicit definitions"},
	domain.PatternProceduralClarity:     {"procedural", domain.SeverityLow, "Missing step-by-step procedures"},
	domain.PatternFAQInjection:          {"faq", domain.SeverityMedium, "Missing FAQ section"},
	domain.PatternMetaContext:           {"meta", domain.SeverityLow, "Missing meta-context explanations"},
}

// GenerateGaps emits one gap per undetected pattern, visiting patterns in
// declaration order, then stable-sorts them by severity.
func GenerateGaps(scores map[string]domain.PatternResult) []domain.Gap {
	gaps := []domain.Gap{}
	for _, id := range domain.PatternIDs() {
		res, ok := scores[id]
		if !ok || res.Detected {
			continue
		}
		info, ok := gapCatalogue[id]
		if !ok {
			continue
		}
		gaps = append(gaps, domain.Gap{
			ID:          "gap_" + id,
			Category:    info.category,
			Severity:    info.severity,
			Description: info.description,
			Location:    domain.GapLocation{Start: 0, End: 100},
			ExampleFix:  "Add " + strings.ReplaceAll(id, "_", " ") + " to improve score",
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Severity.Rank() < gaps[j].Severity.Rank()
	})
	return gaps
}
