package analyzer

import "github.com/ludo-technologies/citescan/domain"

type libraryEntry struct {
	name        string
	category    string
	description string
	boost       domain.CitationBoost
	max         float64
}

var library = map[string]libraryEntry{
	domain.PatternStructuredData: {
		name:        "Structured Data",
		category:    "structure",
		description: "Convert prose into tables, lists, structured formats",
		boost:       domain.CitationBoost{Min: 15, Max: 25},
		max:         StructuredDataMax,
	},
	domain.PatternEntityDensity: {
		name:        "Entity Density",
		category:    "content",
		description: "Increase named entities (people, places, products, dates) per paragraph",
		boost:       domain.CitationBoost{Min: 10, Max: 20},
		max:         EntityDensityMax,
	},
	domain.PatternCitationHooks: {
		name:        "Citation Hooks",
		category:    "metadata",
		description: "Explicit source attribution: 'According to [source]', '[Study] found...'",
		boost:       domain.CitationBoost{Min: 5, Max: 15},
		max:         CitationHooksMax,
	},
	domain.PatternRecursiveDepth: {
		name:        "Recursive Depth",
		category:    "content",
		description: "Answer questions within questions (nested Q&A format)",
		boost:       domain.CitationBoost{Min: 20, Max: 30},
		max:         RecursiveDepthMax,
	},
	domain.PatternTemporalAnchoring: {
		name:        "Temporal Anchoring",
		category:    "metadata",
		description: "Explicit dates, version numbers, 'as of [date]' statements",
		boost:       domain.CitationBoost{Min: 10, Max: 15},
		max:         TemporalAnchoringMax,
	},
	domain.PatternComparisonTables: {
		name:        "Comparison Tables",
		category:    "format",
		description: "Side-by-side comparisons in tabular format",
		boost:       domain.CitationBoost{Min: 25, Max: 40},
		max:         ComparisonTablesMax,
	},
	domain.PatternDefinitionalPrecision: {
		name:        "Definitional Precision",
		category:    "content",
		description: "Explicit definitions: 'X is defined as...', 'X means...'",
		boost:       domain.CitationBoost{Min: 8, Max: 12},
		max:         DefinitionalPrecisionMax,
	},
	domain.PatternProceduralClarity: {
		name:        "Step-by-Step Procedures",
		category:    "format",
		description: "Numbered steps: 'Step 1: ... Step 2: ...'",
		boost:       domain.CitationBoost{Min: 12, Max: 18},
		max:         ProceduralClarityMax,
	},
	domain.PatternFAQInjection: {
		name:        "FAQ Injection",
		category:    "content",
		description: "Anticipate and answer common questions inline",
		boost:       domain.CitationBoost{Min: 15, Max: 25},
		max:         FAQInjectionMax,
	},
	domain.PatternMetaContext: {
		name:        "Meta-Context",
		category:    "content",
		description: "Explain why information matters: 'This is important because...'",
		boost:       domain.CitationBoost{Min: 5, Max: 10},
		max:         MetaContextMax,
	},
}

// older clients ask for the procedural pattern by this id
var libraryAliases = map[string]string{
	"step_by_step": domain.PatternProceduralClarity,
}

// PatternLibrary returns the pattern catalogue in declaration order with the default weights
func PatternLibrary() []domain.PatternInfo {
	return patternLibrary(DefaultScoringConfig())
}

// Patterns returns the pattern catalogue with this engine's weights
func (e *Engine) Patterns() []domain.PatternInfo {
	return patternLibrary(e.config)
}

func patternLibrary(cfg ScoringConfig) []domain.PatternInfo {
	ids := domain.PatternIDs()
	infos := make([]domain.PatternInfo, 0, len(ids))
	for _, id := range ids {
		infos = append(infos, patternInfo(id, cfg))
	}
	return infos
}

// LookupPattern returns one pattern of the default catalogue
func LookupPattern(id string) (domain.PatternInfo, bool) {
	return lookupPattern(id, DefaultScoringConfig())
}

// LookupPattern returns one pattern with this engine's weight
func (e *Engine) LookupPattern(id string) (domain.PatternInfo, bool) {
	return lookupPattern(id, e.config)
}

func lookupPattern(id string, cfg ScoringConfig) (domain.PatternInfo, bool) {
	if canonical, ok := libraryAliases[id]; ok {
		id = canonical
	}
	if _, ok := library[id]; !ok {
		return domain.PatternInfo{}, false
	}
	return patternInfo(id, cfg), true
}

func patternInfo(id string, cfg ScoringConfig) domain.PatternInfo {
	entry := library[id]
	return domain.PatternInfo{
		ID:            id,
		Name:          entry.name,
		Category:      entry.category,
		Description:   entry.description,
		CitationBoost: entry.boost,
		Weight:        cfg.Weight(id),
		Max:           entry.max,
	}
}
