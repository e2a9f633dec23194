package service

import (
	"math"

	"github.com/ludo-technologies/citescan/domain"
)

// Engine names reported in benchmarks
const (
	EngineGrok   = "grok"
	EngineClaude = "claude"
	EngineGPT    = "gpt"
)

// percentileStep maps an inclusive lower score bound to a percentile
type percentileStep struct {
	min        float64
	percentile int
}

var percentileLadder = []percentileStep{
	{90, 95},
	{80, 85},
	{70, 70},
	{60, 50},
	{50, 30},
}

const floorPercentile = 15

// engineOffsets is subtracted from the score to estimate each engine's view of it
var engineOffsets = map[string]float64{
	EngineGrok:   5,
	EngineClaude: 3,
	EngineGPT:    2,
}

// BenchmarkService places scores relative to top-cited content.
// Percentiles come from a fixed score distribution.
type BenchmarkService struct{}

// NewBenchmarkService creates a benchmark service
func NewBenchmarkService() *BenchmarkService {
	return &BenchmarkService{}
}

// Calculate returns the percentile and per-engine estimates of a score
func (s *BenchmarkService) Calculate(score float64) domain.Benchmark {
	percentile := floorPercentile
	for _, step := range percentileLadder {
		if score >= step.min {
			percentile = step.percentile
			break
		}
	}

	engines := make(map[string]float64, len(engineOffsets))
	for name, offset := range engineOffsets {
		engines[name] = math.Max(0, score-offset)
	}

	return domain.Benchmark{
		Percentile:   percentile,
		EngineScores: engines,
	}
}
