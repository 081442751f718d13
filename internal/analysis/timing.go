package analysis

import (
	"fmt"
	"math"

	"github.com/proctorly/integrity-api/internal/models"
)

// TimingStats are descriptive statistics over per-question durations.
type TimingStats struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
	CV       float64 `json:"cv"`
}

// TimingResult is the timing analyzer's verdict over one application's
// answer durations.
type TimingResult struct {
	Suspicious bool
	Severity   string
	Evidence   string
	Stats      TimingStats
}

// AnalyzeTiming flags bot-like uniformity or impossibly fast answering over
// the known per-question durations. An empty sample set is not suspicious.
func AnalyzeTiming(samples []float64, policy Policy) TimingResult {
	if len(samples) == 0 {
		return TimingResult{}
	}

	stats := computeTimingStats(samples)
	result := TimingResult{Stats: stats}

	fast := 0
	for _, s := range samples {
		if s < policy.MinTimePerQuestion {
			fast++
		}
	}
	if fast*2 > len(samples) {
		result.Suspicious = true
		result.Severity = models.SeverityHigh
		result.Evidence = fmt.Sprintf("%d of %d answers under %.0fs (%s)", fast, len(samples), policy.MinTimePerQuestion, stats.String())
	}

	if stats.Count >= policy.UniformMinSamples && stats.Variance < policy.UniformVarianceLimit {
		result.Suspicious = true
		if result.Severity != models.SeverityHigh {
			result.Severity = models.SeverityMedium
		}
		appendEvidence(&result, fmt.Sprintf("uniform timing across %d answers (%s)", stats.Count, stats.String()))
	}

	// Machine-like consistency takes precedence over the uniform-timing check.
	if stats.Count >= policy.MachineCVMinSamples && stats.CV < policy.MachineCVLimit {
		result.Suspicious = true
		result.Severity = models.SeverityHigh
		appendEvidence(&result, fmt.Sprintf("machine-like consistency, cv=%.3f across %d answers (%s)", stats.CV, stats.Count, stats.String()))
	}

	return result
}

// appendEvidence keeps findings from earlier checks in the evidence string
// when several timing checks fire on the same sample set.
func appendEvidence(result *TimingResult, evidence string) {
	if result.Evidence == "" {
		result.Evidence = evidence
		return
	}
	result.Evidence += "; " + evidence
}

// String renders the stats for flag evidence.
func (s TimingStats) String() string {
	return fmt.Sprintf("mean=%.1fs min=%.1fs max=%.1fs var=%.2f cv=%.3f", s.Mean, s.Min, s.Max, s.Variance, s.CV)
}

func computeTimingStats(samples []float64) TimingStats {
	stats := TimingStats{Count: len(samples), Min: math.MaxFloat64}

	sum := 0.0
	for _, s := range samples {
		sum += s
		if s < stats.Min {
			stats.Min = s
		}
		if s > stats.Max {
			stats.Max = s
		}
	}
	stats.Mean = sum / float64(len(samples))

	sq := 0.0
	for _, s := range samples {
		d := s - stats.Mean
		sq += d * d
	}
	stats.Variance = sq / float64(len(samples))
	stats.StdDev = math.Sqrt(stats.Variance)
	if stats.Mean > 0 {
		stats.CV = stats.StdDev / stats.Mean
	}

	return stats
}
