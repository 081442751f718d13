package models

import "time"

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

const (
	RecommendationProceed = "proceed"
	RecommendationFlag    = "flag"
	RecommendationReview  = "review"
	RecommendationReject  = "reject"
)

// Flag type identifiers used in integrity reports.
const (
	FlagTimingAnomaly      = "timing_anomaly"
	FlagGuessPattern       = "guess_pattern"
	FlagBehavioralAnomaly  = "behavioral_anomaly"
	FlagIdenticalPatterns  = "identical_patterns"
	FlagImpossibleTyping   = "impossible_typing_speed"
	FlagAIGeneratedContent = "ai_generated_content"
	FlagContentSimilarity  = "content_similarity"
	FlagBatchSimilarity    = "batch_similarity"
)

// IntegrityFlag is one explainable finding attached to a report. Contribution
// is the number of points the flag added to the risk score; advisory flags
// carry zero.
type IntegrityFlag struct {
	Type         string `json:"type"`
	Severity     string `json:"severity"`
	Evidence     string `json:"evidence"`
	Contribution int    `json:"contribution"`
}

// IntegrityReport is the engine's sole output for one application. It is
// created fresh on every analysis call and never mutated afterward.
type IntegrityReport struct {
	ApplicationID  string          `json:"application_id"`
	RiskScore      int             `json:"risk_score"`
	IsBot          bool            `json:"is_bot"`
	Flags          []IntegrityFlag `json:"flags"`
	Recommendation string          `json:"recommendation"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// RecommendationForScore derives the recommendation tier from a risk score.
// The mapping is monotonic with no gaps or overlaps.
func RecommendationForScore(score int) string {
	switch {
	case score >= 70:
		return RecommendationReject
	case score >= 50:
		return RecommendationReview
	case score >= 25:
		return RecommendationFlag
	default:
		return RecommendationProceed
	}
}
