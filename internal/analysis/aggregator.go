package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/proctorly/integrity-api/internal/models"
)

// Aggregator folds the analyzer outputs for one application into a bounded
// risk score, typed flags, and a recommendation tier. Analyze is a
// deterministic pure function of (application, corpus snapshot, policy);
// the only wall-clock dependency is the GeneratedAt stamp.
type Aggregator struct {
	policy     Policy
	similarity *SimilarityEngine
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAggregator constructs the aggregator over the given corpus store.
func NewAggregator(store CorpusStore, policy Policy, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		policy:     policy,
		similarity: NewSimilarityEngine(store, policy, logger),
		logger:     logger.With().Str("component", "risk_aggregator").Logger(),
		now:        time.Now,
	}
}

// Similarity exposes the engine's similarity component for corpus recording
// and batch cross-checking.
func (a *Aggregator) Similarity() *SimilarityEngine {
	return a.similarity
}

// Analyze runs all analyzers over the application and combines their outputs.
// It never writes to the corpus; callers append via Similarity().Record after
// the report is produced, so a submission is compared against the corpus as it
// stood before its own insertion.
func (a *Aggregator) Analyze(ctx context.Context, app models.Application) models.IntegrityReport {
	answers := dedupeAnswers(app.Answers)
	score := 0
	var flags []models.IntegrityFlag

	var samples []float64
	for _, answer := range answers {
		if answer.HasKnownDuration() {
			samples = append(samples, *answer.TimeSpentSeconds)
		}
	}
	if timing := AnalyzeTiming(samples, a.policy); timing.Suspicious {
		contribution := a.policy.Weights.TimingMedium
		if timing.Severity == models.SeverityHigh {
			contribution = a.policy.Weights.TimingHigh
		}
		score += contribution
		flags = append(flags, models.IntegrityFlag{
			Type:         models.FlagTimingAnomaly,
			Severity:     timing.Severity,
			Evidence:     timing.Evidence,
			Contribution: contribution,
		})
	}

	if guess := DetectGuessPattern(answers, a.policy); guess.Detected {
		contribution := a.policy.Weights.GuessPattern
		score += contribution
		flags = append(flags, models.IntegrityFlag{
			Type:         models.FlagGuessPattern,
			Severity:     guess.Severity,
			Evidence:     guess.Evidence,
			Contribution: contribution,
		})
	}

	if behavior := SummarizeBehavior(app.Events, a.policy); behavior.Suspicious {
		contribution := a.policy.Weights.BehaviorMedium
		if behavior.Severity == models.SeverityHigh {
			contribution = a.policy.Weights.BehaviorHigh
		}
		score += contribution
		flags = append(flags, models.IntegrityFlag{
			Type:         models.FlagBehavioralAnomaly,
			Severity:     behavior.Severity,
			Evidence:     behavior.Evidence,
			Contribution: contribution,
		})
	}

	if evidence := a.detectImpossibleTyping(answers); evidence != "" {
		contribution := a.policy.Weights.ImpossibleTyping
		score += contribution
		flags = append(flags, models.IntegrityFlag{
			Type:         models.FlagImpossibleTyping,
			Severity:     models.SeverityHigh,
			Evidence:     evidence,
			Contribution: contribution,
		})
	}

	if internal := a.similarity.CompareWithinApplication(answers); len(internal) > 0 {
		contribution := a.policy.Weights.IdenticalPatterns
		score += contribution
		flags = append(flags, models.IntegrityFlag{
			Type:         models.FlagIdenticalPatterns,
			Severity:     models.SeverityMedium,
			Evidence:     joinMatchEvidence(internal),
			Contribution: contribution,
		})
	}

	// Corpus similarity and AI-content findings are advisory: they surface in
	// the report for reviewers without contributing points.
	for _, match := range a.similarity.CompareAgainstCorpus(ctx, app.ID, answers) {
		flags = append(flags, models.IntegrityFlag{
			Type:     models.FlagContentSimilarity,
			Severity: match.Severity,
			Evidence: match.Evidence,
		})
	}

	for _, answer := range answers {
		content, ok := answer.TextContent()
		if !ok {
			continue
		}
		if ai := DetectAIContent(content, a.policy); ai.Detected {
			severity := models.SeverityMedium
			if ai.Confidence >= 60 {
				severity = models.SeverityHigh
			}
			flags = append(flags, models.IntegrityFlag{
				Type:     models.FlagAIGeneratedContent,
				Severity: severity,
				Evidence: fmt.Sprintf("question %s: confidence %d (%s)", answer.QuestionID, ai.Confidence, strings.Join(ai.Indicators, "; ")),
			})
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return models.IntegrityReport{
		ApplicationID:  app.ID,
		RiskScore:      score,
		IsBot:          score >= 50,
		Flags:          flags,
		Recommendation: models.RecommendationForScore(score),
		GeneratedAt:    a.now().UTC(),
	}
}

// detectImpossibleTyping returns evidence when any text/code answer implies a
// typing speed above the configured characters-per-minute ceiling.
func (a *Aggregator) detectImpossibleTyping(answers []models.Answer) string {
	for _, answer := range answers {
		content, ok := answer.TextContent()
		if !ok || !answer.HasKnownDuration() {
			continue
		}
		minutes := *answer.TimeSpentSeconds / 60
		cpm := float64(len(content)) / minutes
		if cpm > a.policy.MaxTypingSpeedCPM {
			return fmt.Sprintf("question %s: %.0f characters per minute exceeds %.0f",
				answer.QuestionID, cpm, a.policy.MaxTypingSpeedCPM)
		}
	}
	return ""
}

// dedupeAnswers enforces one answer per question: the last write wins, at the
// position the question was first answered.
func dedupeAnswers(answers []models.Answer) []models.Answer {
	index := make(map[string]int, len(answers))
	result := make([]models.Answer, 0, len(answers))
	for _, answer := range answers {
		if pos, ok := index[answer.QuestionID]; ok {
			result[pos] = answer
			continue
		}
		index[answer.QuestionID] = len(result)
		result = append(result, answer)
	}
	return result
}

func joinMatchEvidence(matches []SimilarityMatch) string {
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m.Evidence)
	}
	return strings.Join(parts, "; ")
}
