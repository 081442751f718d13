package analysis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/proctorly/integrity-api/internal/models"
)

const (
	// MatchTypeExact marks byte-identical normalized content.
	MatchTypeExact = "exact_match"
	// MatchTypeNear marks high token-set similarity below exact.
	MatchTypeNear = "near_match"
)

// SimilarityMatch is one reported overlap between a submission and either the
// corpus or another answer in the same application.
type SimilarityMatch struct {
	Type               string  `json:"type"`
	QuestionID         string  `json:"question_id"`
	OtherApplicationID string  `json:"other_application_id,omitempty"`
	OtherQuestionID    string  `json:"other_question_id,omitempty"`
	Similarity         float64 `json:"similarity"`
	Severity           string  `json:"severity"`
	Evidence           string  `json:"evidence"`
}

// SimilarityEngine computes cross-candidate and within-application content
// overlap. Both checks are advisory; they never block grading.
type SimilarityEngine struct {
	store  CorpusStore
	policy Policy
	logger zerolog.Logger
}

// NewSimilarityEngine builds a similarity engine over the given corpus store.
func NewSimilarityEngine(store CorpusStore, policy Policy, logger zerolog.Logger) *SimilarityEngine {
	return &SimilarityEngine{
		store:  store,
		policy: policy,
		logger: logger.With().Str("component", "similarity_engine").Logger(),
	}
}

// CompareAgainstCorpus checks each coding/subjective answer against the corpus
// as it stands before the application's own insertion. The hash fast path
// reports exact matches at similarity 1.0; remaining entries go through the
// token-set near-match path. A corpus read failure degrades to no findings for
// that question rather than failing the report.
func (e *SimilarityEngine) CompareAgainstCorpus(ctx context.Context, applicationID string, answers []models.Answer) []SimilarityMatch {
	var matches []SimilarityMatch

	for _, answer := range answers {
		content, ok := answer.TextContent()
		if !ok {
			continue
		}
		normalized := Normalize(content)
		if normalized == "" {
			continue
		}
		hash := Fingerprint(normalized)

		entries, err := e.store.Lookup(ctx, answer.QuestionID)
		if err != nil {
			e.logger.Warn().Err(err).Str("question_id", answer.QuestionID).Msg("corpus lookup failed, skipping question")
			continue
		}

		for _, entry := range entries {
			if entry.ApplicationID == applicationID {
				continue
			}
			if entry.ContentHash == hash {
				matches = append(matches, SimilarityMatch{
					Type:               MatchTypeExact,
					QuestionID:         answer.QuestionID,
					OtherApplicationID: entry.ApplicationID,
					Similarity:         1.0,
					Severity:           models.SeverityHigh,
					Evidence:           fmt.Sprintf("question %s: normalized content identical to application %s", answer.QuestionID, entry.ApplicationID),
				})
				continue
			}
			ratio := TokenSetRatio(normalized, entry.NormalizedContent)
			if ratio > e.policy.NearMatchThreshold {
				severity, qualifier := e.severityForSimilarity(ratio)
				matches = append(matches, SimilarityMatch{
					Type:               MatchTypeNear,
					QuestionID:         answer.QuestionID,
					OtherApplicationID: entry.ApplicationID,
					Similarity:         ratio,
					Severity:           severity,
					Evidence:           fmt.Sprintf("question %s: %s %.0f%% similarity to application %s", answer.QuestionID, qualifier, ratio*100, entry.ApplicationID),
				})
			}
		}
	}

	sortMatches(matches)
	return matches
}

// CompareWithinApplication checks all free-text answers above the minimum
// length pairwise within one application, catching a candidate reusing one
// answer verbatim across questions.
func (e *SimilarityEngine) CompareWithinApplication(answers []models.Answer) []SimilarityMatch {
	type candidate struct {
		questionID string
		normalized string
	}
	var texts []candidate
	for _, answer := range answers {
		content, ok := answer.TextContent()
		if !ok || len(content) <= e.policy.MinFreeTextLength {
			continue
		}
		texts = append(texts, candidate{questionID: answer.QuestionID, normalized: Normalize(content)})
	}

	var matches []SimilarityMatch
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			ratio := TokenSetRatio(texts[i].normalized, texts[j].normalized)
			if ratio > e.policy.WithinAppMatchThreshold {
				matches = append(matches, SimilarityMatch{
					Type:            models.FlagIdenticalPatterns,
					QuestionID:      texts[i].questionID,
					OtherQuestionID: texts[j].questionID,
					Similarity:      ratio,
					Severity:        models.SeverityMedium,
					Evidence:        fmt.Sprintf("answers to questions %s and %s are %.0f%% similar", texts[i].questionID, texts[j].questionID, ratio*100),
				})
			}
		}
	}

	sortMatches(matches)
	return matches
}

// CompareAcrossApplications runs the explicit pairwise cross-check within a
// batch: every question answered by two applications is compared directly,
// independent of the corpus. This is the O(n²) re-scoring pass; the
// single-submission path stays O(corpus size). Findings are keyed by
// application ID, and each overlapping pair is reported on both sides.
func (e *SimilarityEngine) CompareAcrossApplications(apps []models.Application) map[string][]SimilarityMatch {
	type normalizedAnswer struct {
		applicationID string
		hash          string
		normalized    string
	}

	byQuestion := make(map[string][]normalizedAnswer)
	for _, app := range apps {
		for _, answer := range app.Answers {
			content, ok := answer.TextContent()
			if !ok {
				continue
			}
			normalized := Normalize(content)
			if normalized == "" {
				continue
			}
			byQuestion[answer.QuestionID] = append(byQuestion[answer.QuestionID], normalizedAnswer{
				applicationID: app.ID,
				hash:          Fingerprint(normalized),
				normalized:    normalized,
			})
		}
	}

	findings := make(map[string][]SimilarityMatch)
	report := func(owner, other, questionID string, ratio float64, matchType string) {
		severity, qualifier := e.severityForSimilarity(ratio)
		if matchType == MatchTypeExact {
			severity, qualifier = models.SeverityHigh, "exact"
		}
		findings[owner] = append(findings[owner], SimilarityMatch{
			Type:               matchType,
			QuestionID:         questionID,
			OtherApplicationID: other,
			Similarity:         ratio,
			Severity:           severity,
			Evidence:           fmt.Sprintf("batch cross-check, question %s: %s %.0f%% similarity to application %s", questionID, qualifier, ratio*100, other),
		})
	}

	for questionID, entries := range byQuestion {
		for i := 0; i < len(entries); i++ {
			for j := i + 1; j < len(entries); j++ {
				a, b := entries[i], entries[j]
				if a.applicationID == b.applicationID {
					continue
				}
				if a.hash == b.hash {
					report(a.applicationID, b.applicationID, questionID, 1.0, MatchTypeExact)
					report(b.applicationID, a.applicationID, questionID, 1.0, MatchTypeExact)
					continue
				}
				ratio := TokenSetRatio(a.normalized, b.normalized)
				if ratio > e.policy.NearMatchThreshold {
					report(a.applicationID, b.applicationID, questionID, ratio, MatchTypeNear)
					report(b.applicationID, a.applicationID, questionID, ratio, MatchTypeNear)
				}
			}
		}
	}

	for _, matches := range findings {
		sortMatches(matches)
	}
	return findings
}

// Record appends the application's normalized answers to the corpus. Called
// after both comparison passes so a submission is never compared against
// itself (write-after-read). Idempotent per submission: answers already
// recorded under the same application and hash are skipped, so re-checks and
// batch re-scores leave the corpus unchanged. Failures are logged and
// swallowed: a missed corpus write weakens future comparisons but must never
// fail the caller.
func (e *SimilarityEngine) Record(ctx context.Context, applicationID string, answers []models.Answer) {
	for _, answer := range answers {
		content, ok := answer.TextContent()
		if !ok {
			continue
		}
		normalized := Normalize(content)
		if normalized == "" {
			continue
		}
		hash := Fingerprint(normalized)
		if e.alreadyRecorded(ctx, answer.QuestionID, applicationID, hash) {
			continue
		}
		entry := CorpusEntry{
			ApplicationID:     applicationID,
			ContentHash:       hash,
			NormalizedContent: normalized,
			InsertedAt:        time.Now().UTC(),
		}
		if err := e.store.Append(ctx, answer.QuestionID, entry); err != nil {
			e.logger.Warn().Err(err).
				Str("application_id", applicationID).
				Str("question_id", answer.QuestionID).
				Msg("corpus append failed, entry dropped")
		}
	}
}

// alreadyRecorded reports whether the corpus holds this exact submission
// under the question. Re-analysis of an application must not grow the
// comparison basis, or later candidates see the same prior submission
// reported once per re-check. A failed lookup falls through to the append.
func (e *SimilarityEngine) alreadyRecorded(ctx context.Context, questionID, applicationID, hash string) bool {
	entries, err := e.store.Lookup(ctx, questionID)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.ApplicationID == applicationID && entry.ContentHash == hash {
			return true
		}
	}
	return false
}

// severityForSimilarity tiers near matches. Reports use the three-level
// severity scale, so the critical tier surfaces through the evidence text.
func (e *SimilarityEngine) severityForSimilarity(ratio float64) (severity, qualifier string) {
	switch {
	case ratio > e.policy.CriticalMatchThreshold:
		return models.SeverityHigh, "critical"
	case ratio >= e.policy.HighMatchThreshold:
		return models.SeverityHigh, "high"
	default:
		return models.SeverityMedium, "notable"
	}
}

// sortMatches fixes the match order so reports are deterministic for a given
// corpus snapshot.
func sortMatches(matches []SimilarityMatch) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].QuestionID != matches[j].QuestionID {
			return matches[i].QuestionID < matches[j].QuestionID
		}
		if matches[i].OtherApplicationID != matches[j].OtherApplicationID {
			return matches[i].OtherApplicationID < matches[j].OtherApplicationID
		}
		return matches[i].OtherQuestionID < matches[j].OtherQuestionID
	})
}
