package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/proctorly/integrity-api/internal/models"
)

func codingAnswer(questionID, code string) models.Answer {
	return models.Answer{QuestionID: questionID, QuestionType: models.QuestionTypeCoding, Code: code}
}

func subjectiveAnswer(questionID, text string) models.Answer {
	return models.Answer{QuestionID: questionID, QuestionType: models.QuestionTypeSubjective, Text: text}
}

func newTestEngine(store CorpusStore) *SimilarityEngine {
	return NewSimilarityEngine(store, DefaultPolicy(), zerolog.Nop())
}

func TestExactMatchFastPathIgnoresFormatting(t *testing.T) {
	corpus := NewMemoryCorpus()
	engine := newTestEngine(corpus)
	ctx := context.Background()

	original := codingAnswer("q1", "func Sum(a, b int) int {\n\treturn a + b // add\n}")
	engine.Record(ctx, "app-1", []models.Answer{original})

	// Same code, different indentation and comment placement.
	copied := codingAnswer("q1", "// my solution\nfunc sum(a, b int) int { return a + b }")
	matches := engine.CompareAgainstCorpus(ctx, "app-2", []models.Answer{copied})

	require.Len(t, matches, 1)
	require.Equal(t, MatchTypeExact, matches[0].Type)
	require.Equal(t, 1.0, matches[0].Similarity)
	require.Equal(t, "app-1", matches[0].OtherApplicationID)
}

func TestCorpusComparisonExcludesOwnApplication(t *testing.T) {
	corpus := NewMemoryCorpus()
	engine := newTestEngine(corpus)
	ctx := context.Background()

	answer := codingAnswer("q1", "return a * b")
	engine.Record(ctx, "app-1", []models.Answer{answer})

	matches := engine.CompareAgainstCorpus(ctx, "app-1", []models.Answer{answer})
	require.Empty(t, matches)
}

func TestNearMatchPath(t *testing.T) {
	corpus := NewMemoryCorpus()
	engine := newTestEngine(corpus)
	ctx := context.Background()

	engine.Record(ctx, "app-1", []models.Answer{
		codingAnswer("q1", "total = 0\nfor v in values:\n    total += v\nreturn total"),
	})

	matches := engine.CompareAgainstCorpus(ctx, "app-2", []models.Answer{
		codingAnswer("q1", "result = 0\nfor v in values:\n    result += v\nreturn result"),
	})

	require.Len(t, matches, 1)
	require.Equal(t, MatchTypeNear, matches[0].Type)
	require.Greater(t, matches[0].Similarity, 0.7)
	require.Less(t, matches[0].Similarity, 1.0)
}

func TestWithinApplicationDuplication(t *testing.T) {
	engine := newTestEngine(NewMemoryCorpus())

	essay := "The main advantage of this approach is that it scales horizontally across nodes without shared state."
	answers := []models.Answer{
		subjectiveAnswer("q1", essay),
		subjectiveAnswer("q2", essay+" In addition it simplifies failover."),
		subjectiveAnswer("q3", "Caching reduces latency by keeping hot data close to the consumer."),
	}

	matches := engine.CompareWithinApplication(answers)
	require.Len(t, matches, 1)
	require.Equal(t, models.FlagIdenticalPatterns, matches[0].Type)
	require.Equal(t, "q1", matches[0].QuestionID)
	require.Equal(t, "q2", matches[0].OtherQuestionID)
	require.Greater(t, matches[0].Similarity, 0.8)
}

func TestWithinApplicationIgnoresShortAnswers(t *testing.T) {
	engine := newTestEngine(NewMemoryCorpus())

	answers := []models.Answer{
		subjectiveAnswer("q1", "yes"),
		subjectiveAnswer("q2", "yes"),
	}

	require.Empty(t, engine.CompareWithinApplication(answers))
}

// Two near-identical submissions analyzed concurrently may both read the
// corpus before either writes. Neither flags the other in that window; this
// is the documented read-before-write boundary condition, not a lost write.
// A later submission sees both.
func TestSimultaneousSubmissionsReadBeforeWrite(t *testing.T) {
	corpus := NewMemoryCorpus()
	engine := newTestEngine(corpus)
	ctx := context.Background()

	answer := codingAnswer("q1", "return values[0]")

	first := engine.CompareAgainstCorpus(ctx, "app-1", []models.Answer{answer})
	second := engine.CompareAgainstCorpus(ctx, "app-2", []models.Answer{answer})
	require.Empty(t, first)
	require.Empty(t, second)

	engine.Record(ctx, "app-1", []models.Answer{answer})
	engine.Record(ctx, "app-2", []models.Answer{answer})

	entries, err := corpus.Lookup(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	third := engine.CompareAgainstCorpus(ctx, "app-3", []models.Answer{answer})
	require.Len(t, third, 2)
}

func TestCompareAcrossApplications(t *testing.T) {
	engine := newTestEngine(NewMemoryCorpus())

	apps := []models.Application{
		{ID: "app-1", Answers: []models.Answer{codingAnswer("q1", "return a + b")}},
		{ID: "app-2", Answers: []models.Answer{codingAnswer("q1", "RETURN A + B  // same thing")}},
		{ID: "app-3", Answers: []models.Answer{codingAnswer("q1", "completely different implementation using recursion and memoization tables")}},
	}

	findings := engine.CompareAcrossApplications(apps)
	require.Len(t, findings["app-1"], 1)
	require.Len(t, findings["app-2"], 1)
	require.Empty(t, findings["app-3"])
	require.Equal(t, MatchTypeExact, findings["app-1"][0].Type)
	require.Equal(t, "app-2", findings["app-1"][0].OtherApplicationID)
}

func TestRecordIsIdempotentPerSubmission(t *testing.T) {
	corpus := NewMemoryCorpus()
	engine := newTestEngine(corpus)
	ctx := context.Background()

	answer := codingAnswer("q1", "def solve(n):\n    return n * 2\n")
	engine.Record(ctx, "app-1", []models.Answer{answer})
	engine.Record(ctx, "app-1", []models.Answer{answer})

	entries, err := corpus.Lookup(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// A revised answer from the same application is new content and lands.
	engine.Record(ctx, "app-1", []models.Answer{codingAnswer("q1", "def solve(n):\n    return n + n\n")})
	entries, err = corpus.Lookup(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// The same content from another application is a distinct submission.
	engine.Record(ctx, "app-2", []models.Answer{answer})
	entries, err = corpus.Lookup(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestRecordSkipsEmptyAndObjectiveAnswers(t *testing.T) {
	corpus := NewMemoryCorpus()
	engine := newTestEngine(corpus)
	ctx := context.Background()

	option := 2
	engine.Record(ctx, "app-1", []models.Answer{
		{QuestionID: "q1", QuestionType: models.QuestionTypeObjective, SelectedOption: &option},
		codingAnswer("q2", "// nothing but commentary"),
		subjectiveAnswer("q3", strings.Repeat("insight ", 10)),
	})

	for questionID, want := range map[string]int{"q1": 0, "q2": 0, "q3": 1} {
		entries, err := corpus.Lookup(ctx, questionID)
		require.NoError(t, err)
		require.Len(t, entries, want, "question %s", questionID)
	}
}
