package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proctorly/integrity-api/internal/models"
)

func objectiveAnswer(questionID string, option int, correct bool) models.Answer {
	return models.Answer{
		QuestionID:     questionID,
		QuestionType:   models.QuestionTypeObjective,
		SelectedOption: &option,
		Correct:        correct,
	}
}

func TestDetectGuessPatternInsufficientSample(t *testing.T) {
	answers := []models.Answer{
		objectiveAnswer("q1", 0, false),
		objectiveAnswer("q2", 1, true),
		objectiveAnswer("q3", 2, false),
		objectiveAnswer("q4", 3, false),
	}

	result := DetectGuessPattern(answers, DefaultPolicy())
	require.False(t, result.Detected)
	require.Contains(t, result.Evidence, "insufficient sample")
}

func TestDetectGuessPatternJointCondition(t *testing.T) {
	// Success rate sits exactly on the random baseline, but every selection is
	// option 0. A skewed distribution must not trigger the flag on its own.
	answers := []models.Answer{
		objectiveAnswer("q1", 0, true),
		objectiveAnswer("q2", 0, false),
		objectiveAnswer("q3", 0, false),
		objectiveAnswer("q4", 0, false),
		objectiveAnswer("q5", 0, true),
		objectiveAnswer("q6", 0, false),
		objectiveAnswer("q7", 0, false),
		objectiveAnswer("q8", 0, false),
	}

	result := DetectGuessPattern(answers, DefaultPolicy())
	require.InDelta(t, 0.25, result.SuccessRate, 0.001)
	require.False(t, result.Detected)
}

func TestDetectGuessPatternUniformButHighScore(t *testing.T) {
	// Uniform option usage with a near-perfect score is skill, not guessing.
	answers := []models.Answer{
		objectiveAnswer("q1", 0, true),
		objectiveAnswer("q2", 1, true),
		objectiveAnswer("q3", 2, true),
		objectiveAnswer("q4", 3, true),
		objectiveAnswer("q5", 0, true),
		objectiveAnswer("q6", 1, true),
		objectiveAnswer("q7", 2, true),
		objectiveAnswer("q8", 3, false),
	}

	result := DetectGuessPattern(answers, DefaultPolicy())
	require.False(t, result.Detected)
}

func TestDetectGuessPatternDetected(t *testing.T) {
	answers := []models.Answer{
		objectiveAnswer("q1", 0, true),
		objectiveAnswer("q2", 1, false),
		objectiveAnswer("q3", 2, false),
		objectiveAnswer("q4", 3, false),
		objectiveAnswer("q5", 0, true),
		objectiveAnswer("q6", 1, false),
		objectiveAnswer("q7", 2, false),
		objectiveAnswer("q8", 3, false),
	}

	result := DetectGuessPattern(answers, DefaultPolicy())
	require.True(t, result.Detected)
	require.Equal(t, models.SeverityMedium, result.Severity)
	require.Equal(t, 8, result.SampleSize)
	require.InDelta(t, 0.25, result.SuccessRate, 0.001)
}

func TestDetectGuessPatternSkipsMalformedAnswers(t *testing.T) {
	// Objective answers without a selected option carry no signal.
	answers := []models.Answer{
		{QuestionID: "q1", QuestionType: models.QuestionTypeObjective},
		{QuestionID: "q2", QuestionType: models.QuestionTypeObjective},
		objectiveAnswer("q3", 0, false),
		objectiveAnswer("q4", 1, true),
	}

	result := DetectGuessPattern(answers, DefaultPolicy())
	require.False(t, result.Detected)
	require.Equal(t, 2, result.SampleSize)
}
