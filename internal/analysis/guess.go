package analysis

import (
	"fmt"

	"github.com/proctorly/integrity-api/internal/models"
)

// GuessResult is the guess-pattern detector's verdict over an application's
// objective answers.
type GuessResult struct {
	Detected    bool
	Severity    string
	Evidence    string
	SuccessRate float64
	SampleSize  int
}

// DetectGuessPattern compares objective-answer correctness and option
// selection against the statistical signature of random guessing. The flag is
// a joint test: the success rate must sit near the random baseline AND the
// option distribution must be close to uniform. Either signal alone is not
// enough. Fewer than GuessMinAnswers usable answers yields "not detected".
func DetectGuessPattern(answers []models.Answer, policy Policy) GuessResult {
	var objective []models.Answer
	for _, a := range answers {
		if a.QuestionType == models.QuestionTypeObjective && a.SelectedOption != nil {
			objective = append(objective, a)
		}
	}

	result := GuessResult{SampleSize: len(objective)}
	if len(objective) < policy.GuessMinAnswers {
		result.Evidence = fmt.Sprintf("insufficient sample: %d objective answers, need %d", len(objective), policy.GuessMinAnswers)
		return result
	}

	correct := 0
	counts := map[int]int{}
	for _, a := range objective {
		if a.Correct {
			correct++
		}
		counts[*a.SelectedOption]++
	}
	result.SuccessRate = float64(correct) / float64(len(objective))

	nearBaseline := abs(result.SuccessRate-policy.RandomGuessBaseline) < policy.GuessRateTolerance
	uniform := optionDistributionUniform(counts, policy)

	if nearBaseline && uniform {
		result.Detected = true
		result.Severity = models.SeverityMedium
		result.Evidence = fmt.Sprintf("success rate %.2f near random baseline %.2f with near-uniform option distribution over %d answers",
			result.SuccessRate, policy.RandomGuessBaseline, len(objective))
	}

	return result
}

// optionDistributionUniform reports whether per-option selection counts are
// statistically close to uniform. Fewer distinct options observed than the
// expected option count is "not uniform" by definition.
func optionDistributionUniform(counts map[int]int, policy Policy) bool {
	if len(counts) < policy.ExpectedOptionCount {
		return false
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	mean := float64(total) / float64(len(counts))
	if mean == 0 {
		return false
	}

	variance := 0.0
	for _, c := range counts {
		d := float64(c) - mean
		variance += d * d
	}
	variance /= float64(len(counts))

	return variance/mean < 0.5
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
