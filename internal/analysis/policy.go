// Package analysis implements the submission integrity engine: timing and
// guess-pattern statistics, behavioral event summaries, heuristic AI-content
// detection, cross-candidate similarity against a shared corpus, and the
// deterministic risk aggregation that folds them into one report.
package analysis

// ScoreWeights is the additive contribution of each flag type to the risk
// score. The values are calibration constants; treat them as a starting
// configuration to retune, not a law of nature.
type ScoreWeights struct {
	TimingHigh        int
	TimingMedium      int
	GuessPattern      int
	BehaviorHigh      int
	BehaviorMedium    int
	IdenticalPatterns int
	ImpossibleTyping  int
}

// AISignalWeights is the additive contribution of each AI-content signal to
// the detector's confidence score.
type AISignalWeights struct {
	LexicalSignature      int
	CommentRatio          int
	ConsistentIndentation int
	ExampleUsage          int
	BlockComments         int
}

// Policy is the full configuration surface of the engine. Analyzers take it
// by value so a report is a pure function of (record, corpus snapshot, policy).
type Policy struct {
	// Timing
	MinTimePerQuestion   float64 // seconds; answers under this count as "too fast"
	UniformVarianceLimit float64 // s^2; variance below this with >=5 samples is uniform
	MachineCVLimit       float64 // coefficient of variation below this with >=3 samples
	MachineCVMinSamples  int
	UniformMinSamples    int

	// Guess detection
	RandomGuessBaseline float64 // 1/k for k-option questions
	GuessRateTolerance  float64
	GuessMinAnswers     int
	ExpectedOptionCount int

	// Behavior
	SuspiciousCopyPasteCount int
	SuspiciousTabSwitchCount int
	HighActivityCount        int
	MaxIdleTimeSeconds       float64

	// Typing speed
	MaxTypingSpeedCPM float64

	// AI content
	AIDetectionThreshold int
	AICommentRatioLimit  float64
	AIWeights            AISignalWeights

	// Similarity
	NearMatchThreshold      float64
	CriticalMatchThreshold  float64
	HighMatchThreshold      float64
	WithinAppMatchThreshold float64
	MinFreeTextLength       int

	Weights ScoreWeights
}

// DefaultPolicy returns the production defaults.
func DefaultPolicy() Policy {
	return Policy{
		MinTimePerQuestion:   5,
		UniformVarianceLimit: 2,
		MachineCVLimit:       0.1,
		MachineCVMinSamples:  3,
		UniformMinSamples:    5,

		RandomGuessBaseline: 0.25,
		GuessRateTolerance:  0.1,
		GuessMinAnswers:     5,
		ExpectedOptionCount: 4,

		SuspiciousCopyPasteCount: 3,
		SuspiciousTabSwitchCount: 5,
		HighActivityCount:        10,
		MaxIdleTimeSeconds:       300,

		MaxTypingSpeedCPM: 800,

		AIDetectionThreshold: 30,
		AICommentRatioLimit:  0.4,
		AIWeights: AISignalWeights{
			LexicalSignature:      15,
			CommentRatio:          10,
			ConsistentIndentation: 5,
			ExampleUsage:          10,
			BlockComments:         15,
		},

		NearMatchThreshold:      0.7,
		CriticalMatchThreshold:  0.9,
		HighMatchThreshold:      0.8,
		WithinAppMatchThreshold: 0.8,
		MinFreeTextLength:       50,

		Weights: ScoreWeights{
			TimingHigh:        30,
			TimingMedium:      15,
			GuessPattern:      25,
			BehaviorHigh:      20,
			BehaviorMedium:    10,
			IdenticalPatterns: 15,
			ImpossibleTyping:  25,
		},
	}
}
