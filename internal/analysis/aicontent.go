package analysis

import (
	"fmt"
	"strings"
)

// aiLexicalSignatures are phrases characteristic of assistant-generated
// answers: explanatory preambles, enumerated walkthroughs, sign-offs.
var aiLexicalSignatures = []string{
	"here is the solution",
	"here's the solution",
	"here is a solution",
	"here is the code",
	"step 1:",
	"step 2:",
	"in this solution",
	"to solve this problem",
	"let's break this down",
	"we can approach this",
	"as an ai",
	"i hope this helps",
	"note that this solution",
	"this implementation",
}

var exampleUsageMarkers = []string{
	"example usage",
	"usage example",
	"sample usage",
}

// AIContentResult is the heuristic provenance classifier's verdict over one
// free-text or code answer.
type AIContentResult struct {
	Detected   bool
	Confidence int
	Indicators []string
}

// DetectAIContent scores one answer's raw content for signs of non-original
// authorship. Scoring is additive over independent signals, capped at 100;
// every increment records why so reports stay auditable.
func DetectAIContent(content string, policy Policy) AIContentResult {
	result := AIContentResult{}
	if strings.TrimSpace(content) == "" {
		return result
	}

	lower := strings.ToLower(content)
	score := 0

	for _, phrase := range aiLexicalSignatures {
		if strings.Contains(lower, phrase) {
			score += policy.AIWeights.LexicalSignature
			result.Indicators = append(result.Indicators, fmt.Sprintf("lexical signature %q", phrase))
		}
	}

	lines := strings.Split(content, "\n")
	if ratio := commentLineRatio(lines); ratio > policy.AICommentRatioLimit {
		score += policy.AIWeights.CommentRatio
		result.Indicators = append(result.Indicators, fmt.Sprintf("comment ratio %.2f exceeds %.2f", ratio, policy.AICommentRatioLimit))
	}

	if hasConsistentIndentation(lines) {
		score += policy.AIWeights.ConsistentIndentation
		result.Indicators = append(result.Indicators, "perfectly consistent indentation")
	}

	for _, marker := range exampleUsageMarkers {
		if strings.Contains(lower, marker) {
			score += policy.AIWeights.ExampleUsage
			result.Indicators = append(result.Indicators, fmt.Sprintf("example-usage marker %q", marker))
			break
		}
	}

	if regions := blockCommentRegions(content); regions > 2 {
		score += policy.AIWeights.BlockComments
		result.Indicators = append(result.Indicators, fmt.Sprintf("%d block-comment regions", regions))
	}

	if score > 100 {
		score = 100
	}
	result.Confidence = score
	result.Detected = score >= policy.AIDetectionThreshold

	return result
}

func commentLineRatio(lines []string) float64 {
	total := 0
	comments := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		total++
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "--") || strings.HasPrefix(trimmed, "/*") ||
			strings.HasPrefix(trimmed, "*") {
			comments++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(comments) / float64(total)
}

// hasConsistentIndentation reports whether every indented line's leading
// whitespace width is a multiple of one consistent base unit. Tabs count as
// one standard indent step. Hand-typed code almost always drifts; generated
// code rarely does.
func hasConsistentIndentation(lines []string) bool {
	base := 0
	indented := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		width := indentWidth(line)
		if width == 0 {
			continue
		}
		indented++
		if base == 0 || width < base {
			base = width
		}
	}
	if indented < 3 || base == 0 {
		return false
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if indentWidth(line)%base != 0 {
			return false
		}
	}
	return true
}

const tabIndentWidth = 4

func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += tabIndentWidth
		default:
			return width
		}
	}
	return width
}

func blockCommentRegions(content string) int {
	regions := strings.Count(content, "/*")
	regions += strings.Count(content, `"""`) / 2
	regions += strings.Count(content, "'''") / 2
	return regions
}
