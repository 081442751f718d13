package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	reBlockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reTripleDouble  = regexp.MustCompile(`(?s)""".*?"""`)
	reTripleSingle  = regexp.MustCompile(`(?s)'''.*?'''`)
	reLineComment   = regexp.MustCompile(`(?m)//[^\n]*|#[^\n]*|--[^\n]*`)
	reWhitespaceRun = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes code or free text for similarity comparison:
// comments stripped, whitespace collapsed, lowercased. Two answers that differ
// only in formatting or commentary normalize to the same string.
func Normalize(content string) string {
	out := reBlockComment.ReplaceAllString(content, " ")
	out = reTripleDouble.ReplaceAllString(out, " ")
	out = reTripleSingle.ReplaceAllString(out, " ")
	out = reLineComment.ReplaceAllString(out, " ")
	out = reWhitespaceRun.ReplaceAllString(out, " ")
	return strings.ToLower(strings.TrimSpace(out))
}

// Fingerprint hashes normalized content for the exact-match fast path.
func Fingerprint(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
