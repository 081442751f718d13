package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevenshteinDistance(t *testing.T) {
	require.Equal(t, 0, levenshteinDistance("abc", "abc"))
	require.Equal(t, 3, levenshteinDistance("", "abc"))
	require.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
	require.Equal(t, 1, levenshteinDistance("flaw", "flaws"))
}

func TestSimilarityRatio(t *testing.T) {
	require.Equal(t, 1.0, similarityRatio("same", "same"))
	require.Equal(t, 1.0, similarityRatio("", ""))
	require.InDelta(t, 0.8, similarityRatio("abcde", "abcdf"), 0.001)
}

func TestTokenSetRatioIgnoresOrder(t *testing.T) {
	require.Equal(t, 1.0, TokenSetRatio("return x + y", "y + x return"))
}

func TestTokenSetRatioSupersetScoresHigh(t *testing.T) {
	a := "for i in range(n): total += values[i]"
	b := "total = 0\nfor i in range(n): total += values[i]\nprint(total)"
	require.Greater(t, TokenSetRatio(a, b), 0.7)
}

func TestTokenSetRatioDisjoint(t *testing.T) {
	ratio := TokenSetRatio("alpha beta gamma", "delta epsilon zeta")
	require.Less(t, ratio, 0.5)
}

func TestTokenSetRatioEmpty(t *testing.T) {
	require.Equal(t, 1.0, TokenSetRatio("", ""))
	require.Equal(t, 0.0, TokenSetRatio("something", ""))
}
