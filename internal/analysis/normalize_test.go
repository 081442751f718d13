package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeStripsCommentsWhitespaceAndCase(t *testing.T) {
	a := "func Main() {\n\t// entry point\n\tReturn 42\n}"
	b := "FUNC MAIN() { RETURN 42 }   /* entry point, reformatted */"

	require.Equal(t, Normalize(a), Normalize(b))
	require.Equal(t, "func main() { return 42 }", Normalize(a))
}

func TestNormalizePythonDocstrings(t *testing.T) {
	code := "def f(x):\n    \"\"\"Squares x.\"\"\"\n    # trivial\n    return x * x"
	require.Equal(t, "def f(x): return x * x", Normalize(code))
}

func TestFingerprintMatchesForEqualNormalizedContent(t *testing.T) {
	a := Normalize("x = 1 // set x")
	b := Normalize("X   =   1")
	require.Equal(t, Fingerprint(a), Fingerprint(b))
	require.Len(t, Fingerprint(a), 64)
}

func TestNormalizeEmpty(t *testing.T) {
	require.Empty(t, Normalize("  \n\t "))
	require.Empty(t, Normalize("// only a comment"))
}
