package battle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCode_Shape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := GenerateCode()
		require.Len(t, code, codeLength)
		for _, r := range code {
			require.Contains(t, codeAlphabet, string(r))
		}
		require.False(t, seen[code], "code %s repeated", code)
		seen[code] = true
	}
}

func TestNormalizeCode(t *testing.T) {
	require.Equal(t, "ABC123XYZW", NormalizeCode("abc123xyzw"))
	require.Equal(t, "ABC123XYZW", NormalizeCode("  Abc123xyzW "))
	require.Equal(t, NormalizeCode("q2w3e4r5t6"), NormalizeCode("Q2W3E4R5T6"))
}
