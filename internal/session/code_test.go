package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_FormatAndAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCode(nil)
		require.NoError(t, err)
		require.Len(t, code, 5)
		for _, r := range code {
			assert.Contains(t, codeAlphabet, string(r))
		}
	}
}

func TestGenerateCode_ResamplesOnCollision(t *testing.T) {
	var first string
	calls := 0
	code, err := GenerateCode(func(candidate string) bool {
		calls++
		// Reject the first candidate only, to force exactly one re-sample.
		if first == "" {
			first = candidate
			return true
		}
		return false
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, calls, 2)
	// A later sample may coincide with the first by chance, but the
	// accepted code was checked against taken and passed.
	assert.Len(t, code, 5)
}

func TestGenerateCode_GivesUpWhenEverythingIsTaken(t *testing.T) {
	_, err := GenerateCode(func(string) bool { return true })
	assert.ErrorIs(t, err, ErrCodesExhausted)
}

func TestGenerateCode_UsesUppercaseAndDigitsOnly(t *testing.T) {
	code, err := GenerateCode(nil)
	require.NoError(t, err)
	assert.Equal(t, strings.ToUpper(code), code)
}
