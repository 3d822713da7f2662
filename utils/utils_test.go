package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStudentID(t *testing.T) {
	re := regexp.MustCompile(`^[1-9][0-9]{6}$`)
	for i := 0; i < 200; i++ {
		id, err := GenerateStudentID()
		require.NoError(t, err)
		assert.Regexp(t, re, id)
	}
}

func TestGenerateTokens(t *testing.T) {
	reset, err := GenerateResetToken()
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{64}$`, reset)

	short, err := GenerateShortToken()
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{16}$`, short)

	other, err := GenerateShortToken()
	require.NoError(t, err)
	assert.NotEqual(t, short, other)
}

func TestIsMobileUserAgent(t *testing.T) {
	assert.True(t, IsMobileUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"))
	assert.True(t, IsMobileUserAgent("Mozilla/5.0 (Linux; Android 14; Pixel 8)"))
	assert.True(t, IsMobileUserAgent("Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)"))
	assert.False(t, IsMobileUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64)"))
	assert.False(t, IsMobileUserAgent(""))
}

func TestStateCodeOf(t *testing.T) {
	assert.Equal(t, "CA", StateCodeOf(" ca-1234 "))
	assert.Equal(t, "X", StateCodeOf("x"))
}
