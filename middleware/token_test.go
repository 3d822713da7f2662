package middleware

import (
	"testing"
	"time"

	"jetacademy/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useSecret(t *testing.T, secret string) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTKey: secret}
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestAuthTokenRoundTrip(t *testing.T) {
	useSecret(t, "test-secret")
	now := time.Now()

	token, err := GenerateAuthToken(42, "hana", now, now.Add(time.Hour))
	require.NoError(t, err)

	claims, err := ParseAuthToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "hana", claims.Username)
	assert.NotEmpty(t, claims.ID)

	other, err := GenerateAuthToken(42, "hana", now, now.Add(time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestParseAuthTokenRejects(t *testing.T) {
	useSecret(t, "test-secret")
	now := time.Now()

	expired, err := GenerateAuthToken(1, "hana", now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = ParseAuthToken(expired)
	assert.Error(t, err, "expired")

	anonymous, err := GenerateAuthToken(0, "", now, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = ParseAuthToken(anonymous)
	assert.Error(t, err, "zero user id")

	signed, err := GenerateAuthToken(1, "hana", now, now.Add(time.Hour))
	require.NoError(t, err)
	config.AppConfig.JWTKey = "rotated"
	_, err = ParseAuthToken(signed)
	assert.Error(t, err, "foreign signature")

	_, err = ParseAuthToken("not-a-token")
	assert.Error(t, err)
}
