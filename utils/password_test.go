package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordFormat(t *testing.T) {
	stored, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	hashHex, salt, ok := strings.Cut(stored, ".")
	require.True(t, ok)
	assert.Len(t, hashHex, 128)
	assert.Len(t, salt, 32)

	again, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, stored, again, "salts must differ")
}

func TestComparePasswordsRoundTrip(t *testing.T) {
	stored, err := HashPassword("correct horse")
	require.NoError(t, err)

	ok, err := ComparePasswords("correct horse", stored)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePasswords("correct horse!", stored)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComparePasswordsRejectsMalformedStoredValues(t *testing.T) {
	for _, stored := range []string{"", "nodot", ".salt", "abcd.", "zz.salt", "abcd.salt"} {
		ok, err := ComparePasswords("anything", stored)
		assert.NoError(t, err, stored)
		assert.False(t, ok, stored)
	}
}

func TestComparePasswordsAcceptsLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := ComparePasswords("old-password", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePasswords("wrong", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecoyHashTakesTheDerivationPath(t *testing.T) {
	key, salt, ok := parseScryptHash(decoyHash)
	require.True(t, ok, "a malformed decoy would skip the key derivation")
	assert.Len(t, key, scryptKeyLen)
	assert.Len(t, salt, 2*saltBytes)

	ok, err := ComparePasswords("anything", decoyHash)
	require.NoError(t, err)
	assert.False(t, ok)
}
