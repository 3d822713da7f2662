package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

// scrypt parameters for stored passwords. Changing them invalidates every hash.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltBytes    = 16
)

// HashPassword derives a scrypt key and returns it as "hex(hash).salt". The
// salt is 16 random bytes in hex, and that hex string itself is the KDF salt.
func HashPassword(password string) (string, error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	key, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	return hex.EncodeToString(key) + "." + salt, nil
}

// ComparePasswords reports whether supplied matches the stored hash. Malformed
// stored values never match. Hashes carried over from the bcrypt era are
// verified with bcrypt.
func ComparePasswords(supplied, stored string) (bool, error) {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil, nil
	}

	storedKey, salt, ok := parseScryptHash(stored)
	if !ok {
		return false, nil
	}

	key, err := scrypt.Key([]byte(supplied), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false, fmt.Errorf("derive key: %w", err)
	}
	return subtle.ConstantTimeCompare(key, storedKey) == 1, nil
}

// decoyHash is well formed, so checking against it costs a full derivation.
var decoyHash = strings.Repeat("0", 2*scryptKeyLen) + "." + strings.Repeat("0", 2*saltBytes)

// SpendPasswordCheck does the work of a failed ComparePasswords for a login
// naming no account.
func SpendPasswordCheck(supplied string) {
	_, _ = ComparePasswords(supplied, decoyHash)
}

func parseScryptHash(stored string) ([]byte, string, bool) {
	hashHex, salt, ok := strings.Cut(stored, ".")
	if !ok || hashHex == "" || salt == "" {
		return nil, "", false
	}
	key, err := hex.DecodeString(hashHex)
	if err != nil || len(key) != scryptKeyLen {
		return nil, "", false
	}
	return key, salt, true
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
