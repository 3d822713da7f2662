package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// GenerateStudentID returns a random 7 digit student id without a leading zero.
func GenerateStudentID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9_000_000))
	if err != nil {
		return "", fmt.Errorf("generate student id: %w", err)
	}
	return fmt.Sprintf("%07d", n.Int64()+1_000_000), nil
}

// GenerateResetToken returns 32 random bytes hex encoded.
func GenerateResetToken() (string, error) {
	return randomHex(32)
}

// GenerateShortToken returns a 16 character token for links that cannot carry a JWT.
func GenerateShortToken() (string, error) {
	return randomHex(8)
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

var mobileUA = regexp.MustCompile(`iPhone|iPad|iPod|Android`)

// IsMobileUserAgent reports whether the User-Agent belongs to a phone or tablet.
func IsMobileUserAgent(ua string) bool {
	return mobileUA.MatchString(ua)
}

// StateCodeOf returns the two letter state prefix of an enrollment code.
func StateCodeOf(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 2 {
		return code
	}
	return code[:2]
}

// NormalizeCode canonicalizes an enrollment code as typed by a student.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
