package middleware

import (
	"errors"
	"fmt"
	"time"

	"jetacademy/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// AuthClaims is the payload of the auth token handed out at login.
type AuthClaims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateAuthToken signs a token for the user valid until expiresAt. The
// random jti keeps tokens from two logins in the same second distinct.
func GenerateAuthToken(userID uint, username string, issuedAt, expiresAt time.Time) (string, error) {
	claims := AuthClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// ParseAuthToken verifies signature and expiry and returns the claims.
func ParseAuthToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token payload")
	}
	return claims, nil
}
