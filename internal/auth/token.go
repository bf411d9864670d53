package auth

import (
	"time"

	"github.com/attendly/presence-backend/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// CreateAccessToken issues the bearer token AdminAuth verifies.
func CreateAccessToken(username, secret string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := middleware.AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
