package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/attendly/presence-backend/internal/httpx"
	"github.com/attendly/presence-backend/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims is the payload of administrator bearer tokens. Issued by the
// auth package, verified here.
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AdminAuth protects administrative endpoints with a bearer JWT. This is a
// separate scheme from the HMAC guard: admin tokens identify people, the
// guard authenticates devices.
func AdminAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
				httpx.WriteError(w, http.StatusUnauthorized, "missing_token", "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimSpace(header[len("Bearer "):])

			claims := &AdminClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUserIDKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
