package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/attendly/presence-backend/internal/middleware"
	"github.com/attendly/presence-backend/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

const testJWTSecret = "test-jwt-secret"

func issueToken(t *testing.T, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := middleware.AdminClaims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func adminRequest(t *testing.T, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok := utils.GetUserIDFromContext(r.Context())
		if !ok || username != "admin" {
			http.Error(w, "username not in context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	middleware.AdminAuth(testJWTSecret)(inner).ServeHTTP(rec, req)
	return rec
}

func TestAdminAuth_MissingHeader(t *testing.T) {
	rec := adminRequest(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing_token") {
		t.Errorf("expected missing_token, got: %s", rec.Body.String())
	}
}

func TestAdminAuth_WrongSecret(t *testing.T) {
	token := issueToken(t, "a-different-secret", time.Hour)
	rec := adminRequest(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAdminAuth_ExpiredToken(t *testing.T) {
	token := issueToken(t, testJWTSecret, -time.Minute)
	rec := adminRequest(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAdminAuth_ValidToken(t *testing.T) {
	token := issueToken(t, testJWTSecret, time.Hour)
	rec := adminRequest(t, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}
}
