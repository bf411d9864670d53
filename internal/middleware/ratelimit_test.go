package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/attendly/presence-backend/internal/middleware"
	"github.com/attendly/presence-backend/internal/utils"
)

func limitedRequest(limiter *middleware.DeviceRateLimiter, deviceID string) *httptest.ResponseRecorder {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodPost, "/presence/check", nil)
	if deviceID != "" {
		ctx := context.WithValue(req.Context(), utils.ContextDeviceIDKey, deviceID)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	limiter.Middleware(inner).ServeHTTP(rec, req)
	return rec
}

func TestDeviceRateLimiter_BurstExhaustion(t *testing.T) {
	limiter := middleware.NewDeviceRateLimiter(0.0001, 2)

	for i := 0; i < 2; i++ {
		if rec := limitedRequest(limiter, "device-a"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
	if rec := limitedRequest(limiter, "device-a"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", rec.Code)
	}
}

func TestDeviceRateLimiter_IndependentDevices(t *testing.T) {
	limiter := middleware.NewDeviceRateLimiter(0.0001, 1)

	if rec := limitedRequest(limiter, "device-a"); rec.Code != http.StatusOK {
		t.Fatalf("device-a: expected 200, got %d", rec.Code)
	}
	// device-a is out of tokens, device-b is not.
	if rec := limitedRequest(limiter, "device-a"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("device-a: expected 429, got %d", rec.Code)
	}
	if rec := limitedRequest(limiter, "device-b"); rec.Code != http.StatusOK {
		t.Errorf("device-b: expected 200, got %d", rec.Code)
	}
}
