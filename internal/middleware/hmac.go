package middleware

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/attendly/presence-backend/internal/httpx"
	"github.com/attendly/presence-backend/internal/metrics"
	"github.com/attendly/presence-backend/internal/utils"
)

// Headers expected from field devices. The signature covers the exact byte
// sequence "<X-Ts>.<raw body>" with HMAC-SHA256 under the shared signing
// secret; X-Ts is RFC 3339 (epoch seconds are not accepted).
const (
	HeaderAPIKey    = "X-Api-Key"
	HeaderDeviceID  = "X-Device-Id"
	HeaderTimestamp = "X-Ts"
	HeaderSignature = "X-Signature"
)

// Stable rejection codes, one per validation step.
const (
	ReasonMissingCredentials = "missing_credentials"
	ReasonUnknownKey         = "unknown_key"
	ReasonMalformedTimestamp = "malformed_timestamp"
	ReasonStaleTimestamp     = "stale_or_future_timestamp"
	ReasonPayloadTooLarge    = "payload_too_large"
	ReasonInvalidSignature   = "invalid_signature"
)

type HMACConfig struct {
	APIKey        string
	SigningSecret string
	AllowedSkew   time.Duration

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// HMACGuard authenticates requests from untrusted field devices before they
// reach the presence engine. Validation order is fixed: header presence, key
// identifier, timestamp parse, timestamp freshness, signature. Each failure
// is rejected with its own stable code and no database work is done.
func HMACGuard(cfg HMACConfig) func(http.Handler) http.Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get(HeaderAPIKey)
			deviceID := r.Header.Get(HeaderDeviceID)
			ts := r.Header.Get(HeaderTimestamp)
			signature := r.Header.Get(HeaderSignature)

			if apiKey == "" || deviceID == "" || ts == "" || signature == "" {
				reject(w, http.StatusUnauthorized, ReasonMissingCredentials, "missing HMAC headers")
				return
			}

			if apiKey != cfg.APIKey {
				reject(w, http.StatusUnauthorized, ReasonUnknownKey, "unknown API key")
				return
			}

			reportedAt, err := time.Parse(time.RFC3339, ts)
			if err != nil {
				reject(w, http.StatusBadRequest, ReasonMalformedTimestamp, "invalid X-Ts format")
				return
			}

			skew := now().Sub(reportedAt)
			if skew < 0 {
				skew = -skew
			}
			if skew > cfg.AllowedSkew {
				reject(w, http.StatusUnauthorized, ReasonStaleTimestamp, "timestamp skew too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
			raw, err := io.ReadAll(r.Body)
			if err != nil {
				reject(w, http.StatusRequestEntityTooLarge, ReasonPayloadTooLarge, "payload too large or unreadable")
				return
			}
			r.Body.Close()

			if !verifySignature(signature, ts, raw, cfg.SigningSecret) {
				reject(w, http.StatusUnauthorized, ReasonInvalidSignature, "invalid signature")
				return
			}

			// Hand the consumed body back to the handler.
			r.Body = io.NopCloser(bytes.NewReader(raw))

			ctx := context.WithValue(r.Context(), utils.ContextDeviceIDKey, deviceID)
			ctx = context.WithValue(ctx, utils.ContextReportTSKey, reportedAt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func verifySignature(sig, ts string, raw []byte, secret string) bool {
	supplied, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(raw)
	return hmac.Equal(supplied, mac.Sum(nil))
}

func reject(w http.ResponseWriter, status int, reason, message string) {
	metrics.RecordAuthFailure(reason)
	httpx.WriteError(w, status, reason, message)
}
