package middleware

import (
	"net/http"
	"sync"

	"github.com/attendly/presence-backend/internal/httpx"
	"github.com/attendly/presence-backend/internal/utils"
	"golang.org/x/time/rate"
)

// DeviceRateLimiter keeps one token bucket per device identifier. It sits
// behind the HMAC guard, so the device id it keys on is authenticated.
type DeviceRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewDeviceRateLimiter(perSecond float64, burst int) *DeviceRateLimiter {
	return &DeviceRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (d *DeviceRateLimiter) limiter(deviceID string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.limiters[deviceID]
	if !ok {
		l = rate.NewLimiter(d.limit, d.burst)
		d.limiters[deviceID] = l
	}
	return l
}

func (d *DeviceRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := utils.GetDeviceIDFromContext(r.Context())
		if !ok {
			// Guard did not run; treat all anonymous traffic as one bucket.
			deviceID = ""
		}
		if !d.limiter(deviceID).Allow() {
			w.Header().Set("Retry-After", "1")
			httpx.WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many reports from this device")
			return
		}
		next.ServeHTTP(w, r)
	})
}
