package utils

import (
	"context"
	"time"
)

type contextKey string

const (
	ContextUserIDKey   contextKey = "userID"
	ContextDeviceIDKey contextKey = "deviceID"
	ContextReportTSKey contextKey = "reportTS"
)

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ContextUserIDKey).(string)
	return userID, ok
}

// GetDeviceIDFromContext returns the field-device identifier attached by the
// HMAC guard.
func GetDeviceIDFromContext(ctx context.Context) (string, bool) {
	deviceID, ok := ctx.Value(ContextDeviceIDKey).(string)
	return deviceID, ok
}

// GetReportTimestampFromContext returns the signed request timestamp attached
// by the HMAC guard.
func GetReportTimestampFromContext(ctx context.Context) (time.Time, bool) {
	ts, ok := ctx.Value(ContextReportTSKey).(time.Time)
	return ts, ok
}
