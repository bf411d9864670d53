package presence

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/attendly/presence-backend/internal/config"
	"github.com/attendly/presence-backend/internal/middleware"
)

const (
	ingestAPIKey = "ingest-key"
	ingestSecret = "ingest-secret"
)

func ingestConfig() config.Config {
	return config.Config{
		APIKey:        ingestAPIKey,
		SigningSecret: ingestSecret,
		AllowedSkew:   120 * time.Second,
	}
}

func signBody(ts string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(ingestSecret))
	mac.Write([]byte(ts + "."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// postCheck sends body to the mounted ingestion route. When signed is true
// the full valid header set is attached; otherwise the signature header is
// omitted.
func postCheck(t *testing.T, handler http.Handler, body []byte, signed bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/check", bytes.NewReader(body))
	ts := time.Now().UTC().Format(time.RFC3339)
	req.Header.Set(middleware.HeaderAPIKey, ingestAPIKey)
	req.Header.Set(middleware.HeaderDeviceID, "device-1")
	req.Header.Set(middleware.HeaderTimestamp, ts)
	if signed {
		req.Header.Set(middleware.HeaderSignature, signBody(ts, body))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestCheckRoute_MissingSignature verifies the guard rejects before any
// engine collaborator runs: no student lookup, no audit write.
func TestCheckRoute_MissingSignature(t *testing.T) {
	recorder := &mockRecorder{}
	deps, _ := campusDeps(recorder, true, MethodAuto)
	handler := SetupRoutes(newTestEngine(deps), ingestConfig())

	body := []byte(`{"matricule":"S001","lat":48.8566,"lon":2.3522,"method":"auto"}`)
	rec := postCheck(t, handler, body, false)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), middleware.ReasonMissingCredentials) {
		t.Errorf("expected missing_credentials, got: %s", rec.Body.String())
	}
	if len(recorder.calls) != 0 {
		t.Errorf("rejected request must not reach the recorder, got %d calls", len(recorder.calls))
	}
}

func TestCheckRoute_SignedPresent(t *testing.T) {
	recorder := &mockRecorder{eventID: 55}
	deps, _ := campusDeps(recorder, true, MethodAuto)
	handler := SetupRoutes(newTestEngine(deps), ingestConfig())

	body := []byte(`{"matricule":"S001","lat":48.8566,"lon":2.3522,"method":"auto"}`)
	rec := postCheck(t, handler, body, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status     string `json:"status"`
		Message    string `json:"message"`
		TimeWindow string `json:"time_window"`
		Geofence   string `json:"geofence"`
		EventID    *int64 `json:"event_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "present" {
		t.Errorf("status = %q, want present", resp.Status)
	}
	if resp.Geofence != "Campus" || resp.TimeWindow != "Morning" {
		t.Errorf("names: geofence=%q window=%q", resp.Geofence, resp.TimeWindow)
	}
	if resp.EventID == nil || *resp.EventID != 55 {
		t.Errorf("event_id = %v, want 55", resp.EventID)
	}
}

func TestCheckRoute_InvalidMethod(t *testing.T) {
	recorder := &mockRecorder{}
	deps, _ := campusDeps(recorder, true, MethodAuto)
	handler := SetupRoutes(newTestEngine(deps), ingestConfig())

	body := []byte(`{"matricule":"S001","lat":48.8566,"lon":2.3522,"method":"teleport"}`)
	rec := postCheck(t, handler, body, true)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if len(recorder.calls) != 0 {
		t.Error("invalid request must not be audited")
	}
}

func TestCheckRoute_CoordinateOutOfRange(t *testing.T) {
	recorder := &mockRecorder{}
	deps, _ := campusDeps(recorder, true, MethodAuto)
	handler := SetupRoutes(newTestEngine(deps), ingestConfig())

	body := []byte(`{"matricule":"S001","lat":95.0,"lon":2.3522,"method":"auto"}`)
	rec := postCheck(t, handler, body, true)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_coordinate") {
		t.Errorf("expected invalid_coordinate, got: %s", rec.Body.String())
	}
}

func TestCheckRoute_UnknownStudent(t *testing.T) {
	recorder := &mockRecorder{}
	deps, _ := campusDeps(recorder, true, MethodAuto)
	deps.Students = &mockDirectory{err: ErrStudentNotFound}
	handler := SetupRoutes(newTestEngine(deps), ingestConfig())

	body := []byte(`{"matricule":"NOPE","lat":48.8566,"lon":2.3522,"method":"auto"}`)
	rec := postCheck(t, handler, body, true)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "student_not_found") {
		t.Errorf("expected student_not_found, got: %s", rec.Body.String())
	}
}
