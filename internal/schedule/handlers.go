package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/attendly/presence-backend/internal/db"
	"github.com/attendly/presence-backend/internal/httpx"
	"gorm.io/gorm"
)

type windowCreate struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type windowResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

var errWindowOrder = errors.New("end_time must be after start_time")

// parseTimeOfDay accepts HH:MM or HH:MM:SS and returns the canonical
// HH:MM:SS form.
func parseTimeOfDay(s string) (string, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("invalid time of day %q", s)
}

func (wc windowCreate) normalize() (windowCreate, error) {
	if wc.Name == "" {
		return wc, errors.New("name is required")
	}
	start, err := parseTimeOfDay(wc.StartTime)
	if err != nil {
		return wc, err
	}
	end, err := parseTimeOfDay(wc.EndTime)
	if err != nil {
		return wc, err
	}
	if end <= start {
		return wc, errWindowOrder
	}
	wc.StartTime, wc.EndTime = start, end
	return wc, nil
}

// ReplaceAllHandler swaps the full window table for the submitted set.
// Delete and inserts share one transaction so no request ever observes a
// window-less gap mid-replacement.
func ReplaceAllHandler(w http.ResponseWriter, r *http.Request) {
	var in []windowCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	windows := make([]windowCreate, 0, len(in))
	for i, wc := range in {
		normalized, err := wc.normalize()
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_window", fmt.Sprintf("window %d: %v", i+1, err))
			return
		}
		windows = append(windows, normalized)
	}

	err := db.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM attendance.time_windows`).Error; err != nil {
			return fmt.Errorf("clear time windows: %w", err)
		}
		for _, wc := range windows {
			if err := tx.Exec(`
				INSERT INTO attendance.time_windows (name, start_time, end_time)
				VALUES (?, ?::time, ?::time)
			`, wc.Name, wc.StartTime, wc.EndTime).Error; err != nil {
				return fmt.Errorf("insert time window: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not replace time windows")
		return
	}

	listWindows(w, r)
}

// ListHandler returns all windows ordered by start time.
func ListHandler(w http.ResponseWriter, r *http.Request) {
	listWindows(w, r)
}

func listWindows(w http.ResponseWriter, r *http.Request) {
	rows, err := db.DB.WithContext(r.Context()).Raw(`
		SELECT id, name,
		       to_char(start_time, 'HH24:MI:SS'),
		       to_char(end_time, 'HH24:MI:SS'),
		       is_active, created_at, updated_at
		FROM attendance.time_windows
		ORDER BY start_time
	`).Rows()
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not list time windows")
		return
	}
	defer rows.Close()

	out := []windowResponse{}
	for rows.Next() {
		var resp windowResponse
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&resp.ID, &resp.Name, &resp.StartTime, &resp.EndTime, &resp.IsActive, &createdAt, &updatedAt); err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not list time windows")
			return
		}
		resp.CreatedAt = createdAt.Format(time.RFC3339)
		resp.UpdatedAt = updatedAt.Format(time.RFC3339)
		out = append(out, resp)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
