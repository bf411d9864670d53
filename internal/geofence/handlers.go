package geofence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/attendly/presence-backend/internal/db"
	"github.com/attendly/presence-backend/internal/httpx"
	"gorm.io/gorm"
)

type upsertRequest struct {
	Name    string         `json:"name"`
	Polygon GeoJSONPolygon `json:"polygon"`
	MarginM int            `json:"margin_m"`
}

type geofenceResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Polygon   json.RawMessage `json:"polygon"`
	MarginM   int             `json:"margin_m"`
	IsActive  bool            `json:"is_active"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// UpsertHandler creates or replaces a geofence by name from a closed-ring
// GeoJSON polygon.
func UpsertHandler(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Name == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	if req.MarginM < 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "margin_m must be non-negative")
		return
	}

	wkt, err := req.Polygon.ToWKT()
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_geometry", err.Error())
		return
	}

	var geofenceID int64
	err = db.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		// Self-intersecting rings are rejected here, at creation time, so
		// the resolver can assume well-formed geometry.
		var valid bool
		if err := tx.Raw(`SELECT ST_IsValid(ST_GeomFromText(?))`, wkt).Row().Scan(&valid); err != nil {
			return fmt.Errorf("geometry validation: %w", err)
		}
		if !valid {
			return ErrNotPolygon
		}

		var existingID int64
		err := tx.Raw(`SELECT id FROM attendance.geofences WHERE name = ?`, req.Name).Row().Scan(&existingID)
		switch {
		case err == nil:
			if err := tx.Exec(`
				UPDATE attendance.geofences
				   SET polygon = ST_GeogFromText(?),
				       margin_m = ?,
				       updated_at = CURRENT_TIMESTAMP
				 WHERE id = ?
			`, wkt, req.MarginM, existingID).Error; err != nil {
				return fmt.Errorf("update geofence: %w", err)
			}
			geofenceID = existingID
		case errors.Is(err, sql.ErrNoRows):
			row := tx.Raw(`
				INSERT INTO attendance.geofences (name, polygon, margin_m)
				VALUES (?, ST_GeogFromText(?), ?)
				RETURNING id
			`, req.Name, wkt, req.MarginM).Row()
			if err := row.Scan(&geofenceID); err != nil {
				return fmt.Errorf("insert geofence: %w", err)
			}
		default:
			return fmt.Errorf("geofence lookup: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotPolygon) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_geometry", "polygon ring is not a valid simple polygon")
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not save geofence")
		return
	}

	resp, err := fetchGeofence(r, geofenceID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not load geofence")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// ListHandler returns all geofences with geometry rendered as GeoJSON.
func ListHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := db.DB.WithContext(r.Context()).Raw(`
		SELECT id, name, ST_AsGeoJSON(polygon), margin_m, is_active, created_at, updated_at
		FROM attendance.geofences
		ORDER BY created_at DESC
	`).Rows()
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not list geofences")
		return
	}
	defer rows.Close()

	out := []geofenceResponse{}
	for rows.Next() {
		var resp geofenceResponse
		var polygon string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&resp.ID, &resp.Name, &polygon, &resp.MarginM, &resp.IsActive, &createdAt, &updatedAt); err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not list geofences")
			return
		}
		resp.Polygon = json.RawMessage(polygon)
		resp.CreatedAt = createdAt.Format(time.RFC3339)
		resp.UpdatedAt = updatedAt.Format(time.RFC3339)
		out = append(out, resp)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func fetchGeofence(r *http.Request, id int64) (*geofenceResponse, error) {
	var resp geofenceResponse
	var polygon string
	var createdAt, updatedAt time.Time
	row := db.DB.WithContext(r.Context()).Raw(`
		SELECT id, name, ST_AsGeoJSON(polygon), margin_m, is_active, created_at, updated_at
		FROM attendance.geofences
		WHERE id = ?
	`, id).Row()
	if err := row.Scan(&resp.ID, &resp.Name, &polygon, &resp.MarginM, &resp.IsActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	resp.Polygon = json.RawMessage(polygon)
	resp.CreatedAt = createdAt.Format(time.RFC3339)
	resp.UpdatedAt = updatedAt.Format(time.RFC3339)
	return &resp, nil
}
