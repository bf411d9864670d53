package events

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/attendly/presence-backend/internal/db"
	"github.com/attendly/presence-backend/internal/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
)

// EventOut is an event with its denormalized student and geofence names.
type EventOut struct {
	ID               int64    `json:"id"`
	StudentID        int64    `json:"student_id"`
	Status           string   `json:"status"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	GeofenceID       *int64   `json:"geofence_id"`
	Method           string   `json:"method"`
	CreatedAt        string   `json:"created_at"`
	StudentMatricule string   `json:"student_matricule"`
	StudentLastName  string   `json:"student_nom"`
	StudentFirstName string   `json:"student_prenom"`
	GeofenceName     *string  `json:"geofence_name"`
}

type listResponse struct {
	Events []EventOut `json:"events"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

var validStatuses = map[string]struct{}{
	"present": {}, "late": {}, "absent": {}, "outside": {},
}

const eventColumns = `
	e.id, e.student_id, e.status, e.latitude, e.longitude,
	e.geofence_id, e.method, e.created_at,
	s.matricule, s.nom, s.prenom,
	g.name
`

// ListHandler filters by matricule, date range and status set, paginated,
// newest first.
func ListHandler(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50, 1, 100)
	offset := queryInt(r, "offset", 0, 0, 1<<30)

	conditions := []string{}
	args := []interface{}{}

	if m := r.URL.Query().Get("matricule"); m != "" {
		conditions = append(conditions, "s.matricule = ?")
		args = append(args, m)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "from must be RFC 3339")
			return
		}
		conditions = append(conditions, "e.created_at >= ?")
		args = append(args, t)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "to must be RFC 3339")
			return
		}
		conditions = append(conditions, "e.created_at <= ?")
		args = append(args, t)
	}
	if statuses := r.URL.Query()["status"]; len(statuses) > 0 {
		for _, s := range statuses {
			if _, ok := validStatuses[s]; !ok {
				httpx.WriteError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("unknown status %q", s))
				return
			}
		}
		conditions = append(conditions, "e.status = ANY(?)")
		args = append(args, pq.Array(statuses))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM attendance.events e
		JOIN attendance.students s ON e.student_id = s.id
		%s
	`, where)
	if err := db.DB.WithContext(r.Context()).Raw(countQuery, args...).Row().Scan(&total); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not count events")
		return
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendance.events e
		JOIN attendance.students s ON e.student_id = s.id
		LEFT JOIN attendance.geofences g ON e.geofence_id = g.id
		%s
		ORDER BY e.created_at DESC
		LIMIT ? OFFSET ?
	`, eventColumns, where)
	rows, err := db.DB.WithContext(r.Context()).Raw(listQuery, append(args, limit, offset)...).Rows()
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not list events")
		return
	}
	defer rows.Close()

	out := []EventOut{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not list events")
			return
		}
		out = append(out, *ev)
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Events: out, Total: total, Limit: limit, Offset: offset})
}

// GetHandler returns one event with denormalized names.
func GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid event id")
		return
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance.events e
		JOIN attendance.students s ON e.student_id = s.id
		LEFT JOIN attendance.geofences g ON e.geofence_id = g.id
		WHERE e.id = ?
	`, eventColumns)
	rows, err := db.DB.WithContext(r.Context()).Raw(query, id).Rows()
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not load event")
		return
	}
	defer rows.Close()

	if !rows.Next() {
		httpx.WriteError(w, http.StatusNotFound, "event_not_found", "event not found")
		return
	}
	ev, err := scanEvent(rows)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not load event")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ev)
}

func scanEvent(rows *sql.Rows) (*EventOut, error) {
	var ev EventOut
	var createdAt time.Time
	var geofenceName sql.NullString
	if err := rows.Scan(
		&ev.ID, &ev.StudentID, &ev.Status, &ev.Latitude, &ev.Longitude,
		&ev.GeofenceID, &ev.Method, &createdAt,
		&ev.StudentMatricule, &ev.StudentLastName, &ev.StudentFirstName,
		&geofenceName,
	); err != nil {
		return nil, err
	}
	ev.CreatedAt = createdAt.Format(time.RFC3339)
	if geofenceName.Valid {
		ev.GeofenceName = &geofenceName.String
	}
	return &ev, nil
}

// DailyStats are per-day aggregate counts by outcome and by method.
type DailyStats struct {
	Date         string `json:"date"`
	TotalEvents  int64  `json:"total_events"`
	PresentCount int64  `json:"present_count"`
	LateCount    int64  `json:"late_count"`
	AbsentCount  int64  `json:"absent_count"`
	OutsideCount int64  `json:"outside_count"`
	ManualCount  int64  `json:"manual_count"`
	AutoCount    int64  `json:"auto_count"`
}

// DailyStatsHandler aggregates one day of events; date is YYYY-MM-DD.
func DailyStatsHandler(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	stats := DailyStats{Date: date.Format("2006-01-02")}
	row := db.DB.WithContext(r.Context()).Raw(`
		SELECT
			COUNT(*),
			COUNT(CASE WHEN status = 'present' THEN 1 END),
			COUNT(CASE WHEN status = 'late' THEN 1 END),
			COUNT(CASE WHEN status = 'absent' THEN 1 END),
			COUNT(CASE WHEN status = 'outside' THEN 1 END),
			COUNT(CASE WHEN method = 'manual' THEN 1 END),
			COUNT(CASE WHEN method = 'auto' THEN 1 END)
		FROM attendance.events
		WHERE DATE(created_at) = ?
	`, stats.Date).Row()
	if err := row.Scan(
		&stats.TotalEvents, &stats.PresentCount, &stats.LateCount, &stats.AbsentCount,
		&stats.OutsideCount, &stats.ManualCount, &stats.AutoCount,
	); err != nil && !errors.Is(err, sql.ErrNoRows) {
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not compute stats")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

func queryInt(r *http.Request, key string, def, min, max int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < min || n > max {
		return def
	}
	return n
}
