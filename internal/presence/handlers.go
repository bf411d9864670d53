package presence

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/attendly/presence-backend/internal/httpx"
	"github.com/attendly/presence-backend/internal/metrics"
	"github.com/attendly/presence-backend/internal/utils"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

type checkRequest struct {
	Matricule string   `json:"matricule"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Method    Method   `json:"method"`
}

type checkResponse struct {
	Status     Status `json:"status"`
	Message    string `json:"message"`
	TimeWindow string `json:"time_window,omitempty"`
	Geofence   string `json:"geofence,omitempty"`
	EventID    *int64 `json:"event_id,omitempty"`
}

// CheckHandler is the HMAC-guarded ingestion endpoint.
func (h *Handler) CheckHandler(w http.ResponseWriter, r *http.Request) {
	metrics.RecordPresenceRequest()

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if req.Matricule == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "matricule is required")
		return
	}
	if req.Method != MethodAuto && req.Method != MethodManual {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "method must be auto or manual")
		return
	}

	coord := Coordinate{Lat: req.Lat, Lon: req.Lon}
	if !coord.Valid() {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_coordinate", "coordinate out of range")
		return
	}

	result, err := h.engine.Check(r.Context(), Report{
		Matricule:  req.Matricule,
		Coordinate: coord,
		Accuracy:   req.Accuracy,
		Method:     req.Method,
	})
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "student_not_found", "student not found")
			return
		}
		deviceID, _ := utils.GetDeviceIDFromContext(r.Context())
		log.Printf("presence check failed device=%s matricule=%s: %v", deviceID, req.Matricule, err)
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "presence check could not be completed")
		return
	}

	metrics.RecordPresenceSuccess()
	httpx.WriteJSON(w, http.StatusOK, checkResponse{
		Status:     result.Status,
		Message:    result.Message,
		TimeWindow: result.TimeWindow,
		Geofence:   result.Geofence,
		EventID:    result.EventID,
	})
}
