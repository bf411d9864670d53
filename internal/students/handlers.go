package students

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/attendly/presence-backend/internal/db"
	"github.com/attendly/presence-backend/internal/httpx"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type listResponse struct {
	Students []Student `json:"students"`
	Total    int64     `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// ListHandler supports search on matricule/nom/prenom plus pagination.
// Soft-deleted students are hidden.
func ListHandler(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50, 1, 100)
	offset := queryInt(r, "offset", 0, 0, 1<<30)

	q := db.DB.WithContext(r.Context()).Model(&Student{}).Where("is_active = true")
	if search := r.URL.Query().Get("q"); search != "" {
		like := "%" + search + "%"
		q = q.Where("matricule ILIKE ? OR nom ILIKE ? OR prenom ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not list students")
		return
	}

	var out []Student
	if err := q.Order("nom, prenom").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not list students")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, listResponse{Students: out, Total: total, Limit: limit, Offset: offset})
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid student id")
		return
	}

	var student Student
	if err := db.DB.WithContext(r.Context()).First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "student_not_found", "student not found")
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not load student")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, student)
}

type createRequest struct {
	Matricule string `json:"matricule"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
}

func CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Matricule == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "matricule is required")
		return
	}

	var existing Student
	if err := db.DB.WithContext(r.Context()).Where("matricule = ?", req.Matricule).First(&existing).Error; err == nil {
		httpx.WriteError(w, http.StatusConflict, "duplicate_matricule", "a student with this matricule already exists")
		return
	}

	student := Student{
		Matricule: req.Matricule,
		LastName:  req.LastName,
		FirstName: req.FirstName,
		IsActive:  true,
	}
	if err := db.DB.WithContext(r.Context()).Create(&student).Error; err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not create student")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, student)
}

type updateRequest struct {
	LastName  *string `json:"nom"`
	FirstName *string `json:"prenom"`
	IsActive  *bool   `json:"is_active"`
}

func UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid student id")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	var student Student
	if err := db.DB.WithContext(r.Context()).First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "student_not_found", "student not found")
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not load student")
		return
	}

	updates := map[string]interface{}{}
	if req.LastName != nil {
		updates["nom"] = *req.LastName
	}
	if req.FirstName != nil {
		updates["prenom"] = *req.FirstName
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := db.DB.WithContext(r.Context()).Model(&student).Updates(updates).Error; err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not update student")
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, student)
}

// DeleteHandler soft-deletes: events reference students, so rows are only
// deactivated, never removed.
func DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid student id")
		return
	}

	var student Student
	if err := db.DB.WithContext(r.Context()).First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "student_not_found", "student not found")
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not load student")
		return
	}

	if err := db.DB.WithContext(r.Context()).Model(&student).Update("is_active", false).Error; err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "persistence_failure", "could not delete student")
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
