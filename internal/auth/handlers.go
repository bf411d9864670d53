package auth

import (
	"encoding/json"
	"net/http"

	"github.com/attendly/presence-backend/internal/config"
	"github.com/attendly/presence-backend/internal/db"
	"github.com/attendly/presence-backend/internal/httpx"
	"github.com/attendly/presence-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	cfg config.Config
}

func NewHandler(cfg config.Config) *Handler {
	return &Handler{cfg: cfg}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	var user User
	if err := db.DB.First(&user, "username = ?", req.Username).Error; err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect username or password")
		return
	}

	token, err := CreateAccessToken(user.Username, h.cfg.JWTSecret, h.cfg.JWTExpiresIn)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "could not issue token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

type meResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "missing_token", "no authenticated user")
		return
	}

	var user User
	if err := db.DB.First(&user, "username = ?", username).Error; err != nil {
		httpx.WriteError(w, http.StatusNotFound, "user_not_found", "user not found")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, meResponse{Username: user.Username, Role: user.Role})
}
