// Package httpx holds the JSON response helpers shared by every handler
// package.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the envelope for every externally visible failure: a
// stable machine-checkable code plus a human-readable message. Internal
// detail (SQL text, stack traces) never goes in here.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{Error: code, Message: message})
}
