package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/desertthunder/labelgrid/internal/shared"
	"github.com/desertthunder/labelgrid/internal/workspace"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// statusFor maps workspace and shared errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, workspace.ErrPathNotFound), errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workspace.ErrLabelExists):
		return http.StatusConflict
	case errors.Is(err, workspace.ErrNoSelection),
		errors.Is(err, workspace.ErrInvalidPath),
		errors.Is(err, workspace.ErrInvalidLabel),
		errors.Is(err, workspace.ErrInvalidDestination),
		errors.Is(err, workspace.ErrNotFolder),
		errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
