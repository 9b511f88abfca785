package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/playperu/mapguess/internal/mapguess"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps a rejected session input to its HTTP status.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mapguess.ErrInvalidCoordinate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSessionClosed):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, mapguess.ErrNotStarted),
		errors.Is(err, mapguess.ErrAlreadyStarted),
		errors.Is(err, mapguess.ErrRoundLocked),
		errors.Is(err, mapguess.ErrNoPendingGuess),
		errors.Is(err, mapguess.ErrRoundActive),
		errors.Is(err, mapguess.ErrGameOver),
		errors.Is(err, ErrNotGameOver),
		errors.Is(err, ErrSubmitted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
