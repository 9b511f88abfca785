package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/playperu/mapguess/internal/mapguess"
)

type SessionResponse struct {
	ID       string            `json:"id"`
	Snapshot mapguess.Snapshot `json:"snapshot"`
}

type ClickRequest struct {
	Lat *float64 `json:"lat" required:"true"`
	Lon *float64 `json:"lon" required:"true"`
}

type ConfirmResponse struct {
	Result   mapguess.Result   `json:"result"`
	Snapshot mapguess.Snapshot `json:"snapshot"`
}

func handleCreateSession(logger *slog.Logger, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessions.Create()
		if err != nil {
			logger.Error("creating session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, SessionResponse{ID: s.ID, Snapshot: s.Snapshot()})
	}
}

func handleGetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)
		writeJSON(w, http.StatusOK, SessionResponse{ID: s.ID, Snapshot: s.Snapshot()})
	}
}

func handleDeleteSession(logger *slog.Logger, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)
		if sessions.Remove(s.ID) {
			logger.Info("session abandoned", "session_id", s.ID)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleClick() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClickRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Lat == nil || req.Lon == nil {
			writeError(w, http.StatusBadRequest, "lat and lon are required")
			return
		}

		s := sessionFrom(r)
		p := mapguess.Coordinate{Lat: *req.Lat, Lon: *req.Lon}
		snap, err := s.do(time.Now(), func(e *mapguess.Engine) error { return e.MapClicked(p) })
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SessionResponse{ID: s.ID, Snapshot: snap})
	}
}

func handleConfirm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)

		var res mapguess.Result
		snap, err := s.do(time.Now(), func(e *mapguess.Engine) error {
			var err error
			res, err = e.ConfirmGuess()
			return err
		})
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ConfirmResponse{Result: res, Snapshot: snap})
	}
}

func handleAdvance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)
		snap, err := s.do(time.Now(), func(e *mapguess.Engine) error { return e.AdvanceRound() })
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SessionResponse{ID: s.ID, Snapshot: snap})
	}
}
