package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/mapguess/internal/highscore"
	"github.com/playperu/mapguess/internal/mapguess"
)

type HighscoresResponse struct {
	Limit  int                `json:"limit"`
	Scores []highscore.Record `json:"scores"`
}

type HighscoreRequest struct {
	Name string `json:"name" required:"true" maxLength:"32"`
}

type QualifyResponse struct {
	Score     int  `json:"score"`
	Qualifies bool `json:"qualifies"`
}

func handleListHighscores(logger *slog.Logger, board *highscore.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		top, err := board.Top(r.Context())
		if err != nil {
			logger.Error("listing highscores", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, HighscoresResponse{Limit: board.Limit(), Scores: top})
	}
}

// handleQualify reports whether the session's final score would make the board.
func handleQualify(logger *slog.Logger, board *highscore.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := sessionFrom(r).Snapshot()
		if snap.State != mapguess.StateGameOver {
			writeEngineError(w, ErrNotGameOver)
			return
		}

		ok, err := board.Qualifies(r.Context(), snap.Game.TotalScore)
		if err != nil {
			logger.Error("checking highscore", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, QualifyResponse{Score: snap.Game.TotalScore, Qualifies: ok})
	}
}

func handleSubmitHighscore(logger *slog.Logger, board *highscore.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req HighscoreRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		s := sessionFrom(r)
		score, err := s.claimScore()
		if err != nil {
			writeEngineError(w, err)
			return
		}

		rec, err := board.Submit(r.Context(), req.Name, score)
		if err != nil {
			s.releaseScore()
			if errors.Is(err, highscore.ErrInvalidName) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.Error("submitting highscore", "session_id", s.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	}
}
