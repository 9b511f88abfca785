package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/mapguess/internal/handler/health"
	"github.com/playperu/mapguess/internal/highscore"
	"github.com/playperu/mapguess/internal/mapguess"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionPath is the {id} parameter of session routes.
type SessionPath struct {
	ID string `path:"id" format:"uuid"`
}

type clickInput struct {
	SessionPath
	ClickRequest
}

type highscoreInput struct {
	SessionPath
	HighscoreRequest
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "MapGuess API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the MapGuess store location game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/map
	getMap, _ := r.NewOperationContext(http.MethodGet, "/api/map")
	getMap.SetSummary("Map view")
	getMap.SetDescription("Initial viewport and tile layer of the game map.")
	getMap.AddRespStructure(MapView{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getMap)

	// POST /api/sessions
	postSession, _ := r.NewOperationContext(http.MethodPost, "/api/sessions")
	postSession.SetSummary("Start game")
	postSession.SetDescription("Creates a session and starts round 1. The round timer runs on the server.")
	postSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	_ = r.AddOperation(postSession)

	// GET /api/sessions/{id}
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}")
	getSession.SetSummary("Get session")
	getSession.SetDescription("Returns the session snapshot. The target of an active round is withheld.")
	getSession.AddReqStructure(SessionPath{})
	getSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSession)

	// DELETE /api/sessions/{id}
	deleteSession, _ := r.NewOperationContext(http.MethodDelete, "/api/sessions/{id}")
	deleteSession.SetSummary("Abandon game")
	deleteSession.SetDescription("Stops the round timer and discards the session.")
	deleteSession.AddReqStructure(SessionPath{})
	deleteSession.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteSession)

	// POST /api/sessions/{id}/click
	postClick, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{id}/click")
	postClick.SetSummary("Place guess")
	postClick.SetDescription("Records the pending guess of the active round. A later click replaces it.")
	postClick.AddReqStructure(clickInput{})
	postClick.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postClick.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postClick.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postClick.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postClick)

	// POST /api/sessions/{id}/confirm
	postConfirm, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{id}/confirm")
	postConfirm.SetSummary("Confirm guess")
	postConfirm.SetDescription("Locks the round with the pending guess and scores it.")
	postConfirm.AddReqStructure(SessionPath{})
	postConfirm.AddRespStructure(ConfirmResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postConfirm.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postConfirm.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postConfirm)

	// POST /api/sessions/{id}/advance
	postAdvance, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{id}/advance")
	postAdvance.SetSummary("Next round")
	postAdvance.SetDescription("Starts the next round, or ends the game after the last one.")
	postAdvance.AddReqStructure(SessionPath{})
	postAdvance.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAdvance.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postAdvance.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAdvance)

	// GET /api/sessions/{id}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of the session's engine events.")
	getEvents.AddReqStructure(SessionPath{})
	getEvents.AddRespStructure(mapguess.Event{}, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/sessions/{id}
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/sessions/{id}")
	getWS.SetSummary("WebSocket session")
	getWS.SetDescription("Streams engine events and accepts click, confirm and advance commands.")
	getWS.AddReqStructure(SessionPath{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/highscores
	getHighscores, _ := r.NewOperationContext(http.MethodGet, "/api/highscores")
	getHighscores.SetSummary("High scores")
	getHighscores.SetDescription("Best scores of the trailing window, best first.")
	getHighscores.AddRespStructure(HighscoresResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHighscores)

	// GET /api/sessions/{id}/highscore
	getQualify, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}/highscore")
	getQualify.SetSummary("Check high score")
	getQualify.SetDescription("Reports whether the final score of a finished game makes the board.")
	getQualify.AddReqStructure(SessionPath{})
	getQualify.AddRespStructure(QualifyResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getQualify.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(getQualify)

	// POST /api/sessions/{id}/highscore
	postHighscore, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{id}/highscore")
	postHighscore.SetSummary("Submit high score")
	postHighscore.SetDescription("Saves the final score of a finished game under a player name. Once per game.")
	postHighscore.AddReqStructure(highscoreInput{})
	postHighscore.AddRespStructure(highscore.Record{}, openapi.WithHTTPStatus(http.StatusCreated))
	postHighscore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postHighscore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postHighscore)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
