package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/playperu/mapguess/internal/mapguess"
)

// WSCommand is a player input sent over the session WebSocket.
type WSCommand struct {
	Type string   `json:"type" enum:"click,confirm,advance"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
}

type wsError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// handleWSSession streams a session's engine events and accepts player inputs
// on the same connection. Events are the ones the SSE stream carries.
func handleWSSession(logger *slog.Logger, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
		defer cancel()

		ch := broker.Subscribe(s.ID)
		defer broker.Unsubscribe(s.ID, ch)

		go func() {
			defer cancel()
			for {
				_, msg, err := conn.Read(ctx)
				if err != nil {
					logger.Debug("websocket read ended", "session_id", s.ID, "error", err)
					return
				}
				if err := applyCommand(s, msg); err != nil {
					data, _ := json.Marshal(wsError{Type: "error", Error: err.Error()})
					if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
						return
					}
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case data, ok := <-ch:
				if !ok {
					conn.Close(websocket.StatusNormalClosure, "session ended")
					return
				}
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					logger.Debug("websocket write failed", "session_id", s.ID, "error", err)
					return
				}
			}
		}
	}
}

func applyCommand(s *Session, msg []byte) error {
	var cmd WSCommand
	if err := json.Unmarshal(msg, &cmd); err != nil {
		return errors.New("invalid command")
	}

	_, err := s.do(time.Now(), func(e *mapguess.Engine) error {
		switch cmd.Type {
		case "click":
			if cmd.Lat == nil || cmd.Lon == nil {
				return errors.New("lat and lon are required")
			}
			return e.MapClicked(mapguess.Coordinate{Lat: *cmd.Lat, Lon: *cmd.Lon})
		case "confirm":
			_, err := e.ConfirmGuess()
			return err
		case "advance":
			return e.AdvanceRound()
		}
		return errors.New("unknown command " + cmd.Type)
	})
	return err
}
