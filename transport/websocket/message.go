package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

const (
	actionConnect     = "connect"
	actionGameTurn    = "game:turn"
	actionGameReset   = "game:reset"
	actionThemeToggle = "theme:toggle"
	actionError       = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type connectPayload struct {
	SessionID string `json:"session_id,omitempty" validate:"omitempty,uuid"`
}

type turnPayload struct {
	Cell *int `json:"cell" validate:"required,min=0,max=8"`
}

type ResponsePayload struct {
	Session *entity.Session `json:"session,omitempty"`
	Phase   tictactoe.Phase `json:"phase,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func sessionPayload(session *entity.Session) ResponsePayload {
	return ResponsePayload{
		Session: session,
		Phase:   tictactoe.PhaseOf(&session.Game),
	}
}

func sendMessage(conn *websocket.Conn, action string, payload ResponsePayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func sendErrorResponse(conn *websocket.Conn, action, message string) error {
	return sendMessage(conn, action, ResponsePayload{Error: message})
}
