package websocket

import "github.com/iamasit07/puissance4/backend/internal/service/game"

const (
	MessageMove     = "make_move"
	MessageUndo     = "undo"
	MessageSnapshot = "snapshot"
	MessageError    = "error"
)

// ClientMessage is sent by a browser. Moves and undo need a seat token.
type ClientMessage struct {
	Type   string `json:"type"`
	Token  string `json:"token,omitempty"`
	Column int    `json:"column"`
}

type ServerMessage struct {
	Type    string         `json:"type"`
	Message string         `json:"message,omitempty"`
	Game    *game.Snapshot `json:"game,omitempty"`
}
