package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/iamasit07/puissance4/backend/internal/domain"
	"github.com/iamasit07/puissance4/backend/internal/service/game"
	"github.com/iamasit07/puissance4/backend/pkg/auth"
	"github.com/iamasit07/puissance4/backend/pkg/httputil"
	"github.com/iamasit07/puissance4/backend/pkg/uid"
)

// Handler serves GET /ws/games/:id.
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Seats          *auth.SeatIssuer
	Upgrader       websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, sm *game.SessionManager, seats *auth.SeatIssuer, allowedOrigins []string) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Seats:          seats,
		Upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Requests without an Origin header come from non-browser clients.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket upgrades the connection and sends the current snapshot.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	gameID := c.Param("id")
	session, ok := h.SessionManager.GetSession(gameID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": game.ErrGameNotFound.Error()})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	clientID, err := uid.GenerateSpectatorID()
	if err != nil {
		log.Printf("[WS] %v", err)
		conn.Close()
		return
	}

	client := h.ConnManager.AddConnection(gameID, clientID, conn)
	client.token, _ = httputil.GetTokenFromRequest(c.Request)
	snap := session.Snapshot()
	client.enqueue(ServerMessage{Type: MessageSnapshot, Game: &snap})
	go client.writePump()

	log.Printf("[WS] %s watching game %s", clientID, gameID)
	h.readLoop(client)
}

func (h *Handler) readLoop(client *Client) {
	defer func() {
		h.ConnManager.RemoveConnection(client.GameID, client.ID)
		log.Printf("[WS] %s left game %s", client.ID, client.GameID)
	}()

	conn := client.conn
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] %s disconnected unexpectedly: %v", client.ID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			client.enqueue(errorMessage("invalid message format"))
			continue
		}
		h.processMessage(client, msg)
	}
}

// processMessage applies a seated action. The resulting snapshot reaches
// the sender through Publish like any other watcher.
func (h *Handler) processMessage(client *Client, msg ClientMessage) {
	if msg.Type != MessageMove && msg.Type != MessageUndo {
		client.enqueue(errorMessage("unknown message type " + msg.Type))
		return
	}

	token := msg.Token
	if token == "" {
		token = client.token
	}
	color, err := h.seat(client.GameID, token)
	if err != nil {
		client.enqueue(errorMessage(err.Error()))
		return
	}

	session, ok := h.SessionManager.GetSession(client.GameID)
	if !ok {
		client.enqueue(errorMessage(game.ErrGameNotFound.Error()))
		return
	}

	switch msg.Type {
	case MessageMove:
		_, err = session.HandleMove(color, msg.Column)
	case MessageUndo:
		_, err = session.HandleUndo(color)
	}
	if err != nil {
		client.enqueue(errorMessage(err.Error()))
	}
}

func (h *Handler) seat(gameID, token string) (domain.Cell, error) {
	if h.Seats == nil || token == "" {
		return domain.Empty, errSeatRequired
	}
	color, err := h.Seats.Seat(token, gameID)
	if err != nil {
		return domain.Empty, err
	}
	cell := domain.Cell(color)
	if !cell.Valid() {
		return domain.Empty, domain.ErrInvalidColor
	}
	return cell, nil
}

var errSeatRequired = errors.New("a seat token is required to play")

func errorMessage(text string) ServerMessage {
	return ServerMessage{Type: MessageError, Message: text}
}
