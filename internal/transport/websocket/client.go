package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iamasit07/puissance4/backend/internal/service/game"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Client is one websocket watching one game. Only its write pump touches
// the socket for writing.
type Client struct {
	ID     string
	GameID string
	token  string // seat token given at connect time, may be empty
	conn   *websocket.Conn
	send   chan ServerMessage
	done   chan struct{}
	once   sync.Once
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// enqueue never blocks. A client that cannot keep up is dropped.
func (c *Client) enqueue(msg ServerMessage) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("[WS] Write to %s failed: %v", c.ID, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// ConnectionManager tracks the sockets watching each game. It implements
// game.Notifier.
type ConnectionManager struct {
	games map[string]map[string]*Client // gameID → clientID → Client
	mu    sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{games: make(map[string]map[string]*Client)}
}

func (cm *ConnectionManager) AddConnection(gameID, clientID string, conn *websocket.Conn) *Client {
	client := &Client{
		ID:     clientID,
		GameID: gameID,
		conn:   conn,
		send:   make(chan ServerMessage, sendBuffer),
		done:   make(chan struct{}),
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	watchers, ok := cm.games[gameID]
	if !ok {
		watchers = make(map[string]*Client)
		cm.games[gameID] = watchers
	}
	watchers[clientID] = client
	return client
}

func (cm *ConnectionManager) RemoveConnection(gameID, clientID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	watchers, ok := cm.games[gameID]
	if !ok {
		return
	}
	if client, exists := watchers[clientID]; exists {
		client.close()
		delete(watchers, clientID)
	}
	if len(watchers) == 0 {
		delete(cm.games, gameID)
	}
}

// Watchers returns how many sockets follow gameID.
func (cm *ConnectionManager) Watchers(gameID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.games[gameID])
}

// Publish queues the snapshot for every watcher of the game, in call order.
func (cm *ConnectionManager) Publish(gameID string, snapshot game.Snapshot) {
	msg := ServerMessage{Type: MessageSnapshot, Game: &snapshot}

	var dropped []string
	cm.mu.RLock()
	for id, client := range cm.games[gameID] {
		if !client.enqueue(msg) {
			dropped = append(dropped, id)
		}
	}
	cm.mu.RUnlock()

	for _, id := range dropped {
		log.Printf("[WS] Dropping slow watcher %s of game %s", id, gameID)
		cm.RemoveConnection(gameID, id)
	}
}

// CloseAll disconnects every watcher, used on shutdown.
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for gameID, watchers := range cm.games {
		for _, client := range watchers {
			client.close()
		}
		delete(cm.games, gameID)
	}
}
