package game

import (
	"sync"

	"github.com/gorilla/websocket"

	"checkers/internal/domain/board"
	"checkers/internal/domain/game"
)

// client is one player's socket. gorilla connections allow a single writer at
// a time, so writes go through mu.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn}
}

func (c *client) send(msg game.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

func (c *client) close() error {
	return c.conn.Close()
}

// Hub keeps the socket of each seated player of every game.
type Hub struct {
	clients map[string]map[board.Player]*client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[board.Player]*client),
	}
}

// Register seats c and returns the connection it replaces, if any.
func (h *Hub) Register(gameKey string, player board.Player, c *client) *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[gameKey] == nil {
		h.clients[gameKey] = make(map[board.Player]*client)
	}
	previous := h.clients[gameKey][player]
	h.clients[gameKey][player] = c
	return previous
}

// Unregister removes c unless a newer connection took its seat already.
func (h *Hub) Unregister(gameKey string, player board.Player, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	seats := h.clients[gameKey]
	if seats[player] != c {
		return
	}
	delete(seats, player)
	if len(seats) == 0 {
		delete(h.clients, gameKey)
	}
}

func (h *Hub) get(gameKey string, player board.Player) *client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[gameKey][player]
}

// Connected reports whether the player has a live socket in the game.
func (h *Hub) Connected(gameKey string, player board.Player) bool {
	return h.get(gameKey, player) != nil
}
