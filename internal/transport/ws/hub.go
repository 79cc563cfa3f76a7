// Package ws pushes newly appended chat turns to connected WebSocket
// clients.
package ws

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Jayasurya1108/newRag/internal/domain"
)

// ErrBufferFull is returned when a connection's send buffer is full.
var ErrBufferFull = errors.New("connection send buffer full")

// Connection represents a single WebSocket connection bound to a user.
type Connection struct {
	ID       string
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
	mu       sync.Mutex
}

// WriteMessage writes a message to the connection with proper locking.
func (c *Connection) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// SetWriteDeadline sets the write deadline for the connection.
func (c *Connection) SetWriteDeadline(t time.Time) error {
	return c.Conn.SetWriteDeadline(t)
}

// SetReadDeadline sets the read deadline for the connection.
func (c *Connection) SetReadDeadline(t time.Time) error {
	return c.Conn.SetReadDeadline(t)
}

// Close closes the underlying connection.
func (c *Connection) Close() error {
	return c.Conn.Close()
}

// userMessage is a broadcast addressed to one user's connections.
type userMessage struct {
	Username string
	Data     []byte
}

// Hub manages all WebSocket connections, indexed by user.
type Hub struct {
	connections map[string]*Connection
	users       map[string]map[string]bool

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *userMessage

	mu sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		users:       make(map[string]map[string]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *userMessage, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn.ID] = conn
			if h.users[conn.Username] == nil {
				h.users[conn.Username] = make(map[string]bool)
			}
			h.users[conn.Username][conn.ID] = true
			h.mu.Unlock()
			log.Printf("Connection registered: %s (user: %s)", conn.ID, conn.Username)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn.ID]; ok {
				delete(h.connections, conn.ID)
				if h.users[conn.Username] != nil {
					delete(h.users[conn.Username], conn.ID)
					if len(h.users[conn.Username]) == 0 {
						delete(h.users, conn.Username)
					}
				}
				close(conn.Send)
			}
			h.mu.Unlock()
			log.Printf("Connection unregistered: %s", conn.ID)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for connID := range h.users[msg.Username] {
				if conn, exists := h.connections[connID]; exists {
					select {
					case conn.Send <- msg.Data:
					default:
						// Buffer full, drop the connection
						log.Printf("Connection %s buffer full, closing", connID)
						go h.Unregister(conn)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// NewConnection creates a connection for a user. The caller registers it.
func (h *Hub) NewConnection(ws *websocket.Conn, username string) *Connection {
	return &Connection{
		ID:       uuid.New().String(),
		Username: username,
		Conn:     ws,
		Send:     make(chan []byte, 256),
	}
}

// Register registers a connection with the hub.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister unregisters a connection from the hub.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Broadcast sends a message to all connections of a user.
func (h *Hub) Broadcast(username string, data []byte) {
	h.broadcast <- &userMessage{Username: username, Data: data}
}

// TurnEvent is the JSON frame pushed for each appended turn.
type TurnEvent struct {
	Type string             `json:"type"`
	Turn domain.DisplayTurn `json:"turn"`
}

// TurnAppended implements session.Notifier: every turn appended to a
// session's view is fanned out to the user's open connections.
func (h *Hub) TurnAppended(username string, turn domain.DisplayTurn) {
	data, err := json.Marshal(TurnEvent{Type: "turn", Turn: turn})
	if err != nil {
		log.Printf("WARN: failed to marshal turn event: %v", err)
		return
	}
	h.Broadcast(username, data)
}

// ConnectionCount returns the number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// HasActiveConnections checks if a user has any active connections.
func (h *Hub) HasActiveConnections(username string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[username]) > 0
}
