package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Jayasurya1108/newRag/internal/session"
)

const (
	readTimeout    = 60 * time.Second
	writeTimeout   = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
)

// Server handles WebSocket upgrades for the live turn feed.
type Server struct {
	hub      *Hub
	sessions *session.Manager
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(h *Hub, sessions *session.Manager) *Server {
	return &Server{
		hub:      h,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes registers the WebSocket route with the echo server.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", s.HandleWebSocket)
}

// HandleWebSocket authenticates the session token, upgrades the connection,
// and starts the read/write pumps. The feed is one-way: client frames are
// drained and ignored.
func (s *Server) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	sess, err := s.sessions.Get(token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid session token"})
	}

	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return err
	}

	conn := s.hub.NewConnection(ws, sess.Username())
	s.hub.Register(conn)

	ws.SetReadLimit(maxMessageSize)

	go s.writePump(conn)
	go s.readPump(conn)

	return nil
}

// readPump drains the connection until it closes.
func (s *Server) readPump(conn *Connection) {
	defer func() {
		s.hub.Unregister(conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		if _, _, err := conn.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump writes broadcast frames and keepalive pings.
func (s *Server) writePump(conn *Connection) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Hub closed the channel
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
