package api

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Print lifecycle events broadcast to connected clients.
const (
	EventPrintAccepted  = "print.accepted"
	EventPrintCompleted = "print.completed"
	EventPrintFailed    = "print.failed"
)

// Event is one WebSocket frame.
type Event struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// Hub tracks connected WebSocket clients and fans events out to them.
type Hub struct {
	clients map[*wsClient]bool
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewHub returns an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[*wsClient]bool),
		logger:  logger,
	}
}

// Broadcast sends the event to every connected client. Clients with a
// full send buffer are skipped rather than blocking the print path.
func (h *Hub) Broadcast(event string, data map[string]interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg := Event{Event: event, Data: data}
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
		}
	}
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

func (h *Hub) add(client *wsClient) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
}

// remove closes the client's send channel under the write lock, so a
// concurrent Broadcast can never send on a closed channel.
func (h *Hub) remove(client *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

type wsClient struct {
	conn *websocket.Conn
	send chan Event
}

// handleWebSocket upgrades the connection and registers it with the hub.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan Event, 256),
	}
	s.hub.add(client)
	s.logger.Debug("WebSocket client connected")

	go client.writePump()
	go client.readPump(s.hub, s.logger)
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// readPump drains inbound frames until the peer closes. The service
// pushes events but takes no commands over the socket.
func (c *wsClient) readPump(h *Hub, logger *zap.Logger) {
	defer func() {
		h.remove(c)
		c.conn.Close()
		logger.Debug("WebSocket client disconnected")
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
	}
}
