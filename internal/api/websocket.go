// internal/api/websocket.go
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/freshsense/freshsense/internal/models"
	"github.com/freshsense/freshsense/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Local single-profile app; the CORS policy is already open.
		return true
	},
}

// inventoryEvent is the message pushed to every connected client after a
// mutation.
type inventoryEvent struct {
	Event     string              `json:"event"`
	Items     []models.FridgeItem `json:"items"`
	Timestamp time.Time           `json:"timestamp"`
}

// WebSocketHandler pushes inventory snapshots to connected dashboards so
// they refresh without polling.
type WebSocketHandler struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	logger  *utils.Logger
}

// NewWebSocketHandler creates an empty hub.
func NewWebSocketHandler() *WebSocketHandler {
	return &WebSocketHandler{
		clients: make(map[*websocket.Conn]bool),
		logger:  utils.GetLogger(),
	}
}

// InventoryFeed upgrades the request and keeps the connection registered
// until the peer closes it. The read loop only drains control frames;
// clients never send data.
func (h *WebSocketHandler) InventoryFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Infof("inventory feed client connected (%d active)", count)

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends an event with the given snapshot to every client.
// Writes that fail drop the client.
func (h *WebSocketHandler) Broadcast(event string, items []models.FridgeItem) {
	msg := inventoryEvent{
		Event:     event,
		Items:     items,
		Timestamp: time.Now(),
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(msg); err != nil {
			h.drop(conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll disconnects every client; used during shutdown.
func (h *WebSocketHandler) CloseAll() {
	h.mu.Lock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]bool)
	h.mu.Unlock()
}

func (h *WebSocketHandler) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
