package notification

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

type client struct {
	hub        *Hub
	conn       *websocket.Conn
	employeeID string
	send       chan []byte
}

// Hub tracks live websocket clients by employee id.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
	logger  *zap.Logger
}

func NewHub(logger ...*zap.Logger) *Hub {
	l := zap.L().Named("notification.hub")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.hub")
	}
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		logger:  l,
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.employeeID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.employeeID] = set
	}
	set[c] = struct{}{}
	h.logger.Debug("websocket client connected", zap.String("employee_id", c.employeeID), zap.Int("connections", len(set)))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.employeeID]
	if !ok {
		return
	}
	if _, ok := set[c]; ok {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.clients, c.employeeID)
	}
}

// Push queues message for every connection of employeeID and returns how
// many received it. Slow clients are dropped.
func (h *Hub) Push(employeeID string, message []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for c := range h.clients[employeeID] {
		select {
		case c.send <- message:
			delivered++
		default:
			delete(h.clients[employeeID], c)
			close(c.send)
			h.logger.Warn("websocket client too slow, dropped", zap.String("employee_id", employeeID))
		}
	}
	return delivered
}

func (h *Hub) Connections(employeeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[employeeID])
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only drains control frames; clients never send data.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read failed", zap.String("employee_id", c.employeeID), zap.Error(err))
			}
			return
		}
	}
}
