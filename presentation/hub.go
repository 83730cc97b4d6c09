// Package presentation streams analysis results to downstream clients
// over WebSocket. The stream is push-only; nothing a client sends can
// reach the engine.
package presentation

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/solenne-ai/cadenza/logging"
)

// clientQueueSize bounds each client's outbound envelope queue. At
// 10 Hz this is several seconds of backlog; a client further behind
// is dropped.
const clientQueueSize = 64

// Envelope wraps every message pushed to presentation clients
type Envelope struct {
	Event   string    `json:"event"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan Envelope
}

// Hub fans analysis envelopes out to connected WebSocket clients.
// Slow clients are dropped rather than allowed to stall the broadcast.
type Hub struct {
	logger   logging.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates an empty hub
func NewHub(logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Publish broadcasts one envelope to every connected client
func (h *Hub) Publish(event string, payload any) {
	envelope := Envelope{Event: event, At: time.Now(), Payload: payload}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- envelope:
		default:
			h.logger.Warn("dropping slow presentation client")
			h.dropLocked(c)
		}
	}
}

// ServeHTTP upgrades an incoming connection and starts its pumps
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error(err, "presentation upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan Envelope, clientQueueSize)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("presentation client connected", logging.Fields{"clients": count})
	go h.writePump(c)
	go h.readPump(c)
}

// ClientCount reports how many clients are connected
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects future connections
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
}

// writePump forwards queued envelopes to one client until its queue
// closes or a write fails
func (h *Hub) writePump(c *client) {
	for envelope := range c.send {
		if err := c.conn.WriteJSON(envelope); err != nil {
			h.drop(c)
			return
		}
	}
}

// readPump drains inbound frames; the stream is push-only so content
// is discarded, but reading is how the close handshake surfaces
func (h *Hub) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

// dropLocked removes a client. send is only written under h.mu, so
// closing it here cannot race a Publish.
func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	c.conn.Close()
}
