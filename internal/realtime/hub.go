package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// client is one connected WebSocket peer subscribed to a single channel.
type client struct {
	conn    *websocket.Conn
	send    chan []byte
	channel string
}

// Hub relays messages published on Redis channels to every WebSocket
// client subscribed to that channel. It bridges the Pub/Sub notifier
// (server-side fan-out) to browsers and mobile clients that can't speak
// Redis directly.
type Hub struct {
	notifier *Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	clients  map[string]map[*client]struct{} // channel -> connected clients
	cancelFn map[string]context.CancelFunc    // channel -> subscription shutdown
}

// NewHub creates a Hub.
func NewHub(notifier *Notifier, logger *slog.Logger) *Hub {
	return &Hub{
		notifier: notifier,
		logger:   logger,
		clients:  make(map[string]map[*client]struct{}),
		cancelFn: make(map[string]context.CancelFunc),
	}
}

// ServeWS upgrades the request to a WebSocket connection and subscribes
// it to channel. It blocks until the connection closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, channel string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16), channel: channel}
	h.register(c)
	defer h.unregister(c)

	go c.writePump()
	c.readPump(h.logger)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.channel] == nil {
		h.clients[c.channel] = make(map[*client]struct{})
		h.startRelay(c.channel)
	}
	h.clients[c.channel][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if peers, ok := h.clients[c.channel]; ok {
		delete(peers, c)
		close(c.send)
		if len(peers) == 0 {
			delete(h.clients, c.channel)
			if cancel, ok := h.cancelFn[c.channel]; ok {
				cancel()
				delete(h.cancelFn, c.channel)
			}
		}
	}
	_ = c.conn.Close()
}

// startRelay subscribes to channel on Redis and fans out every message
// to currently-connected clients. Called with h.mu held; must be safe
// to call while holding that lock (it only spawns a goroutine).
func (h *Hub) startRelay(channel string) {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancelFn[channel] = cancel

	sub := h.notifier.Subscribe(ctx, channel)
	msgCh := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgCh:
				if !ok {
					return
				}
				h.broadcast(channel, []byte(msg.Payload))
			}
		}
	}()
}

func (h *Hub) broadcast(channel string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients[channel] {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("dropping message to slow websocket client", "channel", channel)
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

func (c *client) readPump(logger *slog.Logger) {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// Clients never send application messages on this connection; we
		// only read to drive the pong handler and detect disconnects.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("websocket closed unexpectedly", "error", err)
			}
			return
		}
	}
}
