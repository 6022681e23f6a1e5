// Package live pushes scoreboard snapshots to WebSocket viewers.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
	"github.com/preston-bernstein/scoreboard-service/internal/scoreboard"
	"github.com/preston-bernstein/scoreboard-service/internal/store"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	defaultSendBuffer = 16
	messageType       = "scoreboard"
)

// Message is the frame sent to viewers.
type Message struct {
	Type    string                 `json:"type"`
	Version uint64                 `json:"version"`
	Matches []scoreboard.MatchView `json:"matches"`
}

// Options configures a Hub.
type Options struct {
	Logger         *slog.Logger
	Recorder       *metrics.Recorder
	SendBuffer     int
	AllowedOrigins []string
	// Current supplies the snapshot sent to a viewer when it connects.
	Current func() store.Snapshot
}

// Hub tracks connected viewers and fans snapshots out to them.
type Hub struct {
	logger     *slog.Logger
	recorder   *metrics.Recorder
	sendBuffer int
	current    func() store.Snapshot
	upgrader   websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn        *websocket.Conn
	send        chan []byte
	lastVersion uint64
	closed      bool
}

// NewHub constructs a Hub.
func NewHub(opts Options) *Hub {
	if opts.SendBuffer < 1 {
		opts.SendBuffer = defaultSendBuffer
	}
	h := &Hub{
		logger:     opts.Logger,
		recorder:   opts.Recorder,
		sendBuffer: opts.SendBuffer,
		current:    opts.Current,
		clients:    make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}
	return h
}

// Run broadcasts every snapshot until ctx is done or the channel closes, then
// disconnects all viewers.
func (h *Hub) Run(ctx context.Context, snapshots <-chan store.Snapshot) error {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			h.Broadcast(snap)
		}
	}
}

// Broadcast queues a snapshot for every viewer. Viewers whose queue is full
// are disconnected.
func (h *Hub) Broadcast(snap store.Snapshot) {
	payload, err := encode(snap)
	if err != nil {
		logging.Error(h.logger, "failed to encode snapshot", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if snap.Version <= c.lastVersion {
			continue
		}
		select {
		case c.send <- payload:
			c.lastVersion = snap.Version
		default:
			logging.Warn(h.logger, "live viewer too slow, disconnecting", logging.FieldVersionSeq, snap.Version)
			h.removeLocked(c)
		}
	}
}

// Clients reports the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and registers the viewer.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(logging.FromContext(r.Context(), h.logger), "websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, h.sendBuffer)}
	h.register(c)

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = struct{}{}
	h.recorder.AddLiveClients(1)

	if h.current == nil {
		logging.Info(h.logger, "live viewer connected", logging.FieldClients, len(h.clients))
		return
	}
	snap := h.current()
	logging.Info(h.logger, "live viewer connected",
		logging.FieldClients, len(h.clients),
		logging.FieldVersionSeq, snap.Version,
	)
	payload, err := encode(snap)
	if err != nil {
		logging.Error(h.logger, "failed to encode snapshot", err)
		return
	}
	c.send <- payload
	c.lastVersion = snap.Version
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if c.closed {
		return
	}
	c.closed = true
	delete(h.clients, c)
	close(c.send)
	h.recorder.AddLiveClients(-1)
	logging.Info(h.logger, "live viewer disconnected", logging.FieldClients, len(h.clients))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// readPump drains control frames and notices when the viewer goes away.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn(h.logger, "live viewer read failed", "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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

func encode(snap store.Snapshot) ([]byte, error) {
	matches := snap.Matches
	if matches == nil {
		matches = []scoreboard.MatchView{}
	}
	return json.Marshal(Message{Type: messageType, Version: snap.Version, Matches: matches})
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
