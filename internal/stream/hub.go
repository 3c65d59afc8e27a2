package stream

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rickgao/pricing-board/internal/broker"
)

// Hub fans published messages out to WebSocket subscribers.
// It implements broker.Publisher.
type Hub struct {
	cfg      Config
	logger   *slog.Logger
	observer Observer
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	closed      bool

	statsMu   sync.Mutex
	delivered int64
	dropped   int64
}

// subscriber is a single WebSocket connection.
type subscriber struct {
	id       string
	conn     *websocket.Conn
	selector broker.Selector
	send     chan []byte
	done     chan struct{}
	once     sync.Once
}

// NewHub creates a hub.
func NewHub(cfg Config, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaults.SendBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaults.PingInterval
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = defaults.PongWait
	}
	return &Hub{
		cfg:         cfg,
		logger:      logger,
		observer:    nopObserver{},
		upgrader:    websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		subscribers: make(map[*subscriber]struct{}),
	}
}

// SetObserver installs an event observer. It must be called before use.
func (h *Hub) SetObserver(o Observer) {
	if o != nil {
		h.observer = o
	}
}

// ServeHTTP upgrades the request and subscribes the connection using the
// vendor and instrument query parameters as a selector.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	selector := broker.NewSelector(q.Get("vendor"), q.Get("instrument"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("stream upgrade failed", "error", err)
		return
	}

	sub := &subscriber{
		id:       uuid.NewString(),
		conn:     conn,
		selector: selector,
		send:     make(chan []byte, h.cfg.SendBuffer),
		done:     make(chan struct{}),
	}

	if !h.add(sub) {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second),
		)
		conn.Close()
		return
	}

	go h.writeLoop(sub)
	go h.readLoop(sub)
}

// Publish delivers msg to every matching subscriber without blocking.
func (h *Hub) Publish(_ context.Context, msg broker.Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrHubClosed
	}

	var delivered, dropped int64
	for sub := range h.subscribers {
		if !sub.selector.Matches(msg) {
			continue
		}
		select {
		case sub.send <- msg.Value:
			delivered++
		default:
			dropped++
			h.observer.DeliveryDropped()
		}
	}

	h.statsMu.Lock()
	h.delivered += delivered
	h.dropped += dropped
	h.statsMu.Unlock()

	return nil
}

// Close disconnects every subscriber. Later publishes fail with ErrHubClosed.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		h.remove(sub)
	}
	return nil
}

// Stats returns current statistics.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	n := len(h.subscribers)
	h.mu.RUnlock()

	h.statsMu.Lock()
	defer h.statsMu.Unlock()
	return Stats{Subscribers: n, Delivered: h.delivered, Dropped: h.dropped}
}

func (h *Hub) add(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.subscribers[sub] = struct{}{}
	h.observer.SubscriberAdded()
	h.logger.Debug("stream subscriber added", "id", sub.id, "selector", sub.selector.String())
	return true
}

// remove unregisters sub and closes its connection. Safe to call repeatedly.
func (h *Hub) remove(sub *subscriber) {
	sub.once.Do(func() {
		h.mu.Lock()
		delete(h.subscribers, sub)
		h.mu.Unlock()

		close(sub.done)
		sub.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		sub.conn.Close()

		h.observer.SubscriberRemoved()
		h.logger.Debug("stream subscriber removed", "id", sub.id)
	})
}

// writeLoop drains the subscriber queue and sends periodic pings.
func (h *Hub) writeLoop(sub *subscriber) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()
	defer h.remove(sub)

	for {
		select {
		case <-sub.done:
			return
		case data := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("stream write failed", "id", sub.id, "error", err)
				return
			}
		case <-ticker.C:
			if err := sub.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.cfg.WriteTimeout)); err != nil {
				h.logger.Debug("stream ping failed", "id", sub.id, "error", err)
				return
			}
		}
	}
}

// readLoop discards client frames and detects disconnects.
func (h *Hub) readLoop(sub *subscriber) {
	defer h.remove(sub)

	sub.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("stream read failed", "id", sub.id, "error", err)
			}
			return
		}
	}
}
