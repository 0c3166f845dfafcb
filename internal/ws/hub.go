package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

// Hub fans driver location updates out to subscribed watcher connections.
type Hub struct {
	mu       sync.RWMutex
	watchers map[*websocket.Conn]struct{}
	log      zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		watchers: make(map[*websocket.Conn]struct{}),
		log:      log,
	}
}

func (h *Hub) Subscribe(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.watchers[conn] = struct{}{}
	h.log.Debug().Int("watchers", len(h.watchers)).Msg("location watcher subscribed")
}

func (h *Hub) Unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.watchers[conn]; ok {
		delete(h.watchers, conn)
		_ = conn.Close()
	}
}

// Broadcast sends a location update to every watcher. Write failures drop
// the watcher; a stale dashboard must reconnect.
func (h *Hub) Broadcast(location model.DriverLocation) {
	payload, err := json.Marshal(location)
	if err != nil {
		h.log.Error().Err(err).Msg("encode location broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.watchers {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(h.watchers, conn)
			_ = conn.Close()
		}
	}
}

// Watchers returns the current subscriber count.
func (h *Hub) Watchers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers)
}
