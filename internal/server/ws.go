package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/repcoach/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// OutcomesHandler broadcasts per-frame tracking outcomes via WebSocket.
// The pipeline pushes outcomes with Publish; there is no polling loop.
type OutcomesHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewOutcomesHandler creates a new OutcomesHandler.
func NewOutcomesHandler() *OutcomesHandler {
	return &OutcomesHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *OutcomesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish sends an outcome to all connected clients. Safe to call with no
// clients connected.
func (h *OutcomesHandler) Publish(outcome session.FrameOutcome) {
	msg, err := json.Marshal(outcome)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// ClientCount reports the number of connected clients.
func (h *OutcomesHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
