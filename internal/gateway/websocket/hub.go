// Package websocket pushes board events to connected browsers.
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	ws "github.com/harrypotter228/TaskManagement/pkg/websocket"
)

// Hub manages all WebSocket client connections
type Hub struct {
	clients map[*Client]bool

	// Clients subscribed to a board's events
	boardSubscribers map[string]map[*Client]bool

	broadcast chan *ws.Message
	closed    bool

	dispatcher *ws.Dispatcher

	mu     sync.RWMutex
	logger *logger.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(dispatcher *ws.Dispatcher, log *logger.Logger) *Hub {
	if dispatcher == nil {
		dispatcher = ws.NewDispatcher()
	}
	return &Hub{
		clients:          make(map[*Client]bool),
		boardSubscribers: make(map[string]map[*Client]bool),
		broadcast:        make(chan *ws.Message, 256),
		dispatcher:       dispatcher,
		logger:           log.WithFields(zap.String("component", "ws_hub")),
	}
}

// Run starts the hub's main processing loop
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket hub started")
	defer h.logger.Info("WebSocket hub stopped")

	for {
		select {
		case <-ctx.Done():
			h.closeAllClients()
			return

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.boardSubscribers = make(map[string]map[*Client]bool)
	h.closed = true
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		for boardID := range client.subscriptions {
			h.dropSubscriber(boardID, client)
		}
		h.logger.Debug("Client unregistered", zap.String("client_id", client.ID))
	}
}

// dropSubscriber must be called with h.mu held.
func (h *Hub) dropSubscriber(boardID string, client *Client) {
	if clients, ok := h.boardSubscribers[boardID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.boardSubscribers, boardID)
		}
	}
}

func (h *Hub) broadcastMessage(msg *ws.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.enqueue(data)
	}
}

// Register adds a client to the hub. It returns false once the hub has shut down.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[client] = true
	h.logger.Debug("Client registered", zap.String("client_id", client.ID))
	return true
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.removeClient(client)
}

// Broadcast sends a notification to all connected clients
func (h *Hub) Broadcast(msg *ws.Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Broadcast queue full, dropping message", zap.String("action", msg.Action))
	}
}

// BroadcastToBoard sends a notification to clients subscribed to boardID.
func (h *Hub) BroadcastToBoard(boardID string, msg *ws.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.boardSubscribers[boardID] {
		client.enqueue(data)
	}
}

// SubscribeToBoard subscribes a client to a board's events
func (h *Hub) SubscribeToBoard(client *Client, boardID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	if _, ok := h.boardSubscribers[boardID]; !ok {
		h.boardSubscribers[boardID] = make(map[*Client]bool)
	}
	h.boardSubscribers[boardID][client] = true
	client.subscriptions[boardID] = true

	h.logger.Debug("Client subscribed to board",
		zap.String("client_id", client.ID),
		zap.String("board_id", boardID))
}

// UnsubscribeFromBoard removes a client's subscription to boardID
func (h *Hub) UnsubscribeFromBoard(client *Client, boardID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(client.subscriptions, boardID)
	h.dropSubscriber(boardID, client)
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SubscriberCount returns how many clients follow boardID.
func (h *Hub) SubscriberCount(boardID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.boardSubscribers[boardID])
}

// sendTo queues data for client while it is still registered.
func (h *Hub) sendTo(client *Client, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[client]; !ok {
		return false
	}
	return client.enqueue(data)
}
