package websocket

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

// Hub maintains the set of active Clients and fans analysis job events
// out to them.
type Hub struct {
	// clients maps usernames to their active connections
	// A single user can have multiple connections (multiple tabs/devices)
	clients map[string]map[*Client]bool

	// rooms maps job IDs to subscribed clients
	rooms map[uuid.UUID]map[*Client]bool

	// broadcast channel for events
	broadcast chan domain.Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// mu protects the clients and rooms maps
	mu sync.RWMutex

	// logger for the hub
	logger *slog.Logger
}

// Ensure Hub implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan domain.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// BroadcastEvent queues an event for delivery to the job's subscribers.
// This method implements the ports.EventBroadcaster interface. Delivery is
// best effort: if the hub is saturated the event is dropped, clients can
// always recover state by fetching the job snapshot.
func (h *Hub) BroadcastEvent(event domain.Event) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"job_id", event.JobID,
		)
	}
}

// Run starts the hub's event loop. This MUST be run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// registerClient adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.Username] == nil {
		h.clients[client.Username] = make(map[*Client]bool)
	}
	h.clients[client.Username][client] = true

	h.logger.Info("client registered",
		"username", client.Username,
		"total_connections", len(h.clients[client.Username]),
	)
}

// unregisterClient removes a client from the hub and all rooms
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Get subscriptions before removing from maps
	subscriptions := client.GetSubscriptions()

	// 1. Remove from the global user map
	if userClients, ok := h.clients[client.Username]; ok {
		if _, exists := userClients[client]; exists {
			delete(userClients, client)
			if len(userClients) == 0 {
				delete(h.clients, client.Username)
			}
		}
	}

	// 2. Remove from all subscribed rooms
	for _, jobID := range subscriptions {
		if room, ok := h.rooms[jobID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, jobID)
			}
		}
	}

	// 3. Safely close the send channel
	client.CloseSend()

	h.logger.Info("client unregistered",
		"username", client.Username,
	)
}

// broadcastEvent sends an event to all clients subscribed to the job
func (h *Hub) broadcastEvent(event domain.Event) {
	h.mu.RLock()
	room, ok := h.rooms[event.JobID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Copy the client list to avoid holding the lock while sending
	clients := make([]*Client, 0, len(room))
	for client := range room {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"job_id", event.JobID,
		"client_count", len(clients),
	)

	// Send to each client
	for _, client := range clients {
		select {
		case client.Send <- event:
			// Successfully queued
		default:
			// Client's send buffer is full: the reader is gone or hopelessly
			// behind. Unregister inline; sending to h.Unregister from the
			// hub's own loop would block forever.
			h.logger.Warn("client send buffer full, unregistering",
				"username", client.Username,
			)
			h.unregisterClient(client)
		}
	}
}

// subscribeClientToJob adds a client to a job's room
func (h *Hub) subscribeClientToJob(client *Client, jobID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[jobID] == nil {
		h.rooms[jobID] = make(map[*Client]bool)
	}
	h.rooms[jobID][client] = true
	client.AddSubscription(jobID)

	h.logger.Debug("client subscribed to job",
		"username", client.Username,
		"job_id", jobID,
	)
}

// unsubscribeClientFromJob removes a client from a job's room
func (h *Hub) unsubscribeClientFromJob(client *Client, jobID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[jobID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, jobID)
		}
	}
	client.RemoveSubscription(jobID)

	h.logger.Debug("client unsubscribed from job",
		"username", client.Username,
		"job_id", jobID,
	)
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, userClients := range h.clients {
		count += len(userClients)
	}
	return count
}

// GetRoomCount returns the number of jobs with at least one subscriber
func (h *Hub) GetRoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// GetClientsInRoom returns the number of clients subscribed to a job
func (h *Hub) GetClientsInRoom(jobID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, ok := h.rooms[jobID]; ok {
		return len(room)
	}
	return 0
}
