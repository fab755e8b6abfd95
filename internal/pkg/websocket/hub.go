package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub maintains the set of connected clients per group and fans stored
// messages out to them. The hub only distributes: messages are written
// through the REST endpoint, never through the socket.
type Hub struct {
	// Registered clients organized by group ID
	clients map[int64]map[*Client]bool

	// Messages queued for fan-out
	broadcast chan *Message

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closes the run loop on shutdown
	done chan struct{}

	closeOnce sync.Once

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Logger for Hub operations
	logger zerolog.Logger
}

// Message represents a chat message sent over WebSocket
type Message struct {
	// Type of message: "text", "file"
	Type string `json:"type"`

	// Group this message belongs to
	GroupID int64 `json:"groupId"`

	// User who sent the message
	SenderID int64 `json:"senderId"`

	// Display name of the sender, if known
	SenderName string `json:"senderName,omitempty"`

	// Message content
	Text string `json:"text"`

	// Link to file if this is a file message
	FileURL string `json:"fileUrl,omitempty"`

	// Timestamp when the message was sent
	Timestamp time.Time `json:"timestamp"`

	// Message ID from the database
	ID int64 `json:"id,omitempty"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[int64]map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations, broadcasts, etc.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-h.done:
			return
		}
	}
}

// Stop shuts down the run loop. Safe to call more than once.
func (h *Hub) Stop() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	groupID := client.groupID
	if _, ok := h.clients[groupID]; !ok {
		h.clients[groupID] = make(map[*Client]bool)
	}
	h.clients[groupID][client] = true

	h.logger.Info().
		Int64("groupID", groupID).
		Int64("userID", client.userID).
		Msg("Client registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	groupID := client.groupID
	if _, ok := h.clients[groupID]; ok {
		if _, ok := h.clients[groupID][client]; ok {
			delete(h.clients[groupID], client)
			close(client.send)

			// If no more clients in this group, clean up
			if len(h.clients[groupID]) == 0 {
				delete(h.clients, groupID)
			}

			h.logger.Info().
				Int64("groupID", groupID).
				Int64("userID", client.userID).
				Msg("Client unregistered")
		}
	}
}

// broadcastMessage delivers a message to every client in its group.
// Runs on the hub goroutine, which is also the sole receiver of the
// unregister channel, so stalled clients must be dropped by direct call:
// a send to h.unregister from here would wedge the run loop for good.
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("groupID", message.GroupID).
			Msg("Failed to marshal message for broadcast")
		return
	}

	var stalled []*Client

	h.mu.RLock()
	clients, ok := h.clients[message.GroupID]
	if !ok {
		h.mu.RUnlock()
		h.logger.Debug().
			Int64("groupID", message.GroupID).
			Msg("No clients in group for broadcast")
		return
	}

	delivered := 0
	for client := range clients {
		select {
		case client.send <- data:
			delivered++
		default:
			// Send buffer full; the client is slow or already gone
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		h.logger.Warn().
			Int64("groupID", client.groupID).
			Int64("userID", client.userID).
			Msg("Dropping stalled client")
		h.unregisterClient(client)
	}

	h.logger.Debug().
		Int64("groupID", message.GroupID).
		Int("delivered", delivered).
		Msg("Message broadcasted to group")
}

// BroadcastToGroup sends a message to all connected clients in a group
func (h *Hub) BroadcastToGroup(message *Message) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// GetClientsCount returns the number of connected clients for a group
func (h *Hub) GetClientsCount(groupID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[groupID]; ok {
		return len(clients)
	}
	return 0
}
