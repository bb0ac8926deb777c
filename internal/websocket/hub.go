package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Hub is the room router: an in-memory registry mapping room ids to the
// set of currently connected clients. Subscription changes and publishes
// on the same room are linearized by a per-room lock, so a publish
// reaches exactly the set subscribed at the moment of the call. The hub
// is process-local; a multi-instance deployment would swap it for a
// shared backplane behind the same method set without touching the
// gateway.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*room

	// User tracking
	userClients map[string][]*Client
	userMu      sync.RWMutex

	// Hub lifecycle
	ctx    context.Context
	cancel context.CancelFunc

	// Metrics
	stats   HubStats
	statsMu sync.RWMutex
}

type room struct {
	mu      sync.Mutex
	clients map[*Client]struct{}

	// dead is set under mu when the room is removed from the hub map.
	// Subscribers that raced the removal see it and fetch a fresh room.
	dead bool
}

type HubStats struct {
	TotalRooms       int       `json:"total_rooms"`
	TotalClients     int       `json:"total_clients"`
	TotalConnections int64     `json:"total_connections"`
	EventsSent       int64     `json:"events_sent"`
	LastReset        time.Time `json:"last_reset"`
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		rooms:       make(map[string]*room),
		userClients: make(map[string][]*Client),
		ctx:         ctx,
		cancel:      cancel,
		stats: HubStats{
			LastReset: time.Now(),
		},
	}
}

func (h *Hub) getRoom(roomID string) *room {
	h.mu.RLock()
	rm := h.rooms[roomID]
	h.mu.RUnlock()
	if rm != nil {
		return rm
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	rm = h.rooms[roomID]
	if rm == nil {
		rm = &room{clients: make(map[*Client]struct{})}
		h.rooms[roomID] = rm
	}
	return rm
}

// Track registers a connection for user-level delivery. Called once per
// connection, before any room subscription.
func (h *Hub) Track(client *Client) {
	h.userMu.Lock()
	h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
	h.userMu.Unlock()

	h.updateStats(func(stats *HubStats) {
		stats.TotalConnections++
	})

	log.Info().Str("clientID", client.ID).Str("userID", client.UserID).Msg("ws: client connected")
}

// Subscribe adds a client to a room.
func (h *Hub) Subscribe(roomID string, client *Client) {
	var size int
	for {
		rm := h.getRoom(roomID)

		rm.mu.Lock()
		if rm.dead {
			// lost a race with the last member leaving; the hub map no
			// longer holds this room object, so joining it would orphan
			// the client from future publishes
			rm.mu.Unlock()
			continue
		}
		rm.clients[client] = struct{}{}
		size = len(rm.clients)
		rm.mu.Unlock()
		break
	}

	client.addRoom(roomID)

	log.Info().Str("roomID", roomID).Str("clientID", client.ID).Str("userID", client.UserID).Int("roomSize", size).Msg("ws: client subscribed to room")
}

// Unsubscribe removes a client from a room; a no-op if it was not in it.
func (h *Hub) Unsubscribe(roomID string, client *Client) {
	h.mu.RLock()
	rm := h.rooms[roomID]
	h.mu.RUnlock()
	if rm == nil {
		return
	}

	rm.mu.Lock()
	delete(rm.clients, client)
	empty := len(rm.clients) == 0
	rm.mu.Unlock()

	client.removeRoom(roomID)

	if empty {
		h.mu.Lock()
		if rm2 := h.rooms[roomID]; rm2 == rm {
			rm.mu.Lock()
			if len(rm.clients) == 0 {
				rm.dead = true
				delete(h.rooms, roomID)
			}
			rm.mu.Unlock()
		}
		h.mu.Unlock()
	}

	log.Info().Str("roomID", roomID).Str("clientID", client.ID).Str("userID", client.UserID).Msg("ws: client unsubscribed from room")
}

// Publish delivers an event to every client currently subscribed to the
// room. The enqueue happens under the room lock: no late joiner receives
// it, no client that already unsubscribed does, and two publishes on one
// room never interleave per client.
func (h *Hub) Publish(roomID string, event OutgoingEvent) {
	event.Room = roomID

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("roomID", roomID).Msg("ws: failed to marshal event")
		return
	}

	h.mu.RLock()
	rm := h.rooms[roomID]
	h.mu.RUnlock()
	if rm == nil {
		return
	}

	delivered := 0
	var slow []*Client

	rm.mu.Lock()
	for client := range rm.clients {
		if !client.IsActive() {
			continue
		}
		select {
		case client.Send <- data:
			delivered++
		case <-client.ctx.Done():
			// client is closing
		default:
			// slow consumer, drop the connection rather than block the room
			log.Warn().Str("roomID", roomID).Str("clientID", client.ID).Msg("ws: slow consumer, dropping connection")
			slow = append(slow, client)
		}
	}
	rm.mu.Unlock()

	for _, client := range slow {
		go client.Close()
	}

	h.updateStats(func(stats *HubStats) {
		stats.EventsSent += int64(delivered)
	})

	log.Debug().Str("roomID", roomID).Int("targets", delivered).Str("eventType", event.Type).Msg("ws: publish completed")
}

// BroadcastToUser sends an event to every connection of one user,
// regardless of room subscriptions. Used for invitation notifications.
func (h *Hub) BroadcastToUser(userID string, event OutgoingEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("ws: failed to marshal user event")
		return
	}

	h.userMu.RLock()
	clients := make([]*Client, len(h.userClients[userID]))
	copy(clients, h.userClients[userID])
	h.userMu.RUnlock()

	for _, client := range clients {
		if !client.IsActive() {
			continue
		}
		select {
		case client.Send <- data:
		case <-client.ctx.Done():
		default:
			log.Warn().Str("userID", userID).Str("clientID", client.ID).Msg("ws: user client buffer full")
		}
	}
}

// DropClient removes a connection from every room it was in and from
// user tracking. Invoked on disconnect; persisted state is untouched.
func (h *Hub) DropClient(client *Client) {
	for _, roomID := range client.joinedRooms() {
		h.Unsubscribe(roomID, client)
	}

	h.userMu.Lock()
	userClients := h.userClients[client.UserID]
	for i, c := range userClients {
		if c == client {
			h.userClients[client.UserID] = append(userClients[:i], userClients[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
	}
	h.userMu.Unlock()

	log.Info().Str("clientID", client.ID).Str("userID", client.UserID).Msg("ws: client dropped")
}

// RoomSize returns the number of active clients in a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	rm := h.rooms[roomID]
	h.mu.RUnlock()
	if rm == nil {
		return 0
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	n := 0
	for client := range rm.clients {
		if client.IsActive() {
			n++
		}
	}
	return n
}

// IsUserOnline reports whether a user has any active connection.
func (h *Hub) IsUserOnline(userID string) bool {
	h.userMu.RLock()
	defer h.userMu.RUnlock()

	for _, client := range h.userClients[userID] {
		if client.IsActive() {
			return true
		}
	}
	return false
}

// GetHubStats returns overall hub statistics.
func (h *Hub) GetHubStats() HubStats {
	h.statsMu.RLock()
	stats := h.stats
	h.statsMu.RUnlock()

	h.mu.RLock()
	stats.TotalRooms = len(h.rooms)
	totalClients := 0
	for _, rm := range h.rooms {
		rm.mu.Lock()
		for client := range rm.clients {
			if client.IsActive() {
				totalClients++
			}
		}
		rm.mu.Unlock()
	}
	h.mu.RUnlock()

	stats.TotalClients = totalClients
	return stats
}

func (h *Hub) updateStats(fn func(*HubStats)) {
	h.statsMu.Lock()
	fn(&h.stats)
	h.statsMu.Unlock()
}

// Close gracefully shuts down the hub.
func (h *Hub) Close() {
	log.Info().Msg("ws: shutting down hub")

	h.cancel()

	h.userMu.RLock()
	var allClients []*Client
	for _, clients := range h.userClients {
		allClients = append(allClients, clients...)
	}
	h.userMu.RUnlock()

	for _, client := range allClients {
		client.Close()
	}

	log.Info().Int("clients", len(allClients)).Msg("ws: hub shutdown completed")
}
