package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // 1 MB
)

// Client is one websocket connection. ID identifies the connection,
// UserID the actor it was opened by. The joined set exists only so
// DropClient can clean up without scanning every room.
type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	hub     *Hub
	onFrame func(*Client, []byte)

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	joined    map[string]struct{}
	closed    bool
	closeOnce sync.Once
}

func newClient(id, userID string, conn *websocket.Conn, hub *Hub, onFrame func(*Client, []byte)) *Client {
	ctx, cancel := context.WithCancel(hub.ctx)
	return &Client{
		ID:      id,
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		hub:     hub,
		onFrame: onFrame,
		ctx:     ctx,
		cancel:  cancel,
		joined:  make(map[string]struct{}),
	}
}

// Start launches the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// SendEvent delivers an event to this connection only. Used for acks and
// error events, which never broadcast.
func (c *Client) SendEvent(event OutgoingEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("clientID", c.ID).Msg("ws: failed to marshal event")
		return
	}

	select {
	case c.Send <- data:
	case <-c.ctx.Done():
	default:
		log.Warn().Str("clientID", c.ID).Msg("ws: send buffer full, dropping event")
	}
}

// Close tears the connection down. Room cleanup happens in the readPump
// defer so it runs exactly once per connection.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		c.cancel()
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
	})
}

func (c *Client) addRoom(roomID string) {
	c.mu.Lock()
	c.joined[roomID] = struct{}{}
	c.mu.Unlock()
}

func (c *Client) removeRoom(roomID string) {
	c.mu.Lock()
	delete(c.joined, roomID)
	c.mu.Unlock()
}

func (c *Client) joinedRooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	rooms := make([]string, 0, len(c.joined))
	for roomID := range c.joined {
		rooms = append(rooms, roomID)
	}
	return rooms
}

// writePump: take data from c.Send and send to socket + ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			if _, err := w.Write(msg); err != nil {
				_ = w.Close()
				return
			}

			_ = w.Close()

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// readPump: parse inbound frames and hand them to the gateway; handle
// pong for keep-alive. The defer is the single disconnect path: drop
// from every room and close the socket. The Send channel is never
// closed; the hub and workers may still hold a reference to the client
// after disconnect, and their sends bail out on ctx.Done instead.
// Nothing persisted is rolled back here.
func (c *Client) readPump() {
	defer func() {
		c.Close()
		c.hub.DropClient(c)
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		if c.onFrame != nil {
			c.onFrame(c, data)
		}
	}
}
