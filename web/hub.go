package web

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
)

// clientBuffer is the number of messages queued per client before it is dropped.
const clientBuffer = 256

// Client is one connected dashboard.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans record updates out to all connected dashboards. Broadcasts and
// per-client messages and registrations share one queue, so a client sees
// exactly the broadcasts queued after it joined, in order.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	outbound   chan envelope
	unregister chan *Client
}

// envelope is a queued hub operation: a registration when join is set,
// otherwise a message for client, or for every client when client is nil.
type envelope struct {
	client  *Client
	message []byte
	join    bool
}

// NewHub creates an idle hub; call Run to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		outbound:   make(chan envelope, clientBuffer),
		unregister: make(chan *Client),
	}
}

// Run serves registrations and broadcasts until ctx is done, then closes
// every client queue.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.unregister:
			h.remove(client)

		case env := <-h.outbound:
			switch {
			case env.join:
				h.mu.Lock()
				h.clients[env.client] = true
				h.mu.Unlock()
				continue
			case env.client != nil:
				h.unicast(env)
				continue
			}

			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.send <- env.message:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()

			for _, c := range slow {
				h.remove(c)
			}
		}
	}
}

func (h *Hub) unicast(env envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[env.client]; !ok {
		return
	}

	select {
	case env.client.send <- env.message:
	default:
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// Broadcast queues message for every client. It never blocks; when the
// queue is full the message is dropped.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.outbound <- envelope{message: message}:
	default:
	}
}

// Send queues message for a single client.
func (h *Hub) Send(c *Client, message []byte) {
	select {
	case h.outbound <- envelope{client: c, message: message}:
	default:
	}
}

// join queues the registration of c. It blocks while the queue is full and
// fails once ctx is done.
func (h *Hub) join(ctx context.Context, c *Client) bool {
	if ctx.Err() != nil {
		return false
	}

	select {
	case h.outbound <- envelope{client: c, join: true}:
		return true
	case <-ctx.Done():
		return false
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// writePump copies queued messages to the connection until the queue closes.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readPump reads client requests until the connection fails.
func (c *Client) readPump(ctx context.Context, onMessage func(*Client, []byte)) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-ctx.Done():
		}
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if onMessage != nil {
			onMessage(c, message)
		}
	}
}
