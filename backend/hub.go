package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Hub fans messages out to every connected websocket client. Slow clients
// drop messages rather than stall the broadcaster.
type Hub struct {
	name      string
	mu        sync.Mutex
	clients   map[*Client]struct{}
	broadcast chan wsMessage
}

type Client struct {
	hub  *Hub
	send chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var wsUpgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func NewHub(name string, buffer int) *Hub {
	return &Hub{
		name:      name,
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan wsMessage, buffer),
	}
}

// Run delivers queued messages until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(msg)
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues payload under kind without blocking.
func (h *Hub) Publish(kind string, payload any) {
	select {
	case h.broadcast <- wsMessage{Type: kind, Payload: mustMarshal(payload)}:
	default:
		log.Warn().Str("hub", h.name).Str("type", kind).Msg("ws: broadcast queue full, dropping message")
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// serveHub upgrades the request, registers the client and reads until the
// peer goes away. onConnect runs before any broadcast reaches the client;
// onMessage may be nil.
func serveHub(hub *Hub, w http.ResponseWriter, r *http.Request, onConnect func(*Client), onMessage func(*Client, wsMessage)) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Str("hub", hub.name).Msg("ws: upgrade failed")
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	if onConnect != nil {
		onConnect(client)
	}
	hub.Register(client)

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			log.Debug().Err(err).Str("hub", hub.name).Msg("ws: writer stopped")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		if onMessage == nil {
			continue
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		onMessage(client, msg)
	}
}
