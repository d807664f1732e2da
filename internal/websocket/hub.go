package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"planning-poker-be/internal/pkg/logger"
	"planning-poker-be/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub tracks websocket clients per session and pushes every row-change
// notification for a session to all of its clients. A Redis channel carries
// changes between instances so a participant connected elsewhere still sees
// them.
type Hub struct {
	// SessionID -> connected clients (one per browser tab)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	// Instance identity; the Redis subscriber drops frames this instance
	// published itself, they were already delivered locally.
	id string

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		id:         uuid.New().String(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Session has no clients left", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastChange delivers a row-change to every client of the session, then
// publishes it on the Redis channel for other instances.
func (h *Hub) BroadcastChange(sessionID uuid.UUID, change events.RowChange) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "change",
		"data": change,
	})

	h.sendToSession(sessionID, data)

	if h.rdb != nil {
		payload, err := h.envelope(sessionID, data)
		if err != nil {
			h.logger.Error("Hub", "Failed to build fan-out envelope", map[string]interface{}{"error": err.Error()})
			return
		}
		h.rdb.Publish(context.Background(), "feed_events", payload)
	}
}

// fanoutEnvelope carries a pre-encoded websocket frame between instances.
// Message must stay json.RawMessage: a plain []byte would be base64-encoded
// by json.Marshal and arrive unparseable on the other side.
type fanoutEnvelope struct {
	Origin    string          `json:"origin"`
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

func (h *Hub) envelope(sessionID uuid.UUID, frame []byte) ([]byte, error) {
	return json.Marshal(fanoutEnvelope{
		Origin:    h.id,
		SessionID: sessionID.String(),
		Message:   frame,
	})
}

// handleFanout forwards a frame published by another instance to this
// instance's clients. Frames this instance published itself were already
// delivered locally in BroadcastChange and are skipped.
func (h *Hub) handleFanout(payload []byte) {
	var env fanoutEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		log.Printf("Redis msg parse error: %v", err)
		return
	}
	if env.Origin == h.id {
		return
	}

	sid, err := uuid.Parse(env.SessionID)
	if err != nil {
		return
	}

	h.sendToSession(sid, env.Message)
}

func (h *Hub) sendToSession(sessionID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := h.clients[sessionID]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			// Unregister closes Send; closing here as well would double close.
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"session_id": sessionID})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the single feed channel and filters by
	// session locally; only sessions with local clients cost anything.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "feed_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		h.handleFanout([]byte(msg.Payload))
	}
}
