package ws

import (
	"log/slog"
	"sync"

	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/session"
)

// Hub tracks live socket clients and their room membership, and fans
// session events out to them. Emissions for a room are serialized by the
// caller; the hub only guarantees that each client receives frames in
// the order they were emitted.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[model.ConnectionID]*Client
	rooms   map[model.RoomCode]map[model.ConnectionID]*Client
	closed  bool
}

// Ensure Hub implements the coordinator's gateway
var _ session.Gateway = (*Hub)(nil)

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With(slog.String("component", "ws")),
		clients: make(map[model.ConnectionID]*Client),
		rooms:   make(map[model.RoomCode]map[model.ConnectionID]*Client),
	}
}

// Register adds a connected client to the hub
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		c.close()
		return
	}
	h.clients[c.id] = c
}

// Unregister removes a client and drops it from any room it was in
func (h *Hub) Unregister(id model.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	for code, members := range h.rooms {
		if _, in := members[id]; in {
			delete(members, id)
			if len(members) == 0 {
				delete(h.rooms, code)
			}
		}
	}
	c.close()
}

// JoinRoom subscribes a connection to a room's broadcasts
func (h *Hub) JoinRoom(id model.ConnectionID, code model.RoomCode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return
	}
	members, ok := h.rooms[code]
	if !ok {
		members = make(map[model.ConnectionID]*Client)
		h.rooms[code] = members
	}
	members[id] = c
}

// LeaveRoom unsubscribes a connection from a room's broadcasts
func (h *Hub) LeaveRoom(id model.ConnectionID, code model.RoomCode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[code]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(h.rooms, code)
	}
}

// EmitToRoom sends one event to every member of a room
func (h *Hub) EmitToRoom(code model.RoomCode, event model.EventName, payload any) {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		h.logger.Error("failed to encode frame",
			slog.String("event", string(event)),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[code]))
	for _, c := range h.rooms[code] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		h.deliver(c, frame, event)
	}
}

// EmitToConnection sends one event to a single client
func (h *Hub) EmitToConnection(id model.ConnectionID, event model.EventName, payload any) {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		h.logger.Error("failed to encode frame",
			slog.String("event", string(event)),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	c, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.deliver(c, frame, event)
}

// deliver queues a frame on the client's send buffer. A client that
// can't keep up gets dropped rather than blocking the room.
func (h *Hub) deliver(c *Client, frame []byte, event model.EventName) {
	if !c.trySend(frame) {
		h.logger.Warn("dropping slow client",
			slog.String("connection", string(c.id)),
			slog.String("event", string(event)),
		)
		h.Unregister(c.id)
	}
}

// Members reports the connections currently subscribed to a room
func (h *Hub) Members(code model.RoomCode) []model.ConnectionID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]model.ConnectionID, 0, len(h.rooms[code]))
	for id := range h.rooms[code] {
		out = append(out, id)
	}
	return out
}

// Close drops every client. Used on shutdown, after which Register
// refuses new clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
	h.rooms = make(map[model.RoomCode]map[model.ConnectionID]*Client)
}
