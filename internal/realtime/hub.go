package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// room holds the live connections subscribed to one team. Each room has
// its own mutex so traffic on one team never blocks another.
type room struct {
	mu    sync.Mutex
	conns map[*connection]struct{}
}

// Hub is the registry of team rooms. The outer lock only guards the
// room map itself; membership and fanout synchronize per room.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]*room
	logger *zap.SugaredLogger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		rooms:  make(map[string]*room),
		logger: logger,
	}
}

func (h *Hub) getRoom(teamID string, create bool) *room {
	h.mu.RLock()
	r, ok := h.rooms[teamID]
	h.mu.RUnlock()
	if ok || !create {
		return r
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok = h.rooms[teamID]; ok {
		return r
	}
	r = &room{conns: make(map[*connection]struct{})}
	h.rooms[teamID] = r
	return r
}

// Join attaches a connection to a team room.
func (h *Hub) Join(teamID string, c *connection) {
	r := h.getRoom(teamID, true)
	r.mu.Lock()
	r.conns[c] = struct{}{}
	r.mu.Unlock()
}

// Leave detaches a connection from a team room. Empty rooms are kept;
// they are a map entry holding an empty set and repopulate on the next
// join.
func (h *Hub) Leave(teamID string, c *connection) {
	r := h.getRoom(teamID, false)
	if r == nil {
		return
	}
	r.mu.Lock()
	delete(r.conns, c)
	r.mu.Unlock()
}

// Broadcast delivers payload to every connection in a team room except
// origin. Delivery order within the room follows call order; a peer
// whose buffer is full misses the message rather than stalling the room.
func (h *Hub) Broadcast(teamID string, payload []byte, origin *connection) {
	r := h.getRoom(teamID, false)
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.conns {
		if c == origin {
			continue
		}
		select {
		case c.send <- payload:
		default:
			h.logger.Warnw("dropping event for slow connection",
				"team_id", teamID, "connection_id", c.id, "user_id", c.userID)
		}
	}
}

// RoomSize reports how many connections a team room currently holds.
func (h *Hub) RoomSize(teamID string) int {
	r := h.getRoom(teamID, false)
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}
