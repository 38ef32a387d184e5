package ws

import (
	"log/slog"
	"sync"

	"github.com/quizbuzz/quizbuzz/internal/model"
)

// Rooms tracks which connections belong to which session room. Membership
// is additive: a connection may sit in several rooms at once, so a GM can
// drive more than one session over a single socket.
type Rooms struct {
	mu      sync.RWMutex
	members map[model.JoinCode]map[*Conn]struct{}
	byConn  map[*Conn]map[model.JoinCode]struct{}
	logger  *slog.Logger
}

// NewRooms creates an empty room registry
func NewRooms(logger *slog.Logger) *Rooms {
	return &Rooms{
		members: make(map[model.JoinCode]map[*Conn]struct{}),
		byConn:  make(map[*Conn]map[model.JoinCode]struct{}),
		logger:  logger.With(slog.String("component", "rooms")),
	}
}

// Join adds conn to the room for code. Existing memberships are kept.
func (r *Rooms) Join(code model.JoinCode, conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.members[code] == nil {
		r.members[code] = make(map[*Conn]struct{})
	}
	r.members[code][conn] = struct{}{}
	if r.byConn[conn] == nil {
		r.byConn[conn] = make(map[model.JoinCode]struct{})
	}
	r.byConn[conn][code] = struct{}{}
}

// Leave removes conn from every room it is in
func (r *Rooms) Leave(conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for code := range r.byConn[conn] {
		if set, ok := r.members[code]; ok {
			delete(set, conn)
			if len(set) == 0 {
				delete(r.members, code)
			}
		}
	}
	delete(r.byConn, conn)
}

// Broadcast sends an event to every connection in the room, optionally
// skipping one (the caller that triggered it). Delivery is best-effort;
// a full client buffer drops the message for that client only.
func (r *Rooms) Broadcast(code model.JoinCode, event string, data any, except *Conn) {
	r.mu.RLock()
	conns := make([]*Conn, 0, len(r.members[code]))
	for conn := range r.members[code] {
		if conn != except {
			conns = append(conns, conn)
		}
	}
	r.mu.RUnlock()

	msg := ServerEvent{Event: event, Data: data}
	for _, conn := range conns {
		if err := conn.Send(msg); err != nil {
			r.logger.Warn("broadcast dropped",
				slog.String("room", string(code)),
				slog.String("event", event),
				slog.String("error", err.Error()))
		}
	}
}

// RoomSize returns the number of connections in the room
func (r *Rooms) RoomSize(code model.JoinCode) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members[code])
}
