package realtime

import (
	"strings"
	"sync"
)

// Router coordinates websocket sessions and pulse rooms.
//
// A session subscribes to at most one pulse at a time: joining a room tears
// down the previous subscription first, so a visited pulse can never leak a
// live listener behind the active one. Detach releases the room on every
// exit path.
type Router struct {
	mu               sync.RWMutex
	sessions         map[string]*Connection            // sessionID -> connection
	operatorSessions map[string]string                 // lower(operatorID) -> sessionID
	rooms            map[string]map[string]*Connection // pulseCode -> sessionID -> connection
	sessionRoom      map[string]string                 // sessionID -> pulseCode ("" when unsubscribed)
}

// NewRouter constructs an initialized Router.
func NewRouter() *Router {
	return &Router{
		sessions:         make(map[string]*Connection),
		operatorSessions: make(map[string]string),
		rooms:            make(map[string]map[string]*Connection),
		sessionRoom:      make(map[string]string),
	}
}

// Attach registers a connection for the operator. A previous session for the
// same operator is swapped out and closed, enforcing one active socket per
// operator.
func (r *Router) Attach(conn *Connection) {
	opKey := strings.ToLower(conn.OperatorID)

	var previous *Connection

	r.mu.Lock()
	if existingID, ok := r.operatorSessions[opKey]; ok {
		if existing := r.sessions[existingID]; existing != nil {
			previous = existing
			r.detachLocked(existingID)
		}
	}

	r.sessions[conn.ID] = conn
	r.operatorSessions[opKey] = conn.ID
	r.sessionRoom[conn.ID] = ""
	r.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection if it is still tracked. Idempotent.
func (r *Router) Detach(conn *Connection) {
	r.mu.Lock()
	r.detachLocked(conn.ID)
	r.mu.Unlock()
}

// Join subscribes the connection to the pulse room, leaving any previously
// joined room first.
func (r *Router) Join(pulseCode string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[conn.ID]; !ok {
		return
	}

	if current := r.sessionRoom[conn.ID]; current != "" && current != pulseCode {
		r.leaveLocked(current, conn.ID)
	}

	room := r.rooms[pulseCode]
	if room == nil {
		room = make(map[string]*Connection)
		r.rooms[pulseCode] = room
	}
	room[conn.ID] = conn
	r.sessionRoom[conn.ID] = pulseCode
}

// Leave unsubscribes the connection from the pulse room.
func (r *Router) Leave(pulseCode string, conn *Connection) {
	r.mu.Lock()
	r.leaveLocked(pulseCode, conn.ID)
	r.mu.Unlock()
}

// Broadcast writes payload to every member of the pulse room, the sender
// included: a sent message reaches its author through the same push path as
// everyone else.
func (r *Router) Broadcast(pulseCode string, payload []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[pulseCode]
	delivered := 0
	for _, conn := range room {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// NotifyAll writes payload to every attached session regardless of room.
// Used for catalog change-feed pings.
func (r *Router) NotifyAll(payload []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for _, conn := range r.sessions {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// CloseRoom force-detaches every member of the pulse room, closing their
// sockets with the given reason. Invoked when a pulse is wiped.
func (r *Router) CloseRoom(pulseCode string, reason string) {
	r.mu.Lock()
	room := r.rooms[pulseCode]
	members := make([]*Connection, 0, len(room))
	for _, conn := range room {
		members = append(members, conn)
	}
	for _, conn := range members {
		r.leaveLocked(pulseCode, conn.ID)
	}
	r.mu.Unlock()

	for _, conn := range members {
		conn.Close(4002, reason)
	}
}

// Close terminates all tracked connections and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	sessions := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		sessions = append(sessions, conn)
	}
	r.sessions = make(map[string]*Connection)
	r.operatorSessions = make(map[string]string)
	r.rooms = make(map[string]map[string]*Connection)
	r.sessionRoom = make(map[string]string)
	r.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) detachLocked(sessionID string) {
	conn, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)

	opKey := strings.ToLower(conn.OperatorID)
	if current, ok := r.operatorSessions[opKey]; ok && current == sessionID {
		delete(r.operatorSessions, opKey)
	}

	if room := r.sessionRoom[sessionID]; room != "" {
		r.leaveLocked(room, sessionID)
	}
	delete(r.sessionRoom, sessionID)
}

func (r *Router) leaveLocked(pulseCode string, sessionID string) {
	room := r.rooms[pulseCode]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(r.rooms, pulseCode)
	}
	if r.sessionRoom[sessionID] == pulseCode {
		r.sessionRoom[sessionID] = ""
	}
}
