package notification

import (
	"sync"

	"github.com/gorilla/websocket"
)

// session wraps one admin connection. gorilla/websocket allows a single
// concurrent writer, so every outgoing frame goes through writeMu: the
// broadcast fan-out and the keepalive pings share the same connection.
type session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *session) writeJSON(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *session) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

// Hub tracks the websocket connections of logged-in admins and fans
// booking events out to all of them.
type Hub struct {
	sessions map[int64]*session
	mutex    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[int64]*session),
	}
}

// Register adopts the connection and returns the session all writes for
// it must go through. An older connection for the same user is closed.
func (h *Hub) Register(userID int64, conn *websocket.Conn) *session {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.sessions[userID]; exists && old != nil {
		_ = old.conn.Close()
	}

	s := &session{conn: conn}
	h.sessions[userID] = s
	return s
}

func (h *Hub) Unregister(userID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if s, exists := h.sessions[userID]; exists && s != nil {
		_ = s.conn.Close()
		delete(h.sessions, userID)
	}
}

// Broadcast writes the message to every session. Sessions that fail the
// write are dropped.
func (h *Hub) Broadcast(message interface{}) {
	h.mutex.RLock()
	sessions := make(map[int64]*session, len(h.sessions))
	for id, s := range h.sessions {
		sessions[id] = s
	}
	h.mutex.RUnlock()

	for id, s := range sessions {
		if s == nil {
			continue
		}
		if err := s.writeJSON(message); err != nil {
			h.Unregister(id)
		}
	}
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.sessions)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, s := range h.sessions {
		if s != nil {
			_ = s.conn.Close()
		}
		delete(h.sessions, userID)
	}
}
