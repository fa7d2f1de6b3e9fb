// Package ws provides the per-club WebSocket fan-out registry. The projection
// worker pushes read-model change notifications through it after each commit.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Notification message types pushed to clients.
const (
	TypePlayerListUpdated          = "club_player_list_updated"
	TypeCollectiveListUpdated      = "club_collective_list_updated"
	TypeTrainingSessionListUpdated = "club_training_session_list_updated"
	TypeTrainingSessionUpdated     = "club_training_session_updated"
)

// Notification is a projection-derived message targeted at one club.
type Notification struct {
	ClubID string
	Type   string
}

// Conn is the subset of a WebSocket connection the registry drives. Satisfied
// by *websocket.Conn.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Manager maintains the club -> connections registry and fans messages out.
// Registry mutations are serialized by an internal lock; sends happen outside
// the lock so a slow consumer cannot stall registration.
type Manager struct {
	mu          sync.Mutex
	connections map[string]map[Conn]struct{}
	clubs       map[Conn]string

	logger *slog.Logger
}

// NewManager creates an empty registry.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		connections: make(map[string]map[Conn]struct{}),
		clubs:       make(map[Conn]string),
		logger:      logger,
	}
}

// Register adds a connection to a club's set.
func (m *Manager) Register(conn Conn, clubID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connections[clubID] == nil {
		m.connections[clubID] = make(map[Conn]struct{})
	}
	m.connections[clubID][conn] = struct{}{}
	m.clubs[conn] = clubID

	m.logger.Info("registered websocket connection",
		"club_id", clubID,
		"club_connections", len(m.connections[clubID]))
}

// Unregister removes a connection from the registry. Empty club sets are
// dropped.
func (m *Manager) Unregister(conn Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unregisterLocked(conn)
}

func (m *Manager) unregisterLocked(conn Conn) {
	clubID, ok := m.clubs[conn]
	if !ok {
		return
	}
	delete(m.clubs, conn)
	if set := m.connections[clubID]; set != nil {
		delete(set, conn)
		if len(set) == 0 {
			delete(m.connections, clubID)
		}
	}
	m.logger.Info("unregistered websocket connection", "club_id", clubID)
}

// Send delivers a message to every connection registered for a club. The
// message is serialized once; the connection set is snapshotted under the lock
// and writes happen outside it. Connections whose send fails are unregistered
// after the broadcast.
func (m *Manager) Send(clubID string, message any) {
	data, err := json.Marshal(message)
	if err != nil {
		m.logger.Error("failed to serialize websocket message",
			"club_id", clubID, "error", err)
		return
	}

	m.mu.Lock()
	set := m.connections[clubID]
	conns := make([]Conn, 0, len(set))
	for conn := range set {
		conns = append(conns, conn)
	}
	m.mu.Unlock()

	var failed []Conn
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			m.logger.Warn("websocket send failed, dropping connection",
				"club_id", clubID, "error", err)
			failed = append(failed, conn)
		}
	}

	if len(failed) > 0 {
		m.mu.Lock()
		for _, conn := range failed {
			m.unregisterLocked(conn)
		}
		m.mu.Unlock()
		for _, conn := range failed {
			_ = conn.Close()
		}
	}
}

// Notify pushes a typed notification to its club.
func (m *Manager) Notify(n Notification) {
	m.Send(n.ClubID, map[string]string{"type": n.Type})
}

// Broadcast delivers a message to every club except those in exclude.
func (m *Manager) Broadcast(message any, exclude map[string]bool) {
	m.mu.Lock()
	clubIDs := make([]string, 0, len(m.connections))
	for clubID := range m.connections {
		clubIDs = append(clubIDs, clubID)
	}
	m.mu.Unlock()

	for _, clubID := range clubIDs {
		if exclude[clubID] {
			continue
		}
		m.Send(clubID, message)
	}
}

// ConnectionCount returns the number of connections for one club, or the total
// for an empty club id.
func (m *Manager) ConnectionCount(clubID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if clubID != "" {
		return len(m.connections[clubID])
	}
	total := 0
	for _, set := range m.connections {
		total += len(set)
	}
	return total
}
