package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// sendBuffer bounds the per-connection event queue. A consumer that
	// falls further behind than this loses events rather than stalling
	// the publishers.
	sendBuffer = 16

	writeTimeout = 5 * time.Second
)

// Manager keeps track of active feed connections per owner. An owner may
// hold several connections at once (dashboard tabs, mobile client).
//
// Each connection gets a single writer goroutine fed by a bounded channel,
// so Broadcast is safe to call from any number of request goroutines and
// never writes to the socket itself.
type Manager struct {
	mu          sync.RWMutex
	connections map[string]map[*websocket.Conn]chan []byte // ownerID -> conn -> send queue
}

func NewManager() *Manager {
	return &Manager{connections: make(map[string]map[*websocket.Conn]chan []byte)}
}

// Register adds a connection to the owner's set and starts its writer.
func (m *Manager) Register(ownerID string, conn *websocket.Conn) {
	send := make(chan []byte, sendBuffer)

	m.mu.Lock()
	if m.connections[ownerID] == nil {
		m.connections[ownerID] = make(map[*websocket.Conn]chan []byte)
	}
	m.connections[ownerID][conn] = send
	m.mu.Unlock()

	go m.writeLoop(ownerID, conn, send)
}

// Unregister removes a connection, closes it, and stops its writer. Safe to
// call more than once for the same connection.
func (m *Manager) Unregister(ownerID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conns, ok := m.connections[ownerID]; ok {
		if send, ok := conns[conn]; ok {
			close(send)
			_ = conn.Close()
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(m.connections, ownerID)
		}
	}
}

// Broadcast queues a text message for every connection the owner holds.
// Queues of consumers that have stopped draining are full; those events are
// dropped so the caller never blocks.
func (m *Manager) Broadcast(ownerID string, payload []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, send := range m.connections[ownerID] {
		select {
		case send <- payload:
		default:
		}
	}
}

// Count returns the number of connections the owner currently holds.
func (m *Manager) Count(ownerID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections[ownerID])
}

// writeLoop is the sole writer for one connection. It exits when the queue
// is closed by Unregister or when a write fails, taking the connection out
// of the pool either way.
func (m *Manager) writeLoop(ownerID string, conn *websocket.Conn, send <-chan []byte) {
	for payload := range send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			m.Unregister(ownerID, conn)
			return
		}
	}
}
