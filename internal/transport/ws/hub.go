package ws

import (
	"encoding/json"
	"log"
	"quizarena/internal/game"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgSnapshot     MessageType = "snapshot"
	MsgSessionEnded MessageType = "session_ended"
	MsgError        MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType `json:"type" msgpack:"type"`
	Payload interface{} `json:"payload,omitempty" msgpack:"payload,omitempty"`
}

// Hub fans session snapshots out to the sockets watching each session
type Hub struct {
	// session ID -> connections
	conns map[string]map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	disconnect chan string
}

// Connection represents a WebSocket connection to one session
type Connection struct {
	SessionID string
	Binary    bool // msgpack frames instead of JSON text
	Send      chan []byte
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SessionID string
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		disconnect: make(chan string, 16),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[*Connection]struct{})
			}
			h.conns[conn.SessionID][conn] = struct{}{}
			h.mu.Unlock()
			log.Printf("[WS] Client connected to session %s", conn.SessionID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.conns[conn.SessionID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.conns, conn.SessionID)
					}
					log.Printf("[WS] Client disconnected from session %s", conn.SessionID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			h.deliver(msg)
			h.mu.RUnlock()

		case id := <-h.disconnect:
			h.mu.Lock()
			h.deliver(&BroadcastMessage{SessionID: id, Message: &Message{Type: MsgSessionEnded}})
			for conn := range h.conns[id] {
				close(conn.Send)
			}
			delete(h.conns, id)
			h.mu.Unlock()
		}
	}
}

// deliver encodes msg at most once per format; callers hold mu
func (h *Hub) deliver(msg *BroadcastMessage) {
	var text, binary []byte
	for conn := range h.conns[msg.SessionID] {
		var data []byte
		if conn.Binary {
			if binary == nil {
				binary = mustEncode(msg.Message, true)
			}
			data = binary
		} else {
			if text == nil {
				text = mustEncode(msg.Message, false)
			}
			data = text
		}
		select {
		case conn.Send <- data:
		default:
			// Drop frame if buffer full; the next snapshot supersedes it
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Watchers returns how many sockets follow a session
func (h *Hub) Watchers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[sessionID])
}

// BroadcastSnapshot queues a snapshot for a session's sockets (implements service.Broadcaster).
// It never blocks the session's tick loop.
func (h *Hub) BroadcastSnapshot(sessionID string, snap game.Snapshot) {
	select {
	case h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message:   &Message{Type: MsgSnapshot, Payload: snap},
	}:
	default:
	}
}

// DisconnectSession tells a session's sockets it ended and closes them (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.disconnect <- sessionID
}

// EncodeMessage renders an envelope as msgpack or JSON
func EncodeMessage(msg *Message, binary bool) ([]byte, error) {
	if binary {
		return msgpack.Marshal(msg)
	}
	return json.Marshal(msg)
}

func mustEncode(msg *Message, binary bool) []byte {
	data, err := EncodeMessage(msg, binary)
	if err != nil {
		log.Printf("[WS] Encode %s failed: %v", msg.Type, err)
	}
	return data
}
