package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"quizarena/internal/game"
	"quizarena/internal/model"
	"quizarena/internal/service"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles WebSocket connections
type Handler struct {
	hub    *Hub
	arena  *service.ArenaService
	tokens *service.TokenService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, arena *service.ArenaService, tokens *service.TokenService) *Handler {
	return &Handler{
		hub:    hub,
		arena:  arena,
		tokens: tokens,
	}
}

// SessionWS handles GET /v1/ws/sessions/{id}
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.ValidateSessionToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if claims.SessionID != id {
		http.Error(w, "token not valid for this session", http.StatusForbidden)
		return
	}

	snap, err := h.arena.Snapshot(id)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	conn := &Connection{
		SessionID: id,
		Binary:    r.URL.Query().Get("format") == "msgpack",
		Send:      make(chan []byte, 64),
	}
	// The first frame is the current state so clients need not wait for a broadcast
	if data, err := EncodeMessage(&Message{Type: MsgSnapshot, Payload: snap}, conn.Binary); err == nil {
		conn.Send <- data
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Read error: %v", err)
			}
			break
		}

		msg, err := DecodeIntent(msgType, data)
		if err != nil {
			log.Printf("[WS] Bad intent on session %s: %v", conn.SessionID, err)
			continue
		}
		if err := h.arena.SendIntent(conn.SessionID, game.IntentFromMessage(msg)); errors.Is(err, service.ErrSessionNotFound) {
			break
		}
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	frame := websocket.TextMessage
	if conn.Binary {
		frame = websocket.BinaryMessage
	}

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wsConn.WriteMessage(frame, message); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// DecodeIntent reads an intent frame: binary frames are msgpack, text frames JSON
func DecodeIntent(messageType int, data []byte) (model.IntentMessage, error) {
	var msg model.IntentMessage
	var err error
	if messageType == websocket.BinaryMessage {
		err = msgpack.Unmarshal(data, &msg)
	} else {
		err = json.Unmarshal(data, &msg)
	}
	return msg, err
}
