package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"quizarena/internal/game"
	"quizarena/internal/model"
	"quizarena/internal/service"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

type envelope struct {
	Type    MessageType     `json:"type" msgpack:"type"`
	Payload json.RawMessage `json:"payload"`
}

type binaryEnvelope struct {
	Type    MessageType   `msgpack:"type"`
	Payload game.Snapshot `msgpack:"payload"`
}

func TestDecodeIntent(t *testing.T) {
	packed, err := msgpack.Marshal(model.IntentMessage{Left: true, Fire: true})
	if err != nil {
		t.Fatalf("msgpack.Marshal: %v", err)
	}

	tests := []struct {
		name    string
		kind    int
		data    []byte
		want    model.IntentMessage
		wantErr bool
	}{
		{"json text", websocket.TextMessage, []byte(`{"right":true,"shield":true}`), model.IntentMessage{Right: true, Shield: true}, false},
		{"msgpack binary", websocket.BinaryMessage, packed, model.IntentMessage{Left: true, Fire: true}, false},
		{"empty object", websocket.TextMessage, []byte(`{}`), model.IntentMessage{}, false},
		{"garbage text", websocket.TextMessage, []byte(`fire!`), model.IntentMessage{}, true},
		{"json sent as binary", websocket.BinaryMessage, []byte(`{"fire":true}`), model.IntentMessage{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeIntent(tt.kind, tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHubFansOutPerFormat(t *testing.T) {
	hub := NewHub()
	text := &Connection{SessionID: "s1", Send: make(chan []byte, 4)}
	bin := &Connection{SessionID: "s1", Binary: true, Send: make(chan []byte, 4)}
	other := &Connection{SessionID: "s2", Send: make(chan []byte, 4)}
	hub.Register(text)
	hub.Register(bin)
	hub.Register(other)

	hub.BroadcastSnapshot("s1", game.Snapshot{Tick: 7, State: "PLAYING", Score: 250})

	var env envelope
	if err := json.Unmarshal(recv(t, text.Send), &env); err != nil || env.Type != MsgSnapshot {
		t.Fatalf("text frame = %+v, err = %v", env, err)
	}
	var snap game.Snapshot
	json.Unmarshal(env.Payload, &snap)
	if snap.Tick != 7 || snap.Score != 250 {
		t.Fatalf("snapshot = %+v", snap)
	}

	var benv binaryEnvelope
	if err := msgpack.Unmarshal(recv(t, bin.Send), &benv); err != nil {
		t.Fatalf("msgpack frame: %v", err)
	}
	if benv.Type != MsgSnapshot || benv.Payload.State != "PLAYING" || benv.Payload.Score != 250 {
		t.Fatalf("binary frame = %+v", benv)
	}

	select {
	case <-other.Send:
		t.Fatal("snapshot leaked to another session")
	case <-time.After(20 * time.Millisecond):
	}
	if n := hub.Watchers("s1"); n != 2 {
		t.Fatalf("Watchers = %d, want 2", n)
	}

	hub.DisconnectSession("s1")
	if err := json.Unmarshal(recv(t, text.Send), &env); err != nil || env.Type != MsgSessionEnded {
		t.Fatalf("ended frame = %+v, err = %v", env, err)
	}
	if _, ok := <-text.Send; ok {
		t.Fatal("send channel still open after disconnect")
	}
	hub.Unregister(text) // late unregister after disconnect must not double-close
	if n := hub.Watchers("s1"); n != 0 {
		t.Fatalf("Watchers = %d after disconnect", n)
	}
}

func recv(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return nil
	}
}

func newWSServer(t *testing.T) (*httptest.Server, *service.ArenaService, *service.TokenService) {
	t.Helper()
	tokens := service.NewTokenService("ws-secret")
	arena := service.NewArenaService(service.ArenaConfig{TickHz: 1000, BroadcastEvery: 20}, nil, nil, nil, tokens)
	hub := NewHub()
	arena.SetBroadcaster(hub)

	r := mux.NewRouter()
	r.HandleFunc("/v1/ws/sessions/{id}", NewHandler(hub, arena, tokens).SessionWS)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		arena.Shutdown()
	})
	return srv, arena, tokens
}

func wsURL(srv *httptest.Server, id, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/sessions/" + id + "?" + query
}

func TestSessionSocketRejectsBadTokens(t *testing.T) {
	srv, arena, tokens := newWSServer(t)
	a, err := arena.Create(testContext(t), model.StartSessionRequest{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	strangerToken, _ := tokens.GenerateSessionToken("someone-else", "x")
	ghostToken, _ := tokens.GenerateSessionToken("ghost", "x")

	tests := []struct {
		name string
		id   string
		q    string
		want int
	}{
		{"missing token", a.SessionID, "", http.StatusUnauthorized},
		{"invalid token", a.SessionID, "token=abc", http.StatusUnauthorized},
		{"token for another session", a.SessionID, "token=" + strangerToken, http.StatusForbidden},
		{"unknown session", "ghost", "token=" + ghostToken, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, tt.id, tt.q), nil)
			if err == nil {
				t.Fatal("dial succeeded")
			}
			if resp == nil || resp.StatusCode != tt.want {
				t.Fatalf("resp = %v, want status %d", resp, tt.want)
			}
		})
	}
}

func TestSessionSocketStreamsAndAcceptsIntents(t *testing.T) {
	srv, arena, _ := newWSServer(t)
	s, err := arena.Create(testContext(t), model.StartSessionRequest{Tier: model.TierHard})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, s.SessionID, "token="+s.Token), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	kind, data, err := conn.ReadMessage()
	if err != nil || kind != websocket.TextMessage {
		t.Fatalf("first frame kind=%d err=%v", kind, err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type != MsgSnapshot {
		t.Fatalf("first frame = %s", data)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"exit":true}`)); err != nil {
		t.Fatalf("write intent: %v", err)
	}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("never saw MENU: %v", err)
		}
		var snap struct {
			Type    MessageType   `json:"type"`
			Payload game.Snapshot `json:"payload"`
		}
		json.Unmarshal(data, &snap)
		if snap.Payload.State == "MENU" {
			break
		}
	}

	if err := arena.Stop(s.SessionID); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break // closed by the server after session_ended
		}
		json.Unmarshal(data, &env)
	}
	if env.Type != MsgSessionEnded {
		t.Fatalf("last frame type = %q, want %q", env.Type, MsgSessionEnded)
	}
}

func TestSessionSocketMsgpackFormat(t *testing.T) {
	srv, arena, _ := newWSServer(t)
	s, err := arena.Create(testContext(t), model.StartSessionRequest{Tier: model.TierEasy})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, s.SessionID, "format=msgpack&token="+s.Token), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	kind, data, err := conn.ReadMessage()
	if err != nil || kind != websocket.BinaryMessage {
		t.Fatalf("first frame kind=%d err=%v", kind, err)
	}
	var env binaryEnvelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		t.Fatalf("msgpack.Unmarshal: %v", err)
	}
	if env.Type != MsgSnapshot || env.Payload.Tier != "EASY" {
		t.Fatalf("frame = %+v", env)
	}

	intent, _ := msgpack.Marshal(model.IntentMessage{Right: true})
	if err := conn.WriteMessage(websocket.BinaryMessage, intent); err != nil {
		t.Fatalf("write intent: %v", err)
	}
}

// testContext mirrors testing.T.Context (Go 1.24+) for older toolchains:
// the context is canceled when the test's cleanup runs.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
