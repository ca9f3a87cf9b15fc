package fanout

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T, h *Hub) (*httptest.Server, string) {
	t.Helper()
	e := echo.New()
	e.GET("/ws", h.Handler)
	srv := httptest.NewServer(e)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return srv, wsURL
}

func dialAndRegister(t *testing.T, url string, role Role) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	msg, _ := json.Marshal(registerClientMsg{Kind: "register-client", Type: role})
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		t.Fatalf("WriteMessage(register-client) error = %v", err)
	}
	return conn
}

func TestHubBroadcastsToRegisteredRole(t *testing.T) {
	payload := func(role Role, seq uint64) (string, any, uint64) {
		return "race-table-update", map[string]any{"seq": seq}, 0xF1F1
	}
	h := NewHub(zerolog.Nop(), 20*time.Millisecond, 5, payload, nil)
	srv, wsURL := newTestServer(t, h)
	defer srv.Close()
	defer h.Stop()

	conn := dialAndRegister(t, wsURL, RoleRaceTable)
	defer conn.Close()

	// allow the handler goroutine to register the client before ticking
	time.Sleep(30 * time.Millisecond)
	h.StartBroadcasters(RoleRaceTable)

	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var env Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if env.Kind != "race-table-update" {
		t.Errorf("Kind = %q, want race-table-update", env.Kind)
	}
	if env.SequenceNum != 1 {
		t.Errorf("SequenceNum = %d, want 1 (first broadcast)", env.SequenceNum)
	}
	if env.SessionUID != 0xF1F1 {
		t.Errorf("SessionUID = %x, want f1f1", env.SessionUID)
	}
}

func TestHubRequestRespondsWithCorrelatedPayload(t *testing.T) {
	handler := func(kind string, payload json.RawMessage) (any, error) {
		if kind != "race-info" {
			return nil, errors.New("unknown kind")
		}
		return map[string]string{"status": "ok"}, nil
	}
	h := NewHub(zerolog.Nop(), time.Hour, 5, nil, handler)
	srv, wsURL := newTestServer(t, h)
	defer srv.Close()
	defer h.Stop()

	conn := dialAndRegister(t, wsURL, RoleEngView)
	defer conn.Close()

	req, _ := json.Marshal(Envelope{Kind: "race-info"})
	if err := conn.WriteMessage(websocket.TextMessage, req); err != nil {
		t.Fatalf("WriteMessage(race-info) error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var env Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if env.Kind != "race-info-response" {
		t.Errorf("Kind = %q, want race-info-response", env.Kind)
	}
	if env.Error != "" {
		t.Errorf("Error = %q, want empty", env.Error)
	}
}

func TestClientEnqueueDropsOldestWhenFull(t *testing.T) {
	c := &Client{outbound: make(chan Envelope, 2)}
	c.enqueue(Envelope{Kind: "a"})
	c.enqueue(Envelope{Kind: "b"})
	c.enqueue(Envelope{Kind: "c"})

	first := <-c.outbound
	second := <-c.outbound
	if first.Kind != "b" || second.Kind != "c" {
		t.Errorf("got %q, %q, want b, c (oldest dropped)", first.Kind, second.Kind)
	}
}

func TestHubDisconnectRemovesClientFromRole(t *testing.T) {
	h := NewHub(zerolog.Nop(), time.Hour, 5, nil, nil)
	srv, wsURL := newTestServer(t, h)
	defer srv.Close()
	defer h.Stop()

	conn := dialAndRegister(t, wsURL, RolePlayerOverlay)
	time.Sleep(30 * time.Millisecond)
	if got := h.ClientCount(RolePlayerOverlay); got != 1 {
		t.Fatalf("ClientCount() = %d, want 1", got)
	}

	conn.Close()

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if h.ClientCount(RolePlayerOverlay) == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("ClientCount() = %d after disconnect, want 0", h.ClientCount(RolePlayerOverlay))
}
