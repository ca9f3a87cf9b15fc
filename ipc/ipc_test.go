package ipc

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/psybedev/f1telemetry/fanout"
)

func newTestBus(t *testing.T, dispatcher CommandDispatcher) (*Bus, string, func()) {
	t.Helper()
	b := New(zerolog.Nop(), time.Hour, 5, nil, nil, dispatcher)

	e := echo.New()
	e.GET("/ws", b.Hub.Handler)
	srv := httptest.NewServer(e)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	cleanup := func() {
		srv.Close()
		b.Stop()
	}
	return b, wsURL, cleanup
}

func dialAndRegister(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	msg, _ := json.Marshal(map[string]string{"kind": "register-client", "type": string(fanout.RoleHUDIPC)})
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		t.Fatalf("WriteMessage(register-client) error = %v", err)
	}
	return conn
}

func TestBusSwitchPageDispatches(t *testing.T) {
	var gotKind string
	var gotPage string
	dispatcher := func(kind string, payload any) error {
		gotKind = kind
		if p, ok := payload.(SwitchPagePayload); ok {
			gotPage = p.Page
		}
		return nil
	}

	_, wsURL, cleanup := newTestBus(t, dispatcher)
	defer cleanup()

	conn := dialAndRegister(t, wsURL)
	defer conn.Close()

	payload, _ := json.Marshal(SwitchPagePayload{Page: "tyres"})
	req, _ := json.Marshal(fanout.Envelope{Kind: KindSwitchPage, Payload: payload})
	if err := conn.WriteMessage(websocket.TextMessage, req); err != nil {
		t.Fatalf("WriteMessage(switch-page) error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var env fanout.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if env.Error != "" {
		t.Fatalf("Error = %q, want empty", env.Error)
	}
	if gotKind != KindSwitchPage {
		t.Errorf("dispatcher kind = %q, want %q", gotKind, KindSwitchPage)
	}
	if gotPage != "tyres" {
		t.Errorf("dispatcher page = %q, want tyres", gotPage)
	}
}

func TestBusPingRespondsOK(t *testing.T) {
	_, wsURL, cleanup := newTestBus(t, nil)
	defer cleanup()

	conn := dialAndRegister(t, wsURL)
	defer conn.Close()

	req, _ := json.Marshal(fanout.Envelope{Kind: KindPing})
	if err := conn.WriteMessage(websocket.TextMessage, req); err != nil {
		t.Fatalf("WriteMessage(ping) error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var env fanout.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	var resp PongResponse
	if err := json.Unmarshal(env.Payload, &resp); err != nil {
		t.Fatalf("unmarshal payload error = %v", err)
	}
	if !resp.OK {
		t.Error("PongResponse.OK = false, want true")
	}
}

func TestBusUnknownKindErrors(t *testing.T) {
	_, wsURL, cleanup := newTestBus(t, nil)
	defer cleanup()

	conn := dialAndRegister(t, wsURL)
	defer conn.Close()

	req, _ := json.Marshal(fanout.Envelope{Kind: "bogus"})
	if err := conn.WriteMessage(websocket.TextMessage, req); err != nil {
		t.Fatalf("WriteMessage(bogus) error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var env fanout.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if env.Error == "" {
		t.Error("Error = empty, want a message for an unknown request kind")
	}
}
