package fanout

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type registerClientMsg struct {
	Kind string `json:"kind"`
	Type Role   `json:"type"`
}

// Handler upgrades GET /ws, reads the register-client handshake, and
// dispatches the connection's subsequent requests to h.Request. With the
// optional ?framing=binary query parameter, inbound messages on this
// connection may carry a 4-byte big-endian length header ahead of the JSON
// body, which is stripped before decoding. Outbound messages are always
// plain JSON text frames; the query parameter does not change them.
func (h *Hub) Handler(c echo.Context) error {
	binaryFraming := c.QueryParam("framing") == "binary"

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("fanout: websocket upgrade: %w", err)
	}

	_, raw, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil
	}
	var reg registerClientMsg
	if err := json.Unmarshal(stripFraming(raw, binaryFraming), &reg); err != nil || reg.Type == "" {
		conn.Close()
		return nil
	}

	client := h.Register(reg.Type, conn)
	go h.readLoop(client, binaryFraming)
	return nil
}

func (h *Hub) readLoop(c *Client, binaryFraming bool) {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			h.disconnect(c)
			return
		}
		var env Envelope
		if err := json.Unmarshal(stripFraming(raw, binaryFraming), &env); err != nil {
			continue
		}
		if h.requestHandler != nil {
			h.Request(c, env.Kind, env.Payload)
		}
	}
}

func stripFraming(raw []byte, binaryFraming bool) []byte {
	if !binaryFraming || len(raw) < 4 {
		return raw
	}
	n := binary.BigEndian.Uint32(raw[:4])
	if int(n) > len(raw)-4 {
		return raw
	}
	return raw[4 : 4+n]
}
