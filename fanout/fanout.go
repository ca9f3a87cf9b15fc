// Package fanout is the publish/subscribe bus that pushes race-table,
// player-stream-overlay, eng-view, and hud-ipc payloads to connected
// frontends and services their on-demand detail requests (SPEC_FULL.md
// §5.5). The ipc package reuses this Hub wholesale, bound to loopback.
package fanout

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Role names a subscriber class. hud-ipc is shared with package ipc.
type Role string

const (
	RoleRaceTable     Role = "race-table"
	RolePlayerOverlay Role = "player-stream-overlay"
	RoleEngView       Role = "eng-view"
	RoleHUDIPC        Role = "hud-ipc"
)

// Envelope is the wire shape for every message kind the bus carries
// (spec §6): register-client, race-table-update, player-overlay-update,
// race-info/race-info-response, driver-info/driver-info-response,
// frontend-update, plus the IPC control verbs. Every periodic broadcast
// carries SequenceNum (monotonic, strictly increasing per subscriber
// role) and SessionUID (spec §4.5, §8), so a client can detect a missed
// or out-of-order delivery without inspecting the payload itself.
type Envelope struct {
	Kind          string          `json:"kind"`
	CorrelationID string          `json:"correlationId,omitempty"`
	SequenceNum   uint64          `json:"sequenceNum"`
	SessionUID    uint64          `json:"sessionUid"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// RequestError is returned by the Hub's request path (timeouts, unknown
// client, malformed request).
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string { return "fanout: " + e.Reason }

const (
	clientSendBuffer  = 32
	writeDeadline     = 250 * time.Millisecond
	requestTimeout    = 3 * time.Second
)

// Client is one connected frontend: its role, its outbound queue, and the
// slow-write counter that eventually disconnects it.
type Client struct {
	ID   string
	Role Role
	conn *websocket.Conn

	mu              sync.Mutex
	outbound        chan Envelope
	consecutiveSlow int
	closed          bool
}

func newClient(id string, role Role, conn *websocket.Conn) *Client {
	return &Client{
		ID:       id,
		Role:     role,
		conn:     conn,
		outbound: make(chan Envelope, clientSendBuffer),
	}
}

// enqueue drops the oldest pending broadcast when the outbound queue is
// full rather than blocking the broadcaster (spec §4.5 "oldest pending
// broadcast is dropped for that client").
func (c *Client) enqueue(env Envelope) {
	select {
	case c.outbound <- env:
		return
	default:
	}
	select {
	case <-c.outbound:
	default:
	}
	select {
	case c.outbound <- env:
	default:
	}
}

// writeLoop drains the outbound queue one message at a time, applying a
// per-write deadline; MaxConsecutiveSlowWrites failures disconnect the
// client. At-most-one broadcast is ever in flight per client because this
// loop is the sole writer of c.conn.
func (c *Client) writeLoop(h *Hub) {
	for env := range c.outbound {
		c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		err := c.conn.WriteJSON(env)
		c.mu.Lock()
		if err != nil {
			c.consecutiveSlow++
			slow := c.consecutiveSlow
			c.mu.Unlock()
			if slow >= h.maxConsecutiveSlowWrites {
				h.disconnect(c)
				return
			}
			continue
		}
		c.consecutiveSlow = 0
		c.mu.Unlock()
	}
}

func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	close(c.outbound)
	c.conn.Close()
}

// PayloadFunc produces the JSON-ready payload for a role's periodic
// broadcast at the moment it ticks, plus the session UID the broadcast
// belongs to (spec §4.5); called on the Hub's ticker goroutine, never on
// a client's write path.
type PayloadFunc func(role Role, seq uint64) (kind string, payload any, sessionUID uint64)

// RequestHandler answers an on-demand client request from the latest
// snapshot; called on a servicer goroutine, never blocking the writer.
type RequestHandler func(kind string, payload json.RawMessage) (any, error)

// Hub fans snapshot-derived payloads out to per-role subscribers and
// services correlated on-demand requests, grounded on strategy.Manager's
// channel + context.WithTimeout request/response idiom generalized from a
// single in-process caller to many network clients.
type Hub struct {
	Logger zerolog.Logger

	maxConsecutiveSlowWrites int
	refreshInterval          time.Duration
	payloadFunc              PayloadFunc
	requestHandler           RequestHandler

	mu       sync.RWMutex
	clients  map[string]*Client
	byRole   map[Role][]*Client
	seq      map[Role]uint64
	tickers  []*time.Ticker
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewHub constructs a Hub; refreshInterval and maxConsecutiveSlowWrites
// come from config.Config (--refresh-interval, default 5 internally).
// logger is attached to every client-lifecycle/disconnect log line this
// Hub emits; the zero value is a valid (fully silent) logger.
func NewHub(logger zerolog.Logger, refreshInterval time.Duration, maxConsecutiveSlowWrites int, payloadFunc PayloadFunc, requestHandler RequestHandler) *Hub {
	if maxConsecutiveSlowWrites <= 0 {
		maxConsecutiveSlowWrites = 5
	}
	return &Hub{
		Logger:                   logger,
		maxConsecutiveSlowWrites: maxConsecutiveSlowWrites,
		refreshInterval:          refreshInterval,
		payloadFunc:              payloadFunc,
		requestHandler:           requestHandler,
		clients:                  make(map[string]*Client),
		byRole:                   make(map[Role][]*Client),
		seq:                      make(map[Role]uint64),
		stopCh:                   make(chan struct{}),
	}
}

// Register admits a newly upgraded connection after its register-client
// handshake and starts its write loop.
func (h *Hub) Register(role Role, conn *websocket.Conn) *Client {
	c := newClient(uuid.NewString(), role, conn)

	h.mu.Lock()
	h.clients[c.ID] = c
	h.byRole[role] = append(h.byRole[role], c)
	h.mu.Unlock()

	h.Logger.Info().Str("client_id", c.ID).Str("role", string(role)).Msg("fanout client registered")
	go c.writeLoop(h)
	return c
}

func (h *Hub) disconnect(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	peers := h.byRole[c.Role]
	for i, peer := range peers {
		if peer == c {
			h.byRole[c.Role] = append(peers[:i], peers[i+1:]...)
			break
		}
	}
	h.mu.Unlock()
	h.Logger.Info().Str("client_id", c.ID).Str("role", string(c.Role)).Msg("fanout client disconnected")
	c.close()
}

// StartBroadcasters launches one ticker goroutine per role named in
// roles, each assembling a role-shaped payload via payloadFunc every
// refreshInterval and pushing it to that role's subscribers.
func (h *Hub) StartBroadcasters(roles ...Role) {
	for _, role := range roles {
		role := role
		ticker := time.NewTicker(h.refreshInterval)
		h.tickers = append(h.tickers, ticker)
		go func() {
			for {
				select {
				case <-ticker.C:
					h.broadcastRole(role)
				case <-h.stopCh:
					return
				}
			}
		}()
	}
}

func (h *Hub) broadcastRole(role Role) {
	h.mu.Lock()
	h.seq[role]++
	seq := h.seq[role]
	peers := append([]*Client(nil), h.byRole[role]...)
	h.mu.Unlock()

	if len(peers) == 0 || h.payloadFunc == nil {
		return
	}
	kind, payload, sessionUID := h.payloadFunc(role, seq)
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	env := Envelope{Kind: kind, Payload: raw, SequenceNum: seq, SessionUID: sessionUID}
	for _, c := range peers {
		c.enqueue(env)
	}
}

// Request services an on-demand driver-info/race-info request with a
// correlation id, 3s server-side timeout, and a {error:"timeout"}
// response on expiry (spec §4.5). It never touches a client's write
// goroutine directly: the result is delivered through the same enqueue
// path every broadcast uses.
func (h *Hub) Request(c *Client, kind string, payload json.RawMessage) {
	correlationID := uuid.NewString()
	resultCh := make(chan Envelope, 1)

	go func() {
		timer := time.NewTimer(requestTimeout)
		defer timer.Stop()

		done := make(chan Envelope, 1)
		go func() {
			result, err := h.requestHandler(kind, payload)
			if err != nil {
				done <- Envelope{Kind: kind + "-response", CorrelationID: correlationID, Error: err.Error()}
				return
			}
			raw, err := json.Marshal(result)
			if err != nil {
				done <- Envelope{Kind: kind + "-response", CorrelationID: correlationID, Error: err.Error()}
				return
			}
			done <- Envelope{Kind: kind + "-response", CorrelationID: correlationID, Payload: raw}
		}()

		select {
		case env := <-done:
			resultCh <- env
		case <-timer.C:
			resultCh <- Envelope{Kind: kind + "-response", CorrelationID: correlationID, Error: "timeout"}
		}
	}()

	go func() {
		env := <-resultCh
		c.enqueue(env)
	}()
}

// Notify delivers a best-effort frontend-update to every client in role
// (spec §4.5's asynchronous one-shot notifications: tyre-delta advisory,
// custom marker acknowledged).
func (h *Hub) Notify(role Role, messageType, message string) {
	h.mu.RLock()
	peers := append([]*Client(nil), h.byRole[role]...)
	h.mu.RUnlock()

	payload, _ := json.Marshal(map[string]string{"message-type": messageType, "message": message})
	env := Envelope{Kind: "frontend-update", Payload: payload}
	for _, c := range peers {
		c.enqueue(env)
	}
}

// ClientCount reports how many clients are subscribed to role, for
// observability/tests.
func (h *Hub) ClientCount(role Role) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byRole[role])
}

// Stop halts every broadcaster ticker and closes all client connections.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		for _, t := range h.tickers {
			t.Stop()
		}
		h.mu.Lock()
		clients := make([]*Client, 0, len(h.clients))
		for _, c := range h.clients {
			clients = append(clients, c)
		}
		h.clients = make(map[string]*Client)
		h.byRole = make(map[Role][]*Client)
		h.mu.Unlock()
		for _, c := range clients {
			c.close()
		}
	})
}
