// Package ipc is the local-only bus that ships the same push payloads as
// package fanout plus overlay-specific reduced views to HUD processes
// (SPEC_FULL.md §5.7). It is a second fanout.Hub instance bound to
// loopback carrying the hud-ipc role, extended with three control verbs:
// switch-page, set-scale, ping.
package ipc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/psybedev/f1telemetry/fanout"
)

// Control verb kinds recognized in addition to the fanout request kinds.
const (
	KindSwitchPage = "switch-page"
	KindSetScale   = "set-scale"
	KindPing       = "ping"
)

// SwitchPagePayload asks an overlay to change its displayed MFD page.
type SwitchPagePayload struct {
	Page string `json:"page"`
}

// SetScalePayload asks an overlay to change its render scale.
type SetScalePayload struct {
	Scale float64 `json:"scale"`
}

// PongResponse answers a ping control verb.
type PongResponse struct {
	OK bool `json:"ok"`
}

// CommandDispatcher delivers a command to an overlay by some
// process-specific means (typically the overlay's own fanout.Client
// enqueue, since a command is server-to-overlay and rides the same push
// path as data-broadcast).
type CommandDispatcher func(kind string, payload any) error

// Bus is the local IPC surface: a fanout.Hub reused wholesale, plus the
// control-verb handlers layered on top of its request/response path.
type Bus struct {
	Hub        *fanout.Hub
	dispatcher CommandDispatcher
}

// New builds a Bus. payloadFunc assembles the hud-ipc push payload
// (data-broadcast); extraHandler answers any request kind the caller
// wants to add on top of the three control verbs (e.g. an overlay
// reporting its current page id back to the server).
func New(logger zerolog.Logger, refreshInterval time.Duration, maxConsecutiveSlowWrites int, payloadFunc fanout.PayloadFunc, extraHandler fanout.RequestHandler, dispatcher CommandDispatcher) *Bus {
	b := &Bus{dispatcher: dispatcher}
	b.Hub = fanout.NewHub(logger, refreshInterval, maxConsecutiveSlowWrites, payloadFunc, func(kind string, payload json.RawMessage) (any, error) {
		switch kind {
		case KindSwitchPage:
			var p SwitchPagePayload
			if err := json.Unmarshal(payload, &p); err != nil {
				return nil, fmt.Errorf("ipc: decode switch-page: %w", err)
			}
			if dispatcher != nil {
				if err := dispatcher(KindSwitchPage, p); err != nil {
					return nil, err
				}
			}
			return PongResponse{OK: true}, nil
		case KindSetScale:
			var p SetScalePayload
			if err := json.Unmarshal(payload, &p); err != nil {
				return nil, fmt.Errorf("ipc: decode set-scale: %w", err)
			}
			if dispatcher != nil {
				if err := dispatcher(KindSetScale, p); err != nil {
					return nil, err
				}
			}
			return PongResponse{OK: true}, nil
		case KindPing:
			return PongResponse{OK: true}, nil
		default:
			if extraHandler != nil {
				return extraHandler(kind, payload)
			}
			return nil, fmt.Errorf("ipc: unknown request kind %q", kind)
		}
	})
	return b
}

// Start begins the hud-ipc broadcaster ticker.
func (b *Bus) Start() {
	b.Hub.StartBroadcasters(fanout.RoleHUDIPC)
}

// Stop halts the bus.
func (b *Bus) Stop() {
	b.Hub.Stop()
}
