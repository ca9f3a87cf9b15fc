// Package forward re-emits raw inbound UDP telemetry datagrams to zero or
// more configured third-party endpoints (SPEC_FULL.md §5.6). It never
// parses the payload and never blocks ingress: each endpoint has its own
// goroutine and its own error counter, grounded on sims.DataPollingSystem's
// per-channel dispatch shape, simplified here to fire-and-forget since a
// lost forwarded datagram is unrecoverable by definition.
package forward

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// endpoint holds one dialed destination connection and its send queue.
type endpoint struct {
	addr   string
	conn   *net.UDPConn
	queue  chan []byte
	errors atomic.Uint64
}

// Fanout tees raw datagrams to every configured endpoint.
type Fanout struct {
	Logger zerolog.Logger

	endpoints []*endpoint
	wg        sync.WaitGroup
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// queueDepth bounds each endpoint's pending-send queue; a slow or dead
// endpoint drops new datagrams rather than backing up into Send.
const queueDepth = 256

// New dials one UDP connection per address in addrs (host:port) and
// starts its forwarding goroutine. Dial failures are recorded as an
// immediate error on that endpoint rather than aborting the whole set,
// since a single bad address should never prevent forwarding to the
// others. logger receives one warning line per dial failure and one info
// line on Close; the zero value is a valid (fully silent) logger.
func New(logger zerolog.Logger, addrs []string) *Fanout {
	f := &Fanout{Logger: logger, stopCh: make(chan struct{})}
	for _, addr := range addrs {
		ep := &endpoint{addr: addr, queue: make(chan []byte, queueDepth)}
		raddr, err := net.ResolveUDPAddr("udp", addr)
		if err == nil {
			ep.conn, err = net.DialUDP("udp", nil, raddr)
		}
		if err != nil {
			ep.errors.Add(1)
			f.Logger.Warn().Str("addr", addr).Err(err).Msg("forward: dialing endpoint failed")
		}
		f.endpoints = append(f.endpoints, ep)
		f.wg.Add(1)
		go f.run(ep)
	}
	return f
}

func (f *Fanout) run(ep *endpoint) {
	defer f.wg.Done()
	for {
		select {
		case payload, ok := <-ep.queue:
			if !ok {
				return
			}
			if ep.conn == nil {
				ep.errors.Add(1)
				continue
			}
			if _, err := ep.conn.Write(payload); err != nil {
				ep.errors.Add(1)
			}
		case <-f.stopCh:
			return
		}
	}
}

// Send tees one raw datagram to every endpoint. Never blocks: a full
// per-endpoint queue drops the datagram for that endpoint only.
func (f *Fanout) Send(payload []byte) {
	cp := append([]byte(nil), payload...)
	for _, ep := range f.endpoints {
		select {
		case ep.queue <- cp:
		default:
			ep.errors.Add(1)
		}
	}
}

// EndpointStats is one endpoint's address and cumulative error count,
// for observability (spec §7 "per-endpoint counter; never propagated").
type EndpointStats struct {
	Addr   string
	Errors uint64
}

// Stats reports the current error counters for every configured endpoint.
func (f *Fanout) Stats() []EndpointStats {
	stats := make([]EndpointStats, len(f.endpoints))
	for i, ep := range f.endpoints {
		stats[i] = EndpointStats{Addr: ep.addr, Errors: ep.errors.Load()}
	}
	return stats
}

// Close stops every forwarding goroutine and closes each dialed
// connection.
func (f *Fanout) Close() {
	f.stopOnce.Do(func() {
		close(f.stopCh)
		f.wg.Wait()
		for _, ep := range f.endpoints {
			if ep.conn != nil {
				ep.conn.Close()
			}
		}
		f.Logger.Info().Int("endpoints", len(f.endpoints)).Msg("forward: closed")
	})
}
