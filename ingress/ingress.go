// Package ingress owns the UDP receive socket (or its TCP replay-server
// substitute), tees every raw datagram to the UDP forwarders before
// decoding, and feeds decoded packets onto a bounded, backpressure-aware
// queue in arrival order (SPEC_FULL.md §5.2).
package ingress

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/psybedev/f1telemetry/packet"
	"github.com/psybedev/f1telemetry/resilience"
)

// maxDatagram is sized generously over the largest known F1 24/25 packet.
const maxDatagram = 2048

// Envelope is one arrival: either a successfully decoded packet or a
// decode error, always carrying the raw bytes so forwarding survives
// decode failures.
type Envelope struct {
	Raw     []byte
	Decoded packet.Packet
	Err     error
}

// RawSink tees every inbound raw datagram before decode (implemented by
// forward.Fanout; kept as a narrow interface so ingress never imports
// forward directly).
type RawSink interface {
	Send(payload []byte)
}

// Stats reports the ingress queue's backpressure counters.
type Stats struct {
	PhysicsDropped uint64
	StateStalled   uint64
	DecodeErrors   uint64
}

// Listener reads telemetry datagrams (from UDP or a replay TCP stream)
// and decodes them onto a bounded output queue.
type Listener struct {
	Logger zerolog.Logger

	conn       *net.UDPConn
	forwarder  RawSink
	stateCh    chan Envelope
	physicsCh  chan Envelope
	out        chan Envelope
	physicsDropped atomic.Uint64
	stateStalled   atomic.Uint64
	decodeErrors   atomic.Uint64
	stopCh     chan struct{}
}

// NewListener allocates a Listener with the given output queue capacity.
// Half the capacity is reserved for state-class packets (never dropped,
// a short-timeout blocking send that counts a stall instead) and half for
// physics-class packets (drop-oldest on full). logger receives one line
// per bind attempt and per decode error; the zero value is a valid
// (fully silent) logger.
func NewListener(logger zerolog.Logger, queueSize int, forwarder RawSink) *Listener {
	if queueSize <= 0 {
		queueSize = 2048
	}
	l := &Listener{
		Logger:    logger,
		forwarder: forwarder,
		stateCh:   make(chan Envelope, queueSize/2),
		physicsCh: make(chan Envelope, queueSize/2),
		out:       make(chan Envelope, queueSize),
		stopCh:    make(chan struct{}),
	}
	return l
}

// Bind opens the UDP socket, retrying with the shared exponential-backoff
// handler (capped at 5s per spec §7) on transient bind failure.
func (l *Listener) Bind(ctx context.Context, addr string, port int) error {
	rh := resilience.NewRetryHandler(&resilience.RetryConfig{
		MaxRetries:    5,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2,
		Jitter:        true,
		RetryableErrors: []string{
			"address already in use",
			"cannot assign requested address",
		},
	})

	err := rh.Retry(ctx, func() error {
		udpAddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(addr, strconv.Itoa(port)))
		if err != nil {
			return err
		}
		conn, err := net.ListenUDP("udp", udpAddr)
		if err != nil {
			l.Logger.Warn().Str("addr", addr).Int("port", port).Err(err).Msg("ingress: bind attempt failed, retrying")
			return err
		}
		l.conn = conn
		return nil
	})
	if err != nil {
		l.Logger.Error().Str("addr", addr).Int("port", port).Err(err).Msg("ingress: bind exhausted retries")
		return err
	}
	l.Logger.Info().Str("addr", addr).Int("port", port).Msg("ingress: bound")
	return nil
}

// Run drives the receive loop until ctx is cancelled. It must be called
// after a successful Bind. A goroutine drains stateCh/physicsCh into the
// merged out channel, preserving per-class ordering while letting a
// physics-class drop never stall a state-class arrival.
func (l *Listener) Run(ctx context.Context) error {
	if l.conn == nil {
		return errors.New("ingress: Run called before a successful Bind")
	}
	go l.merge(ctx)

	buf := make([]byte, maxDatagram)
	for {
		select {
		case <-ctx.Done():
			close(l.stopCh)
			return ctx.Err()
		default:
		}

		l.conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		n, _, err := l.conn.Read(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				close(l.stopCh)
				return nil
			}
			continue
		}

		raw := append([]byte(nil), buf[:n]...)
		l.ingest(raw)
	}
}

// RunReplay reads length-prefixed raw datagrams from a TCP replay stream
// (the same tuple framing as the packet-capture archive) instead of
// binding UDP, per --replay-server.
func (l *Listener) RunReplay(ctx context.Context, r io.Reader) error {
	go l.merge(ctx)
	defer close(l.stopCh)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		raw, err := readFramedDatagram(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		l.ingest(raw)
	}
}

func (l *Listener) ingest(raw []byte) {
	if l.forwarder != nil {
		l.forwarder.Send(raw)
	}

	decoded, err := packet.Decode(raw)
	if err != nil {
		l.decodeErrors.Add(1)
		l.Logger.Debug().Err(err).Int("bytes", len(raw)).Msg("ingress: decode error")
	}
	env := Envelope{Raw: raw, Decoded: decoded, Err: err}

	if err == nil && decoded.Header.PacketID.IsPhysicsClass() {
		l.sendPhysics(env)
		return
	}
	l.sendState(env)
}

// sendPhysics drops the oldest queued physics-class envelope on overflow
// rather than blocking, since a stale physics frame is worthless once a
// fresher one exists.
func (l *Listener) sendPhysics(env Envelope) {
	select {
	case l.physicsCh <- env:
		return
	default:
	}
	select {
	case <-l.physicsCh:
		l.physicsDropped.Add(1)
	default:
	}
	select {
	case l.physicsCh <- env:
	default:
		l.physicsDropped.Add(1)
	}
}

// sendState never drops: a brief blocking send with a short timeout, only
// counting a stall (never discarding the packet) if the consumer is
// catastrophically behind.
func (l *Listener) sendState(env Envelope) {
	select {
	case l.stateCh <- env:
		return
	case <-time.After(50 * time.Millisecond):
		l.stateStalled.Add(1)
		l.stateCh <- env
	}
}

// merge drains stateCh and physicsCh into the single out channel,
// preferring state-class arrivals so they are never starved by a burst of
// physics-class traffic.
func (l *Listener) merge(ctx context.Context) {
	for {
		select {
		case env := <-l.stateCh:
			l.out <- env
		default:
			select {
			case env := <-l.stateCh:
				l.out <- env
			case env := <-l.physicsCh:
				l.out <- env
			case <-ctx.Done():
				return
			case <-l.stopCh:
				return
			}
		}
	}
}

// Out returns the merged, arrival-ordered-per-class decoded packet
// queue.
func (l *Listener) Out() <-chan Envelope {
	return l.out
}

// Stats reports current backpressure/drop counters.
func (l *Listener) Stats() Stats {
	return Stats{
		PhysicsDropped: l.physicsDropped.Load(),
		StateStalled:   l.stateStalled.Load(),
		DecodeErrors:   l.decodeErrors.Load(),
	}
}

// Close releases the underlying socket, if bound.
func (l *Listener) Close() error {
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}
