package ingress

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeSink struct {
	sent [][]byte
}

func (f *fakeSink) Send(payload []byte) {
	f.sent = append(f.sent, append([]byte(nil), payload...))
}

func encodeFramed(timestampUs uint64, payload []byte) []byte {
	var header [12]byte
	binary.BigEndian.PutUint64(header[:8], timestampUs)
	binary.BigEndian.PutUint32(header[8:12], uint32(len(payload)))
	return append(header[:], payload...)
}

func TestReadFramedDatagramRoundTrips(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	buf := bytes.NewReader(encodeFramed(1234, payload))

	got, err := readFramedDatagram(buf)
	if err != nil {
		t.Fatalf("readFramedDatagram() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %v, want %v", got, payload)
	}
}

func TestListenerReplayDecodesAndForwards(t *testing.T) {
	sink := &fakeSink{}
	l := NewListener(zerolog.Nop(), 64, sink)

	var stream bytes.Buffer
	garbage := make([]byte, 40)
	stream.Write(encodeFramed(0, garbage))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.RunReplay(ctx, &stream) }()

	select {
	case env := <-l.Out():
		if len(env.Raw) != len(garbage) {
			t.Errorf("Raw len = %d, want %d", len(env.Raw), len(garbage))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a decoded envelope")
	}

	if len(sink.sent) != 1 {
		t.Errorf("forwarder received %d datagrams, want 1", len(sink.sent))
	}
	<-done
}

func TestListenerPhysicsDropOldestUnderPressure(t *testing.T) {
	l := NewListener(zerolog.Nop(), 4, nil) // physicsCh capacity 2

	physicsEnvelope := func(n byte) Envelope {
		return Envelope{Raw: []byte{n}}
	}
	for i := byte(0); i < 10; i++ {
		l.sendPhysics(physicsEnvelope(i))
	}

	stats := l.Stats()
	if stats.PhysicsDropped == 0 {
		t.Error("PhysicsDropped = 0, want drops after overflowing the physics queue")
	}
}
