package forward

import (
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func listenUDP(t *testing.T) (*net.UDPConn, string) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("ListenUDP() error = %v", err)
	}
	return conn, conn.LocalAddr().String()
}

func TestFanoutSendDeliversToAllEndpoints(t *testing.T) {
	a, addrA := listenUDP(t)
	defer a.Close()
	b, addrB := listenUDP(t)
	defer b.Close()

	f := New(zerolog.Nop(), []string{addrA, addrB})
	defer f.Close()

	f.Send([]byte("hello"))

	for _, conn := range []*net.UDPConn{a, b} {
		buf := make([]byte, 16)
		conn.SetReadDeadline(time.Now().Add(time.Second))
		n, err := conn.Read(buf)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if string(buf[:n]) != "hello" {
			t.Errorf("got %q, want hello", buf[:n])
		}
	}
}

func TestFanoutStatsCountsDialFailure(t *testing.T) {
	f := New(zerolog.Nop(), []string{"not-a-valid-host:99999"})
	defer f.Close()

	stats := f.Stats()
	if len(stats) != 1 {
		t.Fatalf("len(Stats()) = %d, want 1", len(stats))
	}
	if stats[0].Errors == 0 {
		t.Error("Errors = 0, want nonzero after a dial failure")
	}
}

func TestFanoutSendNeverBlocksOnFullQueue(t *testing.T) {
	conn, addr := listenUDP(t)
	defer conn.Close()

	f := New(zerolog.Nop(), []string{addr})
	defer f.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < queueDepth*2; i++ {
			f.Send([]byte("x"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send() blocked despite a full per-endpoint queue")
	}
}
