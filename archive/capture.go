package archive

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
)

// CaptureWriter appends raw inbound datagrams to a capture file using the
// same {timestamp-µs, length, bytes} framing ingress.RunReplay reads back
// (an 8-byte big-endian microsecond timestamp, a 4-byte big-endian length,
// then the payload), so a capture taken with --packet-capture-mode can be
// fed straight back through --replay-server.
type CaptureWriter struct {
	mu sync.Mutex
	f  *os.File
}

// NewCaptureWriter opens (creating if necessary, appending otherwise) the
// capture file at path.
func NewCaptureWriter(path string) (*CaptureWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("archive: opening capture file %q: %w", path, err)
	}
	return &CaptureWriter{f: f}, nil
}

// Append writes one framed datagram. It is safe for concurrent callers,
// though in practice the ingress listener is the sole writer.
func (c *CaptureWriter) Append(timestampUs uint64, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var header [12]byte
	binary.BigEndian.PutUint64(header[:8], timestampUs)
	binary.BigEndian.PutUint32(header[8:12], uint32(len(payload)))

	if _, err := c.f.Write(header[:]); err != nil {
		return fmt.Errorf("archive: writing capture header: %w", err)
	}
	if _, err := c.f.Write(payload); err != nil {
		return fmt.Errorf("archive: writing capture payload: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (c *CaptureWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.f.Close()
}
