package ingress

import (
	"encoding/binary"
	"io"
)

// readFramedDatagram reads one {timestamp-µs, length, bytes} tuple from a
// replay stream (the same framing archive.CaptureWriter persists packet
// captures in): an 8-byte big-endian microsecond timestamp, a 4-byte
// big-endian length, then that many raw payload bytes. The timestamp is
// discarded here; --replay-server only cares about datagram order and
// content, not wall-clock pacing.
func readFramedDatagram(r io.Reader) ([]byte, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(header[8:12])
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
