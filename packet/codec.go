package packet

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// reader wraps a bytes.Reader with the teacher's short-circuit "ok" chaining
// idiom (grounded on accbroadcastingsdk's readBuffer/readString), adapted so
// a whole decode function can be written as a flat sequence of reads that
// stop silently accumulating once one fails.
type reader struct {
	r  *bytes.Reader
	ok bool
}

func newReader(data []byte) *reader {
	return &reader{r: bytes.NewReader(data), ok: true}
}

func (rd *reader) read(dst any) {
	if !rd.ok {
		return
	}
	if err := binary.Read(rd.r, binary.LittleEndian, dst); err != nil {
		rd.ok = false
	}
}

func (rd *reader) u8() uint8 {
	var v uint8
	rd.read(&v)
	return v
}

func (rd *reader) i8() int8 {
	var v int8
	rd.read(&v)
	return v
}

func (rd *reader) u16() uint16 {
	var v uint16
	rd.read(&v)
	return v
}

func (rd *reader) i16() int16 {
	var v int16
	rd.read(&v)
	return v
}

func (rd *reader) u32() uint32 {
	var v uint32
	rd.read(&v)
	return v
}

func (rd *reader) u64() uint64 {
	var v uint64
	rd.read(&v)
	return v
}

// f32 decodes an IEEE-754 32-bit float, mapping NaN/Inf to "missing" (0) at
// the edge rather than propagating a non-finite value into the model.
func (rd *reader) f32() float32 {
	var v float32
	rd.read(&v)
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return 0
	}
	return v
}

// f64 decodes an IEEE-754 64-bit float (used by the few fields, such as
// total race time, that the game transmits as a double), with the same
// NaN/Inf-to-missing handling as f32.
func (rd *reader) f64() float64 {
	var v float64
	rd.read(&v)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// fixedString reads an n-byte NUL-padded field, trims at the first NUL, and
// validates UTF-8; invalid bytes fall back to a Latin-1 (byte-for-byte
// rune) reinterpretation rather than failing the whole packet.
func (rd *reader) fixedString(n int) string {
	if !rd.ok {
		return ""
	}
	buf := make([]byte, n)
	if _, err := rd.r.Read(buf); err != nil {
		rd.ok = false
		return ""
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	if utf8.Valid(buf) {
		return string(buf)
	}
	return latin1ToUTF8(buf)
}

// eventCode reads a fixed 4-byte ASCII event code, e.g. "SSTA", "CHQF".
func (rd *reader) eventCode() string {
	if !rd.ok {
		return ""
	}
	buf := make([]byte, 4)
	if _, err := rd.r.Read(buf); err != nil {
		rd.ok = false
		return ""
	}
	return string(buf)
}

func (rd *reader) skip(n int) {
	if !rd.ok {
		return
	}
	if _, err := rd.r.Seek(int64(n), 1); err != nil {
		rd.ok = false
	}
}

func (rd *reader) remaining() int {
	return rd.r.Len()
}

func latin1ToUTF8(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
