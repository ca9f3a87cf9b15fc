package racemodel

import (
	"sync"
	"sync/atomic"

	"github.com/psybedev/f1telemetry/packet"
)

const maxDrivers = 22

// Snapshot is the immutable view returned by Model.Snapshot. Nothing in a
// Snapshot is ever mutated after publication; a new Model.apply that
// changes published fields builds a fresh Snapshot and swaps the pointer.
type Snapshot struct {
	Session      Session
	Drivers      [maxDrivers]DriverRecord
	NumDrivers   uint8
	Collisions   []Collision
	CustomMarkers []CustomMarker
	Weather      []WeatherSample
	Records      LapSectorRecords
	Compound     map[string]CompoundRecord
	SequenceNum  uint64
}

// Counters tracks non-fatal error rates by kind (spec §7). Readers query
// it for observability; the writer is the only mutator.
type Counters struct {
	mu               sync.Mutex
	decodeErrors     map[packet.DecodeErrorKind]uint64
	staleDropped     uint64
	invariantDropped uint64
}

func newCounters() *Counters {
	return &Counters{decodeErrors: make(map[packet.DecodeErrorKind]uint64)}
}

func (c *Counters) recordDecodeError(kind packet.DecodeErrorKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decodeErrors[kind]++
}

func (c *Counters) recordStaleDropped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staleDropped++
}

func (c *Counters) recordInvariantDropped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invariantDropped++
}

// Snapshot returns a point-in-time copy of all counters.
func (c *Counters) Snapshot() (decode map[packet.DecodeErrorKind]uint64, stale, invariant uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	decode = make(map[packet.DecodeErrorKind]uint64, len(c.decodeErrors))
	for k, v := range c.decodeErrors {
		decode[k] = v
	}
	return decode, c.staleDropped, c.invariantDropped
}

// Model is the single-writer, multi-reader race-state aggregator. Apply
// must only ever be called from one goroutine (the decoder/apply task);
// Snapshot, DriverDetail, and RaceStats are safe for concurrent readers.
type Model struct {
	current atomic.Pointer[Snapshot]
	counters *Counters

	// archived holds the previous session's final Snapshot after a
	// session-UID swap, for the post-race-data-autosave write-out.
	mu       sync.Mutex
	archived *Snapshot
}

// NewModel returns an empty model with no session yet observed.
func NewModel() *Model {
	m := &Model{counters: newCounters()}
	empty := &Snapshot{Compound: defaultCompoundRecords()}
	m.current.Store(empty)
	return m
}

func defaultCompoundRecords() map[string]CompoundRecord {
	m := make(map[string]CompoundRecord, 5)
	for _, name := range []string{"soft", "medium", "hard", "inter", "wet"} {
		m[name] = CompoundRecord{}
	}
	return m
}

// Snapshot returns the current immutable view. O(1): it is a pointer load.
func (m *Model) Snapshot() *Snapshot {
	return m.current.Load()
}

// Counters exposes the model's error/drop counters.
func (m *Model) Counters() *Counters {
	return m.counters
}

// Archived returns the previous session's final snapshot, if a session
// swap has occurred, for the post-race-data-autosave writer.
func (m *Model) Archived() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.archived
}

// staging is a mutable working copy of a Snapshot. Apply builds one from
// the current snapshot, mutates it, validates it, and only then commits it
// atomically — so readers never observe a torn model (spec §5).
type staging struct {
	Snapshot
}

func (m *Model) newStaging() *staging {
	cur := m.current.Load()
	s := &staging{Snapshot: *cur}
	// Drivers is a value array; copying Snapshot already deep-copies it.
	// Slices need an explicit copy since the struct copy only copies the
	// slice header.
	s.Collisions = append([]Collision(nil), cur.Collisions...)
	s.CustomMarkers = append([]CustomMarker(nil), cur.CustomMarkers...)
	s.Weather = append([]WeatherSample(nil), cur.Weather...)
	s.Compound = make(map[string]CompoundRecord, len(cur.Compound))
	for k, v := range cur.Compound {
		s.Compound[k] = v
	}
	for i := range s.Drivers {
		s.Drivers[i].History = append([]Lap(nil), cur.Drivers[i].History...)
		s.Drivers[i].Stints = append([]Stint(nil), cur.Drivers[i].Stints...)
		s.Drivers[i].StatusHistory = append([]CarStatusSnapshot(nil), cur.Drivers[i].StatusHistory...)
		s.Drivers[i].Warnings = append([]WarningPenalty(nil), cur.Drivers[i].Warnings...)
	}
	return s
}

// commit publishes a validated staging copy and bumps its sequence number.
func (m *Model) commit(s *staging) {
	s.SequenceNum++
	snap := s.Snapshot
	m.current.Store(&snap)
}

// Apply is the sole state-transition entry point. It is pure with respect
// to I/O: packet -> (possibly) a new published Snapshot. Errors are
// non-fatal; the caller (ingress/apply task) is expected to just count
// them and continue.
func (m *Model) Apply(pkt packet.Packet) error {
	if pkt.Header.SessionUID == 0 {
		return nil
	}

	cur := m.current.Load()
	if cur.Session.UID != 0 && cur.Session.UID != pkt.Header.SessionUID {
		m.swapSession(pkt.Header)
		cur = m.current.Load()
	}
	if cur.Session.UID == 0 {
		m.seedSession(pkt.Header)
	}

	s := m.newStaging()

	switch {
	case pkt.Session != nil:
		applySession(s, *pkt.Session)
	case pkt.Participants != nil:
		applyParticipants(s, *pkt.Participants)
	case pkt.LapData != nil:
		applyLapData(s, *pkt.LapData, m.counters)
	case pkt.Event != nil:
		applyEvent(s, *pkt.Event)
	case pkt.CarStatus != nil:
		applyCarStatus(s, *pkt.CarStatus)
	case pkt.CarDamage != nil:
		applyCarDamage(s, *pkt.CarDamage)
	case pkt.TyreSets != nil:
		applyTyreSets(s, *pkt.TyreSets)
	case pkt.FinalClassification != nil:
		applyFinalClassification(s, *pkt.FinalClassification)
	case pkt.SessionHistory != nil:
		applySessionHistory(s, *pkt.SessionHistory)
	default:
		// Motion/CarTelemetry/MotionEx/CarSetups/LobbyInfo/TimeTrial do not
		// currently publish into the Snapshot; they are consumed directly
		// by the fan-out layer from the raw decoded packet where needed.
		return nil
	}

	if err := validate(&s.Snapshot); err != nil {
		m.counters.recordInvariantDropped()
		return err
	}

	m.commit(s)
	return nil
}

func (m *Model) seedSession(h packet.Header) {
	s := m.newStaging()
	s.Session = Session{UID: h.SessionUID, FormatYear: h.PacketFormat}
	m.commit(s)
}

// swapSession archives the outgoing model and installs a fresh empty one
// seeded from the new packet's header (spec §4.3.1).
func (m *Model) swapSession(h packet.Header) {
	outgoing := m.current.Load()
	m.mu.Lock()
	m.archived = outgoing
	m.mu.Unlock()

	fresh := &Snapshot{
		Session:  Session{UID: h.SessionUID, FormatYear: h.PacketFormat},
		Compound: defaultCompoundRecords(),
	}
	m.current.Store(fresh)
}
