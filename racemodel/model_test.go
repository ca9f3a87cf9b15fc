package racemodel

import (
	"testing"

	"github.com/psybedev/f1telemetry/packet"
)

func sessionHeader(uid uint64, frame uint32) packet.Header {
	return packet.Header{
		PacketFormat:    packet.Format2024,
		PacketID:        packet.IDSession,
		SessionUID:      uid,
		FrameIdentifier: frame,
		PlayerCarIndex:  0,
	}
}

func withParticipants(m *Model, uid uint64, n uint8) {
	var pp packet.ParticipantsPacket
	pp.NumActiveCars = n
	for i := uint8(0); i < n; i++ {
		pp.Participants[i] = packet.ParticipantData{Name: "driver"}
	}
	h := sessionHeader(uid, 1)
	h.PacketID = packet.IDParticipants
	m.Apply(packet.Packet{Header: h, Participants: &pp})
}

func TestSessionSwapArchivesPreviousModel(t *testing.T) {
	m := NewModel()
	withParticipants(m, 0xAAAA, 5)

	if m.Snapshot().NumDrivers != 5 {
		t.Fatalf("NumDrivers = %d, want 5", m.Snapshot().NumDrivers)
	}

	h := sessionHeader(0xBBBB, 1)
	m.Apply(packet.Packet{Header: h, Session: &packet.SessionPacket{Header: h}})

	snap := m.Snapshot()
	if snap.Session.UID != 0xBBBB {
		t.Fatalf("Session.UID = %x, want BBBB", snap.Session.UID)
	}
	if snap.NumDrivers != 0 {
		t.Errorf("NumDrivers = %d, want 0 (participants empty until re-announced)", snap.NumDrivers)
	}
	if m.Archived() == nil || m.Archived().Session.UID != 0xAAAA {
		t.Error("Archived() did not retain the pre-swap model")
	}
}

func lapDataFor(uid uint64, frame uint32, carIdx uint8, lapNum uint8, lastLapMs uint32) packet.Packet {
	var ld packet.LapDataPacket
	ld.Laps[carIdx] = packet.LapData{
		CurrentLapNum:   lapNum,
		LastLapTimeMs:   lastLapMs,
		CarPosition:     uint8(carIdx + 1),
		ResultStatus:    packet.ResultStatusActive,
	}
	h := sessionHeader(uid, frame)
	h.PacketID = packet.IDLapData
	return packet.Packet{Header: h, LapData: &ld}
}

func tyreSetsFor(uid uint64, frame uint32, carIdx uint8, fitted uint8, compound packet.VisualTyreCompound) packet.Packet {
	var ts packet.TyreSetsPacket
	ts.CarIdx = carIdx
	ts.FittedIdx = fitted
	ts.TyreSets[fitted] = packet.TyreSetData{VisualCompound: compound, Available: 1}
	h := sessionHeader(uid, frame)
	h.PacketID = packet.IDTyreSets
	return packet.Packet{Header: h, TyreSets: &ts}
}

func TestStintClosesOnCompoundChange(t *testing.T) {
	m := NewModel()
	withParticipants(m, 0xCCCC, 1)

	medium := packet.VisualTyreCompound{Raw: 17, Name: "medium", Known: true}
	soft := packet.VisualTyreCompound{Raw: 16, Name: "soft", Known: true}

	m.Apply(tyreSetsFor(0xCCCC, 1, 0, 0, medium))

	frame := uint32(2)
	for lap := uint8(1); lap <= 6; lap++ {
		m.Apply(lapDataFor(0xCCCC, frame, 0, lap, 90000))
		frame++
		if lap == 5 {
			m.Apply(tyreSetsFor(0xCCCC, frame, 0, 1, soft))
			frame++
		}
	}
	// final lap-data bump to roll the lap-6 completion through
	m.Apply(lapDataFor(0xCCCC, frame, 0, 7, 90000))

	detail, err := m.DriverDetail(0, "")
	if err != nil {
		t.Fatalf("DriverDetail() error = %v", err)
	}
	if len(detail.Stints) != 2 {
		t.Fatalf("len(Stints) = %d, want 2 stints (got %+v)", len(detail.Stints), detail.Stints)
	}
	if detail.Stints[0].StartLap != 1 || detail.Stints[0].EndLap != 5 {
		t.Errorf("Stints[0] = %+v, want {Start:1 End:5}", detail.Stints[0])
	}
	if detail.Stints[1].StartLap != 6 {
		t.Errorf("Stints[1].StartLap = %d, want 6", detail.Stints[1].StartLap)
	}
}

func TestCollisionDeduplication(t *testing.T) {
	m := NewModel()
	withParticipants(m, 0xDDDD, 8)

	collide := func(frame uint32) {
		h := sessionHeader(0xDDDD, frame)
		h.PacketID = packet.IDEvent
		ev := packet.EventPacket{Header: h, Code: "COLL", Detail: packet.EventDetail{
			Collision: &packet.CollisionEvent{VehicleIdx1: 3, VehicleIdx2: 7},
		}}
		m.Apply(packet.Packet{Header: h, Event: &ev})
	}
	collide(1)
	collide(2)

	snap := m.Snapshot()
	if len(snap.Collisions) != 1 {
		t.Fatalf("len(Collisions) = %d, want 1", len(snap.Collisions))
	}
	if snap.Collisions[0].CarIndex1 != 3 || snap.Collisions[0].CarIndex2 != 7 {
		t.Errorf("Collisions[0] = %+v, want {3 7 _}", snap.Collisions[0])
	}
}

func TestClassifySectorTieIsGreenNotPurple(t *testing.T) {
	got := ClassifySector(60000, 60000, 59000, true)
	if got != SectorGreen {
		t.Errorf("ClassifySector(tie with PB) = %v, want green", got)
	}
}

func TestClassifySectorBeatsSessionBest(t *testing.T) {
	got := ClassifySector(58000, 60000, 59000, true)
	if got != SectorPurple {
		t.Errorf("ClassifySector(new session best) = %v, want purple", got)
	}
}

func TestRaceStatsPositionsByLapTracksCompletedLaps(t *testing.T) {
	m := NewModel()
	withParticipants(m, 0xF000, 2)

	frame := uint32(1)
	for lap := uint8(1); lap <= 3; lap++ {
		h := sessionHeader(0xF000, frame)
		h.PacketID = packet.IDLapData
		var ld packet.LapDataPacket
		ld.Laps[0] = packet.LapData{CurrentLapNum: lap, LastLapTimeMs: 90000, CarPosition: 1, ResultStatus: packet.ResultStatusActive}
		ld.Laps[1] = packet.LapData{CurrentLapNum: lap, LastLapTimeMs: 91000, CarPosition: 2, ResultStatus: packet.ResultStatusActive}
		m.Apply(packet.Packet{Header: h, LapData: &ld})
		frame++
	}
	// bump lap numbers once more so lap 3 also rolls into history
	h := sessionHeader(0xF000, frame)
	h.PacketID = packet.IDLapData
	var ld packet.LapDataPacket
	ld.Laps[0] = packet.LapData{CurrentLapNum: 4, LastLapTimeMs: 90000, CarPosition: 1, ResultStatus: packet.ResultStatusActive}
	ld.Laps[1] = packet.LapData{CurrentLapNum: 4, LastLapTimeMs: 91000, CarPosition: 2, ResultStatus: packet.ResultStatusActive}
	m.Apply(packet.Packet{Header: h, LapData: &ld})

	stats := m.RaceStats()
	lap1 := stats.PositionsByLap[1]
	if lap1 == nil {
		t.Fatal("PositionsByLap[1] = nil, want a populated map")
	}
	if lap1[0] != 1 || lap1[1] != 2 {
		t.Errorf("PositionsByLap[1] = %v, want {0:1, 1:2}", lap1)
	}
}

func TestStaleFrameIsDropped(t *testing.T) {
	m := NewModel()
	withParticipants(m, 0xEEEE, 1)

	m.Apply(lapDataFor(0xEEEE, 10, 0, 3, 90000))
	m.Apply(lapDataFor(0xEEEE, 5, 0, 9, 1)) // stale, lower frame id

	snap := m.Snapshot()
	if snap.Drivers[0].CurrentLap.LapNumber != 3 {
		t.Errorf("CurrentLap.LapNumber = %d, want 3 (stale packet should have been dropped)", snap.Drivers[0].CurrentLap.LapNumber)
	}
}
