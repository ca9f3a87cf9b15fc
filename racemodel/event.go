package racemodel

import "github.com/psybedev/f1telemetry/packet"

// applyEvent handles the Event packet's per-code payload: collisions
// (de-duplicated), penalties (recorded as warnings), and retirements/DSQ
// (terminal state transitions). Event codes with no model-visible effect
// (DRS toggles, chequered flag, etc.) are accepted and ignored.
func applyEvent(s *staging, p packet.EventPacket) {
	switch {
	case p.Detail.Collision != nil:
		recordCollision(s, *p.Detail.Collision)
	case p.Detail.Penalty != nil:
		recordPenalty(s, *p.Detail.Penalty)
	case p.Detail.Retirement != nil:
		setTerminal(s, p.Detail.Retirement.VehicleIdx, DriverRetired)
	}
}

// recordCollision de-duplicates by the ordered-pair-plus-lap fingerprint
// (spec §4.3.4): repeated fires within the same lap for the same pair are
// coalesced into one record.
func recordCollision(s *staging, ev packet.CollisionEvent) {
	lower := ev.VehicleIdx1
	if ev.VehicleIdx2 < lower {
		lower = ev.VehicleIdx2
	}
	lap := uint8(0)
	if int(lower) < len(s.Drivers) {
		lap = s.Drivers[lower].CurrentLap.LapNumber
	}
	i, j, l := collisionKey(ev.VehicleIdx1, ev.VehicleIdx2, lap)
	for _, c := range s.Collisions {
		if c.CarIndex1 == i && c.CarIndex2 == j && c.Lap == l {
			return
		}
	}
	s.Collisions = append(s.Collisions, Collision{CarIndex1: i, CarIndex2: j, Lap: l})
}

func recordPenalty(s *staging, ev packet.PenaltyEvent) {
	if int(ev.VehicleIdx) >= len(s.Drivers) {
		return
	}
	d := &s.Drivers[ev.VehicleIdx]
	d.Warnings = append(d.Warnings, WarningPenalty{
		CarIndex: ev.VehicleIdx,
		Lap:      ev.LapNum,
		Kind:     ev.PenaltyType,
		NewValue: ev.Time,
	})
	if ev.PenaltyType.Name == "disqualified" {
		d.State = DriverDSQ
	}
}

func setTerminal(s *staging, carIdx uint8, state DriverState) {
	if int(carIdx) >= len(s.Drivers) {
		return
	}
	s.Drivers[carIdx].State = state
}

// AddCustomMarker appends a user/external-command-triggered bookmark,
// driven by the ingress listener observing the configured
// --udp-custom-action-code, not by a standard packet kind.
func (m *Model) AddCustomMarker(carIdx uint8, trackID int8) {
	s := m.newStaging()
	if int(carIdx) >= len(s.Drivers) {
		m.commit(s)
		return
	}
	d := s.Drivers[carIdx]
	s.CustomMarkers = append(s.CustomMarkers, CustomMarker{
		CarIndex:     carIdx,
		Lap:          d.CurrentLap.LapNumber,
		EventType:    "custom-marker",
		Track:        trackID,
		CurrentLapMs: d.CurrentLap.Sector1Ms + d.CurrentLap.Sector2Ms,
	})
	m.commit(s)
}
