package racemodel

import "github.com/psybedev/f1telemetry/packet"

// applyParticipants installs the car-index -> identity mapping, which is
// immutable for the rest of the session once set (spec §3 invariant).
func applyParticipants(s *staging, p packet.ParticipantsPacket) {
	s.NumDrivers = p.NumActiveCars
	for i := uint8(0); i < p.NumActiveCars && int(i) < len(p.Participants); i++ {
		d := p.Participants[i]
		s.Drivers[i].Participant = Participant{
			CarIndex:         i,
			Name:             d.Name,
			TeamID:           d.TeamID,
			RaceNumber:       d.RaceNumber,
			Nationality:      d.Nationality,
			IsPlayer:         i == p.Header.PlayerCarIndex,
			IsAI:             d.AIControlled == 1,
			TelemetryVisible: d.YourTelemetry == 1,
		}
		if s.Drivers[i].State == "" {
			s.Drivers[i].State = DriverRacing
		}
	}
}
