package packet

// ParticipantData is the static (per-session) identity of one car.
type ParticipantData struct {
	AIControlled        uint8
	DriverID            uint8
	NetworkID           uint8
	TeamID               uint8
	MyTeam               uint8
	RaceNumber           uint8
	Nationality          uint8
	Name                 string
	YourTelemetry        uint8
	ShowOnlineNames      uint8
	TechLevel            uint16
	Platform             uint8
}

const nameFieldLength = 48

// ParticipantsPacket is packet id 4.
type ParticipantsPacket struct {
	Header       Header
	NumActiveCars uint8
	Participants [numCars]ParticipantData
}

func decodeParticipants(h Header, body []byte) (ParticipantsPacket, error) {
	rd := newReader(body)
	var p ParticipantsPacket
	p.Header = h
	p.NumActiveCars = rd.u8()
	for i := range p.Participants {
		d := &p.Participants[i]
		d.AIControlled = rd.u8()
		d.DriverID = rd.u8()
		if h.PacketFormat >= Format2024 {
			d.NetworkID = rd.u8()
		}
		d.TeamID = rd.u8()
		d.MyTeam = rd.u8()
		d.RaceNumber = rd.u8()
		d.Nationality = rd.u8()
		d.Name = rd.fixedString(nameFieldLength)
		d.YourTelemetry = rd.u8()
		d.ShowOnlineNames = rd.u8()
		if h.PacketFormat >= Format2025 {
			d.TechLevel = rd.u16()
		}
		d.Platform = rd.u8()
	}
	if !rd.ok {
		return ParticipantsPacket{}, newDecodeError(ErrShortRead, IDParticipants, "participants payload truncated")
	}
	return p, nil
}
