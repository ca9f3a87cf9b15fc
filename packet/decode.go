// Package packet decodes the F1-series game's fixed-layout little-endian
// UDP telemetry packets (format years 2023-2025) into version-neutral Go
// values, and re-encodes the subset needed for session-archive round trips.
package packet

// Packet is the decoded result of Decode: exactly one of the typed fields
// is non-nil, selected by Header.PacketID.
type Packet struct {
	Header Header

	Motion              *MotionPacket
	Session             *SessionPacket
	LapData             *LapDataPacket
	Event               *EventPacket
	Participants        *ParticipantsPacket
	CarSetups           *CarSetupsPacket
	CarTelemetry        *CarTelemetryPacket
	CarStatus           *CarStatusPacket
	FinalClassification *FinalClassificationPacket
	LobbyInfo           *LobbyInfoPacket
	CarDamage           *CarDamagePacket
	SessionHistory      *SessionHistoryPacket
	TyreSets            *TyreSetsPacket
	MotionEx            *MotionExPacket
	TimeTrial           *TimeTrialPacket
}

// Decode parses a single UDP datagram. It never panics: malformed input
// always comes back as a *DecodeError, never a partial Packet.
func Decode(data []byte) (Packet, error) {
	h, body, err := decodeHeader(data)
	if err != nil {
		return Packet{}, err
	}

	var p Packet
	p.Header = h

	switch h.PacketID {
	case IDMotion:
		v, err := decodeMotion(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.Motion = &v
	case IDSession:
		v, err := decodeSession(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.Session = &v
	case IDLapData:
		v, err := decodeLapData(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.LapData = &v
	case IDEvent:
		v, err := decodeEvent(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.Event = &v
	case IDParticipants:
		v, err := decodeParticipants(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.Participants = &v
	case IDCarSetups:
		v, err := decodeCarSetups(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.CarSetups = &v
	case IDCarTelemetry:
		v, err := decodeCarTelemetry(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.CarTelemetry = &v
	case IDCarStatus:
		v, err := decodeCarStatus(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.CarStatus = &v
	case IDFinalClassification:
		v, err := decodeFinalClassification(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.FinalClassification = &v
	case IDLobbyInfo:
		v, err := decodeLobbyInfo(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.LobbyInfo = &v
	case IDCarDamage:
		v, err := decodeCarDamage(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.CarDamage = &v
	case IDSessionHistory:
		v, err := decodeSessionHistory(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.SessionHistory = &v
	case IDTyreSets:
		v, err := decodeTyreSets(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.TyreSets = &v
	case IDMotionEx:
		v, err := decodeMotionEx(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.MotionEx = &v
	case IDTimeTrial:
		v, err := decodeTimeTrial(h, body)
		if err != nil {
			return Packet{}, err
		}
		p.TimeTrial = &v
	default:
		return Packet{}, newDecodeError(ErrUnknownPacketID, h.PacketID, "no decoder registered for this packet id")
	}

	return p, nil
}

// IsPhysicsClass reports whether id names a high-rate, droppable-under-load
// packet kind (spec §4.2: motion/car-telemetry/motion-ex may be dropped
// first on ingress backpressure; everything else is state-class and is
// never dropped).
func (id PacketID) IsPhysicsClass() bool {
	switch id {
	case IDMotion, IDCarTelemetry, IDMotionEx:
		return true
	default:
		return false
	}
}
