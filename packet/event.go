package packet

// EventDetail is a tagged union of the per-event-code payload. At most one
// field is populated, matching the code in EventPacket.Code; codes with no
// payload (SSTA, SEND, DRSE, DRSD, CHQF, RDFL) and unknown codes leave
// every field nil.
type EventDetail struct {
	FastestLap            *FastestLapEvent
	Retirement             *RetirementEvent
	TeamMateInPits        *TeamMateInPitsEvent
	RaceWinner             *RaceWinnerEvent
	Penalty                *PenaltyEvent
	SpeedTrap              *SpeedTrapEvent
	StartLights            *StartLightsEvent
	DriveThroughPenServed  *DriveThroughPenaltyServedEvent
	StopGoPenServed        *StopGoPenaltyServedEvent
	Flashback              *FlashbackEvent
	Buttons                *ButtonsEvent
	Overtake               *OvertakeEvent
	SafetyCarStatusChange  *SafetyCarEvent
	Collision              *CollisionEvent
}

type FastestLapEvent struct {
	VehicleIdx uint8
	LapTimeSec float32
}

type RetirementEvent struct {
	VehicleIdx uint8
	Reason     uint8
}

type TeamMateInPitsEvent struct {
	VehicleIdx uint8
}

type RaceWinnerEvent struct {
	VehicleIdx uint8
}

type PenaltyEvent struct {
	PenaltyType      PenaltyType
	InfringementType InfringementType
	VehicleIdx       uint8
	OtherVehicleIdx  uint8
	Time             uint8
	LapNum           uint8
	PlacesGained     uint8
}

type SpeedTrapEvent struct {
	VehicleIdx             uint8
	Speed                  float32
	IsOverallFastestInSession uint8
	IsDriverFastestInSession  uint8
	FastestVehicleIdxInSession uint8
	FastestSpeedInSession      float32
}

type StartLightsEvent struct {
	NumLights uint8
}

type DriveThroughPenaltyServedEvent struct {
	VehicleIdx uint8
}

type StopGoPenaltyServedEvent struct {
	VehicleIdx   uint8
	StopTimeSec  float32
}

type FlashbackEvent struct {
	FlashbackFrameIdentifier uint32
	FlashbackSessionTime     float32
}

type ButtonsEvent struct {
	ButtonStatus uint32
}

type OvertakeEvent struct {
	OvertakingVehicleIdx    uint8
	BeingOvertakenVehicleIdx uint8
}

type SafetyCarEvent struct {
	Status    SafetyCarStatus
	EventType uint8
}

type CollisionEvent struct {
	VehicleIdx1 uint8
	VehicleIdx2 uint8
}

// EventPacket is packet id 3.
type EventPacket struct {
	Header Header
	Code   string
	Detail EventDetail
}

func decodeEvent(h Header, body []byte) (EventPacket, error) {
	rd := newReader(body)
	var p EventPacket
	p.Header = h
	p.Code = rd.eventCode()
	if !rd.ok {
		return EventPacket{}, newDecodeError(ErrShortRead, IDEvent, "event code truncated")
	}

	switch p.Code {
	case "FTLP":
		p.Detail.FastestLap = &FastestLapEvent{VehicleIdx: rd.u8(), LapTimeSec: rd.f32()}
	case "RTMT":
		p.Detail.Retirement = &RetirementEvent{VehicleIdx: rd.u8()}
		if h.PacketFormat >= Format2025 {
			p.Detail.Retirement.Reason = rd.u8()
		}
	case "TMPT":
		p.Detail.TeamMateInPits = &TeamMateInPitsEvent{VehicleIdx: rd.u8()}
	case "RCWN":
		p.Detail.RaceWinner = &RaceWinnerEvent{VehicleIdx: rd.u8()}
	case "PENA":
		p.Detail.Penalty = &PenaltyEvent{
			PenaltyType:      decodePenaltyType(rd.u8()),
			InfringementType: decodeInfringementType(rd.u8()),
			VehicleIdx:       rd.u8(),
			OtherVehicleIdx:  rd.u8(),
			Time:             rd.u8(),
			LapNum:           rd.u8(),
			PlacesGained:     rd.u8(),
		}
	case "SPTP":
		p.Detail.SpeedTrap = &SpeedTrapEvent{
			VehicleIdx:                rd.u8(),
			Speed:                     rd.f32(),
			IsOverallFastestInSession: rd.u8(),
			IsDriverFastestInSession:  rd.u8(),
			FastestVehicleIdxInSession: rd.u8(),
			FastestSpeedInSession:      rd.f32(),
		}
	case "STLG":
		p.Detail.StartLights = &StartLightsEvent{NumLights: rd.u8()}
	case "DTSV":
		p.Detail.DriveThroughPenServed = &DriveThroughPenaltyServedEvent{VehicleIdx: rd.u8()}
	case "SGSV":
		p.Detail.StopGoPenServed = &StopGoPenaltyServedEvent{VehicleIdx: rd.u8()}
		if h.PacketFormat >= Format2025 {
			p.Detail.StopGoPenServed.StopTimeSec = rd.f32()
		}
	case "FLBK":
		p.Detail.Flashback = &FlashbackEvent{
			FlashbackFrameIdentifier: rd.u32(),
			FlashbackSessionTime:     rd.f32(),
		}
	case "BUTN":
		p.Detail.Buttons = &ButtonsEvent{ButtonStatus: rd.u32()}
	case "OVTK":
		p.Detail.Overtake = &OvertakeEvent{
			OvertakingVehicleIdx:     rd.u8(),
			BeingOvertakenVehicleIdx: rd.u8(),
		}
	case "SCAR":
		p.Detail.SafetyCarStatusChange = &SafetyCarEvent{
			Status:    SafetyCarStatus(rd.u8()),
			EventType: rd.u8(),
		}
	case "COLL":
		p.Detail.Collision = &CollisionEvent{VehicleIdx1: rd.u8(), VehicleIdx2: rd.u8()}
	case "SSTA", "SEND", "DRSE", "DRSD", "CHQF", "RDFL":
		// no payload beyond the code
	default:
		// unknown/forward-compatible event code: the code is still returned
		// and the raw packet continues on to forwarders untouched.
	}

	if !rd.ok {
		return EventPacket{}, newDecodeError(ErrShortRead, IDEvent, "event payload truncated for code "+p.Code)
	}
	return p, nil
}
