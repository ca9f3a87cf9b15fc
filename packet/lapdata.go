package packet

// LapData is one car's lap-progression state within a LapData packet.
type LapData struct {
	LastLapTimeMs       uint32
	CurrentLapTimeMs    uint32
	Sector1TimeMs       uint16
	Sector1TimeMinutes  uint8
	Sector2TimeMs       uint16
	Sector2TimeMinutes  uint8
	DeltaToCarInFrontMs uint16
	DeltaToRaceLeaderMs uint16
	LapDistance         float32
	TotalDistance       float32
	SafetyCarDelta      float32
	CarPosition         uint8
	CurrentLapNum       uint8
	PitStatus           PitStatus
	NumPitStops         uint8
	Sector              uint8
	CurrentLapInvalid   uint8
	Penalties           uint8
	TotalWarnings       uint8
	CornerCuttingWarnings uint8
	NumUnservedDriveThroughPens uint8
	NumUnservedStopGoPens       uint8
	GridPosition        uint8
	DriverStatus        uint8
	ResultStatus        ResultStatus
	PitLaneTimerActive  uint8
	PitLaneTimeInLaneMs uint16
	PitStopTimerMs      uint16
	PitStopShouldServePen uint8
	SpeedTrapFastestSpeed float32
	SpeedTrapFastestLap   uint8
}

// LapDataPacket is packet id 2.
type LapDataPacket struct {
	Header              Header
	Laps                [numCars]LapData
	TimeTrialPBCarIdx   uint8
	TimeTrialRivalCarIdx uint8
}

func decodeLapData(h Header, body []byte) (LapDataPacket, error) {
	rd := newReader(body)
	var p LapDataPacket
	p.Header = h

	for i := range p.Laps {
		l := &p.Laps[i]
		l.LastLapTimeMs = rd.u32()
		l.CurrentLapTimeMs = rd.u32()
		l.Sector1TimeMs = rd.u16()
		l.Sector1TimeMinutes = rd.u8()
		l.Sector2TimeMs = rd.u16()
		l.Sector2TimeMinutes = rd.u8()
		l.DeltaToCarInFrontMs = rd.u16()
		l.DeltaToRaceLeaderMs = rd.u16()
		l.LapDistance = rd.f32()
		l.TotalDistance = rd.f32()
		l.SafetyCarDelta = rd.f32()
		l.CarPosition = rd.u8()
		l.CurrentLapNum = rd.u8()
		l.PitStatus = PitStatus(rd.u8())
		l.NumPitStops = rd.u8()
		l.Sector = rd.u8()
		l.CurrentLapInvalid = rd.u8()
		l.Penalties = rd.u8()
		l.TotalWarnings = rd.u8()
		l.CornerCuttingWarnings = rd.u8()
		l.NumUnservedDriveThroughPens = rd.u8()
		l.NumUnservedStopGoPens = rd.u8()
		l.GridPosition = rd.u8()
		l.DriverStatus = rd.u8()
		l.ResultStatus = ResultStatus(rd.u8())
		l.PitLaneTimerActive = rd.u8()
		l.PitLaneTimeInLaneMs = rd.u16()
		l.PitStopTimerMs = rd.u16()
		l.PitStopShouldServePen = rd.u8()
		if h.PacketFormat >= Format2025 {
			l.SpeedTrapFastestSpeed = rd.f32()
			l.SpeedTrapFastestLap = rd.u8()
		}
	}
	p.TimeTrialPBCarIdx = rd.u8()
	p.TimeTrialRivalCarIdx = rd.u8()

	if !rd.ok {
		return LapDataPacket{}, newDecodeError(ErrShortRead, IDLapData, "lap-data payload truncated")
	}
	return p, nil
}
