package packet

import (
	"bytes"
	"encoding/binary"
)

// writer is the encode-side counterpart of reader, following the same
// short-circuit "ok" idiom so Encode* functions read as a flat sequence of
// writes.
type writer struct {
	buf *bytes.Buffer
	ok  bool
}

func newWriter() *writer {
	return &writer{buf: new(bytes.Buffer), ok: true}
}

func (w *writer) write(v any) {
	if !w.ok {
		return
	}
	if err := binary.Write(w.buf, binary.LittleEndian, v); err != nil {
		w.ok = false
	}
}

func (w *writer) fixedString(s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	w.write(b)
}

// EncodeHeader serializes a Header back to its 29-byte wire form, the
// inverse of decodeHeader.
func EncodeHeader(h Header) []byte {
	w := newWriter()
	w.write(uint16(h.PacketFormat))
	w.write(h.GameYear)
	w.write(h.GameMajorVersion)
	w.write(h.GameMinorVersion)
	w.write(h.PacketVersion)
	w.write(uint8(h.PacketID))
	w.write(h.SessionUID)
	w.write(h.SessionTime)
	w.write(h.FrameIdentifier)
	w.write(h.OverallFrameIdentifier)
	w.write(h.PlayerCarIndex)
	w.write(h.SecondaryPlayerCarIndex)
	return w.buf.Bytes()
}

// EncodeMotion serializes a MotionPacket back to wire form.
func EncodeMotion(p MotionPacket) []byte {
	w := newWriter()
	for _, c := range p.Cars {
		w.write(c.WorldPositionX)
		w.write(c.WorldPositionY)
		w.write(c.WorldPositionZ)
		w.write(c.WorldVelocityX)
		w.write(c.WorldVelocityY)
		w.write(c.WorldVelocityZ)
		w.write(c.WorldForwardDirX)
		w.write(c.WorldForwardDirY)
		w.write(c.WorldForwardDirZ)
		w.write(c.WorldRightDirX)
		w.write(c.WorldRightDirY)
		w.write(c.WorldRightDirZ)
		w.write(c.GForceLateral)
		w.write(c.GForceLongitudinal)
		w.write(c.GForceVertical)
		w.write(c.Yaw)
		w.write(c.Pitch)
		w.write(c.Roll)
	}
	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeParticipants serializes a ParticipantsPacket back to wire form for
// the given format year (string/optional-field widths depend on it).
func EncodeParticipants(p ParticipantsPacket) []byte {
	w := newWriter()
	w.write(p.NumActiveCars)
	for _, d := range p.Participants {
		w.write(d.AIControlled)
		w.write(d.DriverID)
		if p.Header.PacketFormat >= Format2024 {
			w.write(d.NetworkID)
		}
		w.write(d.TeamID)
		w.write(d.MyTeam)
		w.write(d.RaceNumber)
		w.write(d.Nationality)
		w.fixedString(d.Name, nameFieldLength)
		w.write(d.YourTelemetry)
		w.write(d.ShowOnlineNames)
		if p.Header.PacketFormat >= Format2025 {
			w.write(d.TechLevel)
		}
		w.write(d.Platform)
	}
	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeMotionEx serializes a MotionExPacket back to wire form.
func EncodeMotionEx(p MotionExPacket) []byte {
	w := newWriter()
	writeQuad := func(src [4]float32) {
		for _, v := range src {
			w.write(v)
		}
	}
	writeQuad(p.SuspensionPosition)
	writeQuad(p.SuspensionVelocity)
	writeQuad(p.SuspensionAcceleration)
	writeQuad(p.WheelSpeed)
	writeQuad(p.WheelSlipRatio)
	writeQuad(p.WheelSlipAngle)
	writeQuad(p.WheelLatForce)
	writeQuad(p.WheelLongForce)
	w.write(p.HeightOfCOGAboveGround)
	w.write(p.LocalVelocityX)
	w.write(p.LocalVelocityY)
	w.write(p.LocalVelocityZ)
	w.write(p.AngularVelocityX)
	w.write(p.AngularVelocityY)
	w.write(p.AngularVelocityZ)
	w.write(p.AngularAccelerationX)
	w.write(p.AngularAccelerationY)
	w.write(p.AngularAccelerationZ)
	w.write(p.FrontWheelsAngle)
	if p.Header.PacketFormat >= Format2024 {
		writeQuad(p.WheelVertForce)
	}
	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeSession serializes a SessionPacket back to wire form.
func EncodeSession(p SessionPacket) []byte {
	w := newWriter()
	w.write(p.Weather.Raw)
	w.write(p.TrackTemperature)
	w.write(p.AirTemperature)
	w.write(p.TotalLaps)
	w.write(p.TrackLength)
	w.write(p.SessionType.Raw)
	w.write(p.TrackID)
	w.write(p.Formula)
	w.write(p.SessionTimeLeft)
	w.write(p.SessionDuration)
	w.write(p.PitSpeedLimit)
	w.write(p.GamePaused)
	w.write(p.IsSpectating)
	w.write(p.SpectatorCarIndex)
	w.write(p.SLIProNativeSupport)

	w.write(uint8(len(p.MarshalZones)))
	for i := 0; i < maxMarshalZones; i++ {
		var z MarshalZone
		if i < len(p.MarshalZones) {
			z = p.MarshalZones[i]
		}
		w.write(z.ZoneStart)
		w.write(z.ZoneFlag)
	}

	w.write(uint8(p.SafetyCarStatus))
	w.write(p.NetworkGame)

	w.write(uint8(len(p.WeatherForecast)))
	for i := 0; i < maxWeatherSamples; i++ {
		var s WeatherForecastSample
		if i < len(p.WeatherForecast) {
			s = p.WeatherForecast[i]
		}
		w.write(s.SessionType.Raw)
		w.write(s.TimeOffsetMinutes)
		w.write(s.Weather.Raw)
		w.write(s.TrackTemperature)
		w.write(s.AirTemperature)
		w.write(s.RainPercentage)
	}

	w.write(p.PitStopWindowStart)
	w.write(p.PitStopWindowLength)
	w.write(p.SessionLength)

	if p.Header.PacketFormat >= Format2024 {
		w.write(p.PitSpeedLimitKph)
		w.write(uint8(0))
	}

	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeLapData serializes a LapDataPacket back to wire form.
func EncodeLapData(p LapDataPacket) []byte {
	w := newWriter()
	for _, l := range p.Laps {
		w.write(l.LastLapTimeMs)
		w.write(l.CurrentLapTimeMs)
		w.write(l.Sector1TimeMs)
		w.write(l.Sector1TimeMinutes)
		w.write(l.Sector2TimeMs)
		w.write(l.Sector2TimeMinutes)
		w.write(l.DeltaToCarInFrontMs)
		w.write(l.DeltaToRaceLeaderMs)
		w.write(l.LapDistance)
		w.write(l.TotalDistance)
		w.write(l.SafetyCarDelta)
		w.write(l.CarPosition)
		w.write(l.CurrentLapNum)
		w.write(uint8(l.PitStatus))
		w.write(l.NumPitStops)
		w.write(l.Sector)
		w.write(l.CurrentLapInvalid)
		w.write(l.Penalties)
		w.write(l.TotalWarnings)
		w.write(l.CornerCuttingWarnings)
		w.write(l.NumUnservedDriveThroughPens)
		w.write(l.NumUnservedStopGoPens)
		w.write(l.GridPosition)
		w.write(l.DriverStatus)
		w.write(uint8(l.ResultStatus))
		w.write(l.PitLaneTimerActive)
		w.write(l.PitLaneTimeInLaneMs)
		w.write(l.PitStopTimerMs)
		w.write(l.PitStopShouldServePen)
		if p.Header.PacketFormat >= Format2025 {
			w.write(l.SpeedTrapFastestSpeed)
			w.write(l.SpeedTrapFastestLap)
		}
	}
	w.write(p.TimeTrialPBCarIdx)
	w.write(p.TimeTrialRivalCarIdx)
	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeEvent serializes an EventPacket back to wire form.
func EncodeEvent(p EventPacket) []byte {
	w := newWriter()
	w.fixedString(p.Code, 4)

	switch p.Code {
	case "FTLP":
		if e := p.Detail.FastestLap; e != nil {
			w.write(e.VehicleIdx)
			w.write(e.LapTimeSec)
		}
	case "RTMT":
		if e := p.Detail.Retirement; e != nil {
			w.write(e.VehicleIdx)
			if p.Header.PacketFormat >= Format2025 {
				w.write(e.Reason)
			}
		}
	case "TMPT":
		if e := p.Detail.TeamMateInPits; e != nil {
			w.write(e.VehicleIdx)
		}
	case "RCWN":
		if e := p.Detail.RaceWinner; e != nil {
			w.write(e.VehicleIdx)
		}
	case "PENA":
		if e := p.Detail.Penalty; e != nil {
			w.write(e.PenaltyType.Raw)
			w.write(e.InfringementType.Raw)
			w.write(e.VehicleIdx)
			w.write(e.OtherVehicleIdx)
			w.write(e.Time)
			w.write(e.LapNum)
			w.write(e.PlacesGained)
		}
	case "SPTP":
		if e := p.Detail.SpeedTrap; e != nil {
			w.write(e.VehicleIdx)
			w.write(e.Speed)
			w.write(e.IsOverallFastestInSession)
			w.write(e.IsDriverFastestInSession)
			w.write(e.FastestVehicleIdxInSession)
			w.write(e.FastestSpeedInSession)
		}
	case "STLG":
		if e := p.Detail.StartLights; e != nil {
			w.write(e.NumLights)
		}
	case "DTSV":
		if e := p.Detail.DriveThroughPenServed; e != nil {
			w.write(e.VehicleIdx)
		}
	case "SGSV":
		if e := p.Detail.StopGoPenServed; e != nil {
			w.write(e.VehicleIdx)
			if p.Header.PacketFormat >= Format2025 {
				w.write(e.StopTimeSec)
			}
		}
	case "FLBK":
		if e := p.Detail.Flashback; e != nil {
			w.write(e.FlashbackFrameIdentifier)
			w.write(e.FlashbackSessionTime)
		}
	case "BUTN":
		if e := p.Detail.Buttons; e != nil {
			w.write(e.ButtonStatus)
		}
	case "OVTK":
		if e := p.Detail.Overtake; e != nil {
			w.write(e.OvertakingVehicleIdx)
			w.write(e.BeingOvertakenVehicleIdx)
		}
	case "SCAR":
		if e := p.Detail.SafetyCarStatusChange; e != nil {
			w.write(uint8(e.Status))
			w.write(e.EventType)
		}
	case "COLL":
		if e := p.Detail.Collision; e != nil {
			w.write(e.VehicleIdx1)
			w.write(e.VehicleIdx2)
		}
	default:
		// no payload beyond the code, known or otherwise
	}

	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeCarSetups serializes a CarSetupsPacket back to wire form.
func EncodeCarSetups(p CarSetupsPacket) []byte {
	w := newWriter()
	for _, s := range p.Setups {
		w.write(s.FrontWing)
		w.write(s.RearWing)
		w.write(s.OnThrottle)
		w.write(s.OffThrottle)
		w.write(s.FrontCamber)
		w.write(s.RearCamber)
		w.write(s.FrontToe)
		w.write(s.RearToe)
		w.write(s.FrontSuspension)
		w.write(s.RearSuspension)
		w.write(s.FrontAntiRollBar)
		w.write(s.RearAntiRollBar)
		w.write(s.FrontSuspensionHeight)
		w.write(s.RearSuspensionHeight)
		w.write(s.BrakePressure)
		w.write(s.BrakeBias)
		w.write(s.RearLeftTyrePressure)
		w.write(s.RearRightTyrePressure)
		w.write(s.FrontLeftTyrePressure)
		w.write(s.FrontRightTyrePressure)
		w.write(s.Ballast)
		w.write(s.FuelLoad)
	}
	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeCarTelemetry serializes a CarTelemetryPacket back to wire form.
func EncodeCarTelemetry(p CarTelemetryPacket) []byte {
	w := newWriter()
	for _, c := range p.Cars {
		w.write(c.Speed)
		w.write(c.Throttle)
		w.write(c.Steer)
		w.write(c.Brake)
		w.write(c.Clutch)
		w.write(c.Gear)
		w.write(c.EngineRPM)
		w.write(c.DRS)
		w.write(c.RevLightsPercent)
		w.write(c.RevLightsBitValue)
		for _, v := range c.BrakesTemperature {
			w.write(v)
		}
		for _, v := range c.TyresSurfaceTemperature {
			w.write(v)
		}
		for _, v := range c.TyresInnerTemperature {
			w.write(v)
		}
		w.write(c.EngineTemperature)
		for _, v := range c.TyresPressure {
			w.write(v)
		}
		for _, v := range c.SurfaceType {
			w.write(uint8(v))
		}
	}
	w.write(p.MFDPanelIndex)
	w.write(p.MFDPanelIndexSecondaryPlayer)
	w.write(p.SuggestedGear)
	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeCarStatus serializes a CarStatusPacket back to wire form.
func EncodeCarStatus(p CarStatusPacket) []byte {
	w := newWriter()
	for _, c := range p.Cars {
		w.write(c.TractionControl)
		w.write(c.AntiLockBrakes)
		w.write(uint8(c.FuelMix))
		w.write(c.FrontBrakeBias)
		w.write(c.PitLimiterStatus)
		w.write(c.FuelInTank)
		w.write(c.FuelCapacity)
		w.write(c.FuelRemainingLaps)
		w.write(c.MaxRPM)
		w.write(c.IdleRPM)
		w.write(c.MaxGears)
		w.write(c.DRSAllowed)
		w.write(c.DRSActivationDistance)
		w.write(c.ActualTyreCompound.Raw)
		w.write(c.VisualTyreCompound.Raw)
		w.write(c.TyresAgeLaps)
		w.write(c.VehicleFIAFlags)
		w.write(c.ERSStoreEnergy)
		w.write(uint8(c.ERSDeployMode))
		w.write(c.ERSHarvestedThisLapMGUK)
		w.write(c.ERSHarvestedThisLapMGUH)
		w.write(c.ERSDeployedThisLap)
		if p.Header.PacketFormat >= Format2024 {
			w.write(c.NetworkPaused)
		}
	}
	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeFinalClassification serializes a FinalClassificationPacket back to
// wire form.
func EncodeFinalClassification(p FinalClassificationPacket) []byte {
	w := newWriter()
	w.write(p.NumCars)
	for _, d := range p.Classification {
		w.write(d.Position)
		w.write(d.NumLaps)
		w.write(d.GridPosition)
		w.write(d.Points)
		w.write(d.NumPitStops)
		w.write(uint8(d.ResultStatus))
		if p.Header.PacketFormat >= Format2025 {
			w.write(d.ResultReason)
		}
		w.write(d.BestLapTimeMs)
		w.write(d.TotalRaceTimeSec)
		w.write(d.PenaltiesTimeSec)
		w.write(d.NumPenalties)
		w.write(d.NumTyreStints)
		for _, c := range d.TyreStintsActual {
			w.write(c.Raw)
		}
		for _, c := range d.TyreStintsVisual {
			w.write(c.Raw)
		}
		for _, v := range d.TyreStintsEndLaps {
			w.write(v)
		}
	}
	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeLobbyInfo serializes a LobbyInfoPacket back to wire form.
func EncodeLobbyInfo(p LobbyInfoPacket) []byte {
	w := newWriter()
	w.write(p.NumPlayers)
	for _, pl := range p.Players {
		w.write(pl.AIControlled)
		w.write(pl.TeamID)
		w.write(pl.Nationality)
		w.write(pl.Platform)
		w.fixedString(pl.Name, nameFieldLength)
		w.write(pl.CarNumber)
		w.write(pl.ReadyStatus)
	}
	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeCarDamage serializes a CarDamagePacket back to wire form.
func EncodeCarDamage(p CarDamagePacket) []byte {
	w := newWriter()
	for _, c := range p.Cars {
		for _, v := range c.TyresWear {
			w.write(v)
		}
		for _, v := range c.TyresDamage {
			w.write(v)
		}
		for _, v := range c.BrakesDamage {
			w.write(v)
		}
		w.write(c.FrontLeftWingDamage)
		w.write(c.FrontRightWingDamage)
		w.write(c.RearWingDamage)
		w.write(c.FloorDamage)
		w.write(c.DiffuserDamage)
		w.write(c.SidepodDamage)
		w.write(c.DRSFault)
		w.write(c.ERSFault)
		w.write(c.GearBoxDamage)
		w.write(c.EngineDamage)
		w.write(c.EngineMGUHWear)
		w.write(c.EngineESWear)
		w.write(c.EngineCEWear)
		w.write(c.EngineICEWear)
		w.write(c.EngineMGUKWear)
		w.write(c.EngineTCWear)
		w.write(c.EngineBlown)
		w.write(c.EngineSeized)
	}
	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeSessionHistory serializes a SessionHistoryPacket back to wire form.
// The lap-history and tyre-stint slices are padded back out to their fixed
// on-wire capacity (maxLapHistory/maxTyreStintsHistory), matching the
// decoder's own fixed-iteration read.
func EncodeSessionHistory(p SessionHistoryPacket) []byte {
	w := newWriter()
	w.write(p.CarIdx)
	w.write(p.NumLaps)
	w.write(p.NumTyreStints)
	w.write(p.BestLapTimeLapNum)
	w.write(p.BestSector1LapNum)
	w.write(p.BestSector2LapNum)
	w.write(p.BestSector3LapNum)

	for i := 0; i < maxLapHistory; i++ {
		var lap LapHistoryData
		if i < len(p.LapHistory) {
			lap = p.LapHistory[i]
		}
		w.write(lap.LapTimeMs)
		w.write(lap.Sector1TimeMs)
		w.write(lap.Sector1TimeMinutes)
		w.write(lap.Sector2TimeMs)
		w.write(lap.Sector2TimeMinutes)
		w.write(lap.Sector3TimeMs)
		w.write(lap.Sector3TimeMinutes)
		w.write(lap.LapValidBitFlags)
	}

	for i := 0; i < maxTyreStintsHistory; i++ {
		var stint TyreStintHistoryData
		if i < len(p.TyreStintsHistory) {
			stint = p.TyreStintsHistory[i]
		}
		w.write(stint.EndLap)
		w.write(stint.TyreActualCompound.Raw)
		w.write(stint.TyreVisualCompound.Raw)
	}

	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeTyreSets serializes a TyreSetsPacket back to wire form.
func EncodeTyreSets(p TyreSetsPacket) []byte {
	w := newWriter()
	w.write(p.CarIdx)
	for _, s := range p.TyreSets {
		w.write(s.ActualCompound.Raw)
		w.write(s.VisualCompound.Raw)
		w.write(s.Wear)
		w.write(s.Available)
		w.write(s.RecommendedSession)
		w.write(s.LifeSpan)
		w.write(s.UsableLife)
		w.write(s.LapDeltaTime)
		w.write(s.Fitted)
	}
	w.write(p.FittedIdx)
	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// EncodeTimeTrial serializes a TimeTrialPacket back to wire form.
func EncodeTimeTrial(p TimeTrialPacket) []byte {
	w := newWriter()
	writeSet := func(s TimeTrialDataSet) {
		w.write(s.CarIdx)
		w.write(s.TeamID)
		w.write(s.LapTimeMs)
		w.write(s.Sector1TimeMs)
		w.write(s.Sector2TimeMs)
		w.write(s.Sector3TimeMs)
		w.write(s.TractionControl)
		w.write(s.GearboxAssist)
		w.write(s.AntiLockBrakes)
		w.write(s.EqualCarPerformance)
		w.write(s.CustomSetup)
		w.write(s.Valid)
	}
	writeSet(p.PlayerSession)
	writeSet(p.PersonalBest)
	writeSet(p.Rival)
	return append(EncodeHeader(p.Header), w.buf.Bytes()...)
}

// Encode re-serializes a decoded Packet back to its original wire form,
// dispatching on whichever typed field is populated, so that Decode of its
// output yields the same Packet. The archive package does not call it: it
// writes JSON/YAML documents and raw capture bytes.
func Encode(p Packet) []byte {
	switch {
	case p.Motion != nil:
		return EncodeMotion(*p.Motion)
	case p.Session != nil:
		return EncodeSession(*p.Session)
	case p.LapData != nil:
		return EncodeLapData(*p.LapData)
	case p.Event != nil:
		return EncodeEvent(*p.Event)
	case p.Participants != nil:
		return EncodeParticipants(*p.Participants)
	case p.CarSetups != nil:
		return EncodeCarSetups(*p.CarSetups)
	case p.CarTelemetry != nil:
		return EncodeCarTelemetry(*p.CarTelemetry)
	case p.CarStatus != nil:
		return EncodeCarStatus(*p.CarStatus)
	case p.FinalClassification != nil:
		return EncodeFinalClassification(*p.FinalClassification)
	case p.LobbyInfo != nil:
		return EncodeLobbyInfo(*p.LobbyInfo)
	case p.CarDamage != nil:
		return EncodeCarDamage(*p.CarDamage)
	case p.SessionHistory != nil:
		return EncodeSessionHistory(*p.SessionHistory)
	case p.TyreSets != nil:
		return EncodeTyreSets(*p.TyreSets)
	case p.MotionEx != nil:
		return EncodeMotionEx(*p.MotionEx)
	case p.TimeTrial != nil:
		return EncodeTimeTrial(*p.TimeTrial)
	default:
		return EncodeHeader(p.Header)
	}
}
