package packet

// CarStatusData is one car's consumables/systems snapshot.
type CarStatusData struct {
	TractionControl        uint8
	AntiLockBrakes         uint8
	FuelMix                FuelMix
	FrontBrakeBias         uint8
	PitLimiterStatus       uint8
	FuelInTank             float32
	FuelCapacity           float32
	FuelRemainingLaps      float32
	MaxRPM                 uint16
	IdleRPM                uint16
	MaxGears               uint8
	DRSAllowed             uint8
	DRSActivationDistance  uint16
	ActualTyreCompound     TyreCompound
	VisualTyreCompound     VisualTyreCompound
	TyresAgeLaps           uint8
	VehicleFIAFlags        int8
	ERSStoreEnergy         float32
	ERSDeployMode          ERSDeployMode
	ERSHarvestedThisLapMGUK float32
	ERSHarvestedThisLapMGUH float32
	ERSDeployedThisLap     float32
	NetworkPaused          uint8
}

// CarStatusPacket is packet id 7.
type CarStatusPacket struct {
	Header Header
	Cars   [numCars]CarStatusData
}

func decodeCarStatus(h Header, body []byte) (CarStatusPacket, error) {
	rd := newReader(body)
	var p CarStatusPacket
	p.Header = h
	for i := range p.Cars {
		c := &p.Cars[i]
		c.TractionControl = rd.u8()
		c.AntiLockBrakes = rd.u8()
		c.FuelMix = FuelMix(rd.u8())
		c.FrontBrakeBias = rd.u8()
		c.PitLimiterStatus = rd.u8()
		c.FuelInTank = rd.f32()
		c.FuelCapacity = rd.f32()
		c.FuelRemainingLaps = rd.f32()
		c.MaxRPM = rd.u16()
		c.IdleRPM = rd.u16()
		c.MaxGears = rd.u8()
		c.DRSAllowed = rd.u8()
		c.DRSActivationDistance = rd.u16()
		c.ActualTyreCompound = decodeTyreCompound(h.PacketFormat, rd.u8())
		c.VisualTyreCompound = decodeVisualCompound(rd.u8())
		c.TyresAgeLaps = rd.u8()
		c.VehicleFIAFlags = rd.i8()
		c.ERSStoreEnergy = rd.f32()
		c.ERSDeployMode = ERSDeployMode(rd.u8())
		c.ERSHarvestedThisLapMGUK = rd.f32()
		c.ERSHarvestedThisLapMGUH = rd.f32()
		c.ERSDeployedThisLap = rd.f32()
		if h.PacketFormat >= Format2024 {
			c.NetworkPaused = rd.u8()
		}
	}
	if !rd.ok {
		return CarStatusPacket{}, newDecodeError(ErrShortRead, IDCarStatus, "car-status payload truncated")
	}
	return p, nil
}
