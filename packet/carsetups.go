package packet

// CarSetupData is one car's active setup sheet.
type CarSetupData struct {
	FrontWing, RearWing               uint8
	OnThrottle, OffThrottle            uint8
	FrontCamber, RearCamber            float32
	FrontToe, RearToe                  float32
	FrontSuspension, RearSuspension    uint8
	FrontAntiRollBar, RearAntiRollBar  uint8
	FrontSuspensionHeight, RearSuspensionHeight uint8
	BrakePressure, BrakeBias           uint8
	RearLeftTyrePressure, RearRightTyrePressure float32
	FrontLeftTyrePressure, FrontRightTyrePressure float32
	Ballast                            uint8
	FuelLoad                           float32
}

// CarSetupsPacket is packet id 5.
type CarSetupsPacket struct {
	Header Header
	Setups [numCars]CarSetupData
}

func decodeCarSetups(h Header, body []byte) (CarSetupsPacket, error) {
	rd := newReader(body)
	var p CarSetupsPacket
	p.Header = h
	for i := range p.Setups {
		s := &p.Setups[i]
		s.FrontWing = rd.u8()
		s.RearWing = rd.u8()
		s.OnThrottle = rd.u8()
		s.OffThrottle = rd.u8()
		s.FrontCamber = rd.f32()
		s.RearCamber = rd.f32()
		s.FrontToe = rd.f32()
		s.RearToe = rd.f32()
		s.FrontSuspension = rd.u8()
		s.RearSuspension = rd.u8()
		s.FrontAntiRollBar = rd.u8()
		s.RearAntiRollBar = rd.u8()
		s.FrontSuspensionHeight = rd.u8()
		s.RearSuspensionHeight = rd.u8()
		s.BrakePressure = rd.u8()
		s.BrakeBias = rd.u8()
		s.RearLeftTyrePressure = rd.f32()
		s.RearRightTyrePressure = rd.f32()
		s.FrontLeftTyrePressure = rd.f32()
		s.FrontRightTyrePressure = rd.f32()
		s.Ballast = rd.u8()
		s.FuelLoad = rd.f32()
	}
	if !rd.ok {
		return CarSetupsPacket{}, newDecodeError(ErrShortRead, IDCarSetups, "car-setups payload truncated")
	}
	return p, nil
}
