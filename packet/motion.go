package packet

// CarMotionData is one car's physics sample within a Motion packet.
type CarMotionData struct {
	WorldPositionX, WorldPositionY, WorldPositionZ    float32
	WorldVelocityX, WorldVelocityY, WorldVelocityZ    float32
	WorldForwardDirX, WorldForwardDirY, WorldForwardDirZ int16
	WorldRightDirX, WorldRightDirY, WorldRightDirZ       int16
	GForceLateral, GForceLongitudinal, GForceVertical    float32
	Yaw, Pitch, Roll                                     float32
}

const numCars = 22

// MotionPacket is packet id 0: per-car physics.
type MotionPacket struct {
	Header Header
	Cars   [numCars]CarMotionData
}

func decodeMotion(h Header, body []byte) (MotionPacket, error) {
	rd := newReader(body)
	var p MotionPacket
	p.Header = h
	for i := range p.Cars {
		c := &p.Cars[i]
		c.WorldPositionX = rd.f32()
		c.WorldPositionY = rd.f32()
		c.WorldPositionZ = rd.f32()
		c.WorldVelocityX = rd.f32()
		c.WorldVelocityY = rd.f32()
		c.WorldVelocityZ = rd.f32()
		c.WorldForwardDirX = rd.i16()
		c.WorldForwardDirY = rd.i16()
		c.WorldForwardDirZ = rd.i16()
		c.WorldRightDirX = rd.i16()
		c.WorldRightDirY = rd.i16()
		c.WorldRightDirZ = rd.i16()
		c.GForceLateral = rd.f32()
		c.GForceLongitudinal = rd.f32()
		c.GForceVertical = rd.f32()
		c.Yaw = rd.f32()
		c.Pitch = rd.f32()
		c.Roll = rd.f32()
	}
	if !rd.ok {
		return MotionPacket{}, newDecodeError(ErrShortRead, IDMotion, "motion payload truncated")
	}
	return p, nil
}

// MotionExPacket is packet id 13: extended physics for the player's own car
// only (suspension, wheel speed, local velocity, slip, etc).
type MotionExPacket struct {
	Header                Header
	SuspensionPosition     [4]float32
	SuspensionVelocity     [4]float32
	SuspensionAcceleration [4]float32
	WheelSpeed             [4]float32
	WheelSlipRatio         [4]float32
	WheelSlipAngle         [4]float32
	WheelLatForce          [4]float32
	WheelLongForce         [4]float32
	HeightOfCOGAboveGround float32
	LocalVelocityX, LocalVelocityY, LocalVelocityZ float32
	AngularVelocityX, AngularVelocityY, AngularVelocityZ float32
	AngularAccelerationX, AngularAccelerationY, AngularAccelerationZ float32
	FrontWheelsAngle float32
	WheelVertForce   [4]float32
}

func decodeMotionEx(h Header, body []byte) (MotionExPacket, error) {
	rd := newReader(body)
	var p MotionExPacket
	p.Header = h
	readQuad := func(dst *[4]float32) {
		for i := range dst {
			dst[i] = rd.f32()
		}
	}
	readQuad(&p.SuspensionPosition)
	readQuad(&p.SuspensionVelocity)
	readQuad(&p.SuspensionAcceleration)
	readQuad(&p.WheelSpeed)
	readQuad(&p.WheelSlipRatio)
	readQuad(&p.WheelSlipAngle)
	readQuad(&p.WheelLatForce)
	readQuad(&p.WheelLongForce)
	p.HeightOfCOGAboveGround = rd.f32()
	p.LocalVelocityX = rd.f32()
	p.LocalVelocityY = rd.f32()
	p.LocalVelocityZ = rd.f32()
	p.AngularVelocityX = rd.f32()
	p.AngularVelocityY = rd.f32()
	p.AngularVelocityZ = rd.f32()
	p.AngularAccelerationX = rd.f32()
	p.AngularAccelerationY = rd.f32()
	p.AngularAccelerationZ = rd.f32()
	p.FrontWheelsAngle = rd.f32()
	if h.PacketFormat >= Format2024 {
		readQuad(&p.WheelVertForce)
	}
	if !rd.ok {
		return MotionExPacket{}, newDecodeError(ErrShortRead, IDMotionEx, "motion-ex payload truncated")
	}
	return p, nil
}
