package racemodel

import "github.com/psybedev/f1telemetry/packet"

func applyCarDamage(s *staging, p packet.CarDamagePacket) {
	frame := p.Header.FrameIdentifier
	for i := range p.Cars {
		if uint8(i) >= s.NumDrivers {
			break
		}
		d := &s.Drivers[i]
		if d.lastCarDamageFrame != 0 && frame <= d.lastCarDamageFrame {
			continue
		}
		d.lastCarDamageFrame = frame

		c := p.Cars[i]
		d.Damage = DamageSnapshot{
			TyresWear:            c.TyresWear,
			TyresDamage:          c.TyresDamage,
			FrontLeftWingDamage:  c.FrontLeftWingDamage,
			FrontRightWingDamage: c.FrontRightWingDamage,
			RearWingDamage:       c.RearWingDamage,
			FloorDamage:          c.FloorDamage,
			DiffuserDamage:       c.DiffuserDamage,
			SidepodDamage:        c.SidepodDamage,
			EngineDamage:         c.EngineDamage,
			GearBoxDamage:        c.GearBoxDamage,
		}
	}
}
