package racemodel

import "github.com/psybedev/f1telemetry/packet"

func applyCarStatus(s *staging, p packet.CarStatusPacket) {
	frame := p.Header.FrameIdentifier
	for i := range p.Cars {
		if uint8(i) >= s.NumDrivers {
			break
		}
		d := &s.Drivers[i]
		if d.lastCarStatusFrame != 0 && frame <= d.lastCarStatusFrame {
			continue
		}
		d.lastCarStatusFrame = frame

		c := p.Cars[i]
		d.Status = CarStatusSnapshot{
			LapNumber:          d.CurrentLap.LapNumber,
			ERSStoreEnergy:     c.ERSStoreEnergy,
			ERSDeployedThisLap: c.ERSDeployedThisLap,
			ERSHarvestedMGUH:   c.ERSHarvestedThisLapMGUH,
			ERSHarvestedMGUK:   c.ERSHarvestedThisLapMGUK,
			ERSMode:            c.ERSDeployMode,
			FuelInTank:         c.FuelInTank,
			FuelCapacity:       c.FuelCapacity,
			FuelRemainingLaps:  c.FuelRemainingLaps,
			FuelMix:            c.FuelMix,
			DRSAllowed:         c.DRSAllowed == 1,
		}
	}
}
